package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v2"

	"github.com/pulsespace/backend/internal/middleware"
	"github.com/pulsespace/backend/pkg/router"
	"github.com/pulsespace/backend/pkg/ws"
	"github.com/pulsespace/backend/pkg/xcontext"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadConfig()
	s.loadLogger()
	s.loadDatabase()
	s.loadRedis()
	s.loadAuth()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx)
	s.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.ApiServer.Host, cfg.ApiServer.Port),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting api server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil {
		return err
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)

	// Public API.
	router.POST(s.router, "/signup", s.authDomain.Signup)
	router.POST(s.router, "/login", s.authDomain.Login)

	// These APIs need an authenticated caller.
	authRouter := s.router.Branch()
	authRouter.Before(middleware.Authenticate())
	{
		router.POST(authRouter, "/createWorkspace", s.workspaceDomain.Create)
		router.GET(authRouter, "/getMyWorkspaces", s.workspaceDomain.GetMyList)
		router.POST(authRouter, "/inviteWorkspaceMember", s.workspaceDomain.InviteMember)
		router.GET(authRouter, "/getWorkspaceMembers", s.workspaceDomain.GetMembers)
		router.GET(authRouter, "/getMyWorkspaceRole", s.workspaceDomain.GetMyRole)

		router.POST(authRouter, "/createChannel", s.channelDomain.Create)
		router.GET(authRouter, "/getWorkspaceChannels", s.channelDomain.GetList)
		router.POST(authRouter, "/inviteChannelMember", s.channelDomain.InviteMember)
		router.GET(authRouter, "/getChannelMembers", s.channelDomain.GetMembers)
		router.GET(authRouter, "/getMyChannelRole", s.channelDomain.GetMyRole)

		router.GET(authRouter, "/getMessages", s.messageDomain.GetList)
		router.POST(authRouter, "/sendMessage", s.messageDomain.Send)
		router.POST(authRouter, "/updateMessage", s.messageDomain.Update)
		router.POST(authRouter, "/deleteMessage", s.messageDomain.Delete)
		router.POST(authRouter, "/markRead", s.messageDomain.MarkRead)

		authRouter.HandleFunc(http.MethodGet, "/ws", s.serveWs)
	}
}

// serveWs upgrades an authenticated request and hands the connection to the
// notification proxy. The authenticate middleware has already verified the
// credential, so no unauthenticated socket ever reaches the upgrade.
func (s *srv) serveWs(ctx context.Context, w http.ResponseWriter, req *http.Request) error {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	conn, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot upgrade connection: %v", err)
		return nil
	}

	client := ws.NewClient(conn)
	defer client.Close()

	// After the upgrade the response writer is hijacked; errors can only be
	// logged here, not written back.
	if err := s.proxyServer.ServeProxy(ctx, client); err != nil {
		xcontext.Logger(ctx).Debugf("Proxy serving ends: %v", err)
	}

	return nil
}
