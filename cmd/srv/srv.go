package main

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/pulsespace/backend/config"
	"github.com/pulsespace/backend/internal/domain"
	"github.com/pulsespace/backend/internal/domain/notification/proxy"
	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/internal/repository"
	"github.com/pulsespace/backend/pkg/authenticator"
	"github.com/pulsespace/backend/pkg/logger"
	"github.com/pulsespace/backend/pkg/router"
	"github.com/pulsespace/backend/pkg/xcontext"
)

type srv struct {
	app *cli.App

	// ctx is the base context of every request. It carries the configs,
	// logger, database, token engine, and snowflake node.
	ctx context.Context

	userRepo            repository.UserRepository
	workspaceRepo       repository.WorkspaceRepository
	workspaceMemberRepo repository.WorkspaceMemberRepository
	channelRepo         repository.ChannelRepository
	channelMemberRepo   repository.ChannelMemberRepository
	messageRepo         repository.MessageRepository
	presenceRepo        repository.PresenceRepository

	authDomain      domain.AuthDomain
	workspaceDomain domain.WorkspaceDomain
	channelDomain   domain.ChannelDomain
	messageDomain   domain.MessageDomain

	proxyRouter *proxy.Router
	proxyServer *proxy.ProxyServer

	router *router.Router
	server *http.Server
}

func (s *srv) loadConfig() {
	s.ctx = xcontext.WithConfigs(context.Background(), config.Load())
}

func (s *srv) loadLogger() {
	level := logger.INFO
	if xcontext.Configs(s.ctx).Env == "local" {
		level = logger.DEBUG
	}

	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(level))
}

func (s *srv) loadDatabase() {
	cfg := xcontext.Configs(s.ctx)
	db, err := gorm.Open(mysql.Open(cfg.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedis() {
	cfg := xcontext.Configs(s.ctx)
	s.presenceRepo = repository.NewPresenceRepository(
		redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr}))
}

func (s *srv) loadAuth() {
	cfg := xcontext.Configs(s.ctx)
	s.ctx = xcontext.WithTokenEngine(s.ctx, authenticator.NewTokenEngine(
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration))

	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	s.ctx = xcontext.WithSnowFlake(s.ctx, node)
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.workspaceRepo = repository.NewWorkspaceRepository()
	s.workspaceMemberRepo = repository.NewWorkspaceMemberRepository()
	s.channelRepo = repository.NewChannelRepository()
	s.channelMemberRepo = repository.NewChannelMemberRepository()
	s.messageRepo = repository.NewMessageRepository()
}

func (s *srv) loadDomains() {
	s.proxyRouter = proxy.NewRouter()

	s.authDomain = domain.NewAuthDomain(s.userRepo)
	s.workspaceDomain = domain.NewWorkspaceDomain(
		s.workspaceRepo, s.workspaceMemberRepo, s.userRepo, s.presenceRepo)
	s.channelDomain = domain.NewChannelDomain(
		s.channelRepo, s.channelMemberRepo, s.workspaceRepo, s.workspaceMemberRepo, s.userRepo)
	s.messageDomain = domain.NewMessageDomain(
		s.messageRepo, s.channelRepo, s.channelMemberRepo, s.workspaceMemberRepo, s.proxyRouter)

	s.proxyServer = proxy.NewProxyServer(
		s.proxyRouter, s.messageDomain, s.channelRepo, s.channelMemberRepo,
		s.workspaceMemberRepo, s.presenceRepo)
}
