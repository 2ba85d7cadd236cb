package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pulsespace/backend/config"
	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/pkg/authenticator"
	"github.com/pulsespace/backend/pkg/logger"
	"github.com/pulsespace/backend/pkg/xcontext"
)

// MockContext returns a context carrying everything a domain needs: an
// in-memory migrated database, test configs, a logger, a token engine, and a
// snowflake node.
func MockContext() context.Context {
	// A named shared in-memory database keeps every pooled connection on the
	// same store; a plain :memory: DSN gives each connection its own.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	// sqlite does not like concurrent writers; one connection is enough for
	// tests.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	cfg := config.Configs{
		Env: "testing",
		Auth: config.AuthConfigs{
			TokenSecret: "secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Hour,
			},
		},
		Chat: config.ChatConfigs{
			MessagePageLimit: 50,
			PresenceTTL:      time.Minute,
		},
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(
		cfg.Auth.TokenSecret, cfg.Auth.AccessToken.Expiration))
	ctx = xcontext.WithSnowFlake(ctx, node)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(ctx context.Context, userID string) context.Context {
	return xcontext.WithRequestUserID(ctx, userID)
}
