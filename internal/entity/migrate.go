package entity

import (
	"context"

	"github.com/pulsespace/backend/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Workspace{},
		&WorkspaceMember{},
		&Channel{},
		&ChannelMember{},
		&Message{},
	)
}
