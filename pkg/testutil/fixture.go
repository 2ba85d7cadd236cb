package testutil

import (
	"context"

	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/internal/repository"
)

// Fixture entities available after CreateFixture. User1 owns the workspace
// and both channels; user2 is a workspace member and a member of the public
// channel; user3 is a workspace member of nothing else.
var (
	User1 = entity.User{
		Base:  entity.Base{ID: "user1"},
		Email: "user1@example.com",
		Name:  "User One",
	}

	User2 = entity.User{
		Base:  entity.Base{ID: "user2"},
		Email: "user2@example.com",
		Name:  "User Two",
	}

	User3 = entity.User{
		Base:  entity.Base{ID: "user3"},
		Email: "user3@example.com",
		Name:  "User Three",
	}

	Workspace1 = entity.Workspace{
		Base:      entity.Base{ID: "workspace1"},
		Name:      "Workspace One",
		CreatedBy: User1.ID,
	}

	PublicChannel = entity.Channel{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 1000},
		WorkspaceID:   Workspace1.ID,
		Name:          "general",
		Visibility:    entity.ChannelVisibilityPublic,
		CreatedBy:     User1.ID,
	}

	PrivateChannel = entity.Channel{
		SnowFlakeBase: entity.SnowFlakeBase{ID: 2000},
		WorkspaceID:   Workspace1.ID,
		Name:          "secret",
		Visibility:    entity.ChannelVisibilityPrivate,
		CreatedBy:     User1.ID,
	}
)

// CreateFixture populates the database of ctx with the fixture entities.
func CreateFixture(ctx context.Context) {
	insertUsers(ctx)
	insertWorkspaces(ctx)
	insertChannels(ctx)
}

func insertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()
	for _, user := range []entity.User{User1, User2, User3} {
		if err := userRepo.Create(ctx, &user); err != nil {
			panic(err)
		}
	}
}

func insertWorkspaces(ctx context.Context) {
	workspaceRepo := repository.NewWorkspaceRepository()
	if err := workspaceRepo.Create(ctx, &Workspace1); err != nil {
		panic(err)
	}

	memberRepo := repository.NewWorkspaceMemberRepository()
	members := []entity.WorkspaceMember{
		{WorkspaceID: Workspace1.ID, UserID: User1.ID, Role: entity.WorkspaceRoleOwner},
		{WorkspaceID: Workspace1.ID, UserID: User2.ID, Role: entity.WorkspaceRoleMember},
		{WorkspaceID: Workspace1.ID, UserID: User3.ID, Role: entity.WorkspaceRoleMember},
	}

	for _, member := range members {
		if err := memberRepo.Create(ctx, &member); err != nil {
			panic(err)
		}
	}
}

func insertChannels(ctx context.Context) {
	channelRepo := repository.NewChannelRepository()
	for _, channel := range []entity.Channel{PublicChannel, PrivateChannel} {
		if err := channelRepo.Create(ctx, &channel); err != nil {
			panic(err)
		}
	}

	memberRepo := repository.NewChannelMemberRepository()
	members := []entity.ChannelMember{
		{ChannelID: PublicChannel.ID, UserID: User1.ID, Role: entity.ChannelRoleOwner},
		{ChannelID: PublicChannel.ID, UserID: User2.ID, Role: entity.ChannelRoleMember},
		{ChannelID: PrivateChannel.ID, UserID: User1.ID, Role: entity.ChannelRoleOwner},
	}

	for _, member := range members {
		if err := memberRepo.Create(ctx, &member); err != nil {
			panic(err)
		}
	}
}
