package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulsespace/backend/internal/entity"
	"github.com/pulsespace/backend/internal/model"
	"github.com/pulsespace/backend/internal/repository"
	"github.com/pulsespace/backend/pkg/crypto"
	"github.com/pulsespace/backend/pkg/errorx"
	"github.com/pulsespace/backend/pkg/xcontext"
)

type AuthDomain interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.SignupResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
}

type authDomain struct {
	userRepo repository.UserRepository
}

func NewAuthDomain(userRepo repository.UserRepository) *authDomain {
	return &authDomain{userRepo: userRepo}
}

func (d *authDomain) Signup(
	ctx context.Context, req *model.SignupRequest,
) (*model.SignupResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a non-empty email and password")
	}

	_, err := d.userRepo.GetByEmail(ctx, req.Email)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "The email was registered before")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	hashed, err := crypto.HashPassword(req.Password)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:         entity.Base{ID: uuid.NewString()},
		Email:        req.Email,
		PasswordHash: hashed,
		Name:         req.Name,
	}

	if err := d.userRepo.Create(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SignupResponse{User: model.ConvertUser(user)}, nil
}

// Login verifies credentials and issues an access token.
func (d *authDomain) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := d.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	if !crypto.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid password")
	}

	token, err := xcontext.TokenEngine(ctx).Generate(user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LoginResponse{
		AccessToken: token,
		User:        model.ConvertUser(user),
	}, nil
}
