package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/avaraper/calily-backend/internal/pkg/logger"
	"github.com/avaraper/calily-backend/internal/repos"
	"github.com/avaraper/calily-backend/internal/types"
)

type UserService interface {
	GetCurrentUser(ctx context.Context) (*types.User, error)
	GetAvatarPNG(ctx context.Context) ([]byte, error)
	SetAvatarFromImage(ctx context.Context, raw []byte) error
}

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	avatarService AvatarService
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, avatarService AvatarService) UserService {
	return &userService{
		db:            db,
		log:           log.With("service", "UserService"),
		userRepo:      userRepo,
		avatarService: avatarService,
	}
}

func (us *userService) GetCurrentUser(ctx context.Context) (*types.User, error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	return user, nil
}

func (us *userService) GetAvatarPNG(ctx context.Context) ([]byte, error) {
	user, err := us.GetCurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if len(user.AvatarPNG) == 0 {
		if err := us.avatarService.CreateUserAvatar(ctx, nil, user); err != nil {
			return nil, err
		}
		if err := us.userRepo.Update(ctx, nil, user); err != nil {
			return nil, fmt.Errorf("failed to save avatar: %w", err)
		}
	}
	return user.AvatarPNG, nil
}

func (us *userService) SetAvatarFromImage(ctx context.Context, raw []byte) error {
	user, err := us.GetCurrentUser(ctx)
	if err != nil {
		return err
	}
	return us.avatarService.SetUserAvatarFromImage(ctx, user, raw)
}
