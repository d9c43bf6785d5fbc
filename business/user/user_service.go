package user

import (
	"context"
	"errors"
	"fmt"
	"smartShop/domain"
	"smartShop/pkg/logger"
)

// UserRepository contract interface
type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}

type userService struct {
	userRepo UserRepository
}

func NewUserService(userRepo UserRepository) *userService {
	return &userService{
		userRepo: userRepo,
	}
}

func (s *userService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get all users")
		return nil, fmt.Errorf("context error: %w", err)
	}

	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		logger.Error("failed to find all users", "error", err)
		return nil, err
	}

	return users, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if id == "" {
		logger.Error("invalid user id")
		return domain.User{}, errors.New("invalid user id")
	}

	if err := ctx.Err(); err != nil {
		logger.Error("context error when get user by id")
		return domain.User{}, fmt.Errorf("context error: %w", err)
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find user", "error", err)
		return domain.User{}, err
	}

	return user, nil
}
