package app

import (
	"context"

	"roundness-meter/internal/domain/entity"
	"roundness-meter/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SetMethod разбирает название метода и запоминает его для пользователя
func (s *UserService) SetMethod(ctx context.Context, userID, chatID int64, name string) (*entity.User, error) {
	method, err := entity.ParseMethod(name)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateMethod(ctx, user.ID, method); err != nil {
		return nil, err
	}
	user.SetMethod(method)

	return user, nil
}

func (s *UserService) BeginCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
}

func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}
