package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"roundness-meter/internal/domain/entity"
	"roundness-meter/internal/infrastructure/storage"
)

func TestUserService_BeginCheckAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginCheck(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)
}

func TestUserService_SetMethod(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetMethod(ctx, 3, 30, "max_inscribed")
	require.NoError(t, err)
	require.Equal(t, entity.MethodMaxInscribed, user.Method)

	stored, err := svc.Get(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, entity.MethodMaxInscribed, stored.Method)

	_, err = svc.SetMethod(ctx, 3, 30, "ransac")
	require.ErrorIs(t, err, entity.ErrUnknownMethod)
}
