package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"roundness-meter/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesUser(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	u, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, u.State)

	again, err := repo.Get(ctx, 1, 99)
	require.NoError(t, err)
	require.Same(t, u, again)
}

func TestMemoryUserRepository_Updates(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.NoError(t, repo.UpdateState(ctx, 2, entity.StateAwaitingPhoto))
	require.NoError(t, repo.UpdateMethod(ctx, 2, entity.MethodLeastSquares))

	u, err := repo.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, u.State)
	require.Equal(t, entity.MethodLeastSquares, u.Method)

	// неизвестный пользователь молча игнорируется
	require.NoError(t, repo.UpdateMethod(ctx, 404, entity.MethodMaxInscribed))
}
