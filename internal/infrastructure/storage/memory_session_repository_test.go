package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"nekognition/internal/domain/entity"
)

func TestMemorySessionRepository_SaveGetDelete(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	_, err := repo.Get(ctx, 1)
	require.ErrorIs(t, err, entity.ErrSessionNotFound)

	cats := &entity.CatLabel{Name: "Cat", Instances: []entity.CatInstance{{}}}
	require.NoError(t, repo.Save(ctx, entity.NewSession(1, "a.jpg", []byte("img"), nil, cats)))

	s, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "a.jpg", s.Filename)
	require.Equal(t, entity.HighlightState{"Cat-1": false}, s.Highlights)

	require.NoError(t, repo.Delete(ctx, 1))
	_, err = repo.Get(ctx, 1)
	require.ErrorIs(t, err, entity.ErrSessionNotFound)
	require.NoError(t, repo.Delete(ctx, 1))
}

func TestMemorySessionRepository_GetReturnsCopy(t *testing.T) {
	repo := NewMemorySessionRepository()
	ctx := context.Background()

	cats := &entity.CatLabel{Name: "Cat", Instances: []entity.CatInstance{{}}}
	require.NoError(t, repo.Save(ctx, entity.NewSession(1, "a.jpg", []byte("img"), nil, cats)))

	s, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	_, err = s.Toggle("Cat-1")
	require.NoError(t, err)

	stored, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	require.False(t, stored.Highlights["Cat-1"])
}
