package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/catalog"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/models"
	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/users"
)

type memUserRepo struct {
	byEmail map[string]*models.User
	nextID  uint
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, nil
}

func (m *memUserRepo) Create(ctx context.Context, u *models.User) error {
	if _, ok := m.byEmail[u.Email]; ok {
		return nil
	}
	m.nextID++
	u.ID = m.nextID
	m.byEmail[u.Email] = u
	return nil
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := catalog.NewMemoryRepository()
	userSvc := users.NewService(&memUserRepo{byEmail: make(map[string]*models.User)})

	require.NoError(t, Seed(ctx, repo, userSvc))

	cats, err := repo.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, len(seedCategories))

	items, err := repo.LatestItems(ctx, 100)
	require.NoError(t, err)
	require.Len(t, items, len(seedItems))
	for _, i := range items {
		require.NotZero(t, i.CategoryID)
		require.NotZero(t, i.UserID)
	}

	// second run must not duplicate anything
	require.NoError(t, Seed(ctx, repo, userSvc))
	cats, err = repo.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, len(seedCategories))
}
