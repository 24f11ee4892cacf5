package catalog

import (
	"context"
	"errors"

	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/models"
)

var (
	// ErrNotFound is returned when a referenced category or item does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrForbidden is returned when the acting user is not the item owner.
	ErrForbidden = errors.New("not the item owner")
	// ErrInvalid is returned when a create/edit request fails validation.
	ErrInvalid = errors.New("invalid item")
)

// Repository defines persistence operations for the catalog. Implementations
// must map their store's missing-row condition to ErrNotFound.
type Repository interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	Categories(ctx context.Context) ([]models.Category, error)
	CategoryByID(ctx context.Context, id uint) (*models.Category, error)

	LatestItems(ctx context.Context, n int) ([]models.Item, error)
	ItemsByCategory(ctx context.Context, categoryID uint) ([]models.Item, error)
	ItemByID(ctx context.Context, id uint) (*models.Item, error)
	CreateItem(ctx context.Context, i *models.Item) error
	UpdateItem(ctx context.Context, i *models.Item) error
	DeleteItem(ctx context.Context, i *models.Item) error

	// WithTx runs fn against a repository view scoped to one transaction.
	WithTx(ctx context.Context, fn func(Repository) error) error
}
