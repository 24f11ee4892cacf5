package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/models"
)

// Service encapsulates catalog business logic: reads over categories/items
// and owner-gated item mutations.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.Categories(ctx)
}

func (s *Service) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.repo.CategoryByID(ctx, id)
}

// LatestItems returns the n most recently created items, newest first.
// Fewer than n items returns all of them; an empty catalog is not an error.
func (s *Service) LatestItems(ctx context.Context, n int) ([]models.Item, error) {
	return s.repo.LatestItems(ctx, n)
}

// ItemsByCategory fails with ErrNotFound when the category does not exist.
func (s *Service) ItemsByCategory(ctx context.Context, categoryID uint) ([]models.Item, error) {
	if _, err := s.repo.CategoryByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.repo.ItemsByCategory(ctx, categoryID)
}

func (s *Service) GetItem(ctx context.Context, id uint) (*models.Item, error) {
	return s.repo.ItemByID(ctx, id)
}

// EditFields is the partial-update payload for EditItem. Zero values mean
// "leave unchanged", never "clear the value".
type EditFields struct {
	Name        string
	Description string
	CategoryID  uint
}

// CreateItem validates the category and name, stamps created_at and assigns
// ownership to ownerID.
func (s *Service) CreateItem(ctx context.Context, ownerID, categoryID uint, name, description string) (*models.Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	var created *models.Item
	err := s.repo.WithTx(ctx, func(r Repository) error {
		if _, err := r.CategoryByID(ctx, categoryID); err != nil {
			return err
		}
		item := &models.Item{
			Name:        strings.TrimSpace(name),
			Description: description,
			CategoryID:  categoryID,
			UserID:      ownerID,
			CreatedAt:   time.Now().UTC(),
		}
		if err := r.CreateItem(ctx, item); err != nil {
			return err
		}
		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// EditItem applies the non-empty fields to the item and stamps updated_at.
// Only the owning user may edit; anyone else gets ErrForbidden and the item
// stays unchanged.
func (s *Service) EditItem(ctx context.Context, itemID, actorID uint, f EditFields) (*models.Item, error) {
	var updated *models.Item
	err := s.repo.WithTx(ctx, func(r Repository) error {
		item, err := r.ItemByID(ctx, itemID)
		if err != nil {
			return err
		}
		if err := requireOwner(item, actorID); err != nil {
			return err
		}
		if f.CategoryID != 0 && f.CategoryID != item.CategoryID {
			if _, err := r.CategoryByID(ctx, f.CategoryID); err != nil {
				return err
			}
			item.CategoryID = f.CategoryID
		}
		if f.Name != "" {
			item.Name = f.Name
		}
		if f.Description != "" {
			item.Description = f.Description
		}
		item.UpdatedAt = time.Now().UTC()
		if err := r.UpdateItem(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteItem removes the item. Same ownership rule as EditItem; no cascade.
func (s *Service) DeleteItem(ctx context.Context, itemID, actorID uint) error {
	return s.repo.WithTx(ctx, func(r Repository) error {
		item, err := r.ItemByID(ctx, itemID)
		if err != nil {
			return err
		}
		if err := requireOwner(item, actorID); err != nil {
			return err
		}
		return r.DeleteItem(ctx, item)
	})
}

// requireOwner is the single ownership check shared by all mutating paths.
func requireOwner(item *models.Item, actorID uint) error {
	if item.UserID != actorID {
		return ErrForbidden
	}
	return nil
}
