package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/models"
)

// GormRepository implements Repository on a relational database via gorm.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *GormRepository) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepository) CategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormRepository) LatestItems(ctx context.Context, n int) ([]models.Item, error) {
	var out []models.Item
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(n).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepository) ItemsByCategory(ctx context.Context, categoryID uint) ([]models.Item, error) {
	var out []models.Item
	if err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepository) ItemByID(ctx context.Context, id uint) (*models.Item, error) {
	var i models.Item
	if err := r.db.WithContext(ctx).First(&i, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

func (r *GormRepository) CreateItem(ctx context.Context, i *models.Item) error {
	return r.db.WithContext(ctx).Create(i).Error
}

func (r *GormRepository) UpdateItem(ctx context.Context, i *models.Item) error {
	return r.db.WithContext(ctx).Save(i).Error
}

func (r *GormRepository) DeleteItem(ctx context.Context, i *models.Item) error {
	return r.db.WithContext(ctx).Delete(i).Error
}

func (r *GormRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}
