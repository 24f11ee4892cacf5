package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/animeshelf/animeshelf/backend/catalog-service/internal/models"
)

// MemoryRepository is an in-memory Repository used by unit tests and local
// development without a database.
type MemoryRepository struct {
	mu         sync.RWMutex
	categories []models.Category
	items      map[uint]models.Item
	nextCatID  uint
	nextItemID uint
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[uint]models.Item), nextCatID: 1, nextItemID: 1}
}

func (m *MemoryRepository) CreateCategory(ctx context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.nextCatID
		m.nextCatID++
	}
	m.categories = append(m.categories, *c)
	return nil
}

func (m *MemoryRepository) Categories(ctx context.Context) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Category, len(m.categories))
	copy(out, m.categories)
	return out, nil
}

func (m *MemoryRepository) CategoryByID(ctx context.Context, id uint) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.categories {
		if c.ID == id {
			cc := c
			return &cc, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) LatestItems(ctx context.Context, n int) ([]models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Item, 0, len(m.items))
	for _, i := range m.items {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return out[a].ID > out[b].ID
	})
	if len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (m *MemoryRepository) ItemsByCategory(ctx context.Context, categoryID uint) ([]models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Item, 0)
	for _, i := range m.items {
		if i.CategoryID == categoryID {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

func (m *MemoryRepository) ItemByID(ctx context.Context, id uint) (*models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i, ok := m.items[id]; ok {
		ii := i
		return &ii, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepository) CreateItem(ctx context.Context, i *models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i.ID == 0 {
		i.ID = m.nextItemID
		m.nextItemID++
	}
	m.items[i.ID] = *i
	return nil
}

func (m *MemoryRepository) UpdateItem(ctx context.Context, i *models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[i.ID]; !ok {
		return ErrNotFound
	}
	m.items[i.ID] = *i
	return nil
}

func (m *MemoryRepository) DeleteItem(ctx context.Context, i *models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[i.ID]; !ok {
		return ErrNotFound
	}
	delete(m.items, i.ID)
	return nil
}

// WithTx provides no isolation for the in-memory store; fn runs against the
// repository directly.
func (m *MemoryRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	return fn(m)
}
