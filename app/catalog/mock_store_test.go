package catalog

import (
	"context"
	"fmt"
	"iter"

	"github.com/mytheresa/product-catalog/models"
	"github.com/shopspring/decimal"
)

// --- Mock Stores ---

// MockProductStore keeps products in insertion order.
type MockProductStore struct {
	order []string
	items map[string]models.Product

	FindAllErr error
	SaveErr    error

	findAllCalls int
	saveCalls    int
	nextID       int
}

func NewMockProductStore(products ...models.Product) *MockProductStore {
	m := &MockProductStore{items: map[string]models.Product{}}
	for _, p := range products {
		m.put(p)
	}
	return m
}

func (m *MockProductStore) put(p models.Product) {
	if _, ok := m.items[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.items[p.ID] = p
}

func (m *MockProductStore) FindAll(_ context.Context) iter.Seq2[models.Product, error] {
	return func(yield func(models.Product, error) bool) {
		m.findAllCalls++
		if m.FindAllErr != nil {
			yield(models.Product{}, m.FindAllErr)
			return
		}
		for _, id := range m.order {
			if !yield(m.items[id], nil) {
				return
			}
		}
	}
}

func (m *MockProductStore) FindByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	return &p, nil
}

func (m *MockProductStore) Save(_ context.Context, p *models.Product) (*models.Product, error) {
	m.saveCalls++
	if m.SaveErr != nil {
		return nil, m.SaveErr
	}
	saved := *p
	if saved.ID == "" {
		m.nextID++
		saved.ID = fmt.Sprintf("new-%d", m.nextID)
	}
	m.put(saved)
	return &saved, nil
}

func (m *MockProductStore) Delete(_ context.Context, p *models.Product) error {
	if _, ok := m.items[p.ID]; !ok {
		return models.ErrProductNotFound
	}
	delete(m.items, p.ID)
	for i, id := range m.order {
		if id == p.ID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockProductStore) Get(id string) (models.Product, bool) {
	p, ok := m.items[id]
	return p, ok
}

func (m *MockProductStore) Len() int {
	return len(m.order)
}

type MockCategoryStore struct {
	Categories []models.Category
	Err        error
}

func (m *MockCategoryStore) FindAll(_ context.Context) ([]models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Categories, nil
}

func (m *MockCategoryStore) FindByID(_ context.Context, id string) (*models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for _, c := range m.Categories {
		if c.ID == id {
			category := c
			return &category, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (m *MockCategoryStore) Save(_ context.Context, c *models.Category) (*models.Category, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	saved := *c
	if saved.ID == "" {
		saved.ID = fmt.Sprintf("cat-%d", len(m.Categories)+1)
	}
	m.Categories = append(m.Categories, saved)
	return &saved, nil
}

// --- Helpers ---

var (
	electronics = models.Category{ID: "c-1", Name: "Electrónico"}
	sports      = models.Category{ID: "c-2", Name: "Deporte"}
)

func newTestProduct(id, name, price string, category models.Category) models.Product {
	return models.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: category,
	}
}

func collect(seq iter.Seq2[models.Product, error]) ([]models.Product, error) {
	var out []models.Product
	for p, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, nil
}
