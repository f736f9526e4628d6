package catalog

import (
	"context"
	"iter"

	"github.com/mytheresa/product-catalog/models"
	"go.uber.org/zap"
)

// ProductStore is the persistence the catalog needs for products.
type ProductStore interface {
	FindAll(ctx context.Context) iter.Seq2[models.Product, error]
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Save(ctx context.Context, p *models.Product) (*models.Product, error)
	Delete(ctx context.Context, p *models.Product) error
}

// CategoryStore is the persistence the catalog needs for categories.
type CategoryStore interface {
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	Save(ctx context.Context, c *models.Category) (*models.Category, error)
}

// Service is the catalog's business layer. Apart from the upper-cased
// listings every method hands straight through to a store.
type Service struct {
	products   ProductStore
	categories CategoryStore
	logger     *zap.Logger
}

func NewService(products ProductStore, categories CategoryStore, logger *zap.Logger) *Service {
	return &Service{
		products:   products,
		categories: categories,
		logger:     logger,
	}
}

func (s *Service) ListAll(ctx context.Context) iter.Seq2[models.Product, error] {
	return s.products.FindAll(ctx)
}

// ListAllUppercased lists every product with its name upper-cased. Only the
// returned values change; nothing is written back.
func (s *Service) ListAllUppercased(ctx context.Context) iter.Seq2[models.Product, error] {
	return func(yield func(models.Product, error) bool) {
		for p, err := range s.products.FindAll(ctx) {
			if err != nil {
				yield(models.Product{}, err)
				return
			}
			p = p.Uppercased()
			s.logger.Debug("Listing product", zap.String("name", p.Name))
			if !yield(p, nil) {
				return
			}
		}
	}
}

// ListAllUppercasedRepeated yields the upper-cased listing n+1 times in a
// row, running the store query again for every pass.
func (s *Service) ListAllUppercasedRepeated(ctx context.Context, n int) iter.Seq2[models.Product, error] {
	return func(yield func(models.Product, error) bool) {
		for range n + 1 {
			for p, err := range s.ListAllUppercased(ctx) {
				if !yield(p, err) || err != nil {
					return
				}
			}
		}
	}
}

func (s *Service) FindByID(ctx context.Context, id string) (*models.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *Service) Save(ctx context.Context, p *models.Product) (*models.Product, error) {
	return s.products.Save(ctx, p)
}

func (s *Service) Delete(ctx context.Context, p *models.Product) error {
	return s.products.Delete(ctx, p)
}

func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.FindAll(ctx)
}

func (s *Service) FindCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	return s.categories.FindByID(ctx, id)
}

func (s *Service) SaveCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	return s.categories.Save(ctx, c)
}
