package models

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// productRow is the relational layout of a Product, with the category
// snapshot flattened into two columns.
type productRow struct {
	ID           string          `gorm:"primaryKey;size:36"`
	Name         string          `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt    time.Time       `gorm:"autoCreateTime:false"`
	Photo        string
	CategoryID   string `gorm:"size:36"`
	CategoryName string
}

func (r *productRow) TableName() string {
	return "producto"
}

func newProductRow(p *Product) productRow {
	return productRow{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		CreatedAt:    p.CreatedAt,
		Photo:        p.Photo,
		CategoryID:   p.Category.ID,
		CategoryName: p.Category.Name,
	}
}

func (r *productRow) product() Product {
	return Product{
		ID:        r.ID,
		Name:      r.Name,
		Price:     r.Price,
		CreatedAt: r.CreatedAt,
		Photo:     r.Photo,
		Category: Category{
			ID:   r.CategoryID,
			Name: r.CategoryName,
		},
	}
}

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

// FindAll streams every product in table order. Rows are scanned one at a
// time so long listings never sit in memory all at once.
func (r *ProductsRepository) FindAll(ctx context.Context) iter.Seq2[Product, error] {
	return func(yield func(Product, error) bool) {
		rows, err := r.db.WithContext(ctx).Model(&productRow{}).Rows()
		if err != nil {
			yield(Product{}, fmt.Errorf("query products: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var row productRow
			if err := r.db.ScanRows(rows, &row); err != nil {
				yield(Product{}, fmt.Errorf("scan product: %w", err))
				return
			}
			if !yield(row.product(), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Product{}, fmt.Errorf("iterate products: %w", err))
		}
	}
}

func (r *ProductsRepository) FindByID(ctx context.Context, id string) (*Product, error) {
	var row productRow
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err // Other DB error
	}
	product := row.product()
	return &product, nil
}

// Save inserts p when it has no id yet and upserts it otherwise.
func (r *ProductsRepository) Save(ctx context.Context, p *Product) (*Product, error) {
	row := newProductRow(p)
	if row.ID == "" {
		row.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	saved := row.product()
	return &saved, nil
}

func (r *ProductsRepository) Delete(ctx context.Context, p *Product) error {
	if err := r.db.WithContext(ctx).Delete(&productRow{}, "id = ?", p.ID).Error; err != nil {
		return fmt.Errorf("delete product %s: %w", p.ID, err)
	}
	return nil
}
