package mongodb

import (
	"fmt"
	"time"

	"github.com/mytheresa/product-catalog/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type categoryDocument struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

// categorySnapshot is the copy of a category embedded in a product.
type categorySnapshot struct {
	ID   string `bson:"id"`
	Name string `bson:"name"`
}

type productDocument struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Name      string               `bson:"name"`
	Price     primitive.Decimal128 `bson:"price"`
	CreatedAt time.Time            `bson:"createdAt"`
	Photo     string               `bson:"photo,omitempty"`
	Category  categorySnapshot     `bson:"category"`
}

func (d categoryDocument) category() models.Category {
	return models.Category{ID: d.ID.Hex(), Name: d.Name}
}

func newProductDocument(p *models.Product) (productDocument, error) {
	price, err := primitive.ParseDecimal128(p.Price.String())
	if err != nil {
		return productDocument{}, fmt.Errorf("price %s: %w", p.Price, err)
	}
	doc := productDocument{
		Name:      p.Name,
		Price:     price,
		CreatedAt: p.CreatedAt,
		Photo:     p.Photo,
		Category:  categorySnapshot{ID: p.Category.ID, Name: p.Category.Name},
	}
	if p.ID != "" {
		id, err := primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return productDocument{}, fmt.Errorf("product id %q: %w", p.ID, err)
		}
		doc.ID = id
	}
	return doc, nil
}

func (d productDocument) product() (models.Product, error) {
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return models.Product{}, fmt.Errorf("product %s price: %w", d.ID.Hex(), err)
	}
	return models.Product{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Price:     price,
		CreatedAt: d.CreatedAt,
		Photo:     d.Photo,
		Category:  models.Category{ID: d.Category.ID, Name: d.Category.Name},
	}, nil
}
