package mongodb

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/mytheresa/product-catalog/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductsRepository struct {
	collection *mongo.Collection
}

func NewProductsRepository(db *mongo.Database) *ProductsRepository {
	return &ProductsRepository{
		collection: db.Collection(productCollection),
	}
}

// FindAll streams the collection through a cursor, decoding one document
// per step.
func (r *ProductsRepository) FindAll(ctx context.Context) iter.Seq2[models.Product, error] {
	return func(yield func(models.Product, error) bool) {
		cursor, err := r.collection.Find(ctx, bson.M{})
		if err != nil {
			yield(models.Product{}, fmt.Errorf("find products: %w", err))
			return
		}
		defer cursor.Close(ctx)

		for cursor.Next(ctx) {
			var doc productDocument
			if err := cursor.Decode(&doc); err != nil {
				yield(models.Product{}, fmt.Errorf("decode product: %w", err))
				return
			}
			product, err := doc.product()
			if !yield(product, err) || err != nil {
				return
			}
		}
		if err := cursor.Err(); err != nil {
			yield(models.Product{}, fmt.Errorf("iterate products: %w", err))
		}
	}
}

// FindByID returns models.ErrProductNotFound for ids that are not valid
// object ids as well as for missing documents.
func (r *ProductsRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrProductNotFound
	}

	var doc productDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	product, err := doc.product()
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Save inserts p when it has no id and replaces (or upserts) it otherwise.
func (r *ProductsRepository) Save(ctx context.Context, p *models.Product) (*models.Product, error) {
	doc, err := newProductDocument(p)
	if err != nil {
		return nil, err
	}

	if doc.ID.IsZero() {
		res, err := r.collection.InsertOne(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("insert product: %w", err)
		}
		doc.ID = res.InsertedID.(primitive.ObjectID)
	} else {
		opts := options.Replace().SetUpsert(true)
		if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
			return nil, fmt.Errorf("replace product %s: %w", p.ID, err)
		}
	}

	saved, err := doc.product()
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ProductsRepository) Delete(ctx context.Context, p *models.Product) error {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return models.ErrProductNotFound
	}
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete product %s: %w", p.ID, err)
	}
	return nil
}
