package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/mytheresa/product-catalog/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CategoriesRepository struct {
	collection *mongo.Collection
}

func NewCategoriesRepository(db *mongo.Database) *CategoriesRepository {
	return &CategoriesRepository{
		collection: db.Collection(categoryCollection),
	}
}

func (r *CategoriesRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	categories := make([]models.Category, len(docs))
	for i, d := range docs {
		categories[i] = d.category()
	}
	return categories, nil
}

func (r *CategoriesRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrCategoryNotFound
	}

	var doc categoryDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category %s: %w", id, err)
	}
	category := doc.category()
	return &category, nil
}

func (r *CategoriesRepository) Save(ctx context.Context, c *models.Category) (*models.Category, error) {
	doc := categoryDocument{Name: c.Name}
	if c.ID != "" {
		oid, err := primitive.ObjectIDFromHex(c.ID)
		if err != nil {
			return nil, fmt.Errorf("category id %q: %w", c.ID, err)
		}
		doc.ID = oid
	}

	if doc.ID.IsZero() {
		res, err := r.collection.InsertOne(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("insert category: %w", err)
		}
		doc.ID = res.InsertedID.(primitive.ObjectID)
	} else {
		opts := options.Replace().SetUpsert(true)
		if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
			return nil, fmt.Errorf("replace category %s: %w", c.ID, err)
		}
	}

	saved := doc.category()
	return &saved, nil
}
