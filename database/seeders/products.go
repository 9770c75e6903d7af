package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/maplecart/app/models"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts inserts a starter catalog. It is a no-op when products exist.
func SeedProducts(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("products")
	count, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	catalog := []interface{}{
		models.Product{
			Name:        "Maple Syrup 500ml",
			Description: "Grade A amber maple syrup from Quebec sugar shacks.",
			Price:       1250,
			Category:    "Pantry",
			Stock:       120,
			Images:      []models.Image{{URL: "/storage/products/maple-syrup.jpg", PublicID: "seed/maple-syrup"}},
			CreatedAt:   now,
		},
		models.Product{
			Name:        "Wool Toque",
			Description: "Hand-knit wool toque, one size fits most.",
			Price:       2800,
			Category:    "Apparel",
			Stock:       45,
			Images:      []models.Image{{URL: "/storage/products/toque.jpg", PublicID: "seed/toque"}},
			CreatedAt:   now,
		},
		models.Product{
			Name:        "Cedar Canoe Paddle",
			Description: "54\" bent-shaft paddle in western red cedar.",
			Price:       18900,
			Category:    "Outdoors",
			Stock:       12,
			Images:      []models.Image{{URL: "/storage/products/paddle.jpg", PublicID: "seed/paddle"}},
			CreatedAt:   now,
		},
	}
	_, err = col.InsertMany(ctx, catalog)
	return err
}
