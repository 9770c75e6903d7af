package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/maplecart/app/models"
	"github.com/shashiranjanraj/maplecart/config"
	"github.com/shashiranjanraj/maplecart/pkg/auth"
)

func init() {
	Register("users", SeedUsers)
}

// SeedUsers creates the initial admin account when no admin exists. The
// password comes from ADMIN_PASSWORD so no default credential ships.
func SeedUsers(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("users")
	count, err := col.CountDocuments(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := config.Get("ADMIN_PASSWORD", "")
	if password == "" {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = col.InsertOne(ctx, models.User{
		Name:      "Store Admin",
		Email:     config.Get("ADMIN_EMAIL", "admin@maplecart.app"),
		Password:  hash,
		Role:      models.RoleAdmin,
		CreatedAt: time.Now(),
	})
	return err
}
