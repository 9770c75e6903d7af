package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image is a stored product image reference.
type Image struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

// Review is embedded in its product document. The product-level aggregates
// (Ratings, NumOfReviews) are maintained alongside the slice and must always
// agree with it.
type Review struct {
	User    primitive.ObjectID `bson:"user" json:"user"`
	Name    string             `bson:"name" json:"name"`
	Rating  float64            `bson:"rating" json:"rating"`
	Comment string             `bson:"comment" json:"comment"`
}

// Product is the catalog document.
type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name" validate:"required,max=100"`
	Description  string             `bson:"description" json:"description" validate:"required"`
	Price        int64              `bson:"price" json:"price" validate:"required,numeric"`
	Ratings      float64            `bson:"ratings" json:"ratings"`
	Images       []Image            `bson:"images" json:"images"`
	Category     string             `bson:"category" json:"category" validate:"required"`
	Stock        int                `bson:"stock" json:"stock" validate:"max=9999"`
	NumOfReviews int                `bson:"numOfReviews" json:"numOfReviews"`
	Reviews      []Review           `bson:"reviews" json:"reviews"`
	CreatedBy    primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}

// RecomputeAggregates rewrites NumOfReviews and Ratings from the Reviews
// slice. Ratings is 0 when there are no reviews.
func (p *Product) RecomputeAggregates() {
	p.NumOfReviews = len(p.Reviews)
	if len(p.Reviews) == 0 {
		p.Ratings = 0
		return
	}
	var sum float64
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Ratings = sum / float64(len(p.Reviews))
}
