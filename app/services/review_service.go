package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/maplecart/app/models"
	"github.com/shashiranjanraj/maplecart/pkg/apperr"
	"github.com/shashiranjanraj/maplecart/pkg/cache"
	"github.com/shashiranjanraj/maplecart/pkg/logger"
)

type reviewStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	SaveReviews(ctx context.Context, p *models.Product) error
	FindReviewedBy(ctx context.Context, userID primitive.ObjectID) ([]models.Product, error)
}

// ReviewInput is the payload for posting a review.
type ReviewInput struct {
	ProductID string  `json:"productId" validate:"required"`
	Rating    float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string  `json:"comment" validate:"required,max=500"`
}

// ReviewService maintains the embedded review slices and keeps each
// product's numOfReviews and ratings in lockstep with them.
type ReviewService struct {
	products reviewStore
}

func NewReviewService(products reviewStore) *ReviewService {
	return &ReviewService{products: products}
}

// Add appends a review to the product and refreshes its aggregates. A user
// may review the same product more than once.
func (s *ReviewService) Add(ctx context.Context, userID primitive.ObjectID, userName string, in ReviewInput) (models.Product, error) {
	pid, err := primitive.ObjectIDFromHex(in.ProductID)
	if err != nil {
		return models.Product{}, apperr.Validation("invalid product id")
	}
	p, err := s.products.FindByID(ctx, pid)
	if err != nil {
		return models.Product{}, err
	}

	p.Reviews = append(p.Reviews, models.Review{
		User:    userID,
		Name:    userName,
		Rating:  in.Rating,
		Comment: in.Comment,
	})
	p.RecomputeAggregates()

	if err := s.products.SaveReviews(ctx, &p); err != nil {
		return models.Product{}, err
	}
	s.invalidate(pid)
	return p, nil
}

// Remove deletes every review the user left on the product and refreshes the
// aggregates.
func (s *ReviewService) Remove(ctx context.Context, productID, userID primitive.ObjectID) (models.Product, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return models.Product{}, err
	}

	kept := make([]models.Review, 0, len(p.Reviews))
	for _, r := range p.Reviews {
		if r.User != userID {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(p.Reviews) {
		return models.Product{}, apperr.NotFound("review not found")
	}
	p.Reviews = kept
	p.RecomputeAggregates()

	if err := s.products.SaveReviews(ctx, &p); err != nil {
		return models.Product{}, err
	}
	s.invalidate(productID)
	return p, nil
}

// CascadeUserDeletion strips the user's reviews from every product they
// reviewed. Each product is handled independently; a failing write is logged
// and the rest still run. The returned error joins the per-product failures
// so the caller sees the whole batch outcome.
func (s *ReviewService) CascadeUserDeletion(ctx context.Context, userID primitive.ObjectID) error {
	products, err := s.products.FindReviewedBy(ctx, userID)
	if err != nil {
		return err
	}
	var failures []error
	for i := range products {
		p := products[i]
		kept := make([]models.Review, 0, len(p.Reviews))
		for _, r := range p.Reviews {
			if r.User != userID {
				kept = append(kept, r)
			}
		}
		p.Reviews = kept
		p.RecomputeAggregates()
		if err := s.products.SaveReviews(ctx, &p); err != nil {
			logger.WithCtx(ctx).Error("review cascade failed for product",
				"product_id", p.ID.Hex(), "user_id", userID.Hex(), "error", err)
			failures = append(failures, fmt.Errorf("product %s: %w", p.ID.Hex(), err))
			continue
		}
		s.invalidate(p.ID)
	}
	return errors.Join(failures...)
}

func (s *ReviewService) invalidate(productID primitive.ObjectID) {
	_ = cache.Del("product:" + productID.Hex())
}
