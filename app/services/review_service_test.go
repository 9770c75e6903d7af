package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/maplecart/app/models"
	"github.com/shashiranjanraj/maplecart/pkg/apperr"
)

func TestAddReviewUpdatesAggregates(t *testing.T) {
	p := &models.Product{
		Name:    "Cedar Canoe",
		Price:   250000,
		Reviews: []models.Review{{User: primitive.NewObjectID(), Name: "A", Rating: 4}},
	}
	p.RecomputeAggregates()
	products := newFakeProducts(p)
	svc := NewReviewService(products)

	updated, err := svc.Add(context.Background(), primitive.NewObjectID(), "B", ReviewInput{
		ProductID: p.ID.Hex(),
		Rating:    2,
		Comment:   "leaks a little",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.NumOfReviews)
	assert.InDelta(t, 3.0, updated.Ratings, 1e-9)

	stored, _ := products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 2, stored.NumOfReviews)
	assert.InDelta(t, 3.0, stored.Ratings, 1e-9)
}

func TestAddReviewBoundaryRatings(t *testing.T) {
	p := &models.Product{Name: "Tent", Price: 30000}
	products := newFakeProducts(p)
	svc := NewReviewService(products)

	one, err := svc.Add(context.Background(), primitive.NewObjectID(), "A", ReviewInput{
		ProductID: p.ID.Hex(), Rating: 1, Comment: "bad",
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, one.Ratings, 1e-9)

	five, err := svc.Add(context.Background(), primitive.NewObjectID(), "B", ReviewInput{
		ProductID: p.ID.Hex(), Rating: 5, Comment: "great",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, five.NumOfReviews)
	assert.InDelta(t, 3.0, five.Ratings, 1e-9)
}

func TestRemoveReviewLastOneZeroesRatings(t *testing.T) {
	reviewer := primitive.NewObjectID()
	p := &models.Product{
		Name:    "Lantern",
		Price:   5000,
		Reviews: []models.Review{{User: reviewer, Name: "A", Rating: 5}},
	}
	p.RecomputeAggregates()
	products := newFakeProducts(p)
	svc := NewReviewService(products)

	updated, err := svc.Remove(context.Background(), p.ID, reviewer)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.NumOfReviews)
	assert.Equal(t, 0.0, updated.Ratings)
	assert.Empty(t, updated.Reviews)
}

func TestRemoveReviewNotFound(t *testing.T) {
	p := &models.Product{
		Name:    "Lantern",
		Price:   5000,
		Reviews: []models.Review{{User: primitive.NewObjectID(), Name: "A", Rating: 5}},
	}
	p.RecomputeAggregates()
	products := newFakeProducts(p)
	svc := NewReviewService(products)

	_, err := svc.Remove(context.Background(), p.ID, primitive.NewObjectID())
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestCascadeUserDeletionStripsAllProducts(t *testing.T) {
	leaving := primitive.NewObjectID()
	staying := primitive.NewObjectID()

	a := &models.Product{Name: "Axe", Reviews: []models.Review{
		{User: leaving, Name: "L", Rating: 2},
		{User: staying, Name: "S", Rating: 4},
	}}
	b := &models.Product{Name: "Saw", Reviews: []models.Review{
		{User: leaving, Name: "L", Rating: 5},
	}}
	c := &models.Product{Name: "Rope", Reviews: []models.Review{
		{User: staying, Name: "S", Rating: 3},
	}}
	for _, p := range []*models.Product{a, b, c} {
		p.RecomputeAggregates()
	}
	products := newFakeProducts(a, b, c)
	svc := NewReviewService(products)

	require.NoError(t, svc.CascadeUserDeletion(context.Background(), leaving))

	pa, _ := products.FindByID(context.Background(), a.ID)
	assert.Equal(t, 1, pa.NumOfReviews)
	assert.InDelta(t, 4.0, pa.Ratings, 1e-9)

	pb, _ := products.FindByID(context.Background(), b.ID)
	assert.Equal(t, 0, pb.NumOfReviews)
	assert.Equal(t, 0.0, pb.Ratings)

	// untouched product keeps its reviews
	pc, _ := products.FindByID(context.Background(), c.ID)
	assert.Equal(t, 1, pc.NumOfReviews)
	assert.InDelta(t, 3.0, pc.Ratings, 1e-9)
}

func TestCascadeUserDeletionContinuesOnFailure(t *testing.T) {
	leaving := primitive.NewObjectID()

	a := &models.Product{Name: "Axe", Reviews: []models.Review{{User: leaving, Name: "L", Rating: 2}}}
	b := &models.Product{Name: "Saw", Reviews: []models.Review{{User: leaving, Name: "L", Rating: 5}}}
	for _, p := range []*models.Product{a, b} {
		p.RecomputeAggregates()
	}
	products := newFakeProducts(a, b)
	products.saveErrFor[a.ID] = errBackend
	svc := NewReviewService(products)

	// the batch error reports the failed product but does not abort the loop
	err := svc.CascadeUserDeletion(context.Background(), leaving)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBackend)

	// the failing product keeps its review, the other is cleaned
	pa, _ := products.FindByID(context.Background(), a.ID)
	assert.Equal(t, 1, pa.NumOfReviews)
	pb, _ := products.FindByID(context.Background(), b.ID)
	assert.Equal(t, 0, pb.NumOfReviews)
}
