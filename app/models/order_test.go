package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusDelivered, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusProcessing, false},
		{StatusDelivered, StatusShipped, false},
		{StatusDelivered, StatusProcessing, false},
		{StatusProcessing, StatusProcessing, false},
		{StatusShipped, StatusShipped, false},
		{StatusDelivered, StatusDelivered, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestOrderStatusTransitionUnknownState(t *testing.T) {
	assert.False(t, OrderStatus("Cancelled").CanTransitionTo(StatusShipped))
	assert.False(t, StatusProcessing.CanTransitionTo(OrderStatus("Cancelled")))
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, StatusProcessing.Valid())
	assert.True(t, StatusShipped.Valid())
	assert.True(t, StatusDelivered.Valid())
	assert.False(t, OrderStatus("Pending").Valid())
}

func TestProductRecomputeAggregates(t *testing.T) {
	p := &Product{Reviews: []Review{{Rating: 4}, {Rating: 2}, {Rating: 3}}}
	p.RecomputeAggregates()
	assert.Equal(t, 3, p.NumOfReviews)
	assert.InDelta(t, 3.0, p.Ratings, 1e-9)

	p.Reviews = nil
	p.RecomputeAggregates()
	assert.Equal(t, 0, p.NumOfReviews)
	assert.Equal(t, 0.0, p.Ratings)
}
