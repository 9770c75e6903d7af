package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/maplecart/app/models"
	"github.com/shashiranjanraj/maplecart/app/payment"
	"github.com/shashiranjanraj/maplecart/pkg/apperr"
	"github.com/shashiranjanraj/maplecart/pkg/mail"
)

// fakeProducts is an in-memory stand-in for the product repository.
type fakeProducts struct {
	items map[primitive.ObjectID]*models.Product

	decrementErrFor map[primitive.ObjectID]error
	saveErrFor      map[primitive.ObjectID]error
}

func newFakeProducts(products ...*models.Product) *fakeProducts {
	f := &fakeProducts{
		items:           map[primitive.ObjectID]*models.Product{},
		decrementErrFor: map[primitive.ObjectID]error{},
		saveErrFor:      map[primitive.ObjectID]error{},
	}
	for _, p := range products {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		f.items[p.ID] = p
	}
	return f
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return models.Product{}, apperr.NotFound("product not found")
	}
	return *p, nil
}

func (f *fakeProducts) All(_ context.Context, _, _ string, _, _ int) ([]models.Product, int64, error) {
	out := make([]models.Product, 0, len(f.items))
	for _, p := range f.items {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	f.items[p.ID] = p
	return nil
}

func (f *fakeProducts) Update(_ context.Context, p *models.Product) error {
	if _, ok := f.items[p.ID]; !ok {
		return apperr.NotFound("product not found")
	}
	f.items[p.ID] = p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound("product not found")
	}
	delete(f.items, id)
	return nil
}

func (f *fakeProducts) DecrementStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	if err := f.decrementErrFor[id]; err != nil {
		return err
	}
	p, ok := f.items[id]
	if !ok {
		return apperr.NotFound("product not found")
	}
	p.Stock -= quantity
	return nil
}

func (f *fakeProducts) SaveReviews(_ context.Context, p *models.Product) error {
	if err := f.saveErrFor[p.ID]; err != nil {
		return err
	}
	stored, ok := f.items[p.ID]
	if !ok {
		return apperr.NotFound("product not found")
	}
	stored.Reviews = p.Reviews
	stored.NumOfReviews = p.NumOfReviews
	stored.Ratings = p.Ratings
	return nil
}

func (f *fakeProducts) FindReviewedBy(_ context.Context, userID primitive.ObjectID) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.items {
		for _, r := range p.Reviews {
			if r.User == userID {
				out = append(out, *p)
				break
			}
		}
	}
	return out, nil
}

// fakeOrders is an in-memory stand-in for the order repository.
type fakeOrders struct {
	items           map[primitive.ObjectID]*models.Order
	updateStatusErr error
}

func newFakeOrders(orders ...*models.Order) *fakeOrders {
	f := &fakeOrders{items: map[primitive.ObjectID]*models.Order{}}
	for _, o := range orders {
		if o.ID.IsZero() {
			o.ID = primitive.NewObjectID()
		}
		f.items[o.ID] = o
	}
	return f
}

func (f *fakeOrders) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	o, ok := f.items[id]
	if !ok {
		return models.Order{}, apperr.NotFound("order not found")
	}
	return *o, nil
}

func (f *fakeOrders) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.items {
		if o.User == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrders) All(_ context.Context) ([]models.Order, error) {
	out := make([]models.Order, 0, len(f.items))
	for _, o := range f.items {
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrders) Create(_ context.Context, o *models.Order) error {
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	f.items[o.ID] = o
	return nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus, deliveredAt *time.Time) error {
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	o, ok := f.items[id]
	if !ok {
		return apperr.NotFound("order not found")
	}
	o.OrderStatus = status
	if deliveredAt != nil {
		o.DeliveredAt = deliveredAt
	}
	return nil
}

func (f *fakeOrders) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound("order not found")
	}
	delete(f.items, id)
	return nil
}

// fakeUsers is an in-memory stand-in for the user repository.
type fakeUsers struct {
	items map[primitive.ObjectID]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{items: map[primitive.ObjectID]*models.User{}}
	for _, u := range users {
		if u.ID.IsZero() {
			u.ID = primitive.NewObjectID()
		}
		f.items[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, u := range f.items {
		if u.Email == email {
			return *u, nil
		}
	}
	return models.User{}, apperr.NotFound("user not found")
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	u, ok := f.items[id]
	if !ok {
		return models.User{}, apperr.NotFound("user not found")
	}
	return *u, nil
}

func (f *fakeUsers) FindByResetToken(_ context.Context, digest string) (models.User, error) {
	for _, u := range f.items {
		if u.ResetPasswordToken == digest &&
			u.ResetPasswordExpire != nil && u.ResetPasswordExpire.After(time.Now()) {
			return *u, nil
		}
	}
	return models.User{}, apperr.TokenExpired("reset token is invalid or has expired")
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	for _, existing := range f.items {
		if existing.Email == u.Email {
			return apperr.Validation("email already registered")
		}
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now()
	f.items[u.ID] = u
	return nil
}

func (f *fakeUsers) Update(_ context.Context, u *models.User) error {
	stored, ok := f.items[u.ID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	stored.Name = u.Name
	stored.Email = u.Email
	stored.Avatar = u.Avatar
	stored.Role = u.Role
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	u, ok := f.items[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.Password = hash
	return nil
}

func (f *fakeUsers) SetResetToken(_ context.Context, id primitive.ObjectID, digest string, expire time.Time) error {
	u, ok := f.items[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.ResetPasswordToken = digest
	u.ResetPasswordExpire = &expire
	return nil
}

func (f *fakeUsers) ClearResetToken(_ context.Context, id primitive.ObjectID) error {
	u, ok := f.items[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.ResetPasswordToken = ""
	u.ResetPasswordExpire = nil
	return nil
}

func (f *fakeUsers) All(_ context.Context, _, _ int) ([]models.User, int64, error) {
	out := make([]models.User, 0, len(f.items))
	for _, u := range f.items {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.items[id]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(f.items, id)
	return nil
}

// fakeGateway records the session input it received.
type fakeGateway struct {
	lastInput payment.SessionInput
	calls     int
	err       error
}

func (g *fakeGateway) CreateSession(_ context.Context, in payment.SessionInput) (payment.Session, error) {
	g.calls++
	g.lastInput = in
	if g.err != nil {
		return payment.Session{}, g.err
	}
	return payment.Session{ID: "cs_test_123", Status: "unpaid", URL: "https://checkout.example/cs_test_123"}, nil
}

// fakeMailer captures outgoing messages instead of dialing SMTP.
type fakeMailer struct {
	sent []*mail.Message
	err  error
}

func (m *fakeMailer) Send(msg *mail.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

var errBackend = errors.New("backend unavailable")
