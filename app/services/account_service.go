package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/maplecart/app/models"
	"github.com/shashiranjanraj/maplecart/config"
	"github.com/shashiranjanraj/maplecart/pkg/apperr"
	"github.com/shashiranjanraj/maplecart/pkg/auth"
	"github.com/shashiranjanraj/maplecart/pkg/crypt"
	"github.com/shashiranjanraj/maplecart/pkg/logger"
	"github.com/shashiranjanraj/maplecart/pkg/mail"
)

type userStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByResetToken(ctx context.Context, digest string) (models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	SetResetToken(ctx context.Context, id primitive.ObjectID, digest string, expire time.Time) error
	ClearResetToken(ctx context.Context, id primitive.ObjectID) error
	All(ctx context.Context, page, limit int) ([]models.User, int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type reviewCascader interface {
	CascadeUserDeletion(ctx context.Context, userID primitive.ObjectID) error
}

// RegisterInput is the signup payload.
type RegisterInput struct {
	Name                 string `json:"name" validate:"required,min=3,max=50"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,confirmed"`
}

// ResetPasswordInput completes a password recovery flow.
type ResetPasswordInput struct {
	Token                string `json:"token" validate:"required"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

// AccountService owns registration, login, profile management, account
// deletion and password recovery.
type AccountService struct {
	users   userStore
	reviews reviewCascader
	mailer  mail.Sender
}

func NewAccountService(users userStore, reviews reviewCascader, mailer mail.Sender) *AccountService {
	return &AccountService{users: users, reviews: reviews, mailer: mailer}
}

// Register creates a customer account and returns it with a signed token.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (models.User, string, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, "", apperr.Internal(err, "internal error")
	}
	user := models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
		Role:     models.RoleCustomer,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return models.User{}, "", err
	}
	token, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return models.User{}, "", apperr.Internal(err, "internal error")
	}
	logger.WithCtx(ctx).Info("user registered", "user_id", user.ID.Hex())
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed token.
func (s *AccountService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			return models.User{}, "", apperr.Authorization("invalid email or password")
		}
		return models.User{}, "", err
	}
	if !auth.CheckPassword(user.Password, password) {
		return models.User{}, "", apperr.Authorization("invalid email or password")
	}
	token, err := auth.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return models.User{}, "", apperr.Internal(err, "internal error")
	}
	return user, token, nil
}

// Get returns a user by id.
func (s *AccountService) Get(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.users.FindByID(ctx, id)
}

// List returns all users, paginated.
func (s *AccountService) List(ctx context.Context, page, limit int) ([]models.User, int64, error) {
	return s.users.All(ctx, page, limit)
}

// Update rewrites the user's profile fields.
func (s *AccountService) Update(ctx context.Context, user *models.User) error {
	return s.users.Update(ctx, user)
}

// UpdatePassword changes the password after checking the current one.
func (s *AccountService) UpdatePassword(ctx context.Context, id primitive.ObjectID, current, next string) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, current) {
		return apperr.Authorization("current password is incorrect")
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return apperr.Internal(err, "internal error")
	}
	return s.users.UpdatePassword(ctx, id, hash)
}

// Delete removes the account and then strips the user's reviews from every
// product they reviewed, recomputing each product's aggregates. The cascade
// is best effort; its failure does not undo the account deletion.
func (s *AccountService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.reviews.CascadeUserDeletion(ctx, id); err != nil {
		logger.WithCtx(ctx).Error("review cascade after account deletion failed",
			"user_id", id.Hex(), "error", err)
	}
	logger.WithCtx(ctx).Info("user deleted", "user_id", id.Hex())
	return nil
}

// IssueResetToken generates a recovery token, stores its digest with an
// expiry and mails the raw token to the account's address.
func (s *AccountService) IssueResetToken(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	raw, digest, err := crypt.ResetToken()
	if err != nil {
		return apperr.Internal(err, "internal error")
	}
	expire := time.Now().Add(config.ResetTokenTTL())
	if err := s.users.SetResetToken(ctx, user.ID, digest, expire); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/password/reset/%s", config.ClientURL(), raw)
	msg := mail.To(user.Email).
		Subject("Password recovery").
		Text("You requested a password reset. Follow this link to choose a new password:\n\n" +
			link + "\n\nIf you did not request this, ignore this email.")
	if err := s.mailer.Send(msg); err != nil {
		// the stored token is useless if the mail never went out
		if clearErr := s.users.ClearResetToken(ctx, user.ID); clearErr != nil {
			logger.WithCtx(ctx).Error("failed to clear reset token after mail error",
				"user_id", user.ID.Hex(), "error", clearErr)
		}
		return apperr.Internal(err, "could not send recovery email")
	}
	return nil
}

// ConsumeResetToken finishes the recovery flow: the raw token is hashed,
// matched against an unexpired stored digest, and the password replaced.
func (s *AccountService) ConsumeResetToken(ctx context.Context, in ResetPasswordInput) error {
	if in.Password != in.PasswordConfirmation {
		return apperr.Validation("passwords do not match")
	}
	user, err := s.users.FindByResetToken(ctx, crypt.Hash(in.Token))
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return apperr.Internal(err, "internal error")
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	return s.users.ClearResetToken(ctx, user.ID)
}
