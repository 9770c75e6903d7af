package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/maplecart/app/models"
	"github.com/shashiranjanraj/maplecart/pkg/apperr"
	"github.com/shashiranjanraj/maplecart/pkg/auth"
	"github.com/shashiranjanraj/maplecart/pkg/crypt"
)

func TestRegisterAndLogin(t *testing.T) {
	users := newFakeUsers()
	svc := NewAccountService(users, NewReviewService(newFakeProducts()), &fakeMailer{})

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Name:                 "Anne Shirley",
		Email:                "anne@example.com",
		Password:             "green-gables-1908",
		PasswordConfirmation: "green-gables-1908",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, models.RoleCustomer, user.Role)

	_, token, err = svc.Login(context.Background(), "anne@example.com", "green-gables-1908")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(context.Background(), "anne@example.com", "wrong")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUsers(&models.User{Name: "Anne", Email: "anne@example.com"})
	svc := NewAccountService(users, NewReviewService(newFakeProducts()), &fakeMailer{})

	_, _, err := svc.Register(context.Background(), RegisterInput{
		Name: "Imposter", Email: "anne@example.com",
		Password: "password-123", PasswordConfirmation: "password-123",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestDeleteCascadesReviews(t *testing.T) {
	leaving := &models.User{Name: "Gilbert", Email: "gilbert@example.com"}
	users := newFakeUsers(leaving)

	p := &models.Product{Name: "Slate", Reviews: []models.Review{
		{User: leaving.ID, Name: "Gilbert", Rating: 5},
		{User: primitive.NewObjectID(), Name: "Other", Rating: 3},
	}}
	p.RecomputeAggregates()
	products := newFakeProducts(p)

	svc := NewAccountService(users, NewReviewService(products), &fakeMailer{})
	require.NoError(t, svc.Delete(context.Background(), leaving.ID))

	_, err := users.FindByID(context.Background(), leaving.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))

	stored, _ := products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 1, stored.NumOfReviews)
	assert.InDelta(t, 3.0, stored.Ratings, 1e-9)
}

func TestIssueResetTokenStoresDigestMailsRaw(t *testing.T) {
	u := &models.User{Name: "Anne", Email: "anne@example.com"}
	users := newFakeUsers(u)
	mailer := &fakeMailer{}
	svc := NewAccountService(users, NewReviewService(newFakeProducts()), mailer)

	require.NoError(t, svc.IssueResetToken(context.Background(), "anne@example.com"))
	require.Len(t, mailer.sent, 1)

	stored := users.items[u.ID]
	require.NotEmpty(t, stored.ResetPasswordToken)
	require.NotNil(t, stored.ResetPasswordExpire)

	// the mail carries the raw token, the store only its digest
	_, body := mailer.sent[0].Content()
	assert.NotContains(t, body, stored.ResetPasswordToken)

	parts := strings.Split(body, "/password/reset/")
	require.Len(t, parts, 2)
	raw := strings.Fields(parts[1])[0]
	assert.Equal(t, stored.ResetPasswordToken, crypt.Hash(raw))
}

func TestIssueResetTokenMailFailureClearsToken(t *testing.T) {
	u := &models.User{Name: "Anne", Email: "anne@example.com"}
	users := newFakeUsers(u)
	svc := NewAccountService(users, NewReviewService(newFakeProducts()), &fakeMailer{err: errBackend})

	err := svc.IssueResetToken(context.Background(), "anne@example.com")
	require.Error(t, err)
	assert.Empty(t, users.items[u.ID].ResetPasswordToken)
}

func TestConsumeResetToken(t *testing.T) {
	raw, digest, err := crypt.ResetToken()
	require.NoError(t, err)
	expire := time.Now().Add(time.Hour)
	u := &models.User{
		Name: "Anne", Email: "anne@example.com",
		ResetPasswordToken: digest, ResetPasswordExpire: &expire,
	}
	users := newFakeUsers(u)
	svc := NewAccountService(users, NewReviewService(newFakeProducts()), &fakeMailer{})

	require.NoError(t, svc.ConsumeResetToken(context.Background(), ResetPasswordInput{
		Token: raw, Password: "new-password-1", PasswordConfirmation: "new-password-1",
	}))

	stored := users.items[u.ID]
	assert.True(t, auth.CheckPassword(stored.Password, "new-password-1"))
	assert.Empty(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpire)
}

func TestConsumeResetTokenExpired(t *testing.T) {
	raw, digest, err := crypt.ResetToken()
	require.NoError(t, err)
	expire := time.Now().Add(-time.Minute)
	u := &models.User{
		Name: "Anne", Email: "anne@example.com",
		ResetPasswordToken: digest, ResetPasswordExpire: &expire,
	}
	users := newFakeUsers(u)
	svc := NewAccountService(users, NewReviewService(newFakeProducts()), &fakeMailer{})

	err = svc.ConsumeResetToken(context.Background(), ResetPasswordInput{
		Token: raw, Password: "new-password-1", PasswordConfirmation: "new-password-1",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindTokenExpired))
}

func TestConsumeResetTokenConfirmMismatch(t *testing.T) {
	svc := NewAccountService(newFakeUsers(), NewReviewService(newFakeProducts()), &fakeMailer{})

	err := svc.ConsumeResetToken(context.Background(), ResetPasswordInput{
		Token: "whatever", Password: "abc12345", PasswordConfirmation: "different",
	})
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestUpdatePasswordChecksCurrent(t *testing.T) {
	hash, err := auth.HashPassword("original-pass")
	require.NoError(t, err)
	u := &models.User{Name: "Anne", Email: "anne@example.com", Password: hash}
	users := newFakeUsers(u)
	svc := NewAccountService(users, NewReviewService(newFakeProducts()), &fakeMailer{})

	err = svc.UpdatePassword(context.Background(), u.ID, "wrong", "next-pass-123")
	assert.True(t, apperr.IsKind(err, apperr.KindAuthorization))

	require.NoError(t, svc.UpdatePassword(context.Background(), u.ID, "original-pass", "next-pass-123"))
	assert.True(t, auth.CheckPassword(users.items[u.ID].Password, "next-pass-123"))
}
