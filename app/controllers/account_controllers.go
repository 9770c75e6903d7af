package controllers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/maplecart/app/services"
	"github.com/shashiranjanraj/maplecart/pkg/bind"
	"github.com/shashiranjanraj/maplecart/pkg/middleware"
	"github.com/shashiranjanraj/maplecart/pkg/response"
)

type AccountController struct {
	service *services.AccountService
}

func NewAccountController(service *services.AccountService) *AccountController {
	return &AccountController{service: service}
}

// currentUserID pulls the authenticated user's id out of the request context.
func currentUserID(r *http.Request) (primitive.ObjectID, bool) {
	hex, ok := middleware.UserIDFromCtx(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func (c *AccountController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.service.Register(r.Context(), in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, map[string]interface{}{"user": user, "token": token})
}

func (c *AccountController) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.service.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]interface{}{"user": user, "token": token})
}

func (c *AccountController) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	user, err := c.service.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}

func (c *AccountController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	var in struct {
		Name  string `json:"name" validate:"required,min=3,max=50"`
		Email string `json:"email" validate:"required,email"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.service.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	user.Name = in.Name
	user.Email = in.Email
	if err := c.service.Update(r.Context(), &user); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, user)
}

func (c *AccountController) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	var in struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=8"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.UpdatePassword(r.Context(), id, in.OldPassword, in.NewPassword); err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w)
}

func (c *AccountController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w)
}

func (c *AccountController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email" validate:"required,email"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.IssueResetToken(r.Context(), in.Email); err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w)
}

func (c *AccountController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in services.ResetPasswordInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	if err := c.service.ConsumeResetToken(r.Context(), in); err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w)
}

// ListUsers is the admin listing of all accounts.
func (c *AccountController) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	users, total, err := c.service.List(r.Context(), page, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]interface{}{"users": users, "total": total})
}

// DeleteUser is the admin removal of an account, reviews included.
func (c *AccountController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w)
}
