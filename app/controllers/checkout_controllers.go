package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/maplecart/app/services"
	"github.com/shashiranjanraj/maplecart/pkg/bind"
	"github.com/shashiranjanraj/maplecart/pkg/response"
)

type CheckoutController struct {
	checkout *services.CheckoutService
	accounts *services.AccountService
}

func NewCheckoutController(checkout *services.CheckoutService, accounts *services.AccountService) *CheckoutController {
	return &CheckoutController{checkout: checkout, accounts: accounts}
}

// CreateSession opens a hosted payment session for the submitted cart and
// returns its URL. The order itself is only recorded after payment.
func (c *CheckoutController) CreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	var in struct {
		Items []services.CheckoutItem `json:"items" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.accounts.Get(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	sess, err := c.checkout.BuildSession(r.Context(), user.Email, in.Items)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{
		"sessionId":   sess.ID,
		"status":      sess.Status,
		"redirectUrl": sess.URL,
	})
}
