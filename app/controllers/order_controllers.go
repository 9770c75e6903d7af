package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/maplecart/app/models"
	"github.com/shashiranjanraj/maplecart/app/services"
	"github.com/shashiranjanraj/maplecart/pkg/bind"
	"github.com/shashiranjanraj/maplecart/pkg/response"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	var in services.CreateOrderInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.Create(r.Context(), userID, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, order)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}
	order, err := c.service.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, order)
}

// MyOrders lists the authenticated user's own orders.
func (c *OrderController) MyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	orders, err := c.service.ListByUser(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, orders)
}

// ListAll is the admin view: every order plus the summed revenue.
func (c *OrderController) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, total, err := c.service.ListAllWithTotal(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"orders":      orders,
		"totalAmount": total,
	})
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var in struct {
		Status string `json:"status" validate:"required,in=Processing,Shipped,Delivered"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.service.UpdateStatus(r.Context(), id, models.OrderStatus(in.Status))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, order)
}

func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w)
}
