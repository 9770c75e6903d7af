// Package controllers is the HTTP edge: it decodes and validates request
// bodies, calls the services and writes the response envelope.
package controllers

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/maplecart/app/models"
	"github.com/shashiranjanraj/maplecart/app/services"
	"github.com/shashiranjanraj/maplecart/pkg/bind"
	"github.com/shashiranjanraj/maplecart/pkg/crypt"
	"github.com/shashiranjanraj/maplecart/pkg/response"
	"github.com/shashiranjanraj/maplecart/pkg/storage"
)

func objectIDParam(r *http.Request, name string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, name))
}

func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return page, limit
}

type ProductController struct {
	products *services.ProductService
	reviews  *services.ReviewService
	accounts *services.AccountService
}

func NewProductController(products *services.ProductService, reviews *services.ReviewService, accounts *services.AccountService) *ProductController {
	return &ProductController{products: products, reviews: reviews, accounts: accounts}
}

func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	keyword := r.URL.Query().Get("keyword")
	category := r.URL.Query().Get("category")

	products, total, err := c.products.List(r.Context(), keyword, category, page, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := c.products.Get(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}

type productPayload struct {
	services.ProductInput
	Images []models.Image `json:"images"`
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	adminID, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	var in productPayload
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Create(r.Context(), adminID, in.ProductInput, in.Images)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, product)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var in productPayload
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Update(r.Context(), id, in.ProductInput, in.Images)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := c.products.Delete(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.OK(w)
}

// UploadImage stores a product image on the configured disk and returns its
// public URL plus the key for later deletion.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	token, err := crypt.RandomToken(8)
	if err != nil {
		response.FromError(w, err)
		return
	}
	key := "products/" + token + filepath.Ext(header.Filename)
	if err := storage.PutStream(key, file); err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, models.Image{
		PublicID: key,
		URL:      storage.URL(key),
	})
}

func (c *ProductController) AddReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	var in services.ReviewInput
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
	product, err := c.reviews.Add(r.Context(), userID, user.Name, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}

func (c *ProductController) RemoveReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(r)
	if !ok {
		response.Unauthorized(w)
		return
	}
	id, err := objectIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := c.reviews.Remove(r.Context(), id, userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}
