package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/maplecart/app/models"
	"github.com/shashiranjanraj/maplecart/pkg/cache"
)

type productStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	All(ctx context.Context, keyword, category string, page, limit int) ([]models.Product, int64, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProductInput is the admin payload for creating or updating a product.
// Price and stock are validated at the edge; price is integer cents.
type ProductInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"required"`
	Price       int64  `json:"price" validate:"required,gte=1"`
	Category    string `json:"category" validate:"required"`
	Stock       int    `json:"stock" validate:"required,gte=0,lte=9999"`
}

// ProductService owns the catalog. Reads of a single product go through the
// cache; every write invalidates it.
type ProductService struct {
	products productStore
}

func NewProductService(products productStore) *ProductService {
	return &ProductService{products: products}
}

const productCacheTTL = 5 * time.Minute

// Get returns one product, serving from cache when possible.
func (s *ProductService) Get(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	key := "product:" + id.Hex()
	var p models.Product
	if cache.Get(key, &p) {
		return p, nil
	}
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	_ = cache.Set(key, p, productCacheTTL)
	return p, nil
}

// List returns catalog pages matching the keyword and category filters.
func (s *ProductService) List(ctx context.Context, keyword, category string, page, limit int) ([]models.Product, int64, error) {
	return s.products.All(ctx, keyword, category, page, limit)
}

// Create adds a product to the catalog.
func (s *ProductService) Create(ctx context.Context, createdBy primitive.ObjectID, in ProductInput, images []models.Image) (models.Product, error) {
	p := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		Stock:       in.Stock,
		Images:      images,
		CreatedBy:   createdBy,
	}
	if err := s.products.Create(ctx, &p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

// Update rewrites a product's catalog fields. Existing order snapshots are
// unaffected.
func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, in ProductInput, images []models.Image) (models.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Category = in.Category
	p.Stock = in.Stock
	if images != nil {
		p.Images = images
	}
	if err := s.products.Update(ctx, &p); err != nil {
		return models.Product{}, err
	}
	_ = cache.Del("product:" + id.Hex())
	return p, nil
}

// Delete removes a product from the catalog.
func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	_ = cache.Del("product:" + id.Hex())
	return nil
}
