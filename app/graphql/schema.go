// Package graphql exposes a read-only catalog query surface at /api/graphql.
// Mutations go through the REST endpoints.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/maplecart/app/services"
	"github.com/shashiranjanraj/maplecart/pkg/apperr"
	"github.com/shashiranjanraj/maplecart/pkg/response"
)

var imageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Image",
	Fields: graphql.Fields{
		"url":       &graphql.Field{Type: graphql.String},
		"public_id": &graphql.Field{Type: graphql.String},
	},
})

var reviewType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Review",
	Fields: graphql.Fields{
		"name":    &graphql.Field{Type: graphql.String},
		"rating":  &graphql.Field{Type: graphql.Float},
		"comment": &graphql.Field{Type: graphql.String},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.ID,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(productSource).ID.Hex(), nil
			},
		},
		"name":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Int},
		"category":    &graphql.Field{Type: graphql.String},
		"stock":       &graphql.Field{Type: graphql.Int},
		"ratings":     &graphql.Field{Type: graphql.Float},
		"numOfReviews": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(productSource).NumOfReviews, nil
			},
		},
		"images":  &graphql.Field{Type: graphql.NewList(imageType)},
		"reviews": &graphql.Field{Type: graphql.NewList(reviewType)},
	},
})

type productSource struct {
	ID           primitive.ObjectID
	Name         string
	Description  string
	Price        int64
	Category     string
	Stock        int
	Ratings      float64
	NumOfReviews int
	Images       interface{}
	Reviews      interface{}
}

// NewSchema builds the catalog query schema backed by the product service.
func NewSchema(products *services.ProductService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := primitive.ObjectIDFromHex(p.Args["id"].(string))
					if err != nil {
						return nil, apperr.Validation("invalid product id")
					}
					prod, err := products.Get(p.Context, id)
					if err != nil {
						return nil, err
					}
					return productSource{
						ID: prod.ID, Name: prod.Name, Description: prod.Description,
						Price: prod.Price, Category: prod.Category, Stock: prod.Stock,
						Ratings: prod.Ratings, NumOfReviews: prod.NumOfReviews,
						Images: prod.Images, Reviews: prod.Reviews,
					}, nil
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"keyword":  &graphql.ArgumentConfig{Type: graphql.String},
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"page":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					keyword, _ := p.Args["keyword"].(string)
					category, _ := p.Args["category"].(string)
					page, _ := p.Args["page"].(int)
					limit, _ := p.Args["limit"].(int)
					list, _, err := products.List(p.Context, keyword, category, page, limit)
					if err != nil {
						return nil, err
					}
					out := make([]productSource, 0, len(list))
					for _, prod := range list {
						out = append(out, productSource{
							ID: prod.ID, Name: prod.Name, Description: prod.Description,
							Price: prod.Price, Category: prod.Category, Stock: prod.Stock,
							Ratings: prod.Ratings, NumOfReviews: prod.NumOfReviews,
							Images: prod.Images, Reviews: prod.Reviews,
						})
					}
					return out, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query})
}

// Handler serves POSTed GraphQL queries against the schema.
func Handler(schema graphql.Schema) http.HandlerFunc {
	type request struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "invalid request body")
			return
		}
		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			Context:        r.Context(),
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}
