package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/maplecart/pkg/validate"
)

type reviewInput struct {
	Rating  int    `json:"rating"  validate:"required,integer,gte=1,lte=5"`
	Comment string `json:"comment" validate:"nullable,max=2000"`
}

type shippingInput struct {
	Address    string `json:"address"     validate:"required"`
	City       string `json:"city"        validate:"required"`
	Province   string `json:"province"    validate:"required,in=NL,PE,NS,NB,QC,ON,MB,SK,BC,AB,YT,NT,NU"`
	Country    string `json:"country"     validate:"required"`
	PostalCode string `json:"postal_code" validate:"required,between=6,7"`
	Phone      string `json:"phone"       validate:"required,min=10"`
}

func TestValidShippingInfo(t *testing.T) {
	errs := validate.Struct(shippingInput{
		Address:    "24 Sussex Drive",
		City:       "Ottawa",
		Province:   "ON",
		Country:    "Canada",
		PostalCode: "K1M1M4",
		Phone:      "6135551234",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(shippingInput{})
	if !validate.HasErrors(errs) {
		t.Error("expected required errors")
	}
	if _, ok := errs["address"]; !ok {
		t.Error("expected address to be required")
	}
	if _, ok := errs["province"]; !ok {
		t.Error("expected province to be required")
	}
}

func TestProvinceInRule(t *testing.T) {
	in := shippingInput{
		Address:    "123 Main St",
		City:       "Springfield",
		Province:   "XX",
		Country:    "Canada",
		PostalCode: "A1A1A1",
		Phone:      "9025551234",
	}
	errs := validate.Struct(in)
	if _, ok := errs["province"]; !ok {
		t.Error("expected unknown province code to fail")
	}

	in.Province = "NS"
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		t.Errorf("expected NS to pass: %v", errs)
	}
}

func TestRatingBounds(t *testing.T) {
	if errs := validate.Struct(reviewInput{Rating: 0}); !validate.HasErrors(errs) {
		t.Error("expected rating 0 to fail")
	}
	if errs := validate.Struct(reviewInput{Rating: 6}); !validate.HasErrors(errs) {
		t.Error("expected rating 6 to fail")
	}
	if errs := validate.Struct(reviewInput{Rating: 4}); validate.HasErrors(errs) {
		t.Errorf("expected rating 4 to pass: %v", errs)
	}
}

func TestEmailRule(t *testing.T) {
	type in struct {
		Email string `json:"email" validate:"required,email"`
	}
	errs := validate.Struct(in{Email: "not-an-email"})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
	errs = validate.Struct(in{Email: "valid@example.com"})
	if validate.HasErrors(errs) {
		t.Errorf("expected valid email to pass, got: %v", errs)
	}
}

func TestConfirmedRule(t *testing.T) {
	type in struct {
		Password             string `json:"password"              validate:"required,min=8"`
		PasswordConfirmation string `json:"password_confirmation" validate:"confirmed"`
	}
	if errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "wrong"}); !validate.HasErrors(errs) {
		t.Error("expected confirmation mismatch to fail")
	}
	if errs := validate.Struct(in{Password: "secret123", PasswordConfirmation: "secret123"}); validate.HasErrors(errs) {
		t.Errorf("expected matching confirmation to pass: %v", errs)
	}
}

func TestNestedStructValidation(t *testing.T) {
	type orderInput struct {
		ShippingInfo shippingInput `json:"shippingInfo"`
		Items        []reviewInput `json:"items" validate:"required"`
	}
	errs := validate.Struct(orderInput{
		ShippingInfo: shippingInput{City: "Halifax"},
		Items:        []reviewInput{{Rating: 9}},
	})
	if _, ok := errs["shippingInfo.address"]; !ok {
		t.Errorf("expected nested shipping address error, got: %v", errs)
	}
	if _, ok := errs["items.0.rating"]; !ok {
		t.Errorf("expected slice element rating error, got: %v", errs)
	}
}

func TestEmbeddedStructValidation(t *testing.T) {
	type base struct {
		Name string `json:"name" validate:"required"`
	}
	type payload struct {
		base
		Extra string `json:"extra" validate:"nullable"`
	}
	errs := validate.Struct(payload{})
	if _, ok := errs["name"]; !ok {
		t.Errorf("expected embedded name error, got: %v", errs)
	}
}

func TestUnexportedFieldsIgnored(t *testing.T) {
	type inner struct {
		City string `json:"city" validate:"required"`
	}
	type payload struct {
		Name   string `json:"name" validate:"required"`
		hidden inner
		state  string
	}
	errs := validate.Struct(payload{hidden: inner{}, state: "x"})
	if len(errs) != 1 {
		t.Errorf("expected only the name error, got: %v", errs)
	}
	if _, ok := errs["name"]; !ok {
		t.Errorf("expected name error, got: %v", errs)
	}
}

func TestNullableSkipsRules(t *testing.T) {
	if errs := validate.Struct(reviewInput{Rating: 3, Comment: ""}); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable comment to pass: %v", errs)
	}
}
