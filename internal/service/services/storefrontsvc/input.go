package storefrontsvc

import (
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/corray333/backend-labs/storefront/internal/service/models/category"
	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUpload       = errors.New("image upload failed")
)

// Upload is an image attached to a create-product request.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// CreateProductInput is the validated payload of the create-product form.
type CreateProductInput struct {
	NameEn   string            `field:"name_en"  validate:"required"`
	NameAr   string            `field:"name_ar"  validate:"required"`
	Price    float64           `field:"price"    validate:"finite,gte=0"`
	Category category.Category `field:"category" validate:"category"`
	Image    *Upload           `field:"image"`
}

// PlaceOrderInput is the validated payload of the order form.
type PlaceOrderInput struct {
	ProductID    string
	Qty          int
	CustomerName string `field:"name"  validate:"required"`
	Phone        string `field:"phone" validate:"required"`
	Note         string
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("field"); name != "" {
			return name
		}

		return f.Name
	})
	must(v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.Float64 && f.Kind() != reflect.Float32 {
			return false
		}

		return !math.IsNaN(f.Float()) && !math.IsInf(f.Float(), 0)
	}))
	must(v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, err := category.ParseCategory(fl.Field().String())

		return err == nil
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// validateInput wraps validation failures in ErrInvalidInput.
func validateInput(in any) error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &ValidationError{Fields: fieldNames(verrs)}
		}

		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return nil
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInvalidInput, e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func fieldNames(verrs validator.ValidationErrors) []string {
	res := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		res = append(res, fe.Field())
	}

	return res
}
