package category

import (
	"database/sql/driver"
	"errors"

	"github.com/corray333/backend-labs/storefront/internal/service/models/locale"
)

type Category string

const (
	CategoryShawarma Category = "shawarma"
	CategoryBurger   Category = "burger"
	CategoryFries    Category = "fries"
	CategoryDrinks   Category = "drinks"
	CategorySeafood  Category = "seafood"
)

// All is the filter value that matches every category.
const All = "all"

var ErrInvalidCategory = errors.New("invalid category")

// labels holds the English and Arabic display names, in menu order.
var labels = []struct {
	key Category
	en  string
	ar  string
}{
	{CategoryShawarma, "Shawarma", "شاورما"},
	{CategoryBurger, "Burger", "برغر"},
	{CategoryFries, "Fries", "بطاطس"},
	{CategoryDrinks, "Drinks", "مشروبات"},
	{CategorySeafood, "Seafood", "سمك"},
}

// List returns the categories in menu order.
func List() []Category {
	res := make([]Category, len(labels))
	for i, l := range labels {
		res[i] = l.key
	}

	return res
}

func (c Category) String() string {
	return string(c)
}

func (c Category) Value() (driver.Value, error) {
	return c.String(), nil
}

// Label returns the display name in the given language.
// Unknown categories have an empty label.
func (c Category) Label(lang locale.Language) string {
	for _, l := range labels {
		if l.key != c {
			continue
		}
		if lang == locale.Arabic {
			return l.ar
		}

		return l.en
	}

	return ""
}

func ParseCategory(s string) (Category, error) {
	for _, l := range labels {
		if string(l.key) == s {
			return l.key, nil
		}
	}

	return "", ErrInvalidCategory
}
