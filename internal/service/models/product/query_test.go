package product

import (
	"testing"

	"github.com/corray333/backend-labs/storefront/internal/service/models/category"
	"github.com/stretchr/testify/assert"
)

func sampleCatalog() []Product {
	return []Product{
		{ID: "1", NameEn: "Chicken Shawarma", NameAr: "شاورما دجاج", Category: category.CategoryShawarma, Price: 12.5},
		{ID: "2", NameEn: "Beef Burger", NameAr: "برغر لحم", Category: category.CategoryBurger, Price: 18},
		{ID: "3", NameEn: "Cola", NameAr: "كولا", Category: category.CategoryDrinks, Price: 3.5},
		{ID: "4", NameEn: "Meat Shawarma", NameAr: "شاورما لحم", Category: category.CategoryShawarma, Price: 14},
	}
}

func ids(products []Product) []string {
	res := make([]string, 0, len(products))
	for _, p := range products {
		res = append(res, p.ID)
	}

	return res
}

func TestFilterEmptySearchKeepsOrder(t *testing.T) {
	got := Filter(sampleCatalog(), QueryProductsModel{Category: category.All})
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(got))
}

func TestFilterSearchIsCaseInsensitive(t *testing.T) {
	cases := []struct {
		search string
		want   []string
	}{
		{"shawarma", []string{"1", "4"}},
		{"  SHAWARMA ", []string{"1", "4"}},
		{"لحم", []string{"2", "4"}},
		{"cola", []string{"3"}},
		{"pizza", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.search, func(t *testing.T) {
			got := Filter(sampleCatalog(), QueryProductsModel{Search: tc.search, Category: category.All})
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestFilterByCategory(t *testing.T) {
	got := Filter(sampleCatalog(), QueryProductsModel{Category: "shawarma"})
	assert.Equal(t, []string{"1", "4"}, ids(got))

	for _, p := range Filter(sampleCatalog(), QueryProductsModel{Category: "drinks"}) {
		assert.Equal(t, category.CategoryDrinks, p.Category)
	}
}

func TestFilterCategoryWithoutMatches(t *testing.T) {
	catalog := []Product{
		{ID: "1", NameEn: "Chicken Shawarma", NameAr: "شاورما دجاج", Category: category.CategoryShawarma, Price: 12.5},
	}
	assert.Empty(t, Filter(catalog, QueryProductsModel{Category: "burger"}))
}

func TestFilterCombinesSearchAndCategory(t *testing.T) {
	got := Filter(sampleCatalog(), QueryProductsModel{Search: "meat", Category: "shawarma"})
	assert.Equal(t, []string{"4"}, ids(got))
}

func TestFilterEmptyCatalog(t *testing.T) {
	assert.Empty(t, Filter(nil, QueryProductsModel{Search: "x", Category: "burger"}))
	assert.Empty(t, Filter([]Product{}, QueryProductsModel{}))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "﷼12.50", FormatPrice(12.5))
	assert.Equal(t, "﷼3.00", FormatPrice(3))
}
