package handler

import (
	"net/http"
	"testing"

	"storefront/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func seedCatalog(t *testing.T, s *testServer) []model.Product {
	t.Helper()
	return []model.Product{
		s.createProduct(t, model.Product{Name: "Wireless Headphones", Description: "noise-cancelling", Price: 129.99, Category: "Electronics", Stock: 50}),
		s.createProduct(t, model.Product{Name: "Bestselling Novel", Description: "hardcover edition", Price: 19.99, Category: "Books", Stock: 60}),
		s.createProduct(t, model.Product{Name: "Chef Knife", Description: "German stainless steel", Price: 79.99, Category: "Home", Stock: 25}),
	}
}

func TestListProducts(t *testing.T) {
	s := newTestServer(t)
	seedCatalog(t, s)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"Wireless Headphones", "Bestselling Novel", "Chef Knife"}},
		{"category All", "?category=All", []string{"Wireless Headphones", "Bestselling Novel", "Chef Knife"}},
		{"category", "?category=Books", []string{"Bestselling Novel"}},
		{"max price", "?maxPrice=80", []string{"Bestselling Novel", "Chef Knife"}},
		{"search description", "?search=%20STEEL%20", []string{"Chef Knife"}},
		{"no match", "?category=Garden", []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/products"+tc.query, "", nil)
			require.Equal(t, http.StatusOK, w.Code)

			var products []model.Product
			decode(t, w, &products)
			names := []string{}
			for _, p := range products {
				names = append(names, p.Name)
			}
			assert.Equal(t, tc.want, names)
		})
	}

	t.Run("empty list is an array", func(t *testing.T) {
		w := s.do(t, http.MethodGet, "/api/products?category=Garden", "", nil)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("invalid max price", func(t *testing.T) {
		for _, value := range []string{"cheap", "NaN", "nan", "Inf", "-Inf", "%2BInf", "1e400"} {
			w := s.do(t, http.MethodGet, "/api/products?maxPrice="+value, "", nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, value)
		}
	})
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t)
	catalog := seedCatalog(t, s)

	w := s.do(t, http.MethodGet, "/api/products/"+catalog[0].ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var p model.Product
	decode(t, w, &p)
	assert.Equal(t, catalog[0].ID, p.ID)

	w = s.do(t, http.MethodGet, "/api/products/not-an-id", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/products/"+model.NewID(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A bad token on an optional-auth route is ignored.
	w = s.do(t, http.MethodGet, "/api/products/"+catalog[0].ID, "garbage", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProductWrites(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signupAndLogin(t, "ada@example.com")

	w := s.do(t, http.MethodPost, "/api/products", "", gin.H{"name": "Lamp", "price": 20})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/products", token, gin.H{"name": "Lamp", "price": 20, "category": "Home", "stock": 5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created model.Product
	decode(t, w, &created)
	assert.True(t, model.IsValidID(created.ID))

	w = s.do(t, http.MethodPost, "/api/products", token, gin.H{"price": 20})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/products", token, gin.H{"name": "Lamp", "price": -1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPut, "/api/products/"+created.ID, token, gin.H{"price": 25.5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated model.Product
	decode(t, w, &updated)
	assert.Equal(t, 25.5, updated.Price)
	assert.Equal(t, "Lamp", updated.Name)

	w = s.do(t, http.MethodPut, "/api/products/"+model.NewID(), token, gin.H{"price": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/products/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Product deleted"}`, w.Body.String())

	w = s.do(t, http.MethodDelete, "/api/products/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodDelete, "/api/products/bad", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportProducts(t *testing.T) {
	s := newTestServer(t)
	seedCatalog(t, s)
	customer, _ := s.signupAndLogin(t, "ada@example.com")

	w := s.do(t, http.MethodGet, "/api/products/export", customer, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(t, http.MethodGet, "/api/products/export", s.adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	file, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	assert.Len(t, file.Sheets[0].Rows, 4)
}
