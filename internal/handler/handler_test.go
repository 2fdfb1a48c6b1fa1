package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "handler-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router  *gin.Engine
	store   *repository.MemoryStore
	jwtUtil *utils.JWTUtil
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := repository.NewMemoryStore()
	jwtUtil := utils.NewJWTUtil(testJWTSecret, 1)

	authService := service.NewAuthService(store.Users(), jwtUtil)
	productService := service.NewProductService(store.Products())
	exportService := service.NewExportService(store.Products())
	cartService := service.NewCartService(store.Carts(), store.Products(), nil)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(false))

	jwtAuthMW := middleware.JWTAuthMiddleware(authService)
	api := router.Group("/api")
	NewAuthHandler(authService).RegisterUserRoutes(api, jwtAuthMW)
	NewProductHandler(productService, exportService).RegisterProductRoutes(api, jwtAuthMW,
		middleware.OptionalJWTAuthMiddleware(authService), middleware.AdminMiddleware())
	NewCartHandler(cartService).RegisterCartRoutes(api, jwtAuthMW)

	return &testServer{router: router, store: store, jwtUtil: jwtUtil}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// signupAndLogin registers a user through the API and returns its token and id.
func (s *testServer) signupAndLogin(t *testing.T, email string) (string, string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/users/signup", "", gin.H{
		"name": "Test User", "email": email, "password": "password123", "address": "123 Test Street",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/users/login", "", gin.H{"email": email, "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	decode(t, w, &resp)
	return resp.Token, resp.UserID
}

// adminToken stores an admin account directly, since signup only creates customers.
func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	admin := &model.User{Name: "Admin", Email: "admin@example.com", Role: model.RoleAdmin}
	require.NoError(t, s.store.Users().Create(context.Background(), admin))
	token, err := s.jwtUtil.GenerateToken(admin.ID, admin.Email)
	require.NoError(t, err)
	return token
}

func (s *testServer) createProduct(t *testing.T, p model.Product) model.Product {
	t.Helper()
	require.NoError(t, s.store.Products().Create(context.Background(), &p))
	return p
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Status  int    `json:"status"`
	} `json:"error"`
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	decode(t, w, &body)
	return body
}
