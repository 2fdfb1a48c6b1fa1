package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/users/signup", "", gin.H{
		"name": "Ada", "email": "ada@example.com", "password": "password123",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password123")

	t.Run("duplicate email", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/users/signup", "", gin.H{
			"name": "Someone", "email": "ada@example.com", "password": "another1",
		})
		assert.Equal(t, http.StatusConflict, w.Code)

		user, err := s.store.Users().FindByEmail(context.Background(), "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Ada", user.Name)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/users/signup", "", gin.H{"email": "x@example.com"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed email", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/users/signup", "", gin.H{
			"name": "Bob", "email": "not-an-email", "password": "password123",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.signupAndLogin(t, "ada@example.com")
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, userID)

	w := s.do(t, http.MethodPost, "/api/users/login", "", gin.H{"email": "ada@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "token\":")
	assert.Equal(t, "invalid credentials", errorOf(t, w).Error.Message)

	w = s.do(t, http.MethodPost, "/api/users/login", "", gin.H{"email": "nobody@example.com", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfile(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.signupAndLogin(t, "ada@example.com")

	w := s.do(t, http.MethodGet, "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile map[string]any
	decode(t, w, &profile)
	assert.Equal(t, userID, profile["id"])
	assert.Equal(t, "ada@example.com", profile["email"])
	assert.Equal(t, "user", profile["role"])
	assert.NotContains(t, profile, "password")
	assert.NotContains(t, profile, "PasswordHash")

	w = s.do(t, http.MethodGet, "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required. Please login.", errorOf(t, w).Error.Message)
}

func TestUpdateProfile(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signupAndLogin(t, "ada@example.com")

	w := s.do(t, http.MethodPut, "/api/users/profile", token, gin.H{"address": "2 Side St", "password": "changed123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/users/login", "", gin.H{"email": "ada@example.com", "password": "changed123"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/users/profile", token, gin.H{"password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyToken(t *testing.T) {
	s := newTestServer(t)
	token, userID := s.signupAndLogin(t, "ada@example.com")

	w := s.do(t, http.MethodGet, "/api/users/verify-token", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Token is valid","user":{"id":"`+userID+`"}}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/users/verify-token", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token. Please login again.", errorOf(t, w).Error.Message)
}

func TestOrders(t *testing.T) {
	s := newTestServer(t)
	token, _ := s.signupAndLogin(t, "ada@example.com")

	w := s.do(t, http.MethodGet, "/api/users/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Order history feature coming soon","orders":[]}`, w.Body.String())
}
