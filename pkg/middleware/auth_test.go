package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/brand-admin/pkg/logger"
)

const testSecret = "test-secret-key-for-jwt-signing"

func generateToken(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return tokenString
}

func identityHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"user_id":     UserIDFromContext(r.Context()),
			"role":        RoleFromContext(r.Context()),
			"log_user_id": logger.UserIDFromContext(r.Context()),
		})
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code
}

func TestAuth_ValidToken(t *testing.T) {
	var buf bytes.Buffer
	mw := Auth(NewHMACValidator(testSecret), newTestLogger(&buf))
	token := generateToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"user_id": "admin-1",
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw(identityHandler()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "admin-1", got["user_id"])
	assert.Equal(t, "admin", got["role"])
	assert.Equal(t, "admin-1", got["log_user_id"])
}

func TestAuth_SubjectFallback(t *testing.T) {
	validate := NewHMACValidator(testSecret)
	token := generateToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub":  "admin-2",
		"role": "admin",
	})

	claims, err := validate(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-2", claims.UserID)
}

func TestAuth_Rejections(t *testing.T) {
	expired := generateToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"user_id": "admin-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})
	wrongSecret := generateToken(t, jwt.SigningMethodHS256, "other-secret", jwt.MapClaims{"user_id": "admin-1"})
	wrongAlg := generateToken(t, jwt.SigningMethodHS512, testSecret, jwt.MapClaims{"user_id": "admin-1"})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"expired", "Bearer " + expired},
		{"wrong secret", "Bearer " + wrongSecret},
		{"wrong algorithm", "Bearer " + wrongAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			mw := Auth(NewHMACValidator(testSecret), newTestLogger(&buf))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw(identityHandler()).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{"admin allowed", "admin", http.StatusOK},
		{"customer forbidden", "customer", http.StatusForbidden},
		{"no role forbidden", "", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			token := generateToken(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
				"user_id": "u-1",
				"role":    tt.role,
			})
			handler := Auth(NewHMACValidator(testSecret), newTestLogger(&buf))(
				RequireRole("admin")(identityHandler()),
			)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", errorCode(t, rec))
			}
		})
	}
}
