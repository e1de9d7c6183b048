package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrack/fintrack-api/internal/api/shared"
	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/fintrack/fintrack-api/internal/mocks"
	"github.com/fintrack/fintrack-api/internal/service/auth"
	"github.com/fintrack/fintrack-api/internal/store"
)

// seedUser inserts an active user with the given email into the mock store
// and returns it.
func seedUser(t *testing.T, userStore *mocks.MockUserStore, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		Name:           "Maria Silva",
		Email:          email,
		HashedPassword: "stored-hash",
		Role:           domain.RoleUser,
		Active:         true,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	require.NoError(t, userStore.Create(context.Background(), user))
	return user
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", target, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	handler(recorder, req)
	return recorder
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    map[string]interface{}
		wantStatus int
	}{
		{
			name: "valid registration",
			payload: map[string]interface{}{
				"nome":  "Maria Silva",
				"email": "maria@example.com",
				"senha": "s3cret-pass",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "valid registration with role",
			payload: map[string]interface{}{
				"nome":   "Admin User",
				"email":  "admin@example.com",
				"senha":  "s3cret-pass",
				"perfil": "ADMIN",
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "invalid email",
			payload: map[string]interface{}{
				"nome":  "Maria Silva",
				"email": "not-an-email",
				"senha": "s3cret-pass",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			payload: map[string]interface{}{
				"nome":  "Maria Silva",
				"email": "maria@example.com",
				"senha": "short",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "missing name",
			payload: map[string]interface{}{
				"email": "maria@example.com",
				"senha": "s3cret-pass",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "unknown role",
			payload: map[string]interface{}{
				"nome":   "Maria Silva",
				"email":  "maria@example.com",
				"senha":  "s3cret-pass",
				"perfil": "SUPERUSER",
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userService := &mocks.MockUserService{
				RegisterFn: func(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
					if role == "" {
						role = domain.RoleUser
					}
					return &domain.User{
						ID:     1,
						Name:   name,
						Email:  email,
						Role:   role,
						Active: true,
					}, nil
				},
			}
			handler := NewAuthHandler(
				userService,
				mocks.NewMockUserStore(),
				&mocks.MockTokenService{Token: "test-token"},
				&mocks.MockPasswordVerifier{ShouldSucceed: true},
				nil,
			)

			recorder := postJSON(t, handler.Register, "/auth/registro", tt.payload)
			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp RegisterResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, "user registered successfully", resp.Message)
				assert.Equal(t, int64(1), resp.User.ID)
				assert.Equal(t, tt.payload["email"], resp.User.Email)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	userService := &mocks.MockUserService{
		RegisterFn: func(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error) {
			return nil, store.ErrEmailExists
		},
	}
	handler := NewAuthHandler(
		userService,
		mocks.NewMockUserStore(),
		&mocks.MockTokenService{Token: "test-token"},
		&mocks.MockPasswordVerifier{ShouldSucceed: true},
		nil,
	)

	recorder := postJSON(t, handler.Register, "/auth/registro", map[string]interface{}{
		"nome":  "Maria Silva",
		"email": "maria@example.com",
		"senha": "s3cret-pass",
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, "Email already registered", resp.Error)
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	user := seedUser(t, userStore, "maria@example.com")

	inactiveStore := mocks.NewMockUserStore()
	inactive := seedUser(t, inactiveStore, "inactive@example.com")
	inactive.Active = false
	require.NoError(t, inactiveStore.Update(context.Background(), inactive))

	tests := []struct {
		name       string
		store      *mocks.MockUserStore
		payload    map[string]interface{}
		verifier   *mocks.MockPasswordVerifier
		wantStatus int
		wantToken  bool
	}{
		{
			name:  "valid login",
			store: userStore,
			payload: map[string]interface{}{
				"email": "maria@example.com",
				"senha": "s3cret-pass",
			},
			verifier:   &mocks.MockPasswordVerifier{ShouldSucceed: true},
			wantStatus: http.StatusOK,
			wantToken:  true,
		},
		{
			name:  "unknown email",
			store: userStore,
			payload: map[string]interface{}{
				"email": "nobody@example.com",
				"senha": "s3cret-pass",
			},
			verifier:   &mocks.MockPasswordVerifier{ShouldSucceed: true},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:  "wrong password",
			store: userStore,
			payload: map[string]interface{}{
				"email": "maria@example.com",
				"senha": "wrong-pass",
			},
			verifier:   &mocks.MockPasswordVerifier{ShouldSucceed: false},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:  "deactivated user",
			store: inactiveStore,
			payload: map[string]interface{}{
				"email": "inactive@example.com",
				"senha": "s3cret-pass",
			},
			verifier:   &mocks.MockPasswordVerifier{ShouldSucceed: true},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:  "missing password",
			store: userStore,
			payload: map[string]interface{}{
				"email": "maria@example.com",
			},
			verifier:   &mocks.MockPasswordVerifier{ShouldSucceed: true},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAuthHandler(
				&mocks.MockUserService{},
				tt.store,
				&mocks.MockTokenService{Token: "test-token", TokenLifetime: time.Hour},
				tt.verifier,
				nil,
			)

			recorder := postJSON(t, handler.Login, "/auth/login", tt.payload)
			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantToken {
				var resp LoginResponse
				require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
				assert.Equal(t, "test-token", resp.Token)
				assert.Equal(t, user.ID, resp.User.ID)
				assert.Equal(t, user.Email, resp.User.Email)
				assert.Equal(t, int64(3600), resp.ExpiresIn)
			}
		})
	}

	t.Run("failed logins share the same message", func(t *testing.T) {
		handler := NewAuthHandler(
			&mocks.MockUserService{},
			userStore,
			&mocks.MockTokenService{Token: "test-token"},
			&mocks.MockPasswordVerifier{ShouldSucceed: false},
			nil,
		)

		unknownRec := postJSON(t, handler.Login, "/auth/login", map[string]interface{}{
			"email": "nobody@example.com",
			"senha": "whatever12",
		})
		wrongRec := postJSON(t, handler.Login, "/auth/login", map[string]interface{}{
			"email": "maria@example.com",
			"senha": "whatever12",
		})

		var unknownResp, wrongResp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(unknownRec.Body).Decode(&unknownResp))
		require.NoError(t, json.NewDecoder(wrongRec.Body).Decode(&wrongResp))
		assert.Equal(t, unknownResp.Error, wrongResp.Error)
		assert.Equal(t, "Invalid credentials", wrongResp.Error)
	})
}

func TestValidateTokenEndpoint(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	user := seedUser(t, userStore, "maria@example.com")

	validClaims := &auth.Claims{
		Email:     user.Email,
		UserID:    user.ID,
		Role:      user.Role,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(30 * time.Minute),
	}

	t.Run("valid token", func(t *testing.T) {
		handler := NewAuthHandler(
			&mocks.MockUserService{},
			userStore,
			&mocks.MockTokenService{Claims: validClaims},
			&mocks.MockPasswordVerifier{ShouldSucceed: true},
			nil,
		)

		recorder := postJSON(t, handler.ValidateToken, "/auth/validar-token", map[string]interface{}{
			"token": "some-token",
		})

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp ValidateTokenResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.True(t, resp.Valid)
		require.NotNil(t, resp.User)
		assert.Equal(t, user.ID, resp.User.ID)
		assert.Greater(t, resp.RemainingTime, int64(0))
	})

	t.Run("expired token still responds 200", func(t *testing.T) {
		handler := NewAuthHandler(
			&mocks.MockUserService{},
			userStore,
			&mocks.MockTokenService{ValidateErr: auth.ErrExpiredToken},
			&mocks.MockPasswordVerifier{ShouldSucceed: true},
			nil,
		)

		recorder := postJSON(t, handler.ValidateToken, "/auth/validar-token", map[string]interface{}{
			"token": "expired-token",
		})

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp ValidateTokenResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.False(t, resp.Valid)
		assert.Nil(t, resp.User)
	})

	t.Run("deactivated user invalidates the token", func(t *testing.T) {
		inactiveStore := mocks.NewMockUserStore()
		inactive := seedUser(t, inactiveStore, user.Email)
		inactive.Active = false
		require.NoError(t, inactiveStore.Update(context.Background(), inactive))

		handler := NewAuthHandler(
			&mocks.MockUserService{},
			inactiveStore,
			&mocks.MockTokenService{Claims: validClaims},
			&mocks.MockPasswordVerifier{ShouldSucceed: true},
			nil,
		)

		recorder := postJSON(t, handler.ValidateToken, "/auth/validar-token", map[string]interface{}{
			"token": "some-token",
		})

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp ValidateTokenResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.False(t, resp.Valid)
	})

	t.Run("empty token", func(t *testing.T) {
		handler := NewAuthHandler(
			&mocks.MockUserService{},
			userStore,
			&mocks.MockTokenService{Claims: validClaims},
			&mocks.MockPasswordVerifier{ShouldSucceed: true},
			nil,
		)

		recorder := postJSON(t, handler.ValidateToken, "/auth/validar-token", map[string]interface{}{})

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp ValidateTokenResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.False(t, resp.Valid)
	})
}

func TestRefreshTokenEndpoint(t *testing.T) {
	t.Parallel()

	userStore := mocks.NewMockUserStore()
	user := seedUser(t, userStore, "maria@example.com")

	validClaims := &auth.Claims{
		Email:     user.Email,
		UserID:    user.ID,
		Role:      user.Role,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(5 * time.Minute),
	}

	t.Run("valid token refresh", func(t *testing.T) {
		handler := NewAuthHandler(
			&mocks.MockUserService{},
			userStore,
			&mocks.MockTokenService{Token: "fresh-token", Claims: validClaims, TokenLifetime: time.Hour},
			&mocks.MockPasswordVerifier{ShouldSucceed: true},
			nil,
		)

		recorder := postJSON(t, handler.RefreshToken, "/auth/refresh", map[string]interface{}{
			"token": "old-token",
		})

		assert.Equal(t, http.StatusOK, recorder.Code)

		var resp RefreshResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "fresh-token", resp.Token)
		assert.Equal(t, int64(3600), resp.ExpiresIn)
	})

	t.Run("expired token", func(t *testing.T) {
		handler := NewAuthHandler(
			&mocks.MockUserService{},
			userStore,
			&mocks.MockTokenService{ValidateErr: auth.ErrExpiredToken},
			&mocks.MockPasswordVerifier{ShouldSucceed: true},
			nil,
		)

		recorder := postJSON(t, handler.RefreshToken, "/auth/refresh", map[string]interface{}{
			"token": "expired-token",
		})

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		var resp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "Token expired", resp.Error)
	})

	t.Run("deactivated user cannot refresh", func(t *testing.T) {
		inactiveStore := mocks.NewMockUserStore()
		inactive := seedUser(t, inactiveStore, user.Email)
		inactive.Active = false
		require.NoError(t, inactiveStore.Update(context.Background(), inactive))

		handler := NewAuthHandler(
			&mocks.MockUserService{},
			inactiveStore,
			&mocks.MockTokenService{Token: "fresh-token", Claims: validClaims},
			&mocks.MockPasswordVerifier{ShouldSucceed: true},
			nil,
		)

		recorder := postJSON(t, handler.RefreshToken, "/auth/refresh", map[string]interface{}{
			"token": "old-token",
		})

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("missing token field", func(t *testing.T) {
		handler := NewAuthHandler(
			&mocks.MockUserService{},
			userStore,
			&mocks.MockTokenService{Claims: validClaims},
			&mocks.MockPasswordVerifier{ShouldSucceed: true},
			nil,
		)

		recorder := postJSON(t, handler.RefreshToken, "/auth/refresh", map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
