package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ifinsure/internal/auth"
	"ifinsure/internal/config"
	"ifinsure/internal/http/middleware"
	"ifinsure/internal/model"
	"ifinsure/internal/service"
	"ifinsure/internal/session"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAccountService overrides only the operations a test exercises; the
// embedded interface panics on anything unexpected.
type stubAccountService struct {
	service.AccountService
	registerFn func(ctx context.Context, in service.RegisterInput) (*model.User, error)
	loginFn    func(ctx context.Context, email, password, device string) (*service.LoginResult, error)
}

func (s *stubAccountService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAccountService) Login(ctx context.Context, email, password, device string) (*service.LoginResult, error) {
	return s.loginFn(ctx, email, password, device)
}

type stubReviewService struct {
	service.ReviewService
	published []model.UserReview
	err       error
}

func (s *stubReviewService) ListPublished(ctx context.Context, limit int) ([]model.UserReview, error) {
	return s.published, s.err
}

func newTestApp(t *testing.T, svc Services) (*fiber.App, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens := auth.NewTokenIssuer(config.AuthConfig{
		JWTSecret: "test-secret",
		Issuer:    "ifinsure-test",
		AccessTTL: time.Minute,
	})
	// Nothing in these tests reaches the session store; the address is
	// intentionally unroutable so an accidental lookup fails fast.
	sessions := session.NewStore(config.RedisConfig{Addr: "127.0.0.1:1"}, time.Minute)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, db, svc, tokens, sessions)
	return app, dbMock
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	app, dbMock := newTestApp(t, Services{})

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		body := decodeError(t, resp)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
		assert.NotEmpty(t, body.RequestID)
	})
}

func TestLiveness(t *testing.T) {
	app, _ := newTestApp(t, Services{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRegister(t *testing.T) {
	accounts := &stubAccountService{
		registerFn: func(ctx context.Context, in service.RegisterInput) (*model.User, error) {
			if in.Email == "taken@example.com" {
				return nil, service.ErrEmailTaken
			}
			return &model.User{
				ID:        "6c9f9f6e-0000-4000-8000-000000000001",
				Email:     in.Email,
				FirstName: in.FirstName,
				LastName:  in.LastName,
				UserType:  model.UserTypeCustomer,
				IsActive:  true,
			}, nil
		},
	}
	app, _ := newTestApp(t, Services{Accounts: accounts})

	post := func(t *testing.T, payload any) *http.Response {
		buf, _ := json.Marshal(payload)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(buf))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("creates customer", func(t *testing.T) {
		resp := post(t, service.RegisterInput{
			Email:     "jane@example.com",
			Password:  "s3cret-pass",
			FirstName: "Jane",
			LastName:  "Wanjiku",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var user model.User
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
		assert.Equal(t, "jane@example.com", user.Email)
		assert.Equal(t, model.UserTypeCustomer, user.UserType)
	})

	t.Run("rejects privileged self-signup", func(t *testing.T) {
		resp := post(t, service.RegisterInput{
			Email:    "sneaky@example.com",
			Password: "s3cret-pass",
			UserType: model.UserTypeAdmin,
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Error.Code)
	})

	t.Run("duplicate email maps to conflict", func(t *testing.T) {
		resp := post(t, service.RegisterInput{Email: "taken@example.com", Password: "s3cret-pass"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "ALREADY_EXISTS", decodeError(t, resp).Error.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader([]byte("{")))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "BAD_REQUEST", decodeError(t, resp).Error.Code)
	})
}

func TestLogin(t *testing.T) {
	accounts := &stubAccountService{
		loginFn: func(ctx context.Context, email, password, device string) (*service.LoginResult, error) {
			if password != "correct-horse" {
				return nil, service.ErrInvalidCredentials
			}
			return &service.LoginResult{
				Token:     "signed-token",
				SessionID: "sess-1",
				User:      &model.User{ID: "u1", Email: email},
			}, nil
		},
	}
	app, _ := newTestApp(t, Services{Accounts: accounts})

	login := func(t *testing.T, password string) *http.Response {
		buf, _ := json.Marshal(fiber.Map{"email": "jane@example.com", "password": password})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(buf))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("success", func(t *testing.T) {
		resp := login(t, "correct-horse")
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var res service.LoginResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
		assert.Equal(t, "signed-token", res.Token)
		assert.Equal(t, "sess-1", res.SessionID)
	})

	t.Run("bad credentials", func(t *testing.T) {
		resp := login(t, "wrong")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeError(t, resp).Error.Code)
	})
}

func TestAuthGuard(t *testing.T) {
	app, _ := newTestApp(t, Services{})

	t.Run("missing token", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/policies", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/policies", nil)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-jwt")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestPublishedReviews(t *testing.T) {
	reviews := &stubReviewService{published: []model.UserReview{
		{ID: "r1", Quote: "Claims paid out in two days.", Rating: 5, Status: model.ReviewApproved},
	}}
	app, _ := newTestApp(t, Services{Reviews: reviews})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/reviews/published", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data []model.UserReview `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, 5, body.Data[0].Rating)
}

func TestRouting(t *testing.T) {
	app, _ := newTestApp(t, Services{})

	t.Run("unknown route", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})
}
