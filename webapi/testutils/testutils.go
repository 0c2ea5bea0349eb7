// Package testutils builds a fully wired HTTP app over the in-memory store
// for handler tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	infracache "github.com/payollar/payollar/infra/cache"
	"github.com/payollar/payollar/internal/fixtures/memstore"
	"github.com/payollar/payollar/pkg/app"
	"github.com/payollar/payollar/pkg/config"
	"github.com/payollar/payollar/pkg/domain/user"
	"github.com/payollar/payollar/pkg/dto"
	"github.com/payollar/payollar/webapi"
	"github.com/payollar/payollar/webapi/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// Password is the password of every seeded user.
const Password = "password123"

// TestConfig returns a configuration suitable for handler tests.
func TestConfig() *config.App {
	return &config.App{
		Env:       "test",
		Server:    &config.Server{Host: "localhost", Port: 3000},
		Log:       &config.Log{},
		DB:        &config.DB{},
		Auth:      &config.Auth{Strategy: "jwt", Jwt: &config.Jwt{Secret: "test-secret", Expiry: time.Hour}},
		Redis:     &config.Redis{},
		Cache:     &config.Cache{TTL: time.Minute},
		RateLimit: &config.RateLimit{MaxRequests: 1000, Window: time.Second},
	}
}

// NewApp wires the HTTP app over store with cfg.
func NewApp(store *memstore.Store, cfg *config.App) *fiber.App {
	views := infracache.NewMemoryCache()
	a := app.New(&app.Deps{
		Uow:         store,
		ViewCache:   views,
		Revalidator: views,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, cfg)
	return webapi.SetupApp(a)
}

// WebTestSuite runs handler tests against a fresh store per test.
type WebTestSuite struct {
	suite.Suite
	Store *memstore.Store
	App   *fiber.App
	Cfg   *config.App
}

func (s *WebTestSuite) SetupTest() {
	s.Store = memstore.New()
	s.Cfg = TestConfig()
	s.App = NewApp(s.Store, s.Cfg)
}

// CreateUser seeds a user with role and credits whose password is Password.
func (s *WebTestSuite) CreateUser(role user.Role, credits int64) dto.UserRead {
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	s.Require().NoError(err)
	suffix := uuid.NewString()[:8]
	u := dto.UserRead{
		ID:             uuid.New(),
		Username:       "user_" + suffix,
		Email:          "user_" + suffix + "@example.com",
		HashedPassword: string(hash),
		Role:           string(role),
		Credits:        decimal.NewFromInt(credits),
	}
	s.Store.AddUser(u)
	return u
}

// Login returns a bearer token for u obtained through POST /auth/login.
func (s *WebTestSuite) Login(u dto.UserRead) string {
	body, _ := json.Marshal(map[string]string{"identity": u.Email, "password": Password})
	resp := MakeRequest(s.T(), s.App, http.MethodPost, "/auth/login", string(body), "")
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusOK, resp.StatusCode)

	var response common.Response
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))
	data, ok := response.Data.(map[string]any)
	s.Require().True(ok)
	token, _ := data["token"].(string)
	s.Require().NotEmpty(token)
	return token
}

// MakeRequest sends a JSON request to app.
func MakeRequest(t testing.TB, app *fiber.App, method, path, body, token string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	return Do(t, app, req, token)
}

// Do sends req to app with an optional bearer token.
func Do(t testing.TB, app *fiber.App, req *http.Request, token string) *http.Response {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s: %v", req.Method, req.URL.Path, err)
	}
	return resp
}
