package webapi_test

import (
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/payollar/payollar/internal/fixtures/memstore"
	"github.com/payollar/payollar/webapi/testutils"
	"github.com/stretchr/testify/suite"
)

type RateLimitTestSuite struct {
	suite.Suite
	app *fiber.App
}

func (s *RateLimitTestSuite) SetupTest() {
	cfg := testutils.TestConfig()
	cfg.RateLimit.MaxRequests = 5
	cfg.RateLimit.Window = time.Second
	s.app = testutils.NewApp(memstore.New(), cfg)
}

func (s *RateLimitTestSuite) TestRateLimit() {
	for i := range [6]int{} {
		resp := testutils.MakeRequest(s.T(), s.app, fiber.MethodGet, "/", "", "")
		_ = resp.Body.Close()

		if i < 5 {
			s.Equal(fiber.StatusOK, resp.StatusCode, "Expected OK for request %d", i+1)
		} else {
			s.Equal(fiber.StatusTooManyRequests, resp.StatusCode, "Expected Too Many Requests for request %d", i+1)
		}
	}

	time.Sleep(1100 * time.Millisecond)

	resp := testutils.MakeRequest(s.T(), s.app, fiber.MethodGet, "/", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode, "Expected OK after rate limit window reset")
}

func (s *RateLimitTestSuite) forwardedRequest(app *fiber.App, forwardedFor string) int {
	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", forwardedFor)
	resp := testutils.Do(s.T(), app, req, "")
	defer resp.Body.Close() //nolint: errcheck
	return resp.StatusCode
}

func (s *RateLimitTestSuite) TestRateLimit_ForwardedForIgnoredWithoutTrustedProxy() {
	for i := range [5]int{} {
		s.Equal(fiber.StatusOK, s.forwardedRequest(s.app, fmt.Sprintf("10.0.0.%d", i+1)))
	}
	s.Equal(fiber.StatusTooManyRequests, s.forwardedRequest(s.app, "10.0.0.9"))
}

func (s *RateLimitTestSuite) TestRateLimit_ForwardedForFromTrustedProxy() {
	cfg := testutils.TestConfig()
	cfg.RateLimit.MaxRequests = 5
	cfg.RateLimit.Window = time.Second
	cfg.Server.ProxyHeader = fiber.HeaderXForwardedFor
	cfg.Server.TrustedProxies = []string{"0.0.0.0"}
	app := testutils.NewApp(memstore.New(), cfg)

	for range [5]int{} {
		s.Equal(fiber.StatusOK, s.forwardedRequest(app, "10.0.0.1"))
	}
	s.Equal(fiber.StatusTooManyRequests, s.forwardedRequest(app, "10.0.0.1"))
	s.Equal(fiber.StatusOK, s.forwardedRequest(app, "10.0.0.9"))
}

func (s *RateLimitTestSuite) TestMetricsEndpoint() {
	resp := testutils.MakeRequest(s.T(), s.app, fiber.MethodGet, "/metrics", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.True(strings.Contains(string(body), "go_goroutines"))
}

func (s *RateLimitTestSuite) TestSwaggerDoc() {
	resp := testutils.MakeRequest(s.T(), s.app, fiber.MethodGet, "/swagger/doc.json", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	s.Contains(string(body), "/admin/payouts/approve")
}

func TestRateLimitTestSuite(t *testing.T) {
	suite.Run(t, new(RateLimitTestSuite))
}
