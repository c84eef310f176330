package metrics

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T, name string) *Metrics {
	t.Helper()
	m, err := New(Config{Enabled: true, Port: 0, ServiceName: name}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { m.Stop() }) //nolint:errcheck
	return m
}

func TestServiceName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultServiceName},
		{"   ", DefaultServiceName},
		{"---", DefaultServiceName},
		{"apiserver", "apiserver"},
		{"NodeJs APIs", "nodejs_apis"},
		{"my-service.v2", "my_service_v2"},
		{"9lives", "_9lives"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ServiceName(tt.in))
		})
	}
}

func TestDisabled(t *testing.T) {
	m, err := New(Config{Enabled: false}, nil)
	require.NoError(t, err)

	assert.False(t, m.Enabled())
	assert.Empty(t, m.Addr())
	assert.NoError(t, m.Stop())
	m.ObserveAlert()

	app := fiber.New()
	app.Use(m.FiberMiddleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestObserveAlert(t *testing.T) {
	m := newTestMetrics(t, "alerts")

	m.ObserveAlert()
	m.ObserveAlert()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.alertsTotal))
}

func TestFiberMiddleware(t *testing.T) {
	m := newTestMetrics(t, "mw")

	app := fiber.New()
	app.Use(m.FiberMiddleware())
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendString(c.Params("id")) })

	for _, id := range []string{"1", "2", "3"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/items/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/items/:id", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpRequestsInFlight.WithLabelValues("GET", "")))
}

func TestFiberMiddlewareCountsErrors(t *testing.T) {
	m := newTestMetrics(t, "errs")

	app := fiber.New()
	app.Use(m.FiberMiddleware())
	app.Get("/fail", func(c *fiber.Ctx) error { return fiber.ErrTeapot })

	resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/fail", "418")))
}

func TestServerExposesMetrics(t *testing.T) {
	m := newTestMetrics(t, "exposed")
	m.ObserveAlert()

	_, port, err := net.SplitHostPort(m.Addr())
	require.NoError(t, err)

	resp, err := http.Get("http://127.0.0.1:" + port + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "exposed_alerts_sent_total 1"))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}

func TestTwoInstancesDoNotCollide(t *testing.T) {
	newTestMetrics(t, "same")
	newTestMetrics(t, "same")
}
