package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(CouponValidations.WithLabelValues("applied"))
	CouponValidations.WithLabelValues("applied").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(CouponValidations.WithLabelValues("applied")))
}

func TestHandler(t *testing.T) {
	OrdersSubmitted.WithLabelValues("PIX", "awaiting_payment").Inc()

	app := fiber.New()
	app.Get("/metrics", Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "delivery_orders_submitted_total")
}
