package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"delivery-client/internal/features/coupons/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCoupons struct {
	mock.Mock
}

func (m *MockCoupons) List(ctx context.Context) ([]domain.Coupon, error) {
	args := m.Called(ctx)
	coupons, _ := args.Get(0).([]domain.Coupon)
	return coupons, args.Error(1)
}

func (m *MockCoupons) Select(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

func setupApp() (*fiber.App, *MockCoupons) {
	m := new(MockCoupons)
	app := fiber.New()
	NewCouponsHandler(m).Register(app)
	return app, m
}

func TestCouponsHandler_List(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		app, m := setupApp()
		m.On("List", mock.Anything).Return([]domain.Coupon{{Code: "BEMVINDO", Kind: domain.DiscountFixed}}, nil)

		resp, err := app.Test(httptest.NewRequest("GET", "/coupons", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out []domain.Coupon
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.Len(t, out, 1)
		assert.Equal(t, "BEMVINDO", out[0].Code)
	})

	t.Run("BackendDown", func(t *testing.T) {
		app, m := setupApp()
		m.On("List", mock.Anything).Return(nil, errors.New("down"))

		resp, err := app.Test(httptest.NewRequest("GET", "/coupons", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})
}

func TestCouponsHandler_Select(t *testing.T) {
	t.Run("Stored", func(t *testing.T) {
		app, m := setupApp()
		m.On("Select", mock.Anything, "promo10").Return("PROMO10", nil)

		req := httptest.NewRequest("POST", "/coupons/selection", strings.NewReader(`{"code":"promo10"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out SelectResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "PROMO10", out.Code)
	})

	t.Run("EmptyCode", func(t *testing.T) {
		app, m := setupApp()
		m.On("Select", mock.Anything, "").Return("", nil)

		req := httptest.NewRequest("POST", "/coupons/selection", strings.NewReader(`{"code":""}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
