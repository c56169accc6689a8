package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"delivery-client/internal/features/orders/domain"
	"delivery-client/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrders struct {
	mock.Mock
}

func (m *MockOrders) List(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]domain.Order)
	return orders, args.Error(1)
}

func (m *MockOrders) RepeatByID(ctx context.Context, orderID int64) (service.RepeatResult, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(service.RepeatResult), args.Error(1)
}

func (m *MockOrders) Now() time.Time {
	return m.Called().Get(0).(time.Time)
}

func setupApp() (*fiber.App, *MockOrders) {
	m := new(MockOrders)
	app := fiber.New()
	NewOrdersHandler(m).Register(app)
	return app, m
}

func TestOrdersHandler_List(t *testing.T) {
	app, m := setupApp()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)
	m.On("List", mock.Anything).Return([]domain.Order{
		{ID: 2, Total: 7500, Discount: 750, Kind: domain.KindPaid, Status: "paid", CreatedAt: created, Items: []domain.Item{}},
	}, nil)
	m.On("Now").Return(created.Add(10 * time.Minute))

	resp, err := app.Test(httptest.NewRequest("GET", "/orders", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out, 1)
	assert.EqualValues(t, 6750, out[0]["final_price"])
	assert.Equal(t, "R$ 67,50", out[0]["final_price_display"])
	assert.Equal(t, "Previsão: 12:30 - 13:00", out[0]["progress"])
	assert.Equal(t, false, out[0]["delivered"])
}

func TestOrdersHandler_Repeat(t *testing.T) {
	t.Run("WithUnavailable", func(t *testing.T) {
		app, m := setupApp()
		m.On("RepeatByID", mock.Anything, int64(7)).Return(service.RepeatResult{Added: 1, Unavailable: 1}, nil)

		resp, err := app.Test(httptest.NewRequest("POST", "/orders/7/repeat", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var out RepeatResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, 1, out.Unavailable)
		assert.Equal(t, "1 item(s) deste pedido não estão mais disponíveis e foram removidos.", out.Message)
	})

	t.Run("NotFound", func(t *testing.T) {
		app, m := setupApp()
		m.On("RepeatByID", mock.Anything, int64(8)).Return(service.RepeatResult{}, service.ErrOrderNotFound)

		resp, err := app.Test(httptest.NewRequest("POST", "/orders/8/repeat", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("CatalogDown", func(t *testing.T) {
		app, m := setupApp()
		m.On("RepeatByID", mock.Anything, int64(9)).Return(service.RepeatResult{}, errors.New("down"))

		resp, err := app.Test(httptest.NewRequest("POST", "/orders/9/repeat", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("BadID", func(t *testing.T) {
		app, _ := setupApp()

		resp, err := app.Test(httptest.NewRequest("POST", "/orders/abc/repeat", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
