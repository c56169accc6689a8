package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"delivery-client/internal/core/backend"
	"delivery-client/internal/core/cache"
	"delivery-client/internal/core/money"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackendCoupons_Validate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "validate_coupon", r.URL.Query().Get("action"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "PROMO10", body["code"])
		assert.EqualValues(t, 7500, body["order_total"])

		w.Write([]byte(`{"valid":false,"message":"Cupom expirado"}`))
	}))
	defer server.Close()

	a := NewBackendCoupons(backend.NewClient(server.URL, server.Client()))
	v, err := a.Validate(context.Background(), "PROMO10", money.Cents(7500))

	require.NoError(t, err)
	assert.False(t, v.Valid)
	assert.Equal(t, "Cupom expirado", v.Message)
}

func TestBackendCoupons_List(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "list_coupons", r.URL.Query().Get("action"))
		w.Write([]byte(`{"data":[{"id":1,"code":"BEMVINDO","type":"FIXED","value":1000,"discount_display":"R$ 10,00","min_order_display":30,"usage_status":"available"}]}`))
	}))
	defer server.Close()

	a := NewBackendCoupons(backend.NewClient(server.URL, server.Client()))
	coupons, err := a.List(context.Background())

	require.NoError(t, err)
	require.Len(t, coupons, 1)
	assert.Equal(t, "BEMVINDO", coupons[0].Code)
	assert.Equal(t, "available", coupons[0].UsageStatus)
	assert.JSONEq(t, `30`, string(coupons[0].MinOrderDisplay))
}

func TestCacheHandoffRepository_TakeOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer c.Close()

	repo := NewCacheHandoffRepository(c)
	ctx := context.Background()

	code, err := repo.Take(ctx)
	require.NoError(t, err)
	assert.Empty(t, code)

	require.NoError(t, repo.Put(ctx, "PROMO10"))

	code, err = repo.Take(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PROMO10", code)

	code, err = repo.Take(ctx)
	require.NoError(t, err)
	assert.Empty(t, code, "handoff is consumed")
}
