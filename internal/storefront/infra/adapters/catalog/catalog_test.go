package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/salad-storefront/internal/pkg/cache"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
)

const ingredientsBody = `{"ingredients": [
	{"_id": "ing-tomato", "name": "Tomate", "priceAsExtra": 100, "precioDescuento": 150, "type": "vegetal"},
	{"_id": "ing-chicken", "name": "Pollo", "priceAsExtra": 200, "precioDescuento": 0, "type": "proteina"}
]}`

const saladsBody = `[
	{"_id": "salad-caesar", "name": "Caesar", "price": 1000, "type": "Ensalada",
	 "base": ["ing-tomato", {"_id": "ing-croutons", "name": "Croutons", "precioDescuento": 80}, "ing-gone"],
	 "allowedExtras": [{"_id": "ing-chicken", "name": "stale name", "priceAsExtra": 1}]},
	{"_id": "pie-1", "name": "Tarta de verdura", "price": 900, "type": "Tarta", "base": [], "extras": ["ing-chicken"]}
]`

func newCatalogServer(t *testing.T, salads, ingredients string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/salads", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(salads))
	})
	mux.HandleFunc("/ingredients/active", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(ingredients))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestDecodeList(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{name: "bareArray", body: `[{}, {}]`, want: 2},
		{name: "primaryKey", body: `{"salads": [{}]}`, want: 1},
		{name: "data", body: `{"data": [{}, {}, {}]}`, want: 3},
		{name: "items", body: `{"items": [{}]}`, want: 1},
		{name: "results", body: `{"results": []}`, want: 0},
		{name: "primaryWinsOverData", body: `{"data": [{}, {}], "salads": [{}]}`, want: 1},
		{name: "nonArrayValueSkipped", body: `{"data": {"total": 2}, "items": [{}]}`, want: 1},
		{name: "unknownObject", body: `{"message": "ok"}`, want: 0},
		{name: "empty", body: ``, wantErr: true},
		{name: "notJSON", body: `<html>`, wantErr: true},
		{name: "brokenArray", body: `[{]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeList([]byte(tt.body), "salads")
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedResponse)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestHTTPCatalogResolvesIngredients(t *testing.T) {
	srv, _ := newCatalogServer(t, saladsBody, ingredientsBody)
	c := NewHTTPCatalog(srv.URL+"/", time.Second)

	salads, err := c.Salads(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, salads, 2)

	caesar := salads[0]
	assert.Equal(t, "1000", caesar.BasePrice.String())
	require.Len(t, caesar.BaseIngredients, 3)
	assert.Equal(t, "Tomate", caesar.BaseIngredients[0].Name)
	assert.Equal(t, "150", caesar.BaseIngredients[0].DiscountPrice.String())
	assert.Equal(t, "Croutons", caesar.BaseIngredients[1].Name)
	assert.Equal(t, placeholderName, caesar.BaseIngredients[2].Name)
	assert.True(t, caesar.BaseIngredients[2].PriceAsExtra.IsZero())

	require.Len(t, caesar.AllowedExtras, 1)
	assert.Equal(t, "Pollo", caesar.AllowedExtras[0].Name)
	assert.Equal(t, "200", caesar.AllowedExtras[0].PriceAsExtra.String())

	pie := salads[1]
	assert.Equal(t, entity.ProductPie, pie.ProductType)
	require.Len(t, pie.AllowedExtras, 1)
	assert.Equal(t, "ing-chicken", pie.AllowedExtras[0].ID)
}

func TestHTTPCatalogFiltersByType(t *testing.T) {
	srv, _ := newCatalogServer(t, saladsBody, ingredientsBody)
	c := NewHTTPCatalog(srv.URL, time.Second)

	pies, err := c.Salads(context.Background(), entity.ProductPie)
	require.NoError(t, err)
	require.Len(t, pies, 1)
	assert.Equal(t, "pie-1", pies[0].ID)
}

func TestHTTPCatalogSaladNotFound(t *testing.T) {
	srv, _ := newCatalogServer(t, saladsBody, ingredientsBody)
	c := NewHTTPCatalog(srv.URL, time.Second)

	got, err := c.Salad(context.Background(), "salad-caesar")
	require.NoError(t, err)
	assert.Equal(t, "Caesar", got.Name)

	_, err = c.Salad(context.Background(), "missing")
	require.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestHTTPCatalogBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	_, err := NewHTTPCatalog(srv.URL, time.Second).Ingredients(context.Background())

	var berr *ports.BackendError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, http.StatusServiceUnavailable, berr.StatusCode)
}

func TestCachedCatalogServesFromCache(t *testing.T) {
	srv, hits := newCatalogServer(t, saladsBody, ingredientsBody)
	mr := miniredis.RunT(t)
	rc := cache.NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "storefront")
	t.Cleanup(func() { _ = rc.Close() })

	c := NewCachedCatalog(NewHTTPCatalog(srv.URL, time.Second), rc, time.Minute)
	ctx := context.Background()

	first, err := c.Salads(ctx, "")
	require.NoError(t, err)
	pies, err := c.Salads(ctx, entity.ProductPie)
	require.NoError(t, err)
	caesar, err := c.Salad(ctx, "salad-caesar")
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	assert.Len(t, first, 2)
	assert.Len(t, pies, 1)
	assert.Equal(t, "1000", caesar.BasePrice.String())
	assert.True(t, mr.Exists("storefront:catalog:salads"))

	mr.FastForward(2 * time.Minute)
	_, err = c.Salads(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestCachedCatalogFallsThroughWhenCacheDown(t *testing.T) {
	srv, hits := newCatalogServer(t, saladsBody, ingredientsBody)
	mr := miniredis.RunT(t)
	rc := cache.NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "storefront")
	t.Cleanup(func() { _ = rc.Close() })
	mr.Close()

	c := NewCachedCatalog(NewHTTPCatalog(srv.URL, time.Second), rc, time.Minute)

	salads, err := c.Salads(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, salads, 2)
	assert.Equal(t, int32(1), hits.Load())
}
