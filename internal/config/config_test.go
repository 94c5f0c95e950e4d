package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, time.Minute, cfg.Catalog.TTL)
	assert.Equal(t, OrdersHTTP, cfg.Orders.Backend)
	assert.Equal(t, StorageRedis, cfg.Cart.Storage)
	assert.Equal(t, 10000, cfg.Cart.Sessions)
	assert.Equal(t, "ALIASPRUEBA", cfg.Checkout.Transfer.Alias)
	assert.False(t, cfg.Telemetry.Enabled)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	yamlBody := `
http:
  addr: ":9999"
cart:
  storage: mongo
orders:
  backend: fake
checkout:
  transfer:
    alias: SHOP.ALIAS
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))

	t.Setenv("STOREFRONT_HTTP_ADDR", ":7000")
	t.Setenv("STOREFRONT_CATALOG_TTL", "30s")
	t.Setenv("STOREFRONT_TELEMETRY_ENABLED", "true")
	t.Setenv("STOREFRONT_CHECKOUT_TRANSFER_WHATSAPP", "3871111111")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.HTTP.Addr)
	assert.Equal(t, StorageMongo, cfg.Cart.Storage)
	assert.Equal(t, OrdersFake, cfg.Orders.Backend)
	assert.Equal(t, 30*time.Second, cfg.Catalog.TTL)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "SHOP.ALIAS", cfg.Checkout.Transfer.Alias)
	assert.Equal(t, "3871111111", cfg.Checkout.Transfer.WhatsApp)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknownStorage", env: map[string]string{"STOREFRONT_CART_STORAGE": "disk"}},
		{name: "unknownBackend", env: map[string]string{"STOREFRONT_ORDERS_BACKEND": "grpc"}},
		{name: "badDuration", env: map[string]string{"STOREFRONT_CATALOG_TTL": "soon"}},
		{name: "noSessions", env: map[string]string{"STOREFRONT_CART_SESSIONS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidateRequiresOrdersURL(t *testing.T) {
	cfg := &Config{}
	cfg.Orders.Backend = OrdersHTTP
	cfg.Cart.Storage = StorageMemory
	cfg.Cart.Sessions = 100
	cfg.Catalog.URL = "http://catalog"
	assert.Error(t, cfg.Validate())

	cfg.Orders.Backend = OrdersFake
	assert.NoError(t, cfg.Validate())
}
