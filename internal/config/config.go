// Package config loads the storefront configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// STOREFRONT_* environment variables. STOREFRONT_CART_STORAGE sets
// cart.storage.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "STOREFRONT_"

const (
	OrdersHTTP = "http"
	OrdersFake = "fake"

	StorageRedis  = "redis"
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	HTTP struct {
		Addr            string        `koanf:"addr"`
		ShutdownTimeout time.Duration `koanf:"shutdown"`
	} `koanf:"http"`

	GRPC struct {
		Addr string `koanf:"addr"`
	} `koanf:"grpc"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`

	Catalog struct {
		URL     string        `koanf:"url"`
		TTL     time.Duration `koanf:"ttl"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"catalog"`

	Orders struct {
		URL     string        `koanf:"url"`
		Backend string        `koanf:"backend"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"orders"`

	Cart struct {
		Storage  string        `koanf:"storage"`
		TTL      time.Duration `koanf:"ttl"`
		Sessions int           `koanf:"sessions"`
	} `koanf:"cart"`

	Redis struct {
		Addr string `koanf:"addr"`
	} `koanf:"redis"`

	Mongo struct {
		URL string `koanf:"url"`
		DB  string `koanf:"db"`
	} `koanf:"mongo"`

	NATS struct {
		URL string `koanf:"url"`
	} `koanf:"nats"`

	OrderLog struct {
		Path string `koanf:"path"`
	} `koanf:"orderlog"`

	Telemetry struct {
		Enabled     bool    `koanf:"enabled"`
		Service     string  `koanf:"service"`
		Endpoint    string  `koanf:"endpoint"`
		Environment string  `koanf:"environment"`
		Sampling    float64 `koanf:"sampling"`
	} `koanf:"telemetry"`

	Checkout struct {
		Transfer struct {
			Alias    string `koanf:"alias"`
			WhatsApp string `koanf:"whatsapp"`
		} `koanf:"transfer"`
	} `koanf:"checkout"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"http.addr":                  ":8080",
		"http.shutdown":              "10s",
		"grpc.addr":                  ":9090",
		"log.level":                  "info",
		"catalog.url":                "http://localhost:3000/api",
		"catalog.ttl":                "1m",
		"catalog.timeout":            "5s",
		"orders.url":                 "http://localhost:3000/api",
		"orders.backend":             OrdersHTTP,
		"orders.timeout":             "10s",
		"cart.storage":               StorageRedis,
		"cart.ttl":                   "168h",
		"cart.sessions":              10000,
		"redis.addr":                 "localhost:6379",
		"mongo.url":                  "mongodb://localhost:27017",
		"mongo.db":                   "salad_storefront",
		"nats.url":                   "",
		"orderlog.path":              "storefront.db",
		"telemetry.enabled":          false,
		"telemetry.service":          "salad-storefront",
		"telemetry.endpoint":         "localhost:4317",
		"telemetry.environment":      "local",
		"telemetry.sampling":         1.0,
		"checkout.transfer.alias":    "ALIASPRUEBA",
		"checkout.transfer.whatsapp": "3872572264",
	}
}

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	envKey := func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Orders.Backend {
	case OrdersHTTP:
		if c.Orders.URL == "" {
			return fmt.Errorf("config: orders.url is required with the http backend")
		}
	case OrdersFake:
	default:
		return fmt.Errorf("config: unknown orders.backend %q", c.Orders.Backend)
	}

	switch c.Cart.Storage {
	case StorageRedis, StorageMongo, StorageMemory:
	default:
		return fmt.Errorf("config: unknown cart.storage %q", c.Cart.Storage)
	}

	if c.Cart.Sessions <= 0 {
		return fmt.Errorf("config: cart.sessions must be positive")
	}

	if c.Catalog.URL == "" {
		return fmt.Errorf("config: catalog.url is required")
	}
	return nil
}
