// Package catalog reads products and ingredients from the catalog backend.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/salad-storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/salad-storefront/internal/storefront/core/ports"
)

var _ ports.CatalogSource = (*HTTPCatalog)(nil)

// maxBodySize caps how much of a catalog response is read.
const maxBodySize = 4 << 20

// HTTPCatalog fetches the catalog over HTTP on every call. Wrap it in a
// CachedCatalog to avoid a round trip per request.
type HTTPCatalog struct {
	baseURL string
	client  *http.Client
}

func NewHTTPCatalog(baseURL string, timeout time.Duration) *HTTPCatalog {
	return &HTTPCatalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// Salads returns every product, or only those of productType when it is
// not empty.
func (c *HTTPCatalog) Salads(ctx context.Context, productType entity.ProductType) ([]entity.Salad, error) {
	ingredients, err := c.Ingredients(ctx)
	if err != nil {
		return nil, err
	}
	active := make(map[string]entity.Ingredient, len(ingredients))
	for _, ing := range ingredients {
		active[ing.ID] = ing
	}

	items, err := c.fetchList(ctx, "/salads", "salads")
	if err != nil {
		return nil, err
	}

	salads := make([]entity.Salad, 0, len(items))
	for _, raw := range items {
		var doc saladDoc
		if err := json.Unmarshal(raw, &doc); err != nil {
			slog.WarnContext(ctx, "skipping malformed catalog product", "error", err)
			continue
		}
		if productType != "" && doc.Type != productType {
			continue
		}
		salads = append(salads, doc.toSalad(active))
	}
	return salads, nil
}

func (c *HTTPCatalog) Salad(ctx context.Context, id string) (*entity.Salad, error) {
	salads, err := c.Salads(ctx, "")
	if err != nil {
		return nil, err
	}
	return findSalad(salads, id)
}

// Ingredients returns the active ingredients.
func (c *HTTPCatalog) Ingredients(ctx context.Context) ([]entity.Ingredient, error) {
	items, err := c.fetchList(ctx, "/ingredients/active", "ingredients")
	if err != nil {
		return nil, err
	}

	ingredients := make([]entity.Ingredient, 0, len(items))
	for _, raw := range items {
		var ing entity.Ingredient
		if err := json.Unmarshal(raw, &ing); err != nil {
			slog.WarnContext(ctx, "skipping malformed catalog ingredient", "error", err)
			continue
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}

func (c *HTTPCatalog) fetchList(ctx context.Context, path, key string) ([]json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("catalog read %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ports.BackendError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("catalog %s unavailable", path)}
	}

	list, err := decodeList(body, key)
	if err != nil {
		return nil, fmt.Errorf("catalog decode %s: %w", path, err)
	}
	return list, nil
}

func findSalad(salads []entity.Salad, id string) (*entity.Salad, error) {
	for i := range salads {
		if salads[i].ID == id {
			s := salads[i]
			return &s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ports.ErrProductNotFound, id)
}
