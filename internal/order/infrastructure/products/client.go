package products

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/microshop/microshop/internal/order/application"
	"github.com/microshop/microshop/internal/order/domain"
)

// Client is the typed HTTP facade over the products service. It does not
// retry: transient failures surface to the orchestrator, which classifies
// them as availability failures.
type Client struct {
	log  *slog.Logger
	base string
	http *http.Client
}

func NewClient(log *slog.Logger, baseURL string) *Client {
	return &Client{
		log:  log,
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type productPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price"`
	Stock       int    `json:"stock"`
}

// Fetch reads the current inventory snapshot for one product.
func (c *Client) Fetch(ctx context.Context, productID string) (domain.InventoryRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.productURL(productID), nil)
	if err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("fetch product %s: %w", productID, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("fetch product %s: %w", productID, err)
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.InventoryRecord{}, fmt.Errorf("product %s: %w", productID, application.ErrProductNotFound)
	case resp.StatusCode != http.StatusOK:
		return domain.InventoryRecord{}, fmt.Errorf("fetch product %s: unexpected status %d", productID, resp.StatusCode)
	}

	var p productPayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return domain.InventoryRecord{}, fmt.Errorf("decode product %s: %w", productID, err)
	}
	return domain.InventoryRecord{
		ProductID:  productID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Stock:      p.Stock,
	}, nil
}

// UpdateStock overwrites the product's stock value. The body touches only
// the stock field; the products service leaves absent fields unchanged.
// This is not a compare-and-swap: a concurrent writer's value can be lost.
func (c *Client) UpdateStock(ctx context.Context, productID string, newStock int) error {
	body, err := json.Marshal(map[string]int{"stock": newStock})
	if err != nil {
		return fmt.Errorf("update stock for %s: %w", productID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.productURL(productID), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("update stock for %s: %w", productID, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("update stock for %s: %w", productID, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("update stock for %s: unexpected status %d", productID, resp.StatusCode)
	}
	return nil
}

func (c *Client) productURL(productID string) string {
	return c.base + "/api/products/" + url.PathEscape(productID)
}

// drainAndClose keeps the underlying connection reusable.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 1<<16))
	_ = body.Close()
}
