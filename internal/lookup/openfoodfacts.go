// Package lookup queries the Open Food Facts public product database by
// barcode. The service is an untrusted, best-effort oracle: lookups are
// bounded by a short timeout and any failure is reported as "not found"
// rather than an error.
package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const defaultBaseURL = "https://world.openfoodfacts.org"

// Result carries the metadata known for a barcode, if any.
type Result struct {
	Found bool   `json:"found"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

type Client interface {
	Lookup(ctx context.Context, barcode string) (*Result, error)
}

type openFoodFactsClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewOpenFoodFactsClient builds a client with a bounded request timeout.
// OPENFOODFACTS_BASE_URL overrides the endpoint (used by tests).
func NewOpenFoodFactsClient() Client {
	baseURL := os.Getenv("OPENFOODFACTS_BASE_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &openFoodFactsClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type productPayload struct {
	Status  int `json:"status"` // 1 = found
	Product struct {
		ProductNameAr string `json:"product_name_ar"`
		ProductName   string `json:"product_name"`
		ImageURL      string `json:"image_url"`
	} `json:"product"`
}

// Lookup fetches barcode metadata. One retry on transport errors only; the
// call never mutates state so a duplicate request is harmless.
func (c *openFoodFactsClient) Lookup(ctx context.Context, barcode string) (*Result, error) {
	payload, err := c.fetch(ctx, barcode)
	if err != nil {
		payload, err = c.fetch(ctx, barcode)
	}
	if err != nil {
		// Unreachable oracle means "not found", not a caller-visible failure.
		return &Result{Found: false}, nil
	}

	if payload.Status != 1 {
		return &Result{Found: false}, nil
	}

	name := payload.Product.ProductNameAr
	if name == "" {
		name = payload.Product.ProductName
	}

	return &Result{
		Found: true,
		Name:  name,
		Image: payload.Product.ImageURL,
	}, nil
}

func (c *openFoodFactsClient) fetch(ctx context.Context, barcode string) (*productPayload, error) {
	url := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, barcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openfoodfacts: unexpected status %d", resp.StatusCode)
	}

	var payload productPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
