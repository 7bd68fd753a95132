package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/utafrali/brand-admin/internal/domain"
	"github.com/utafrali/brand-admin/pkg/httpclient"
)

// CatalogService is the service name used in errors and breaker metrics.
const CatalogService = "catalog"

// CatalogClient creates brands through the catalog service.
type CatalogClient struct {
	doer      httpclient.Doer
	brandsURL string
	token     string
	logger    *slog.Logger
}

// NewCatalogClient creates a catalog service client. An empty token sends
// no Authorization header.
func NewCatalogClient(doer httpclient.Doer, brandsURL, token string, logger *slog.Logger) *CatalogClient {
	return &CatalogClient{
		doer:      doer,
		brandsURL: brandsURL,
		token:     token,
		logger:    logger,
	}
}

// brandResponse accepts both `{"brand":{...}}` and the `{"data":{...}}` envelope.
type brandResponse struct {
	Brand *domain.Brand `json:"brand"`
	Data  *domain.Brand `json:"data"`
}

// CreateBrand posts payload and returns the created brand. Any failure is a
// *domain.Failure of kind create carrying the catalog's status and message.
func (c *CatalogClient) CreateBrand(ctx context.Context, payload domain.CreatePayload) (*domain.Brand, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, failureFrom(domain.FailureCreate, fmt.Errorf("marshal create payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.brandsURL, bytes.NewReader(body))
	if err != nil {
		return nil, failureFrom(domain.FailureCreate, fmt.Errorf("create brand request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, failureFrom(domain.FailureCreate, err)
	}
	if err := checkResponse(domain.FailureCreate, resp, CatalogService); err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out brandResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, protocolFailure(domain.FailureCreate, "decode brand response: %w", err)
	}
	brand := out.Brand
	if brand == nil {
		brand = out.Data
	}
	if brand == nil || brand.ID == "" {
		return nil, protocolFailure(domain.FailureCreate, "brand response has no id")
	}

	c.logger.InfoContext(ctx, "brand created in catalog",
		slog.String("brand_id", brand.ID),
		slog.String("handle", payload.Handle),
	)
	return brand, nil
}
