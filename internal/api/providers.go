package api

import (
	"context"
	"fmt"
	"net/url"

	"fixnear/internal/models"
)

// SearchProviders lists providers, optionally narrowed by service and
// location. Empty filters list everything. The unfiltered listing goes
// through the Redis cache when one is configured.
func (c *Client) SearchProviders(ctx context.Context, service, location string) ([]models.Provider, error) {
	params := url.Values{}
	if service != "" {
		params.Set("service", service)
	}
	if location != "" {
		params.Set("location", location)
	}

	endpoint := "/providers"
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var providers []models.Provider
	cacheKey := "providers:all"
	cacheable := service == "" && location == ""

	if cacheable && c.readCache(ctx, cacheKey, &providers) {
		return providers, nil
	}

	if err := c.doGet(ctx, endpoint, "providers_search", &providers); err != nil {
		return nil, err
	}
	if cacheable {
		c.writeCache(ctx, cacheKey, providers)
	}
	return providers, nil
}

// ProviderByUser resolves the provider profile linked to a user account.
// A missing profile (404 or empty document) returns (nil, nil).
func (c *Client) ProviderByUser(ctx context.Context, userID string) (*models.Provider, error) {
	var provider models.Provider
	endpoint := fmt.Sprintf("/providers/user/%s", url.PathEscape(userID))
	if err := c.doGet(ctx, endpoint, "provider_by_user", &provider); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if provider.ID == "" {
		return nil, nil
	}
	return &provider, nil
}

// CreateProvider registers a provider profile linked via UserID.
func (c *Client) CreateProvider(ctx context.Context, provider *models.Provider) (*models.Provider, error) {
	var created models.Provider
	if err := c.doJSON(ctx, "POST", "/providers", "provider_create", provider, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
