// Package catalogapi talks to the external product catalog over HTTP.
package catalogapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jcmexdev/storefront/internal/storefront/core/domain/entity"
	"github.com/jcmexdev/storefront/internal/storefront/core/ports"
)

// maxBodySize bounds how much of a catalog response is read.
const maxBodySize = 10 << 20

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

var _ ports.CatalogSource = (*Client)(nil)

type productList struct {
	Products []entity.RawProduct `json:"products"`
}

func (c *Client) List(ctx context.Context, limit, skip int) ([]entity.RawProduct, error) {
	var out productList
	if err := c.get(ctx, c.baseURL, paging(nil, limit, skip), &out); err != nil {
		return nil, err
	}
	return nonNil(out.Products), nil
}

func (c *Client) ListByCategory(ctx context.Context, category string, limit, skip int) ([]entity.RawProduct, error) {
	var out productList
	endpoint := c.baseURL + "/category/" + url.PathEscape(category)
	if err := c.get(ctx, endpoint, paging(nil, limit, skip), &out); err != nil {
		return nil, err
	}
	return nonNil(out.Products), nil
}

func (c *Client) Get(ctx context.Context, id string) (*entity.RawProduct, error) {
	var out entity.RawProduct
	if err := c.get(ctx, c.baseURL+"/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		return nil, fmt.Errorf("%w: catalog returned an empty product for %s", entity.ErrUpstreamUnavailable, id)
	}
	return &out, nil
}

func (c *Client) Search(ctx context.Context, query string, limit, skip int) ([]entity.RawProduct, error) {
	var out productList
	q := url.Values{"q": {query}}
	if err := c.get(ctx, c.baseURL+"/search", paging(q, limit, skip), &out); err != nil {
		return nil, err
	}
	return nonNil(out.Products), nil
}

// Categories accepts both a bare array of slugs and an array of
// {slug,name,url} objects.
func (c *Client) Categories(ctx context.Context) ([]entity.Category, error) {
	var raw []json.RawMessage
	if err := c.get(ctx, c.baseURL+"/categories", nil, &raw); err != nil {
		return nil, err
	}

	categories := make([]entity.Category, 0, len(raw))
	for _, item := range raw {
		var slug string
		if err := json.Unmarshal(item, &slug); err == nil {
			categories = append(categories, entity.Category{Slug: slug, Name: slug})
			continue
		}
		var cat entity.Category
		if err := json.Unmarshal(item, &cat); err != nil {
			return nil, fmt.Errorf("%w: decode category: %v", entity.ErrUpstreamUnavailable, err)
		}
		categories = append(categories, cat)
	}
	return categories, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out any) error {
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("catalogapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: catalog request failed: %v", entity.ErrUpstreamUnavailable, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: read catalog response: %v", entity.ErrUpstreamUnavailable, err)
	}

	switch {
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: catalog has no resource at %s", entity.ErrNotFound, req.URL.Path)
	case res.StatusCode < 200 || res.StatusCode > 299:
		return fmt.Errorf("%w: catalog responded %d", entity.ErrUpstreamUnavailable, res.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return fmt.Errorf("%w: malformed catalog response at offset %d", entity.ErrUpstreamUnavailable, syntaxErr.Offset)
		}
		return fmt.Errorf("%w: decode catalog response: %v", entity.ErrUpstreamUnavailable, err)
	}
	return nil
}

func paging(q url.Values, limit, skip int) url.Values {
	if q == nil {
		q = url.Values{}
	}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("skip", strconv.Itoa(skip))
	return q
}

func nonNil(products []entity.RawProduct) []entity.RawProduct {
	if products == nil {
		return []entity.RawProduct{}
	}
	return products
}
