// Package catalog talks to the remote product catalog: search, per-store
// prices, store listings and crowd-sourced product submissions.
package catalog

import (
	"bytes"
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
)

const DefaultTimeout = 10 * time.Second

var (
	ErrUnavailable = errors.New("catalog unavailable")
	ErrNotFound    = errors.New("catalog resource not found")
)

// APIError is returned for any non-2xx response. Message comes from the
// response body when the service supplied one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Search(ctx context.Context, query string, f Filters) ([]Product, error) {
	q := url.Values{}
	if strings.TrimSpace(query) != "" {
		q.Set("q", query)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Tag != "" {
		q.Set("tag", f.Tag)
	}
	if f.StoreID != "" {
		q.Set("store_id", f.StoreID)
	}
	setLimit(q, f.Limit)

	var out []Product
	err := c.do(ctx, http.MethodGet, "/products", q, nil, &out)
	return out, err
}

func (c *Client) BrowseByCategory(ctx context.Context, category string, limit int) ([]Product, error) {
	return c.Search(ctx, "", Filters{Category: category, Limit: limit})
}

func (c *Client) BrowseByTag(ctx context.Context, tag string, limit int) ([]Product, error) {
	return c.Search(ctx, "", Filters{Tag: tag, Limit: limit})
}

func (c *Client) AllProducts(ctx context.Context, limit int) ([]Product, error) {
	return c.Search(ctx, "", Filters{Limit: limit})
}

func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), nil, nil, &p)
	return p, err
}

func (c *Client) ProductPrices(ctx context.Context, id string) ([]LocationPrice, error) {
	var out []LocationPrice
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id)+"/prices", nil, nil, &out)
	return out, err
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &out)
	return out, err
}

func (c *Client) Stores(ctx context.Context) ([]Store, error) {
	var out []Store
	err := c.do(ctx, http.MethodGet, "/product-stores", nil, nil, &out)
	return out, err
}

func (c *Client) AddProduct(ctx context.Context, payload AddProductPayload) (AddProductResponse, error) {
	var out AddProductResponse
	err := c.do(ctx, http.MethodPost, "/products", nil, payload, &out)
	return out, err
}

func setLimit(q url.Values, limit int) {
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	u := c.BaseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &body)

	msg := strings.TrimSpace(body.Message)
	if msg == "" {
		msg = fmt.Sprintf("request failed: %d", resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
