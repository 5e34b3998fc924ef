package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mizan/internal/config"
)

// searchFields limits the search response to what ToProduct reads.
const searchFields = "code,product_name,brands,categories,nutriments,serving_size,ingredients_text,image_url,quantity"

// Client talks to the Open Food Facts search endpoint.
type Client struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

type searchPayload struct {
	Products []map[string]any `json:"products"`
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.OFFTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.OFFRateLimitRPS),
	}
}

// Search returns one page of products matching query. Products are left as
// decoded JSON objects; see ToProduct.
func (c *Client) Search(ctx context.Context, query string, page int) ([]map[string]any, error) {
	params := map[string]string{
		"search_terms":      query,
		"search_simple":     "1",
		"action":            "process",
		"json":              "1",
		"page":              strconv.Itoa(page),
		"page_size":         strconv.Itoa(c.cfg.OFFPageSize),
		"countries_tags_en": c.cfg.OFFCountry,
		"fields":            searchFields,
	}

	body, err := c.fetchJSON(ctx, "cgi/search.pl", params)
	if err != nil {
		return nil, err
	}

	var payload searchPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return payload.Products, nil
}

func (c *Client) fetchJSON(ctx context.Context, endpoint string, params map[string]string) ([]byte, error) {
	baseURL := strings.TrimRight(c.cfg.OFFAPIBaseURL, "/") + "/"
	u, err := url.Parse(baseURL + endpoint)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.OFFUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("off api error: status=%d body=%s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
