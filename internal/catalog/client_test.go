package catalog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mizan/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testConfig() config.Config {
	return config.Config{
		OFFAPIBaseURL:   "https://off.example.test",
		OFFUserAgent:    "Mizan/1.0 (https://mizan.live)",
		OFFRateLimitRPS: 1000,
		OFFTimeoutMs:    1000,
		OFFPageSize:     30,
		OFFCountry:      "india",
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestSearchSendsQuery(t *testing.T) {
	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			assert.Equal(t, "/cgi/search.pl", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "Parle", q.Get("search_terms"))
			assert.Equal(t, "1", q.Get("search_simple"))
			assert.Equal(t, "process", q.Get("action"))
			assert.Equal(t, "1", q.Get("json"))
			assert.Equal(t, "2", q.Get("page"))
			assert.Equal(t, "30", q.Get("page_size"))
			assert.Equal(t, "india", q.Get("countries_tags_en"))
			assert.Equal(t, searchFields, q.Get("fields"))
			assert.Equal(t, "Mizan/1.0 (https://mizan.live)", r.Header.Get("User-Agent"))

			blob, _ := json.Marshal(map[string]any{
				"count":    1,
				"products": []map[string]any{{"code": "1", "product_name": "Parle-G"}},
			})
			return jsonResponse(http.StatusOK, string(blob)), nil
		}),
	}

	products, err := client.Search(context.Background(), "Parle", 2)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Parle-G", products[0]["product_name"])
}

func TestSearchReportsHTTPError(t *testing.T) {
	attempts := 0
	client := NewClient(testConfig())
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			attempts++
			return jsonResponse(http.StatusServiceUnavailable, `{"error":"busy"}`), nil
		}),
	}

	_, err := client.Search(context.Background(), "Amul", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=503")
	assert.Equal(t, 1, attempts)
}

func TestRateLimiterHonoursContext(t *testing.T) {
	limiter := NewRateLimiter(1)
	require.NoError(t, limiter.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, limiter.Wait(ctx), context.Canceled)
}
