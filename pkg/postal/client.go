package postal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-contractform/pkg/session"
)

// Lookup kinds, matching the servlet's finda parameter.
const (
	KindCity    = "city"
	KindStreets = "streets"
)

const maxResponseBytes = 4 << 20

// Row is a single entry of a lookup response. The servlet sends more columns;
// only the ones the widgets read are decoded.
type Row struct {
	City   string `json:"city"`
	Street string `json:"street"`
}

// Response is the servlet's JSON envelope.
type Response struct {
	Success bool  `json:"success"`
	Count   int   `json:"count"`
	Rows    []Row `json:"rows"`
}

// Client queries the lookup servlet and caches non-empty answers per request
// URL.
type Client struct {
	baseURL    *url.URL
	locale     string
	userAgent  string
	httpClient *http.Client
	store      session.Store
	logger     Logger
	metrics    *Metrics
	schema     *openapi3.Schema
}

// New constructs a client applying the provided options.
func New(options ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	cfg.applyDefaults()

	base, err := url.Parse(cfg.baseURL)
	if err != nil {
		return nil, fmt.Errorf("postal: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("postal: base url %q must be absolute", cfg.baseURL)
	}

	client := &Client{
		baseURL:    base,
		locale:     cfg.locale,
		userAgent:  cfg.userAgent,
		httpClient: cfg.httpClient,
		store:      cfg.store,
		logger:     cfg.logger,
		metrics:    cfg.metrics,
	}
	if cfg.validateSchema {
		schema, err := ResponseSchema()
		if err != nil {
			return nil, err
		}
		client.schema = schema
	}
	return client, nil
}

// Cities returns the unique cities for zipCode in first-seen order. Callers
// are expected to pass a five digit code.
func (c *Client) Cities(ctx context.Context, zipCode string) ([]string, error) {
	return c.cachedQuery(ctx, KindCity, c.CitiesURL(zipCode), func(row Row) string { return row.City })
}

// Streets returns the unique street names for zipCode and city in first-seen
// order.
func (c *Client) Streets(ctx context.Context, zipCode, city string) ([]string, error) {
	return c.cachedQuery(ctx, KindStreets, c.StreetsURL(zipCode, city), func(row Row) string { return row.Street })
}

// Dispose clears the whole session store, including entries written by other
// clients sharing it.
func (c *Client) Dispose() error {
	if err := c.store.Clear(); err != nil {
		return fmt.Errorf("postal: dispose: %w", err)
	}
	return nil
}

// CitiesURL builds the city lookup URL. Equal inputs always produce the same
// URL.
func (c *Client) CitiesURL(zipCode string) string {
	return c.requestURL(
		"finda", KindCity,
		"city", zipCode,
		"lang", c.locale,
	)
}

// StreetsURL builds the street lookup URL.
func (c *Client) StreetsURL(zipCode, city string) string {
	return c.requestURL(
		"finda", KindStreets,
		"plz_plz", zipCode,
		"plz_city", city,
		"lang", c.locale,
	)
}

// requestURL keeps parameters in the given order; url.Values.Encode would
// sort them.
func (c *Client) requestURL(pairs ...string) string {
	var query bytes.Buffer
	for i := 0; i+1 < len(pairs); i += 2 {
		if query.Len() > 0 {
			query.WriteByte('&')
		}
		query.WriteString(url.QueryEscape(pairs[i]))
		query.WriteByte('=')
		query.WriteString(url.QueryEscape(pairs[i+1]))
	}
	u := *c.baseURL
	u.RawQuery = query.String()
	u.Fragment = ""
	return u.String()
}

func (c *Client) cachedQuery(ctx context.Context, kind, requestURL string, pick func(Row) string) ([]string, error) {
	if cached, ok := c.cached(requestURL); ok {
		c.metrics.observeCacheHit(kind)
		return cached, nil
	}

	started := time.Now()
	resp, err := c.query(ctx, requestURL)
	if err != nil {
		c.metrics.observeRequest(kind, ResultError, time.Since(started))
		c.logger.Printf("%v", err)
		return nil, err
	}

	if !resp.Success || resp.Count <= 0 {
		c.metrics.observeRequest(kind, ResultEmpty, time.Since(started))
		return []string{}, nil
	}

	values := unique(resp.Rows, pick)
	c.metrics.observeRequest(kind, ResultOK, time.Since(started))
	c.cache(requestURL, values)
	return values, nil
}

func (c *Client) query(ctx context.Context, requestURL string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return Response{}, &LookupError{URL: requestURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, &LookupError{URL: requestURL, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxResponseBytes))
		return Response{}, &LookupError{
			URL:        requestURL,
			StatusCode: res.StatusCode,
			Status:     statusReason(res),
		}
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return Response{}, &LookupError{URL: requestURL, Err: fmt.Errorf("read body: %w", err)}
	}

	if c.schema != nil {
		var generic any
		if err := json.Unmarshal(body, &generic); err != nil {
			return Response{}, &LookupError{URL: requestURL, Err: fmt.Errorf("decode body: %w", err)}
		}
		if err := validatePayload(c.schema, generic); err != nil {
			return Response{}, &LookupError{URL: requestURL, Err: err}
		}
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return Response{}, &LookupError{URL: requestURL, Err: fmt.Errorf("decode body: %w", err)}
	}
	return out, nil
}

func (c *Client) cached(key string) ([]string, bool) {
	raw, ok, err := c.store.Get(key)
	if err != nil {
		c.logger.Printf("postal: read cache %s: %v", key, err)
		return nil, false
	}
	if !ok || raw == "" {
		return nil, false
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		c.logger.Printf("postal: decode cache %s: %v", key, err)
		return nil, false
	}
	if values == nil {
		values = []string{}
	}
	return values, true
}

func (c *Client) cache(key string, values []string) {
	payload, err := json.Marshal(values)
	if err != nil {
		c.logger.Printf("postal: encode cache %s: %v", key, err)
		return
	}
	if err := c.store.Set(key, string(payload)); err != nil {
		c.logger.Printf("postal: write cache %s: %v", key, err)
	}
}

// unique keeps the first occurrence of every non-empty value.
func unique(rows []Row, pick func(Row) string) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		value := pick(row)
		if value == "" {
			continue
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}

func statusReason(res *http.Response) string {
	reason := res.Status
	prefix := fmt.Sprintf("%d ", res.StatusCode)
	if len(reason) > len(prefix) && reason[:len(prefix)] == prefix {
		return reason[len(prefix):]
	}
	if reason == "" {
		return http.StatusText(res.StatusCode)
	}
	return reason
}
