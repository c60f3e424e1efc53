package datago

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

	"github.com/rs/zerolog/log"

	"github.com/02loveslollipop/yakchatja/internal/models"
)

const (
	// DefaultBaseURL is the pharmacy list operation of the national emergency medical information service.
	DefaultBaseURL = "https://apis.data.go.kr/B552657/ErmctInsttInfoInqireService/getParmacyListInfoInqire"

	DefaultNumOfRows = 100
	DefaultCacheTTL  = 5 * time.Minute

	resultCodeOK = "00"
)

// ErrMissingAPIKey is returned when the client has no service key configured.
var ErrMissingAPIKey = errors.New("data.go.kr service key is not configured")

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected upstream status %s", e.Status)
}

// ResultError reports an application-level failure inside a 200 response.
type ResultError struct {
	Code    string
	Message string
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("upstream result %s: %s", e.Code, e.Message)
}

// Query holds the region filters and paging of a pharmacy list request.
type Query struct {
	Sido      string // Q0
	Sigungu   string // Q1
	Name      string // QN
	PageNo    int
	NumOfRows int
}

func (q Query) normalized() Query {
	if q.PageNo <= 0 {
		q.PageNo = 1
	}
	if q.NumOfRows <= 0 {
		q.NumOfRows = DefaultNumOfRows
	}
	q.Sido = strings.TrimSpace(q.Sido)
	q.Sigungu = strings.TrimSpace(q.Sigungu)
	q.Name = strings.TrimSpace(q.Name)
	return q
}

func (q Query) values() url.Values {
	v := url.Values{}
	v.Set("pageNo", strconv.Itoa(q.PageNo))
	v.Set("numOfRows", strconv.Itoa(q.NumOfRows))
	v.Set("_type", "json")
	if q.Sido != "" {
		v.Set("Q0", q.Sido)
	}
	if q.Sigungu != "" {
		v.Set("Q1", q.Sigungu)
	}
	if q.Name != "" {
		v.Set("QN", q.Name)
	}
	return v
}

// Page is one page of upstream results.
type Page struct {
	Items      []models.Pharmacy
	PageNo     int
	NumOfRows  int
	TotalCount int
}

// Cache stores raw upstream payloads.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Client queries the data.go.kr pharmacy list API.
type Client struct {
	BaseURL  string
	APIKey   string
	HTTP     *http.Client
	Cache    Cache
	CacheTTL time.Duration
}

// New creates a client with default base URL and cache TTL.
func New(apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		BaseURL:  DefaultBaseURL,
		APIKey:   apiKey,
		HTTP:     httpClient,
		CacheTTL: DefaultCacheTTL,
	}
}

// FetchPharmacies returns the records of a single page. An empty result is not an error.
func (c *Client) FetchPharmacies(ctx context.Context, q Query) ([]models.Pharmacy, error) {
	page, err := c.FetchPage(ctx, q)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// FetchPage returns one page together with the upstream paging totals.
func (c *Client) FetchPage(ctx context.Context, q Query) (Page, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return Page{}, ErrMissingAPIKey
	}
	q = q.normalized()
	values := q.values()
	cacheKey := "datago:pharmacies:" + values.Encode()

	if c.Cache != nil {
		if cached, err := c.Cache.Get(ctx, cacheKey); err == nil {
			if page, err := decodePage(cached); err == nil {
				log.Debug().Str("key", cacheKey).Msg("upstream cache hit")
				return page, nil
			}
		}
	}

	body, err := c.get(ctx, values)
	if err != nil {
		return Page{}, err
	}

	page, err := decodePage(body)
	if err != nil {
		return Page{}, err
	}

	if c.Cache != nil && c.CacheTTL > 0 {
		if err := c.Cache.Set(ctx, cacheKey, body, c.CacheTTL); err != nil {
			log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache upstream response")
		}
	}

	return page, nil
}

// FetchAll pages through the query until every record is read or maxPages is
// reached (0 means no limit).
func (c *Client) FetchAll(ctx context.Context, q Query, maxPages int) ([]models.Pharmacy, error) {
	q = q.normalized()
	var all []models.Pharmacy
	for pages := 0; maxPages <= 0 || pages < maxPages; pages++ {
		page, err := c.FetchPage(ctx, q)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if len(page.Items) == 0 || len(page.Items) < q.NumOfRows || (page.TotalCount > 0 && len(all) >= page.TotalCount) {
			break
		}
		q.PageNo++
	}
	return all, nil
}

func (c *Client) get(ctx context.Context, values url.Values) ([]byte, error) {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	// the service key is issued URL-encoded; appending it raw avoids encoding it twice
	target := base + "?serviceKey=" + serviceKeyParam(c.APIKey) + "&" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request pharmacy list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read pharmacy list: %w", err)
	}
	return body, nil
}

func serviceKeyParam(key string) string {
	key = strings.TrimSpace(key)
	if strings.Contains(key, "%") {
		return key
	}
	return url.QueryEscape(key)
}

type envelope struct {
	Response struct {
		Header struct {
			ResultCode string `json:"resultCode"`
			ResultMsg  string `json:"resultMsg"`
		} `json:"header"`
		Body *struct {
			Items      json.RawMessage `json:"items"`
			NumOfRows  json.RawMessage `json:"numOfRows"`
			PageNo     json.RawMessage `json:"pageNo"`
			TotalCount json.RawMessage `json:"totalCount"`
		} `json:"body"`
	} `json:"response"`
}

func decodePage(body []byte) (Page, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Page{}, fmt.Errorf("decode pharmacy list: %w", err)
	}

	header := env.Response.Header
	if header.ResultCode != "" && header.ResultCode != resultCodeOK {
		return Page{}, &ResultError{Code: header.ResultCode, Message: header.ResultMsg}
	}

	b := env.Response.Body
	if b == nil {
		return Page{}, nil
	}

	items, err := decodeItems(b.Items)
	if err != nil {
		return Page{}, err
	}

	return Page{
		Items:      items,
		PageNo:     atoiOrZero(b.PageNo),
		NumOfRows:  atoiOrZero(b.NumOfRows),
		TotalCount: atoiOrZero(b.TotalCount),
	}, nil
}

// decodeItems handles the three shapes of body.items: an empty string, an
// object whose item is a single record, and an object whose item is a list.
func decodeItems(raw json.RawMessage) ([]models.Pharmacy, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}

	var wrapper struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	item := bytes.TrimSpace(wrapper.Item)
	switch {
	case len(item) == 0:
		return nil, nil
	case item[0] == '[':
		var list []models.Pharmacy
		if err := json.Unmarshal(item, &list); err != nil {
			return nil, fmt.Errorf("decode item list: %w", err)
		}
		return list, nil
	case item[0] == '{':
		var single models.Pharmacy
		if err := json.Unmarshal(item, &single); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		return []models.Pharmacy{single}, nil
	default:
		return nil, nil
	}
}

// atoiOrZero reads a paging number that may be encoded as a number or a string.
func atoiOrZero(raw json.RawMessage) int {
	v, err := strconv.Atoi(strings.Trim(string(bytes.TrimSpace(raw)), `"`))
	if err != nil {
		return 0
	}
	return v
}
