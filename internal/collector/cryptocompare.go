package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"ChartFeed/internal/model"
)

// ClientOptions configures the CryptoCompare history client.
type ClientOptions struct {
	BaseURL      string
	APIKey       string
	Proxy        string
	Timeout      time.Duration
	RateLimit    float64        // requests per second, 0 = unlimited
	ColumnsCount map[string]int // chart width per period type
}

// Client holds the shared HTTP transport, credentials and rate limiter for all history providers.
type Client struct {
	BaseURL      string
	APIKey       string
	ColumnsCount map[string]int
	HTTP         *http.Client

	limiter *rate.Limiter
}

// NewClient creates a client with optional proxy support.
func NewClient(opts ClientOptions) *Client {
	transport := &http.Transport{}
	if opts.Proxy != "" {
		if u, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	return &Client{
		BaseURL:      opts.BaseURL,
		APIKey:       opts.APIKey,
		ColumnsCount: opts.ColumnsCount,
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// HistoryProvider fetches CryptoCompare histominute/histohour/histoday data for one pair.
type HistoryProvider struct {
	client      *Client
	granularity model.Granularity
	from        model.Currency
	to          model.Currency
	limit       int
}

// NewHistoryProvider builds a provider for the given granularity and lookback.
func NewHistoryProvider(client *Client, g model.Granularity, from, to model.Currency, limit int) *HistoryProvider {
	return &HistoryProvider{client: client, granularity: g, from: from, to: to, limit: limit}
}

func (p *HistoryProvider) Name() string { return "cryptocompare-" + string(p.granularity) }

func (p *HistoryProvider) Granularity() model.Granularity { return p.granularity }

func (p *HistoryProvider) Limit() int { return p.limit }

func (p *HistoryProvider) APIParam(name string) string {
	switch name {
	case "fsym":
		return p.from.Code
	case "tsym":
		return p.to.Code
	case "limit":
		return strconv.Itoa(p.limit)
	}
	return ""
}

func (p *HistoryProvider) ColumnCount(period model.PeriodType, def int) int {
	if n, ok := p.client.ColumnsCount[string(period)]; ok && n > 0 {
		return n
	}
	return def
}

// ccBar is the JSON shape of one CryptoCompare history row.
type ccBar struct {
	Time       int64   `json:"time"`
	Open       float64 `json:"open"`
	High       float64 `json:"high"`
	Low        float64 `json:"low"`
	Close      float64 `json:"close"`
	VolumeFrom float64 `json:"volumefrom"`
	VolumeTo   float64 `json:"volumeto"`
}

type ccEnvelope struct {
	Response string          `json:"Response"`
	Message  string          `json:"Message"`
	Data     json.RawMessage `json:"Data"`
}

type ccHistory struct {
	Data []ccBar `json:"Data"`
}

func (p *HistoryProvider) endpoint() string {
	return fmt.Sprintf("%s/data/v2/histo%s", p.client.BaseURL, p.granularity)
}

// FetchSeries calls the history endpoint and returns samples in ascending time order.
func (p *HistoryProvider) FetchSeries(ctx context.Context) (model.Series, error) {
	if p.client.BaseURL == "" || p.client.APIKey == "" {
		return nil, fmt.Errorf("%w: base_url and api_key are required", ErrAPIConfig)
	}
	endpoint := p.endpoint()

	if err := p.client.limiter.Wait(ctx); err != nil {
		return nil, &APIRequestError{Endpoint: endpoint, Err: err}
	}

	q := url.Values{}
	q.Set("fsym", p.APIParam("fsym"))
	q.Set("tsym", p.APIParam("tsym"))
	q.Set("limit", p.APIParam("limit"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, &APIRequestError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Authorization", "Apikey "+p.client.APIKey)

	resp, err := p.client.HTTP.Do(req)
	if err != nil {
		return nil, &APIRequestError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIRequestError{Endpoint: endpoint, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIRequestError{Endpoint: endpoint, Status: resp.StatusCode, Err: fmt.Errorf("body: %s", string(body))}
	}

	var env ccEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &APIRequestError{Endpoint: endpoint, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	if env.Response == "Error" {
		return nil, &APIRequestError{Endpoint: endpoint, Status: resp.StatusCode, Err: errors.New(env.Message)}
	}
	var hist ccHistory
	if err := json.Unmarshal(env.Data, &hist); err != nil {
		return nil, &APIRequestError{Endpoint: endpoint, Status: resp.StatusCode, Err: fmt.Errorf("decode data: %w", err)}
	}

	series := make(model.Series, 0, len(hist.Data))
	for _, b := range hist.Data {
		if b.Open == 0 && b.High == 0 && b.Low == 0 && b.Close == 0 {
			continue // pair not traded yet at this point
		}
		series = append(series, model.Sample{
			Time:       time.Unix(b.Time, 0).UTC(),
			Open:       b.Open,
			High:       b.High,
			Low:        b.Low,
			Close:      b.Close,
			VolumeFrom: b.VolumeFrom,
			VolumeTo:   b.VolumeTo,
		})
	}
	sort.SliceStable(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })
	return series, nil
}
