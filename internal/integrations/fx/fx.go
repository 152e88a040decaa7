package fx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/aurora/internal/config"
	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// FeedBase is the currency every rate in the feed is quoted against.
const FeedBase = "EUR"

// cacheTTL bounds how long a fetched rate table is reused.
const cacheTTL = time.Hour

// Rates is one day of reference rates, expressed as units of currency per
// one unit of Base.
type Rates struct {
	Base  string                     `json:"base"`
	Date  time.Time                  `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Convert turns amount in from into the equivalent amount in to.
func (r *Rates) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return amount, nil
	}
	fromRate, err := r.rate(from)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := r.rate(to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(toRate).Div(fromRate), nil
}

func (r *Rates) rate(code string) (decimal.Decimal, error) {
	if code == r.Base {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := r.Rates[code]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("no exchange rate for %s", code)
	}
	return rate, nil
}

// Client fetches the daily reference-rate XML feed.
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger

	mu        sync.Mutex
	cached    *Rates
	fetchedAt time.Time
}

// NewClient initializes a new feed client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.FXURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Enabled reports whether a feed URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.url != ""
}

// Rates returns the latest rate table, reusing a recent fetch when possible.
func (c *Client) Rates(ctx context.Context) (*Rates, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("exchange rate feed is not configured")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached != nil && time.Since(c.fetchedAt) < cacheTTL {
		return c.cached, nil
	}

	body, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}
	rates, err := parseRates(body)
	if err != nil {
		return nil, err
	}

	c.cached = rates
	c.fetchedAt = time.Now()
	c.log.Infof("Retrieved %d exchange rates for %s", len(rates.Rates), rates.Date.Format("2006-01-02"))
	return rates, nil
}

// fetch downloads the raw feed document
func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("FX XML response: %s", string(body))
	return body, nil
}

// parseRates extracts the rate table from a Cube-style document:
//
//	<Cube><Cube time="2026-10-16"><Cube currency="USD" rate="1.08"/>...</Cube></Cube>
func parseRates(rawBody []byte) (*Rates, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}

	day := doc.FindElement("//Cube[@time]")
	if day == nil {
		return nil, fmt.Errorf("no rate date found in XML")
	}
	date, err := time.Parse("2006-01-02", day.SelectAttrValue("time", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate date: %w", err)
	}

	rates := &Rates{Base: FeedBase, Date: date, Rates: map[string]decimal.Decimal{}}
	for _, el := range day.FindElements("./Cube[@currency]") {
		code := strings.ToUpper(el.SelectAttrValue("currency", ""))
		rate, err := decimal.NewFromString(el.SelectAttrValue("rate", ""))
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate for %s: %w", code, err)
		}
		rates.Rates[code] = rate
	}
	if len(rates.Rates) == 0 {
		return nil, fmt.Errorf("no exchange rate data found in XML")
	}
	return rates, nil
}
