// Package mpesa is a small client for the Safaricom Daraja API: OAuth access tokens,
// Lipa Na M-Pesa Online (STK push) requests and STK callbacks.
package mpesa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	tokenPath   = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"

	defaultTokenTTL = 3600 * time.Second
	tokenLeeway     = 60 * time.Second
)

// Config holds the Daraja credentials and the fixed STK push fields.
type Config struct {
	BaseURL          string
	ConsumerKey      string
	ConsumerSecret   string
	ShortCode        string
	PassKey          string
	CallbackURL      string
	AccountReference string
	TransactionDesc  string
	Timeout          time.Duration
	CacheToken       bool
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	tokens     *cache.Cache
	log        *zap.Logger
	now        func() time.Time
}

type Option func(*Client)

// WithClock overrides time.Now, used for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func NewClient(cfg Config, log *zap.Logger, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.AccountReference == "" {
		cfg.AccountReference = DefaultAccountReference
	}
	if cfg.TransactionDesc == "" {
		cfg.TransactionDesc = DefaultTransactionDesc
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	c := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log.With(zap.String("client", "mpesa")),
		now:        time.Now,
	}
	if cfg.CacheToken {
		c.tokens = cache.New(defaultTokenTTL, 10*time.Minute)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	// Daraja mengirim string, terima juga angka
	ExpiresIn json.Number `json:"expires_in"`
}

// BasicAuth returns the value of the Authorization header for the token endpoint.
func BasicAuth(key, secret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(key+":"+secret))
}

// AccessToken fetches a bearer token. When caching is enabled a token is reused
// until shortly before the expiry reported by the gateway.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	if c.cfg.ConsumerKey == "" || c.cfg.ConsumerSecret == "" {
		return "", fmt.Errorf("mpesa consumer key and secret are required")
	}

	cacheKey := c.cfg.ConsumerKey + ":" + c.cfg.ConsumerSecret
	if c.tokens != nil {
		if token, ok := c.tokens.Get(cacheKey); ok {
			return token.(string), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+tokenPath, nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Authorization", BasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret))

	body, err := c.do(req)
	if err != nil {
		c.log.Error("Failed to get access token", zap.Error(err))
		return "", fmt.Errorf("get access token: %w", err)
	}

	var res tokenResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if res.AccessToken == "" {
		return "", fmt.Errorf("token response has no access_token")
	}

	if c.tokens != nil {
		c.tokens.Set(cacheKey, res.AccessToken, tokenTTL(res.ExpiresIn))
	}

	return res.AccessToken, nil
}

func tokenTTL(expiresIn json.Number) time.Duration {
	ttl := defaultTokenTTL
	if secs, err := strconv.Atoi(strings.TrimSpace(expiresIn.String())); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}
	if ttl > tokenLeeway {
		ttl -= tokenLeeway
	}
	return ttl
}

// do sends req and returns the body of a 2xx response. Any other status
// becomes a *GatewayError carrying the body.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &GatewayError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}
