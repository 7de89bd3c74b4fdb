package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	TransactionTypePayBillOnline = "CustomerPayBillOnline"

	DefaultAccountReference = "E-Housing"
	DefaultTransactionDesc  = "E-Housing Payment"

	timestampLayout = "20060102150405"
)

// STKPushRequest is the Lipa Na M-Pesa Online request body.
type STKPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int64  `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// Timestamp formats t as YYYYMMDDHHMMSS in UTC.
func Timestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// Password is base64(shortcode + passkey + timestamp).
func Password(shortCode, passKey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passKey + timestamp))
}

// BuildSTKPushRequest assembles the signed request body. phone must already be
// normalized. Daraja only accepts whole amounts, so amount is rounded.
func BuildSTKPushRequest(cfg Config, phone string, amount float64, now time.Time) STKPushRequest {
	timestamp := Timestamp(now)

	accountRef := cfg.AccountReference
	if accountRef == "" {
		accountRef = DefaultAccountReference
	}
	desc := cfg.TransactionDesc
	if desc == "" {
		desc = DefaultTransactionDesc
	}

	return STKPushRequest{
		BusinessShortCode: cfg.ShortCode,
		Password:          Password(cfg.ShortCode, cfg.PassKey, timestamp),
		Timestamp:         timestamp,
		TransactionType:   TransactionTypePayBillOnline,
		Amount:            WholeAmount(amount),
		PartyA:            phone,
		PartyB:            cfg.ShortCode,
		PhoneNumber:       phone,
		CallBackURL:       cfg.CallbackURL,
		AccountReference:  accountRef,
		TransactionDesc:   desc,
	}
}

// WholeAmount is the amount as Daraja receives it, rounded half away from zero.
func WholeAmount(amount float64) int64 {
	return int64(math.Round(amount))
}

// STKPush asks Daraja to prompt the payer's handset and returns the gateway
// response body unmodified.
func (c *Client) STKPush(ctx context.Context, phone string, amount float64) (json.RawMessage, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(BuildSTKPushRequest(c.cfg, phone, amount, c.now()))
	if err != nil {
		return nil, fmt.Errorf("encode stk push request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+stkPushPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build stk push request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		c.log.Error("STK push failed", zap.Error(err), zap.String("phone", phone))
		return nil, fmt.Errorf("stk push: %w", err)
	}

	c.log.Info("STK push sent", zap.String("phone", phone), zap.Float64("amount", amount))
	return json.RawMessage(body), nil
}
