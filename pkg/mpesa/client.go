// Package mpesa is a minimal client for the Safaricom Daraja API: OAuth
// token, STK push, and STK push status query.
package mpesa

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"matatubook/pkg/utils"

	"go.uber.org/zap"
)

const (
	sandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	productionBaseURL = "https://api.safaricom.co.ke"
)

type Client struct {
	cfg     utils.MPesaConfig
	baseURL string
	http    *http.Client
	log     *zap.Logger
	now     func() time.Time
}

func NewClient(cfg utils.MPesaConfig, log *zap.Logger) *Client {
	baseURL := sandboxBaseURL
	if cfg.Environment == "production" {
		baseURL = productionBaseURL
	}

	return &Client{
		cfg:     cfg,
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log.With(zap.String("client", "mpesa")),
		now:     time.Now,
	}
}

// stkPassword derives the STK push password: base64(shortcode+passkey+timestamp)
// with the timestamp in YYYYMMDDHHMMSS form.
func stkPassword(shortCode, passkey string, t time.Time) (password, timestamp string) {
	timestamp = t.Format("20060102150405")
	password = base64.StdEncoding.EncodeToString([]byte(shortCode + passkey + timestamp))
	return password, timestamp
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// AccessToken fetches an OAuth client-credentials token.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	url := c.baseURL + "/oauth/v1/generate?grant_type=client_credentials"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("Access token request rejected", zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("access token request failed with status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}

	return token.AccessToken, nil
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            int    `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

type stkPushResponse struct {
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	MerchantRequestID   string `json:"MerchantRequestID"`
	ErrorMessage        string `json:"errorMessage"`
}

type STKPushResult struct {
	CheckoutRequestID string
	Description       string
}

// STKPush sends a payment prompt to the customer's phone. Amount is truncated
// to whole shillings as the API requires.
func (c *Client) STKPush(ctx context.Context, phone string, amount float64, reference, description string) (*STKPushResult, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	password, timestamp := stkPassword(c.cfg.ShortCode, c.cfg.Passkey, c.now())

	payload := stkPushRequest{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            int(amount),
		PartyA:            utils.NormalizePhone(phone),
		PartyB:            c.cfg.ShortCode,
		PhoneNumber:       utils.NormalizePhone(phone),
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  reference,
		TransactionDesc:   description,
	}

	var result stkPushResponse
	if err := c.post(ctx, "/mpesa/stkpush/v1/processrequest", token, payload, &result); err != nil {
		return nil, err
	}

	if result.ResponseCode != "0" {
		msg := result.ErrorMessage
		if msg == "" {
			msg = result.ResponseDescription
		}
		c.log.Warn("STK push rejected",
			zap.String("reference", reference),
			zap.String("response_code", result.ResponseCode),
			zap.String("message", msg),
		)
		return nil, fmt.Errorf("stk push rejected: %s", msg)
	}

	c.log.Info("STK push sent",
		zap.String("reference", reference),
		zap.String("checkout_request_id", result.CheckoutRequestID),
	)

	return &STKPushResult{
		CheckoutRequestID: result.CheckoutRequestID,
		Description:       result.ResponseDescription,
	}, nil
}

type stkQueryRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	CheckoutRequestID string `json:"CheckoutRequestID"`
}

type STKQueryResult struct {
	ResultCode string `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// QueryStatus asks Daraja for the outcome of an earlier STK push. ResultCode
// "0" means the customer completed the payment.
func (c *Client) QueryStatus(ctx context.Context, checkoutRequestID string) (*STKQueryResult, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	password, timestamp := stkPassword(c.cfg.ShortCode, c.cfg.Passkey, c.now())

	payload := stkQueryRequest{
		BusinessShortCode: c.cfg.ShortCode,
		Password:          password,
		Timestamp:         timestamp,
		CheckoutRequestID: checkoutRequestID,
	}

	var result STKQueryResult
	if err := c.post(ctx, "/mpesa/stkpushquery/v1/query", token, payload, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) post(ctx context.Context, path, token string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}

	return nil
}
