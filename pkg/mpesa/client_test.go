package mpesa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"matatubook/pkg/utils"

	"go.uber.org/zap"
)

func testClient(baseURL string) *Client {
	return &Client{
		cfg: utils.MPesaConfig{
			ConsumerKey:    "key",
			ConsumerSecret: "secret",
			ShortCode:      "174379",
			Passkey:        "passkey",
			CallbackURL:    "https://example.com/callback",
		},
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
		log:     zap.NewNop(),
		now: func() time.Time {
			return time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)
		},
	}
}

func TestSTKPassword(t *testing.T) {
	password, timestamp := stkPassword("174379", "passkey", time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC))

	if timestamp != "20250601123045" {
		t.Fatalf("unexpected timestamp %q", timestamp)
	}
	// base64("174379" + "passkey" + "20250601123045")
	if password != "MTc0Mzc5cGFzc2tleTIwMjUwNjAxMTIzMDQ1" {
		t.Fatalf("unexpected password %q", password)
	}
}

func TestSTKPushSuccess(t *testing.T) {
	var pushBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/oauth"):
			user, pass, ok := r.BasicAuth()
			if !ok || user != "key" || pass != "secret" {
				t.Errorf("unexpected basic auth %q:%q", user, pass)
			}
			json.NewEncoder(w).Encode(map[string]string{"access_token": "token123", "expires_in": "3599"})

		case r.URL.Path == "/mpesa/stkpush/v1/processrequest":
			if got := r.Header.Get("Authorization"); got != "Bearer token123" {
				t.Errorf("unexpected authorization header %q", got)
			}
			if err := json.NewDecoder(r.Body).Decode(&pushBody); err != nil {
				t.Errorf("decode push body: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]string{
				"ResponseCode":        "0",
				"ResponseDescription": "Success. Request accepted for processing",
				"CheckoutRequestID":   "ws_CO_123",
				"MerchantRequestID":   "mr_456",
			})

		default:
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := testClient(server.URL)

	result, err := client.STKPush(context.Background(), "0712345678", 1500.75, "ABC123XYZ0", "test booking")
	if err != nil {
		t.Fatalf("STKPush error: %v", err)
	}

	if result.CheckoutRequestID != "ws_CO_123" {
		t.Fatalf("unexpected checkout request ID %q", result.CheckoutRequestID)
	}
	if pushBody["PhoneNumber"] != "254712345678" {
		t.Fatalf("expected normalized phone, got %v", pushBody["PhoneNumber"])
	}
	if pushBody["Amount"] != float64(1500) {
		t.Fatalf("expected amount truncated to 1500, got %v", pushBody["Amount"])
	}
	if pushBody["Timestamp"] != "20250601123045" {
		t.Fatalf("unexpected timestamp %v", pushBody["Timestamp"])
	}
}

func TestSTKPushRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/oauth") {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "token123"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"ResponseCode": "1",
			"errorMessage": "Invalid PhoneNumber",
		})
	}))
	defer server.Close()

	client := testClient(server.URL)

	if _, err := client.STKPush(context.Background(), "0712345678", 100, "REF", "desc"); err == nil {
		t.Fatalf("expected error for rejected push")
	}
}

func TestQueryStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/oauth") {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "token123"})
			return
		}
		if r.URL.Path != "/mpesa/stkpushquery/v1/query" {
			t.Errorf("unexpected request to %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"ResultCode": "0",
			"ResultDesc": "The service request is processed successfully.",
		})
	}))
	defer server.Close()

	client := testClient(server.URL)

	result, err := client.QueryStatus(context.Background(), "ws_CO_123")
	if err != nil {
		t.Fatalf("QueryStatus error: %v", err)
	}
	if result.ResultCode != "0" {
		t.Fatalf("unexpected result code %q", result.ResultCode)
	}
}
