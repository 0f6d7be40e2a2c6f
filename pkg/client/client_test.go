package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["username"] != "clerk" {
			t.Fatalf("unexpected username %q", body["username"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"Success": true,
			"Data": map[string]any{
				"token":    "tok-123",
				"user_id":  7,
				"username": "clerk",
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result, err := c.Login(context.Background(), "clerk", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.Token != "tok-123" || result.UserID != 7 {
		t.Fatalf("unexpected result %+v", result)
	}
	if c.Token() != "tok-123" {
		t.Fatalf("token not stored, got %q", c.Token())
	}
}

func TestCreateVoucherSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Fatalf("unexpected auth header %q", got)
		}
		var req SaveVoucherRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(req.Lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(req.Lines))
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"Success": true,
			"Data":    map[string]any{"id": 42, "number": "JV-000042"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok-123"))
	result, err := c.CreateVoucher(context.Background(), SaveVoucherRequest{
		Date: "2026-03-01",
		Lines: []SaveLine{
			{AccountCode: "1000", TypeCode: 1, Amount: 100},
			{AccountCode: "4000", TypeCode: -1, Amount: 100},
		},
	})
	if err != nil {
		t.Fatalf("CreateVoucher: %v", err)
	}
	if result.ID != 42 || result.Number != "JV-000042" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestFailureEnvelopeBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"Success": false,
			"Message": "voucher is not balanced: difference 1.00 (Debit)",
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok-123"))
	_, err := c.CreateVoucher(context.Background(), SaveVoucherRequest{Date: "2026-03-01"})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", apiErr.StatusCode)
	}
	if apiErr.Message == "" {
		t.Fatal("expected message to be carried over")
	}
}

func TestNextNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/vouchers/next-number" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"Success": true,
			"Data":    map[string]string{"number": "JV-000107"},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("tok-123"))
	number, err := c.NextNumber(context.Background())
	if err != nil {
		t.Fatalf("NextNumber: %v", err)
	}
	if number != "JV-000107" {
		t.Fatalf("unexpected number %q", number)
	}
}
