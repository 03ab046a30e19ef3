package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/lyrx/internal/retry"
	"github.com/desertthunder/lyrx/internal/shared"
)

func instantPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		Sleep:       func(context.Context, time.Duration) error { return nil },
	}
}

func TestTranslateClient(t *testing.T) {
	t.Run("TranslateBatch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/translate" {
				t.Errorf("expected /translate, got %s", r.URL.Path)
			}

			var req translateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if req.Source != "es" || req.Target != "en" || req.Format != "text" || req.APIKey != "secret" {
				t.Errorf("unexpected request %+v", req)
			}

			out := make([]string, len(req.Q))
			for i, q := range req.Q {
				out[i] = "en:" + q
			}
			json.NewEncoder(w).Encode(translateResponse{TranslatedText: out})
		}))
		defer server.Close()

		cfg := shared.TranslateConfig{URL: server.URL, APIKey: "secret"}
		client := NewTranslateClient(context.Background(), cfg, time.Second, instantPolicy(), shared.DiscardLogger())

		got, err := client.TranslateBatch(context.Background(), []string{"Te quiero", "Adiós"}, "es")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 || got[0] != "en:Te quiero" || got[1] != "en:Adiós" {
			t.Errorf("unexpected translations %v", got)
		}
	})

	t.Run("Bad API Key Is A Client Error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":"Invalid API key"}`))
		}))
		defer server.Close()

		client := NewTranslateClient(context.Background(), shared.TranslateConfig{URL: server.URL}, time.Second, instantPolicy(), nil)

		_, err := client.TranslateBatch(context.Background(), []string{"hola"}, "")
		if kind, ok := retry.KindOf(err); !ok || kind != retry.ClientError {
			t.Errorf("expected client error, got %v", err)
		}
	})

	t.Run("OAuth Bearer Token", func(t *testing.T) {
		var tokenCalls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/token":
				if tokenCalls.Add(1) <= 2 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer","expires_in":3600}`))
			case "/translate":
				if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
					t.Errorf("expected bearer token, got %q", got)
				}
				json.NewEncoder(w).Encode(translateResponse{TranslatedText: []string{"hello"}})
			}
		}))
		defer server.Close()

		cfg := shared.TranslateConfig{URL: server.URL, TokenURL: server.URL + "/token", ClientID: "id", ClientSecret: "secret"}
		client := NewTranslateClient(context.Background(), cfg, time.Second, instantPolicy(), nil)

		if _, err := client.TranslateBatch(context.Background(), []string{"hola"}, "es"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		fetched := tokenCalls.Load()

		if _, err := client.TranslateBatch(context.Background(), []string{"hola"}, "es"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tokenCalls.Load() != fetched {
			t.Errorf("expected cached token to be reused, token endpoint hit %d more times", tokenCalls.Load()-fetched)
		}
	})

	t.Run("OAuth Rejected Credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"invalid_client"}`))
		}))
		defer server.Close()

		cfg := shared.TranslateConfig{URL: server.URL, TokenURL: server.URL + "/token", ClientID: "id", ClientSecret: "bad"}
		client := NewTranslateClient(context.Background(), cfg, time.Second, instantPolicy(), nil)

		_, err := client.TranslateBatch(context.Background(), []string{"hola"}, "es")
		if !errors.Is(err, shared.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("Languages", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"code":"es","name":"Spanish","targets":["en"]},{"code":"ja","name":"Japanese"}]`))
		}))
		defer server.Close()

		client := NewTranslateClient(context.Background(), shared.TranslateConfig{URL: server.URL}, time.Second, instantPolicy(), nil)

		langs, err := client.Languages(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(langs) != 2 || langs[1].Code != "ja" {
			t.Errorf("unexpected languages %+v", langs)
		}
	})
}
