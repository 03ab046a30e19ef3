package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/desertthunder/lyrx/internal/retry"
	tu "github.com/desertthunder/lyrx/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com/", customClient)

			if srv.baseURL != "http://example.com" {
				t.Errorf("expected trailing slash trimmed, got %s", srv.baseURL)
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Nil Client", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil)

			if srv.httpClient.Timeout != DefaultRequestTimeout {
				t.Errorf("expected default timeout, got %v", srv.httpClient.Timeout)
			}
		})
	})

	t.Run("PostJSON", func(t *testing.T) {
		t.Run("Sends Headers And Decodes Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST method, got %s", r.Method)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected JSON content type, got %s", r.Header.Get("Content-Type"))
				}
				if r.Header.Get("X-Test") != "yes" {
					t.Error("expected custom header")
				}

				var body map[string]string
				json.NewDecoder(r.Body).Decode(&body)
				json.NewEncoder(w).Encode(map[string]string{"echo": body["msg"]})
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil)
			srv.SetHeader("X-Test", "yes")

			var out map[string]string
			if err := srv.PostJSON(context.Background(), "/echo", map[string]string{"msg": "hola"}, &out); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if out["echo"] != "hola" {
				t.Errorf("unexpected response %v", out)
			}
		})

		t.Run("Invalid JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			}))
			defer server.Close()

			var out map[string]string
			err := NewAPIService(server.URL, nil).PostJSON(context.Background(), "/", map[string]string{}, &out)
			if err == nil {
				t.Fatal("expected decode error")
			}
			if retry.Retryable(err) {
				t.Error("decode errors should not be retryable")
			}
		})
	})

	t.Run("Status Classification", func(t *testing.T) {
		tests := []struct {
			name   string
			status int
			want   retry.Kind
		}{
			{name: "Rate Limited", status: http.StatusTooManyRequests, want: retry.RateLimited},
			{name: "Server Error", status: http.StatusInternalServerError, want: retry.ServerError},
			{name: "Forbidden", status: http.StatusForbidden, want: retry.ClientError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					http.Error(w, "nope", tt.status)
				}))
				defer server.Close()

				_, err := NewAPIService(server.URL, nil).Get(context.Background(), "/")
				kind, ok := retry.KindOf(err)
				if !ok || kind != tt.want {
					t.Errorf("expected %s, got %v (%v)", tt.want, kind, err)
				}
			})
		}
	})

	t.Run("Transport Error", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection reset"))}

		_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/")
		if kind, ok := retry.KindOf(err); !ok || kind != retry.Transport {
			t.Errorf("expected transport failure, got %v", err)
		}
	})

	t.Run("Read Error", func(t *testing.T) {
		resp := tu.NewResponse(http.StatusOK, "")
		resp.Body = &tu.FCloser{}
		client := &http.Client{Transport: tu.NewMockRoundTripper(resp, nil)}

		_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/")
		if !retry.Retryable(err) {
			t.Errorf("expected retryable read failure, got %v", err)
		}
	})
}
