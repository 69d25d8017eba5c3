// Package client provides HTTP client functionality for the heritage API
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildURL(t *testing.T) {
	c := newTestClient(t, "https://api.heritage.example/v1/")
	limit := 20
	var missing *int

	tests := []struct {
		name  string
		path  string
		query map[string]any
		want  string
	}{
		{
			name: "leading slash",
			path: "/heritage",
			want: "https://api.heritage.example/v1/heritage",
		},
		{
			name: "no leading slash",
			path: "heritage",
			want: "https://api.heritage.example/v1/heritage",
		},
		{
			name: "nil entries dropped",
			path: "/heritage",
			query: map[string]any{
				"q":      "abbey",
				"cursor": nil,
				"limit":  missing,
			},
			want: "https://api.heritage.example/v1/heritage?q=abbey",
		},
		{
			name: "slices repeat the key in order",
			path: "/heritage",
			query: map[string]any{
				"type":  []string{"site", "monument", "object"},
				"limit": &limit,
			},
			want: "https://api.heritage.example/v1/heritage?limit=20&type=site&type=monument&type=object",
		},
		{
			name: "nil elements inside slices skipped",
			path: "/heritage",
			query: map[string]any{
				"keyword": []any{"roman", nil, "bridge"},
			},
			want: "https://api.heritage.example/v1/heritage?keyword=roman&keyword=bridge",
		},
		{
			name: "scalars",
			path: "/heritage/nearby",
			query: map[string]any{
				"lat":       48.8566,
				"has_media": false,
				"since":     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
				"bbox":      BBox{MinLon: 1, MinLat: 2, MaxLon: 3.5, MaxLat: 4},
			},
			want: "https://api.heritage.example/v1/heritage/nearby?bbox=1%2C2%2C3.5%2C4&has_media=false&lat=48.8566&since=2024-05-01T12%3A00%3A00Z",
		},
		{
			name:  "query overrides values already on the path",
			path:  "/oai?verb=Identify&x=1",
			query: map[string]any{"x": 2},
			want:  "https://api.heritage.example/v1/oai?verb=Identify&x=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := c.buildURL(tt.path, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestDo_HeaderLayering(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	tests := []struct {
		name   string
		config func(*Config)
		req    Request
		check  func(t *testing.T, h http.Header)
	}{
		{
			name: "public baseline",
			req:  Request{Path: "/heritage"},
			check: func(t *testing.T, h http.Header) {
				assert.Equal(t, "application/json", h.Get("Accept"))
				assert.Equal(t, "visible", h.Get(HeaderAttribution))
				assert.Empty(t, h.Get(HeaderPlan))
				assert.Equal(t, "heritage-client-go/"+Version, h.Get("User-Agent"))
				assert.Empty(t, h.Get("Authorization"))
				assert.Empty(t, h.Get("Content-Type"))
			},
		},
		{
			name: "commercial with key",
			config: func(c *Config) {
				c.Plan = PlanCommercial
				c.Attribution = AttributionSuppressed
				c.APIKey = "secret"
			},
			req: Request{Path: "/heritage"},
			check: func(t *testing.T, h http.Header) {
				assert.Equal(t, "suppressed", h.Get(HeaderAttribution))
				assert.Equal(t, "commercial", h.Get(HeaderPlan))
				assert.Equal(t, "Bearer secret", h.Get("Authorization"))
			},
		},
		{
			name: "per-call headers override configured headers",
			config: func(c *Config) {
				c.Headers = map[string]string{"X-Tenant": "museum", "Accept": "text/plain"}
			},
			req: Request{
				Path:    "/heritage",
				Headers: map[string]string{"X-Tenant": "archive"},
			},
			check: func(t *testing.T, h http.Header) {
				assert.Equal(t, "archive", h.Get("X-Tenant"))
				assert.Equal(t, "text/plain", h.Get("Accept"))
			},
		},
		{
			name: "conditional tokens applied last",
			req: Request{
				Path: "/heritage/hx-1",
				Headers: map[string]string{
					"If-None-Match":     `"stale"`,
					"If-Modified-Since": "Mon, 01 Jan 2024 00:00:00 GMT",
				},
				IfNoneMatch:     `"v2"`,
				IfModifiedSince: "Tue, 02 Jan 2024 00:00:00 GMT",
			},
			check: func(t *testing.T, h http.Header) {
				assert.Equal(t, `"v2"`, h.Get("If-None-Match"))
				assert.Equal(t, "Tue, 02 Jan 2024 00:00:00 GMT", h.Get("If-Modified-Since"))
			},
		},
		{
			name: "JSON body sets content type",
			req:  Request{Method: http.MethodPost, Path: "/ai/ask", Body: AskRequest{Question: "q"}},
			check: func(t *testing.T, h http.Header) {
				assert.Equal(t, "application/json; charset=utf-8", h.Get("Content-Type"))
			},
		},
		{
			name: "explicit content type is kept",
			req: Request{
				Method:  http.MethodPost,
				Path:    "/ai/ask",
				Body:    map[string]string{"question": "q"},
				Headers: map[string]string{"Content-Type": "application/vnd.heritage+json"},
			},
			check: func(t *testing.T, h http.Header) {
				assert.Equal(t, "application/vnd.heritage+json", h.Get("Content-Type"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []func(*Config){}
			if tt.config != nil {
				opts = append(opts, tt.config)
			}
			c := newTestClient(t, server.URL, opts...)

			_, err := c.Do(context.Background(), tt.req)
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestDo_RequestBodies(t *testing.T) {
	type captured struct {
		method      string
		contentType string
		body        []byte
	}
	var got captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		got = captured{method: r.Method, contentType: r.Header.Get("Content-Type"), body: data}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	payload := map[string]any{"question": "Who built the bridge?", "limit": 3, "lang": "fr"}
	wantJSON, err := json.Marshal(payload)
	require.NoError(t, err)

	form := url.Values{"field": {"title"}, "value": {"Pont du Gard"}}

	formData, err := NewFormData(func(w *multipart.Writer) error {
		return w.WriteField("title", "front")
	})
	require.NoError(t, err)

	var nilBody *Correction

	tests := []struct {
		name            string
		body            any
		wantContentType string
		wantBody        []byte
	}{
		{
			name:            "JSON value",
			body:            payload,
			wantContentType: "application/json; charset=utf-8",
			wantBody:        wantJSON,
		},
		{
			name:     "raw string",
			body:     "plain text",
			wantBody: []byte("plain text"),
		},
		{
			name:     "raw bytes",
			body:     []byte{0x01, 0x02},
			wantBody: []byte{0x01, 0x02},
		},
		{
			name:     "reader",
			body:     strings.NewReader("streamed"),
			wantBody: []byte("streamed"),
		},
		{
			name:            "form values",
			body:            form,
			wantContentType: "application/x-www-form-urlencoded",
			wantBody:        []byte(form.Encode()),
		},
		{
			name:            "multipart",
			body:            formData,
			wantContentType: formData.ContentType(),
			wantBody:        formData.body,
		},
		{
			name:     "typed nil",
			body:     nilBody,
			wantBody: []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/echo", Body: tt.body})
			require.NoError(t, err)

			assert.Equal(t, http.MethodPost, got.method)
			assert.Equal(t, tt.wantContentType, got.contentType)
			assert.Equal(t, tt.wantBody, got.body)
		})
	}
}

func TestDo_DefaultsToGet(t *testing.T) {
	c := newTestClient(t, "https://api.heritage.example", func(cfg *Config) {
		cfg.HTTPClient = doerFunc(func(r *http.Request) (*http.Response, error) {
			assert.Equal(t, http.MethodGet, r.Method)
			return fakeResponse(http.StatusNoContent, nil, "")(r)
		})
	})

	env, err := c.Do(context.Background(), Request{Path: "/heritage"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, env.Status)
}

func TestDo_NotModifiedSkipsBody(t *testing.T) {
	c := newTestClient(t, "https://api.heritage.example", func(cfg *Config) {
		cfg.HTTPClient = fakeResponse(http.StatusNotModified, map[string]string{
			"Content-Type":           "application/json",
			"ETag":                   `"v1"`,
			HeaderTraceID:            "trace-304",
			HeaderRateLimitLimit:     "100",
			HeaderRateLimitRemaining: "99",
			HeaderRateLimitReset:     "1700000000",
		}, `{"id":"ignored"}`)
	})

	env, err := c.Do(context.Background(), Request{Path: "/heritage/hx-1", IfNoneMatch: `"v1"`})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotModified, env.Status)
	assert.True(t, env.NotModified)
	assert.Equal(t, Payload{}, env.Data)
	assert.Equal(t, `"v1"`, env.Headers.Get("ETag"))
	assert.Equal(t, "trace-304", env.TraceID)
	require.NotNil(t, env.RateLimit)
	assert.Equal(t, int64(99), env.RateLimit.Remaining)

	typed, err := DoJSON[*HeritageItem](context.Background(), c, Request{Path: "/heritage/hx-1"})
	require.NoError(t, err)
	assert.True(t, typed.NotModified)
	assert.Nil(t, typed.Data)
}

func TestDo_NoContent(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		expect      Expect
		want        Payload
	}{
		{
			name:        "json",
			contentType: "application/json",
			want:        Payload{Kind: KindJSON},
		},
		{
			name:        "text",
			contentType: "text/plain",
			want:        Payload{Kind: KindText},
		},
		{
			name:        "binary",
			contentType: "application/zip",
			want:        Payload{Kind: KindBinary, Bytes: []byte{}},
		},
		{
			name:   "binary hint",
			expect: ExpectBinary,
			want:   Payload{Kind: KindBinary, Bytes: []byte{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "https://api.heritage.example", func(cfg *Config) {
				cfg.HTTPClient = fakeResponse(http.StatusNoContent, map[string]string{
					"Content-Type": tt.contentType,
				}, "should not be read")
			})

			env, err := c.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/media/m-1", Expect: tt.expect})
			require.NoError(t, err)
			assert.Equal(t, http.StatusNoContent, env.Status)
			assert.Equal(t, tt.want, env.Data)
		})
	}
}

func TestDo_DecodeStrategy(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		expect      Expect
		want        Payload
	}{
		{
			name:        "declared JSON wins over binary hint",
			contentType: "application/json",
			body:        `{"ok":true}`,
			expect:      ExpectBinary,
			want:        Payload{Kind: KindJSON, JSON: json.RawMessage(`{"ok":true}`)},
		},
		{
			name:        "declared JSON wins over text hint",
			contentType: "application/problem+json",
			body:        `{"ok":true}`,
			expect:      ExpectText,
			want:        Payload{Kind: KindJSON, JSON: json.RawMessage(`{"ok":true}`)},
		},
		{
			name:        "invalid JSON degrades to empty",
			contentType: "application/json",
			body:        `{"ok":`,
			want:        Payload{Kind: KindJSON},
		},
		{
			name:        "xml is text",
			contentType: "application/xml",
			body:        "<a/>",
			want:        Payload{Kind: KindText, Text: "<a/>"},
		},
		{
			name:        "ndjson is text",
			contentType: "application/x-ndjson",
			body:        "{}\n{}\n",
			want:        Payload{Kind: KindText, Text: "{}\n{}\n"},
		},
		{
			name:        "zip is binary",
			contentType: "application/zip",
			body:        "PK",
			want:        Payload{Kind: KindBinary, Bytes: []byte("PK")},
		},
		{
			name:        "unknown type is text",
			contentType: "image/png",
			body:        "png",
			want:        Payload{Kind: KindText, Text: "png"},
		},
		{
			name:        "text hint overrides binary type",
			contentType: "application/octet-stream",
			body:        "abc",
			expect:      ExpectText,
			want:        Payload{Kind: KindText, Text: "abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "https://api.heritage.example", func(cfg *Config) {
				cfg.HTTPClient = fakeResponse(http.StatusOK, map[string]string{
					"Content-Type": tt.contentType,
				}, tt.body)
			})

			env, err := c.Do(context.Background(), Request{Path: "/x", Expect: tt.expect})
			require.NoError(t, err)
			assert.Equal(t, tt.want, env.Data)
		})
	}
}

func TestDo_RateLimitedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(HeaderRetryAfter, "30")
		w.Header().Set(HeaderRateLimitLimit, "60")
		w.Header().Set(HeaderRateLimitRemaining, "0")
		w.Header().Set(HeaderRateLimitReset, "1717000000")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":"RATE_LIMITED","message":"Slow down","hint":"Upgrade to commercial","doc":"https://docs.heritage.example/limits","trace_id":"t-429"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	env, err := c.Do(context.Background(), Request{Path: "/heritage"})
	require.Error(t, err)
	assert.Nil(t, env)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Equal(t, "RATE_LIMITED", apiErr.Code)
	assert.Equal(t, "Slow down", apiErr.Message)
	assert.Equal(t, "Upgrade to commercial", apiErr.Hint)
	assert.Equal(t, "https://docs.heritage.example/limits", apiErr.Doc)
	assert.Equal(t, "t-429", apiErr.TraceID)
	require.NotNil(t, apiErr.RetryAfter)
	assert.Equal(t, int64(30), *apiErr.RetryAfter)
	require.NotNil(t, apiErr.RateLimit)
	assert.Equal(t, RateLimit{Limit: 60, Remaining: 0, Reset: 1717000000}, *apiErr.RateLimit)
	assert.IsType(t, json.RawMessage{}, apiErr.Body)

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.NotErrorIs(t, err, ErrServer)

	wait, ok := apiErr.RetryAfterDuration()
	assert.True(t, ok)
	assert.Equal(t, 30*time.Second, wait)
	assert.Contains(t, apiErr.Error(), "429 RATE_LIMITED: Slow down")
	assert.Contains(t, apiErr.Error(), "trace_id: t-429")
}

func TestDo_ErrorFallbacks(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantCode    string
		wantMessage string
		wantBody    any
		sentinel    error
	}{
		{
			name:        "plain text server error",
			status:      http.StatusBadGateway,
			contentType: "text/plain",
			body:        "upstream down",
			wantCode:    CodeInternalError,
			wantMessage: "Bad Gateway",
			wantBody:    "upstream down",
			sentinel:    ErrServer,
		},
		{
			name:        "JSON without envelope",
			status:      http.StatusUnauthorized,
			contentType: "application/json",
			body:        `{"detail":"no key"}`,
			wantCode:    CodeInternalError,
			wantMessage: "Unauthorized",
			wantBody:    json.RawMessage(`{"detail":"no key"}`),
			sentinel:    ErrUnauthorized,
		},
		{
			name:        "malformed JSON",
			status:      http.StatusForbidden,
			contentType: "application/json",
			body:        `{"error":`,
			wantCode:    CodeInternalError,
			wantMessage: "Forbidden",
			wantBody:    nil,
			sentinel:    ErrForbidden,
		},
		{
			name:        "partial envelope",
			status:      http.StatusUnprocessableEntity,
			contentType: "application/json",
			body:        `{"error":{"code":"INVALID_BBOX"}}`,
			wantCode:    "INVALID_BBOX",
			wantMessage: "Unprocessable Entity",
			wantBody:    json.RawMessage(`{"error":{"code":"INVALID_BBOX"}}`),
			sentinel:    ErrBadRequest,
		},
		{
			name:        "binary body",
			status:      http.StatusGone,
			contentType: "application/octet-stream",
			body:        "\x00\x01",
			wantCode:    CodeInternalError,
			wantMessage: "Gone",
			wantBody:    []byte("\x00\x01"),
			sentinel:    ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, "https://api.heritage.example", func(cfg *Config) {
				cfg.HTTPClient = fakeResponse(tt.status, map[string]string{
					"Content-Type": tt.contentType,
					HeaderTraceID:  "hdr-trace",
				}, tt.body)
			})

			_, err := c.Do(context.Background(), Request{Path: "/x"})
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))

			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, "hdr-trace", apiErr.TraceID)
			assert.Equal(t, tt.wantBody, apiErr.Body)
			assert.Nil(t, apiErr.RetryAfter)
			assert.Nil(t, apiErr.RateLimit)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestDo_RetryAfterHTTPDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	c := newTestClient(t, "https://api.heritage.example", func(cfg *Config) {
		cfg.HTTPClient = fakeResponse(http.StatusServiceUnavailable, map[string]string{
			HeaderRetryAfter: now.Add(45 * time.Second).Format(http.TimeFormat),
		}, "")
	})
	c.now = func() time.Time { return now }

	_, err := c.Do(context.Background(), Request{Path: "/x"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.NotNil(t, apiErr.RetryAfter)
	assert.InDelta(t, 45, *apiErr.RetryAfter, 1)
}

func TestDo_TransportErrorIsNotAPIError(t *testing.T) {
	boom := errors.New("connection refused")
	c := newTestClient(t, "https://api.heritage.example", func(cfg *Config) {
		cfg.HTTPClient = doerFunc(func(*http.Request) (*http.Response, error) {
			return nil, boom
		})
	})

	env, err := c.Do(context.Background(), Request{Path: "/heritage"})
	require.Error(t, err)
	assert.Nil(t, env)
	assert.ErrorIs(t, err, boom)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestDo_Cancellation(t *testing.T) {
	t.Run("before sending", func(t *testing.T) {
		calls := 0
		c := newTestClient(t, "https://api.heritage.example", func(cfg *Config) {
			cfg.HTTPClient = doerFunc(func(r *http.Request) (*http.Response, error) {
				calls++
				return nil, r.Context().Err()
			})
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.Do(ctx, Request{Path: "/heritage"})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr))
		assert.Equal(t, 1, calls)
	})

	t.Run("in flight", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-release:
			}
		}))
		defer server.Close()
		defer close(release)

		c := newTestClient(t, server.URL)
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(50*time.Millisecond, cancel)

		_, err := c.Do(ctx, Request{Path: "/heritage"})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr))
	})

	t.Run("mid body", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"data":[{"id":"hx-1"`))
			w.(http.Flusher).Flush()
			select {
			case <-r.Context().Done():
			case <-release:
			}
		}))
		defer server.Close()
		defer close(release)

		c := newTestClient(t, server.URL)
		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(100*time.Millisecond, cancel)

		env, err := c.Do(ctx, Request{Path: "/heritage"})
		require.Error(t, err)
		assert.Nil(t, env)
		assert.ErrorIs(t, err, context.Canceled)
		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr))
	})
}

// failingReader returns data and then err.
type failingReader struct {
	data []byte
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestDo_BodyReadErrorDegrades(t *testing.T) {
	c := newTestClient(t, "https://api.heritage.example", func(cfg *Config) {
		cfg.HTTPClient = doerFunc(func(r *http.Request) (*http.Response, error) {
			h := make(http.Header)
			h.Set("Content-Type", "application/json")
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     h,
				Body:       io.NopCloser(&failingReader{data: []byte(`{"id":`), err: io.ErrUnexpectedEOF}),
				Request:    r,
			}, nil
		})
	})

	env, err := c.Do(context.Background(), Request{Path: "/heritage/hx-1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, env.Status)
	assert.Equal(t, KindJSON, env.Data.Kind)
	assert.Nil(t, env.Data.JSON)
}

func TestDo_LogsRedactedURL(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := newTestClient(t, "https://api.heritage.example", func(cfg *Config) {
		cfg.Logger = NewSlogLogger(logger)
		cfg.APIKey = "s3cret"
		cfg.HTTPClient = fakeResponse(http.StatusOK, map[string]string{"Content-Type": "application/json"}, `{}`)
	})

	_, err := c.Do(context.Background(), Request{
		Path:  "/heritage",
		Query: map[string]any{"token": "abc", "q": "s3cret"},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"Making request"`)
	assert.Contains(t, out, `"msg":"Response received"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, "duration_ms")
	assert.NotContains(t, out, "s3cret")
	assert.NotContains(t, out, "token=abc")
}

func TestRedactURL(t *testing.T) {
	c := newTestClient(t, "https://api.heritage.example", func(cfg *Config) {
		cfg.APIKey = "key with space"
	})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "api_key parameter",
			in:   "https://api.heritage.example/heritage?api_key=abc&q=x",
			want: "https://api.heritage.example/heritage?api_key=****&q=x",
		},
		{
			name: "access_token after other params",
			in:   "https://api.heritage.example/heritage?q=x&access_token=abc",
			want: "https://api.heritage.example/heritage?q=x&access_token=****",
		},
		{
			name: "configured key as query value",
			in:   "https://api.heritage.example/heritage?q=key+with+space",
			want: "https://api.heritage.example/heritage?q=****",
		},
		{
			name: "nothing sensitive",
			in:   "https://api.heritage.example/heritage?q=abbey",
			want: "https://api.heritage.example/heritage?q=abbey",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.redactURL(tt.in))
		})
	}
}

func TestRedactURL_ShortKeyLeavesPath(t *testing.T) {
	c := newTestClient(t, "https://api.heritage.example/v1", func(cfg *Config) {
		cfg.APIKey = "v1"
	})

	assert.Equal(t,
		"https://api.heritage.example/v1/heritage/v1?q=****&lang=de",
		c.redactURL("https://api.heritage.example/v1/heritage/v1?q=v1&lang=de"))
	assert.Equal(t,
		"https://api.heritage.example/v1/heritage?q=v10",
		c.redactURL("https://api.heritage.example/v1/heritage?q=v10"))
}
