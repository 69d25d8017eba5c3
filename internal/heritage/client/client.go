// Package client provides HTTP client functionality for the heritage API
package client

import (
	"errors"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Version is reported in the default User-Agent.
const Version = "0.4.0"

// DefaultBaseURL is the public heritage API endpoint.
const DefaultBaseURL = "https://api.heritage.example/v1"

// Attribution controls whether the data-source credit must be displayed.
type Attribution string

const (
	// AttributionVisible requires the credit to be shown. Valid on every plan.
	AttributionVisible Attribution = "visible"
	// AttributionSuppressed hides the credit. Commercial plan only.
	AttributionSuppressed Attribution = "suppressed"
)

// Plan is the subscription tier the client identifies itself with.
type Plan string

const (
	PlanPublic     Plan = "public"
	PlanCommercial Plan = "commercial"
)

// Configuration errors returned by New.
var (
	ErrSuppressedAttribution = errors.New("suppressed attribution requires the commercial plan")
	ErrInvalidAttribution    = errors.New("invalid attribution mode")
	ErrInvalidPlan           = errors.New("invalid plan")
	ErrInvalidBaseURL        = errors.New("invalid base URL")
)

// Doer issues a single HTTP round trip. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config holds client configuration
type Config struct {
	BaseURL     string
	Attribution Attribution
	Plan        Plan
	APIKey      string
	UserAgent   string
	// Headers are sent with every request and may override the baseline set.
	Headers map[string]string
	// Timeout applies to the default HTTP client only.
	Timeout    time.Duration
	HTTPClient Doer
	Logger     Logger
}

// defaultLogger is the default no-op logger instance
var defaultLogger = &noopLogger{}

// DefaultConfig returns a public-plan configuration with visible attribution.
func DefaultConfig() Config {
	return Config{
		BaseURL:     DefaultBaseURL,
		Attribution: AttributionVisible,
		Plan:        PlanPublic,
		Timeout:     60 * time.Second,
		Logger:      defaultLogger,
	}
}

// Client talks to the heritage API. It is immutable after New and safe for
// concurrent use.
type Client struct {
	baseURL     string
	attribution Attribution
	plan        Plan
	apiKey      string
	userAgent   string
	headers     map[string]string
	httpClient  Doer
	logger      Logger
	now         func() time.Time
}

// New validates config and creates a heritage API client.
func New(config Config) (*Client, error) {
	if config.Attribution == "" {
		config.Attribution = AttributionVisible
	}
	if config.Plan == "" {
		config.Plan = PlanPublic
	}
	if err := validate(config); err != nil {
		return nil, err
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	base := strings.TrimRight(config.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, config.BaseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	logger := config.Logger
	if logger == nil {
		logger = defaultLogger
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "heritage-client-go/" + Version
	}

	return &Client{
		baseURL:     base,
		attribution: config.Attribution,
		plan:        config.Plan,
		apiKey:      config.APIKey,
		userAgent:   userAgent,
		headers:     maps.Clone(config.Headers),
		httpClient:  httpClient,
		logger:      logger,
		now:         time.Now,
	}, nil
}

func validate(config Config) error {
	switch config.Attribution {
	case AttributionVisible, AttributionSuppressed:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAttribution, config.Attribution)
	}

	switch config.Plan {
	case PlanPublic, PlanCommercial:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPlan, config.Plan)
	}

	if config.Attribution == AttributionSuppressed && config.Plan != PlanCommercial {
		return ErrSuppressedAttribution
	}
	return nil
}

// BaseURL returns the normalized base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Plan returns the configured plan.
func (c *Client) Plan() Plan {
	return c.plan
}

// Attribution returns the configured attribution mode.
func (c *Client) Attribution() Attribution {
	return c.attribution
}
