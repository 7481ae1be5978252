package api

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/oauth2"

	"keyword-planner-go/pkg/logger"
)

// ClientConfig configures the REST client for the Google Ads API.
type ClientConfig struct {
	Endpoint        string // https://googleads.googleapis.com
	APIVersion      string // v21
	DeveloperToken  string
	LoginCustomerID string // manager account, optional
	Timeout         time.Duration
}

// Client calls KeywordPlanIdeaService over the Google Ads REST interface.
type Client struct {
	config      ClientConfig
	tokens      oauth2.TokenSource
	connManager *ConnectionManager
	log         *logger.Logger

	totalRequests  uint64
	failedRequests uint64
}

// ClientStats are request counters for one client.
type ClientStats struct {
	TotalRequests  uint64
	FailedRequests uint64
}

// NewClient validates the configuration and returns a ready client.
func NewClient(config ClientConfig, tokens oauth2.TokenSource) (*Client, error) {
	if config.DeveloperToken == "" {
		return nil, ErrMissingDevToken
	}
	if tokens == nil {
		return nil, ErrNoCredentials
	}
	if config.Endpoint == "" {
		config.Endpoint = "https://googleads.googleapis.com"
	}
	if config.APIVersion == "" {
		config.APIVersion = "v21"
	}
	config.Endpoint = strings.TrimRight(config.Endpoint, "/")

	connConfig := DefaultConnectionConfig()
	if config.Timeout > 0 {
		connConfig.RequestTimeout = config.Timeout
		connConfig.ReadTimeout = config.Timeout
	}

	return &Client{
		config:      config,
		tokens:      tokens,
		connManager: NewConnectionManager(connConfig),
		log:         logger.GetLogger().WithField("component", "api_client"),
	}, nil
}

// GenerateKeywordIdeas returns every idea for the request, following page
// tokens until the service reports no more pages.
func (c *Client) GenerateKeywordIdeas(ctx context.Context, req *IdeaRequest) (*IdeaResponse, error) {
	if req == nil || req.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", ErrInvalidRequest)
	}
	if len(req.SeedKeywords) == 0 {
		return nil, fmt.Errorf("%w: no seed keywords", ErrInvalidRequest)
	}

	start := time.Now()
	logger.GetSecurityLogger().SafeDebug("Starting keyword ideas query", map[string]interface{}{
		"component":   "api_client",
		"customer_id": req.CustomerID,
		"keywords":    req.SeedKeywords,
	})

	result := &IdeaResponse{}
	pageToken := ""
	seen := make(map[string]struct{})
	for {
		page, err := c.fetchPage(ctx, req, pageToken)
		if err != nil {
			atomic.AddUint64(&c.failedRequests, 1)
			return nil, err
		}

		for _, idea := range page.Results {
			result.Ideas = append(result.Ideas, idea.toKeywordIdea())
		}
		result.TotalSize = int64(page.TotalSize)

		if page.NextPageToken == "" {
			break
		}
		if _, dup := seen[page.NextPageToken]; dup {
			atomic.AddUint64(&c.failedRequests, 1)
			return nil, fmt.Errorf("keyword ideas pagination repeated page token %q", page.NextPageToken)
		}
		seen[page.NextPageToken] = struct{}{}
		pageToken = page.NextPageToken
	}

	c.log.WithFields(map[string]interface{}{
		"ideas":       len(result.Ideas),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Keyword ideas query completed")
	return result, nil
}

func (c *Client) fetchPage(ctx context.Context, req *IdeaRequest, pageToken string) (*generateKeywordIdeasPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	atomic.AddUint64(&c.totalRequests, 1)

	token, err := c.tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to obtain access token: %w", err)
	}

	body, err := json.Marshal(newRequestBody(req, pageToken))
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	deadline := time.Now().Add(c.connManager.RequestTimeout())
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	// fasthttp ignores ctx; the call runs aside so cancellation returns at once.
	done := make(chan rawResponse, 1)
	go func() {
		done <- c.post(c.methodURL(req.CustomerID), token, body, deadline)
	}()

	var resp rawResponse
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp = <-done:
	}

	if resp.err != nil {
		return nil, fmt.Errorf("keyword ideas request failed: %w", resp.err)
	}
	if resp.status < 200 || resp.status >= 300 {
		return nil, parseAPIError(resp.status, resp.body)
	}

	var page generateKeywordIdeasPage
	if err := json.Unmarshal(resp.body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode keyword ideas response: %w", err)
	}
	return &page, nil
}

type rawResponse struct {
	status int
	body   []byte
	err    error
}

func (c *Client) post(url string, token *oauth2.Token, body []byte, deadline time.Time) rawResponse {
	httpReq := fasthttp.AcquireRequest()
	httpResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(httpReq)
	defer fasthttp.ReleaseResponse(httpResp)

	httpReq.SetRequestURI(url)
	httpReq.Header.SetMethod(fasthttp.MethodPost)
	httpReq.Header.SetContentType("application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", token.Type()+" "+token.AccessToken)
	httpReq.Header.Set("developer-token", c.config.DeveloperToken)
	if c.config.LoginCustomerID != "" {
		httpReq.Header.Set("login-customer-id", c.config.LoginCustomerID)
	}
	httpReq.SetBody(body)

	if err := c.connManager.GetFastHTTPClient().DoDeadline(httpReq, httpResp, deadline); err != nil {
		return rawResponse{err: err}
	}
	// the body buffer goes back to the pool on release
	return rawResponse{
		status: httpResp.StatusCode(),
		body:   append([]byte(nil), httpResp.Body()...),
	}
}

func (c *Client) methodURL(customerID string) string {
	return fmt.Sprintf("%s/%s/customers/%s:generateKeywordIdeas", c.config.Endpoint, c.config.APIVersion, customerID)
}

// Stats returns request counters. Paginated calls count one request per page.
func (c *Client) Stats() ClientStats {
	return ClientStats{
		TotalRequests:  atomic.LoadUint64(&c.totalRequests),
		FailedRequests: atomic.LoadUint64(&c.failedRequests),
	}
}

// Close releases idle connections.
func (c *Client) Close() {
	c.connManager.Close()
}
