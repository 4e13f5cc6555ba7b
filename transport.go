package arcadedb

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/cenkalti/backoff/v4"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const userAgent = "arcadedb-go/0.1.0"

// apiRequest describes one request against the ArcadeDB HTTP API.
type apiRequest struct {
	// Method is the HTTP method.
	Method string
	// Path is relative to the /api/v1 prefix, without a leading slash.
	Path string
	// Body is JSON-marshaled into the request body when non-nil.
	Body any
	// Params are appended as query parameters.
	Params url.Values
	// Auth attaches basic-auth credentials to the request.
	Auth bool
	// Headers are extra headers, such as the transaction session token.
	Headers map[string]string
}

// apiResponse is the raw outcome of an apiRequest.
type apiResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// roundTripper issues requests against the ArcadeDB HTTP API. The client
// depends on this contract only, not on a specific HTTP client implementation.
type roundTripper interface {
	Do(ctx context.Context, req *apiRequest) (*apiResponse, error)
}

type httpTransport struct {
	baseURL    string
	username   string
	password   string
	maxRetries int
	client     *http.Client
	logger     logrus.FieldLogger
}

// Ensure httpTransport implements roundTripper.
var _ roundTripper = (*httpTransport)(nil)

func newHTTPTransport(config *Config) *httpTransport {
	return &httpTransport{
		baseURL:    config.apiURL(),
		username:   config.Username,
		password:   config.Password,
		maxRetries: config.MaxRetries,
		client:     &http.Client{Timeout: config.Timeout},
		logger:     config.Logger,
	}
}

// Do issues the request, retrying transient failures (connection errors and
// HTTP 429/5xx) with exponential backoff up to maxRetries attempts.
//
// Retries apply to all methods alike, including non-idempotent commands: a
// transient error observed after the server applied an INSERT can lead to a
// double insert on retry. Callers needing stronger guarantees must dedupe on
// their side.
func (t *httpTransport) Do(ctx context.Context, req *apiRequest) (*apiResponse, error) {
	log := t.logger.WithFields(logrus.Fields{
		"request_id": uuid.NewString(),
		"method":     req.Method,
		"path":       req.Path,
	})

	var body []byte
	if req.Body != nil {
		var err error
		if body, err = json.Marshal(req.Body); err != nil {
			return nil, wrapError(ErrValidation, err, "failed to encode request body")
		}
	}

	var resp *apiResponse
	attempt := 0
	operation := func() error {
		attempt++
		if attempt > 1 {
			log.WithField("attempt", attempt).Debug("retrying request")
		}
		r, err := t.doOnce(ctx, req, body)
		if err != nil {
			if isTransient(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		resp = r
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(t.maxRetries)), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		log.WithError(err).Debug("request failed")
		return nil, err
	}
	return resp, nil
}

func (t *httpTransport) doOnce(ctx context.Context, req *apiRequest, body []byte) (*apiResponse, error) {
	u := t.baseURL + "/" + req.Path
	if len(req.Params) > 0 {
		u += "?" + req.Params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, reader)
	if err != nil {
		return nil, wrapError(ErrValidation, err, "failed to build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.Auth {
		httpReq.SetBasicAuth(t.username, t.password)
	}

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, wrapError(ErrTimeout, err, "request timed out")
		}
		return nil, wrapError(ErrConnection, err, "failed to connect to "+t.baseURL)
	}
	defer sneakyBodyClose(httpResp.Body)

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, wrapError(ErrConnection, err, "failed to read response body")
	}

	if err := checkStatusCode(httpResp.StatusCode, req.Path, data); err != nil {
		return nil, err
	}
	return &apiResponse{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

// checkStatusCode maps a non-2xx status to a typed error, preserving the
// server message and status for diagnostics.
func checkStatusCode(status int, path string, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	var detail errorDetail
	_ = json.Unmarshal(body, &detail)

	switch {
	case status == http.StatusUnauthorized:
		return &Error{
			Kind:       ErrAuthentication,
			Message:    detail.message("authentication failed, check username and password"),
			StatusCode: status,
		}
	case status == http.StatusNotFound:
		return &Error{
			Kind:       ErrNotFound,
			Message:    detail.message("resource not found: " + path),
			StatusCode: status,
		}
	default:
		e := &Error{
			Kind:       ErrQuery,
			Message:    detail.message(http.StatusText(status)),
			StatusCode: status,
		}
		if detail.Exception != "" {
			e.Details = map[string]any{"exception": detail.Exception}
		}
		return e
	}
}

func isTransient(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case ErrConnection:
		return true
	case ErrQuery:
		return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
	default:
		return false
	}
}

func isTimeout(err error) bool {
	var ne interface{ Timeout() bool }
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}

// sneakyBodyClose closes the body and ignores the error.
func sneakyBodyClose(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}
