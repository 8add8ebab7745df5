package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/uzlearn/center-admin-api/pkg/config"
	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
)

// Observer receives one measurement per content API call.
type Observer interface {
	ObserveUpstream(operation string, duration time.Duration, err error)
}

// Client talks to the content API the gateway fronts. All admin traffic
// funnels through it with a single service token; operator identity never
// leaves the gateway.
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	upload   *http.Client
	logger   *zap.Logger
	observer Observer
}

// NewClient builds a client from the upstream section of the config.
// The upload client carries a longer timeout for multipart bodies.
func NewClient(cfg config.UpstreamConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.ServiceToken,
		http:    &http.Client{Timeout: cfg.Timeout},
		upload:  &http.Client{Timeout: cfg.UploadTimeout},
		logger:  logger,
	}
}

// SetObserver attaches per-call instrumentation. Nil disables it.
func (c *Client) SetObserver(o Observer) {
	c.observer = o
}

// errorBody is the upstream error envelope.
type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode upstream request")
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(c.http, req, out)
}

// doMultipart ships a prepared multipart body using the upload client.
func (c *Client) doMultipart(ctx context.Context, method, path string, form *Form, out interface{}) error {
	body, contentType, err := form.Encode()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode multipart request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build upstream request")
	}
	req.Header.Set("Content-Type", contentType)
	return c.send(c.upload, req, out)
}

func (c *Client) send(hc *http.Client, req *http.Request, out interface{}) error {
	start := time.Now()
	err := c.exchange(hc, req, out)
	if c.observer != nil {
		c.observer.ObserveUpstream(operationLabel(req), time.Since(start), err)
	}
	return err
}

// operationLabel renders a low-cardinality metric label: trailing numeric
// path segments collapse to ":id".
func operationLabel(req *http.Request) string {
	path := req.URL.Path
	if i := strings.LastIndexByte(path, '/'); i >= 0 && i+1 < len(path) {
		if _, err := strconv.ParseUint(path[i+1:], 10, 64); err == nil {
			path = path[:i] + "/:id"
		}
	}
	return req.Method + " " + path
}

func (c *Client) exchange(hc *http.Client, req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code,
			appErrors.ErrUpstreamUnavailable.Status, appErrors.ErrUpstreamUnavailable.Message)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.asError(req, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status,
			"decode upstream response")
	}
	return nil
}

// asError maps an upstream failure status onto a gateway error, preserving
// the upstream message when the body carries one.
func (c *Client) asError(req *http.Request, resp *http.Response) error {
	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &eb)

	msg := eb.Message
	if msg == "" {
		msg = fmt.Sprintf("upstream returned status %d", resp.StatusCode)
	}
	c.logger.Warn("upstream error response",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.String("message", eb.Message))

	switch resp.StatusCode {
	case http.StatusNotFound:
		return appErrors.Clone(appErrors.ErrNotFound, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return appErrors.Clone(appErrors.ErrValidation, msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		// the service token was rejected, not the operator
		return appErrors.New(appErrors.ErrUpstream.Code, http.StatusBadGateway, msg)
	default:
		return appErrors.Clone(appErrors.ErrUpstream, msg)
	}
}
