// Package httpc provides the outbound HTTP client used for vendor APIs.
// It wraps net/http with per-call timeouts and a fixed-count retry with
// exponential backoff on transport errors.
package httpc

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultTimeout  = 12 * time.Second
	DefaultRetries  = 2
	DefaultBackoff  = 400 * time.Millisecond
	connectTimeout  = 10 * time.Second
	idleConnTimeout = 90 * time.Second
)

// Client retries transport-level failures. HTTP error statuses are not
// retried here; callers decide what a 4xx/5xx means.
type Client struct {
	hc      *http.Client
	retries uint64
	initial time.Duration
}

// New builds a client with the given per-request timeout and retry count.
// Non-positive arguments fall back to the defaults.
func New(timeout time.Duration, retries int) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if retries < 0 {
		retries = DefaultRetries
	}
	return &Client{
		hc: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   connectTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     idleConnTimeout,
			},
		},
		retries: uint64(retries),
		initial: DefaultBackoff,
	}
}

// Do executes the request, retrying transport errors with exponential
// backoff. The request body is rewound between attempts via GetBody, so
// requests must be built with a rewindable body (bytes.Reader et al.).
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initial

	var resp *http.Response
	op := func() error {
		if req.Body != nil && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(fmt.Errorf("rewind request body: %w", err))
			}
			req.Body = body
		}
		var err error
		resp, err = c.hc.Do(req) //nolint:bodyclose // caller closes on success
		if err != nil {
			return err
		}
		return nil
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, c.retries), req.Context()))
	if err != nil {
		return nil, err
	}
	return resp, nil
}
