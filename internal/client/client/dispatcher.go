package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/eventhub/internal/client/credentials"
	"github.com/dmitrijs2005/eventhub/internal/logging"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"

	mimeJSON    = "application/json"
	maxBodySize = 16 << 20
)

// Request describes one backend call. Public requests carry no bearer token
// and are never refreshed.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Accept string
	Public bool
}

type Response struct {
	Method string
	Path   string
	Status int
	Header http.Header
	Body   []byte
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if v == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &HTTPError{Method: r.Method, Path: r.Path, Status: r.Status, Body: r.Body,
			Err: fmt.Errorf("malformed response: %w", err)}
	}
	return nil
}

// attempt is one delivery of a Request. token overrides the stored access
// token; retried marks the single replay after a refresh.
type attempt struct {
	req     *Request
	token   string
	retried bool

	// sent is the bearer token actually attached, "" for none.
	sent string
}

type Dispatcher struct {
	http     *http.Client
	resolver *Resolver
	store    credentials.Store
	log      logging.Logger

	maxBody int64
}

func NewDispatcher(hc *http.Client, resolver *Resolver, store credentials.Store, log logging.Logger) *Dispatcher {
	if hc == nil {
		hc = http.DefaultClient
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Dispatcher{http: hc, resolver: resolver, store: store, log: log, maxBody: maxBodySize}
}

func (d *Dispatcher) bearer(ctx context.Context, a *attempt) string {
	if a.token != "" {
		return a.token
	}
	if a.req.Public {
		return ""
	}
	token, _ := d.store.Get(ctx, credentials.Access)
	return token
}

func (d *Dispatcher) Send(ctx context.Context, a *attempt) (*Response, error) {
	req := a.req
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	target, err := d.resolver.URL(req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, req.Path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, req.Path, err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", mimeJSON)
	}
	accept := req.Accept
	if accept == "" {
		accept = mimeJSON
	}
	httpReq.Header.Set("Accept", accept)

	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)

	a.sent = d.bearer(ctx, a)
	if a.sent != "" {
		httpReq.Header.Set("Authorization", "Bearer "+a.sent)
	}

	log := d.log.With("method", method, "path", req.Path, "request_id", requestID, "retry", a.retried)
	start := time.Now()

	resp, err := d.http.Do(httpReq)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err, "duration", time.Since(start))
		return nil, &NetworkError{Method: method, Path: req.Path, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBody+1))
	if err != nil {
		log.Warn(ctx, "reading response failed", "status", resp.StatusCode, "error", err)
		return nil, &NetworkError{Method: method, Path: req.Path, Err: err}
	}
	if int64(len(payload)) > d.maxBody {
		log.Warn(ctx, "response body too large", "status", resp.StatusCode, "limit", d.maxBody)
		return nil, &HTTPError{Method: method, Path: req.Path, Status: resp.StatusCode,
			Err: fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, d.maxBody)}
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode, "duration", time.Since(start))

	out := &Response{Method: method, Path: req.Path, Status: resp.StatusCode, Header: resp.Header, Body: payload}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, &HTTPError{Method: method, Path: req.Path, Status: resp.StatusCode, Body: payload}
	}
	return out, nil
}
