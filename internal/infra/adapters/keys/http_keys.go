// File: internal/infra/adapters/keys/http_keys.go
package keys

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"voevoda-access/internal/domain"
	"voevoda-access/internal/domain/model"
	"voevoda-access/internal/domain/ports/adapter"
	"voevoda-access/internal/infra/metrics"
)

var _ adapter.KeyService = (*HTTPKeyService)(nil)

// HTTPKeyService implements adapter.KeyService against the /api/keys/ endpoint.
// Issue is a GET with query params, Redeem a POST with a JSON body.
type HTTPKeyService struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPKeyService builds a client for baseURL. timeout <= 0 leaves requests
// unbounded; callers cancel through ctx.
func NewHTTPKeyService(baseURL string, timeout time.Duration) (*HTTPKeyService, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid key service url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.New("key service url must be absolute")
	}
	c := &http.Client{}
	if timeout > 0 {
		c.Timeout = timeout
	}
	return &HTTPKeyService{base: u, client: c}, nil
}

// WithHTTPClient swaps the underlying client (tests, custom transports).
func (s *HTTPKeyService) WithHTTPClient(c *http.Client) *HTTPKeyService {
	if c != nil {
		s.client = c
	}
	return s
}

func (s *HTTPKeyService) Name() string { return "http" }

// issueURL keeps sub_key before name, the order the page has always sent.
func (s *HTTPKeyService) issueURL(req model.IssueRequest) string {
	u := *s.base
	q := "sub_key=" + url.QueryEscape(req.SubKey) + "&name=" + url.QueryEscape(req.Name)
	if u.RawQuery != "" {
		q = u.RawQuery + "&" + q
	}
	u.RawQuery = q
	return u.String()
}

// Issue calls GET <base>?sub_key=..&name=.. and decodes the envelope on 2xx.
func (s *HTTPKeyService) Issue(ctx context.Context, req model.IssueRequest) (*model.KeyResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.issueURL(req), nil)
	if err != nil {
		return nil, err
	}
	return s.do(httpReq, "issue")
}

// Redeem calls POST <base> with {"code": ...}.
func (s *HTTPKeyService) Redeem(ctx context.Context, req model.RedeemRequest) (*model.KeyResponse, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.base.String(), bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return s.do(httpReq, "redeem")
}

func (s *HTTPKeyService) do(req *http.Request, op string) (*model.KeyResponse, error) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		metrics.ObserveKeysRequest(op, 0, time.Since(start).Milliseconds())
		return nil, fmt.Errorf("%s request: %w", op, err)
	}
	defer resp.Body.Close()
	metrics.ObserveKeysRequest(op, resp.StatusCode, time.Since(start).Milliseconds())

	// status decides before the body is read
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &domain.StatusError{Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s read: %w", op, err)
	}
	out, err := decodeKeyResponse(body)
	if err != nil {
		return nil, fmt.Errorf("%s decode: %w", op, err)
	}
	return out, nil
}

// decodeKeyResponse accepts exactly one JSON object. Keys match exactly, and
// success counts only when it is the literal true.
func decodeKeyResponse(body []byte) (*model.KeyResponse, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("null body")
	}
	out := &model.KeyResponse{Data: fields["data"]}
	if raw, ok := fields["success"]; ok {
		var v bool
		if err := json.Unmarshal(raw, &v); err == nil {
			out.Success = v
		}
	}
	return out, nil
}
