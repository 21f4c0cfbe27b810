package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

// TokenSource supplies the bearer token for authenticated requests and knows
// how to mint a fresh one when the server rejects the current token.
type TokenSource interface {
	AccessToken() string
	RefreshAccess(ctx context.Context) error
}

// Authenticated returns a client sharing this client's base URL whose
// requests carry "Authorization: Bearer <token>". When a request comes back
// 401 the transport refreshes the token through source and replays the
// request exactly once; a second failure propagates to the caller as usual.
func (c *Client) Authenticated(source TokenSource) *Client {
	base := c.http.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	return &Client{
		baseURL: c.baseURL,
		http: &http.Client{
			Timeout: c.http.Timeout,
			Transport: &authTransport{
				base:   base,
				source: source,
			},
		},
		userAgent: c.userAgent,
	}
}

type authTransport struct {
	base   http.RoundTripper
	source TokenSource
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	attempt := req.Clone(req.Context())
	attempt.Header.Set("Authorization", "Bearer "+t.source.AccessToken())

	resp, err := t.base.RoundTrip(attempt)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	// Buffer the 401 body so it can still be returned if the refresh or the
	// replay does not pan out.
	rejected, readErr := bufferResponse(resp)
	if readErr != nil {
		return nil, readErr
	}

	if err := t.source.RefreshAccess(req.Context()); err != nil {
		return rejected, nil
	}

	replay := req.Clone(req.Context())
	replay.Header.Set("Authorization", "Bearer "+t.source.AccessToken())
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return rejected, nil
		}
		replay.Body = body
	}
	return t.base.RoundTrip(replay)
}

func bufferResponse(resp *http.Response) (*http.Response, error) {
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}
