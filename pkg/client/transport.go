package client

import "net/http"

// authTransport attaches the bearer token to every outbound request and
// clears the stored token when the server answers 401. It never redirects
// or retries; callers observe the 401 on their next guard evaluation.
type authTransport struct {
	store CredentialStore
	next  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, _, err := t.store.Load()
	if err == nil && token != "" {
		// Clone before mutating; RoundTrippers must not modify the request.
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		_ = t.store.ClearToken()
	}
	return resp, nil
}
