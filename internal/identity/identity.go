// Package identity is the narrow contract to the managed identity provider.
// The provider owns credentials and account verification; this service only
// needs "are these credentials valid, and for whom".
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Identity is a verified account as reported by the provider.
type Identity struct {
	// Username is the provider-assigned subject identifier.
	Username string `json:"username"`
	Email    string `json:"email"`
	Active   bool   `json:"active"`
}

// Verifier checks a credential pair against the identity provider. A nil
// Identity with a nil error means the credentials were rejected.
type Verifier interface {
	Verify(ctx context.Context, email, password string) (*Identity, error)
}

// HTTPVerifier calls the provider's credential-verification endpoint.
type HTTPVerifier struct {
	URL    string
	Client *http.Client
}

func NewHTTPVerifier(url string) *HTTPVerifier {
	return &HTTPVerifier{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, email, password string) (*Identity, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var id Identity
		if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
			return nil, err
		}
		return &id, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, nil
	default:
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}
}
