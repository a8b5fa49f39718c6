// Package email sends transactional mail through the notification provider
// and builds the signed invite tokens embedded in account-creation links.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const defaultBaseURL = "https://api.notifications.service.gov.uk"

// Error is a failure reported by the notification provider. A zero
// StatusCode means the request never reached the provider.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return "notify: " + e.Message
	}
	return fmt.Sprintf("notify: %s (status %d)", e.Message, e.StatusCode)
}

// Temporary reports whether retrying later could plausibly succeed.
func (e *Error) Temporary() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}

// Client is a minimal client for the provider's email endpoint. The API key
// embeds the service ID and signing secret in its two trailing
// UUID-shaped segments.
type Client struct {
	baseURL    string
	serviceID  string
	secret     string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	serviceID, secret, err := splitAPIKey(apiKey)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL:    defaultBaseURL,
		serviceID:  serviceID,
		secret:     secret,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// splitAPIKey extracts the service ID and secret from a key formatted as
// "<name>-<service uuid>-<key uuid>". The name itself may contain hyphens,
// so the segments are taken from the end.
func splitAPIKey(apiKey string) (serviceID, secret string, err error) {
	if len(apiKey) < 74 {
		return "", "", fmt.Errorf("email: API key too short")
	}

	secret = apiKey[len(apiKey)-36:]
	serviceID = apiKey[len(apiKey)-73 : len(apiKey)-37]

	if _, err := uuid.Parse(serviceID); err != nil {
		return "", "", fmt.Errorf("email: API key service ID: %w", err)
	}
	if _, err := uuid.Parse(secret); err != nil {
		return "", "", fmt.Errorf("email: API key secret: %w", err)
	}
	return serviceID, secret, nil
}

type sendEmailRequest struct {
	EmailAddress    string            `json:"email_address"`
	TemplateID      string            `json:"template_id"`
	Personalisation map[string]string `json:"personalisation,omitempty"`
	Reference       string            `json:"reference,omitempty"`
}

// SendEmail asks the provider to deliver the template to the address. The
// returned error is always a *Error when the send did not happen.
func (c *Client) SendEmail(ctx context.Context, address, templateID string, personalisation map[string]string, reference string) error {
	body, err := json.Marshal(sendEmailRequest{
		EmailAddress:    address,
		TemplateID:      templateID,
		Personalisation: personalisation,
		Reference:       reference,
	})
	if err != nil {
		return &Error{Message: "encode request: " + err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/notifications/email", bytes.NewReader(body))
	if err != nil {
		return &Error{Message: "build request: " + err.Error()}
	}

	token, err := c.authToken()
	if err != nil {
		return &Error{Message: "sign auth token: " + err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return &Error{
		StatusCode: resp.StatusCode,
		Message:    errorMessage(resp.Body),
	}
}

// authToken signs the per-request provider JWT: issuer is the service ID,
// signed with the key secret.
func (c *Client) authToken() (string, error) {
	claims := jwt.MapClaims{
		"iss": c.serviceID,
		"iat": time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.secret))
}

func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil {
		return "unreadable error response"
	}

	var payload struct {
		Errors []struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Errors) > 0 {
		return payload.Errors[0].Message
	}
	return string(raw)
}
