package sessionguard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// LoginRequest is the credentials payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the payload before it goes on the wire.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

// LoginResponse carries the bearer token minted for a successful login,
// plus whatever identity attributes the endpoint includes so callers can
// populate the session without a second round trip.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	User        IdentityUser `json:"user,omitempty"`
	Roles       []string     `json:"roles,omitempty"`
	Permissions []string     `json:"permissions,omitempty"`
}

// Identity projects the login payload into the session's identity record.
func (r *LoginResponse) Identity() Identity {
	identity := Identity{
		ID:          r.User.ID,
		DisplayName: r.User.Name,
		AvatarURL:   r.User.AvatarURL,
		Roles:       r.Roles,
		Permissions: r.Permissions,
	}
	if len(r.Roles) > 0 {
		identity.RoleLabel = r.Roles[0]
	}
	return identity
}

// IdentityUser is the user block of an identity-validation payload.
type IdentityUser struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	AccessToken string `json:"access_token"`
}

// IdentityResponse is the explicit contract for the auth/me payload. The
// nested user.access_token is the access marker: a response without it is a
// typed decode failure, not a silently-empty identity.
type IdentityResponse struct {
	User        IdentityUser `json:"user"`
	Roles       []string     `json:"roles"`
	Permissions []string     `json:"permissions"`
}

// Identity projects the payload into the session's identity record.
func (r *IdentityResponse) Identity() Identity {
	identity := Identity{
		ID:          r.User.ID,
		DisplayName: r.User.Name,
		AvatarURL:   r.User.AvatarURL,
		Roles:       r.Roles,
		Permissions: r.Permissions,
	}
	if len(r.Roles) > 0 {
		identity.RoleLabel = r.Roles[0]
	}
	return identity
}

// AppDetails is the public branding metadata. An external collaborator to
// the guard core: fetch failures are tolerated by callers.
type AppDetails struct {
	AppName string `json:"app_name,omitempty"`
	LogoURL string `json:"logo_url,omitempty"`
}

// Client talks to the backing API's auth surface. Give it the bootstrap
// HTTP client so every call flows through the installed FaultInterceptor.
type Client struct {
	cfg    Config
	http   *http.Client
	logger Logger
}

// NewClient creates an API client over cfg. A nil httpClient falls back to
// http.DefaultClient, which skips the fault interceptor; production wiring
// should pass the intercepted client.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		logger: defLogger{},
	}
}

// WithLogger overrides the client logger.
func (c *Client) WithLogger(logger Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Login exchanges credentials for a bearer token. A 2xx body without
// access_token fails with ErrLoginRejected.
func (c *Client) Login(ctx context.Context, payload LoginRequest) (*LoginResponse, error) {
	if err := payload.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload")
	}

	res := &LoginResponse{}
	if err := c.post(ctx, "login", "", payload, res); err != nil {
		return nil, err
	}

	if res.AccessToken == "" {
		return nil, ErrLoginRejected
	}

	return res, nil
}

// Me validates token against the identity endpoint. The response must carry
// the nested access marker; anything else is ErrIdentityMalformed so the
// caller treats it as a rejection rather than trusting a half-decoded shape.
func (c *Client) Me(ctx context.Context, token string) (*IdentityResponse, error) {
	res := &IdentityResponse{}
	if err := c.post(ctx, "auth/me", token, nil, res); err != nil {
		return nil, err
	}

	if res.User.AccessToken == "" {
		return nil, ErrIdentityMalformed
	}

	return res, nil
}

// ForgotPassword requests a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	payload := map[string]string{"email": email}
	return c.post(ctx, "forgot-password", "", payload, nil)
}

// AppDetails fetches branding metadata. Relative logo paths are resolved
// against the media base URL.
func (c *Client) AppDetails(ctx context.Context) (*AppDetails, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "app-details", "", nil)
	if err != nil {
		return nil, err
	}

	details := &AppDetails{}
	if err := c.do(req, details); err != nil {
		return nil, err
	}

	if details.LogoURL != "" && !strings.HasPrefix(details.LogoURL, "http") {
		details.LogoURL = joinURL(c.cfg.GetMediaBaseURL(), details.LogoURL)
	}

	return details, nil
}

func (c *Client) post(ctx context.Context, path, token string, payload, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, token, payload)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not encode request payload")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, joinURL(c.cfg.GetBaseURL(), path), body)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not build request")
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	res, err := c.http.Do(req)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "request failed").
			WithMetadata(map[string]any{"path": req.URL.Path})
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		return ErrCredentialRejected
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return goerrors.New(
			fmt.Sprintf("unexpected status %d", res.StatusCode),
			goerrors.CategoryOperation,
		).WithMetadata(map[string]any{
			"path":   req.URL.Path,
			"status": res.StatusCode,
		})
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "could not decode response payload").
			WithMetadata(map[string]any{"path": req.URL.Path})
	}

	return nil
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
