package sessionguard

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Default routes the guard redirects to. Override via SimpleConfig.
const (
	DefaultLoginRoute     = "/login"
	DefaultLandingRoute   = "/dashboard"
	DefaultForbiddenRoute = "/403"
)

// DefaultRefreshInterval is how often an authenticated session re-validates
// its identity in the background.
const DefaultRefreshInterval = 10 * time.Minute

// SimpleConfig is a plain-struct Config implementation.
type SimpleConfig struct {
	BaseURL         string        `json:"base_url"`
	MediaBaseURL    string        `json:"media_base_url,omitempty"`
	LoginRoute      string        `json:"login_route,omitempty"`
	LandingRoute    string        `json:"landing_route,omitempty"`
	ForbiddenRoute  string        `json:"forbidden_route,omitempty"`
	PublicRoutes    []string      `json:"public_routes,omitempty"`
	RefreshInterval time.Duration `json:"refresh_interval,omitempty"`
}

// Validate checks the config is usable before bootstrap wires it in.
func (c SimpleConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(
			&c.BaseURL,
			validation.Required,
			is.URL,
		),
		validation.Field(&c.MediaBaseURL, is.URL),
	)
}

func (c SimpleConfig) GetBaseURL() string {
	return c.BaseURL
}

func (c SimpleConfig) GetMediaBaseURL() string {
	if c.MediaBaseURL == "" {
		return c.BaseURL
	}
	return c.MediaBaseURL
}

func (c SimpleConfig) GetLoginRoute() string {
	if c.LoginRoute == "" {
		return DefaultLoginRoute
	}
	return c.LoginRoute
}

func (c SimpleConfig) GetLandingRoute() string {
	if c.LandingRoute == "" {
		return DefaultLandingRoute
	}
	return c.LandingRoute
}

func (c SimpleConfig) GetForbiddenRoute() string {
	if c.ForbiddenRoute == "" {
		return DefaultForbiddenRoute
	}
	return c.ForbiddenRoute
}

func (c SimpleConfig) GetPublicRoutes() []string {
	if len(c.PublicRoutes) == 0 {
		return DefaultPublicRoutes
	}
	return c.PublicRoutes
}

func (c SimpleConfig) GetRefreshInterval() time.Duration {
	if c.RefreshInterval <= 0 {
		return DefaultRefreshInterval
	}
	return c.RefreshInterval
}
