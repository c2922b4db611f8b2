package httpclient

import "net/http"

// Auth types accepted in AuthConfig.Type.
const (
	AuthNone   = ""
	AuthBearer = "bearer"
	AuthBasic  = "basic"
	AuthAPIKey = "api_key"
	AuthCustom = "custom"
)

const defaultAPIKeyHeader = "X-API-Key"

// AuthConfig configures request authentication. It can be loaded from
// configuration files; Apply is only settable from code.
type AuthConfig struct {
	// Type is one of "bearer", "basic", "api_key" or "custom". Empty disables auth.
	Type string `yaml:"type" mapstructure:"type"`
	// Token is the bearer token.
	Token string `yaml:"token" mapstructure:"token"`
	// Username and Password are used for basic auth.
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	// Key is the API key; Header is where it goes (defaults to X-API-Key).
	Key    string `yaml:"key" mapstructure:"key"`
	Header string `yaml:"header" mapstructure:"header"`
	// Apply modifies the request for custom auth.
	Apply func(*http.Request) `yaml:"-" mapstructure:"-"`
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic auth config.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// APIKeyAuth creates an API key auth config sent in the given header.
// An empty header name selects X-API-Key.
func APIKeyAuth(key, header string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, Header: header}
}

// CustomAuth creates a custom auth config with a request modifier function.
func CustomAuth(fn func(*http.Request)) *AuthConfig {
	return &AuthConfig{Type: AuthCustom, Apply: fn}
}

// enabled reports whether the config adds anything to a request.
func (a *AuthConfig) enabled() bool {
	return a != nil && a.Type != AuthNone
}

// apply applies authentication to an HTTP request.
func (a *AuthConfig) apply(req *http.Request) {
	if !a.enabled() {
		return
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthBasic:
		req.SetBasicAuth(a.Username, a.Password)
	case AuthAPIKey:
		header := a.Header
		if header == "" {
			header = defaultAPIKeyHeader
		}
		req.Header.Set(header, a.Key)
	case AuthCustom:
		if a.Apply != nil {
			a.Apply(req)
		}
	}
}
