// Package auth authenticates the Deep Origin CLI against the platform identity provider.
//
// Authentication follows the OAuth device authorization flow: the CLI obtains a device code,
// the user confirms it in a browser, and the CLI polls for tokens. Tokens are kept in a local
// cache and refreshed when the access token is about to expire.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deeporigin/deeporigin/pkg/auth/status"
	"github.com/deeporigin/deeporigin/pkg/config"
	"github.com/deeporigin/deeporigin/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	defaultScope   = "offline_access"
	defaultTimeout = 30 * time.Second
)

// Tokens delivered by the identity provider
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// DeviceCode describes a pending device authorization
type DeviceCode struct {
	oauth2.DeviceAuthResponse
}

// Authenticator talks to the identity provider
type Authenticator struct {
	oauth     oauth2.Config
	audience  string
	grantType string
	client    *http.Client
	l         *zap.Logger
}

// Option configures an Authenticator
type Option func(*Authenticator)

// ClientID of the CLI application registered with the identity provider
func ClientID(id string) Option {
	return func(a *Authenticator) { a.oauth.ClientID = id }
}

// ClientSecret, when the application requires one
func ClientSecret(secret string) Option {
	return func(a *Authenticator) { a.oauth.ClientSecret = secret }
}

// Audience of the requested tokens
func Audience(audience string) Option {
	return func(a *Authenticator) { a.audience = audience }
}

// GrantType used when polling for device tokens
func GrantType(grantType string) Option {
	return func(a *Authenticator) {
		if grantType != "" {
			a.grantType = grantType
		}
	}
}

// Endpoints of the identity provider
func Endpoints(deviceCodeURL, tokenURL string) Option {
	return func(a *Authenticator) {
		a.oauth.Endpoint.DeviceAuthURL = deviceCodeURL
		a.oauth.Endpoint.TokenURL = tokenURL
	}
}

// HTTPClient overrides the default HTTP client
func HTTPClient(client *http.Client) Option {
	return func(a *Authenticator) {
		if client != nil {
			a.client = client
		}
	}
}

// Logger for the authenticator
func Logger(logger *zap.Logger) Option {
	return func(a *Authenticator) {
		if logger != nil {
			a.l = logger
		}
	}
}

// New authenticator
func New(opts ...Option) *Authenticator {
	a := &Authenticator{
		oauth: oauth2.Config{
			Scopes: []string{defaultScope},
			Endpoint: oauth2.Endpoint{
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		grantType: "urn:ietf:params:oauth:grant-type:device_code",
		client:    &http.Client{Timeout: defaultTimeout},
		l:         zap.NewNop(),
	}
	for _, apply := range opts {
		apply(a)
	}
	return a
}

// FromConfig builds an authenticator from the CLI configuration
func FromConfig(cfg *config.Config, opts ...Option) *Authenticator {
	base := []Option{
		ClientID(cfg.AuthClientID),
		ClientSecret(cfg.AuthClientSecret),
		Audience(cfg.AuthAudience),
		GrantType(cfg.AuthGrantType),
		Endpoints(cfg.DeviceCodeURL(), cfg.TokenURL()),
	}
	return New(append(base, opts...)...)
}

func (a *Authenticator) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, a.client)
}

// RequestDeviceCode starts a device authorization
func (a *Authenticator) RequestDeviceCode(ctx context.Context) (*DeviceCode, error) {
	resp, err := a.oauth.DeviceAuth(a.withClient(ctx), oauth2.SetAuthURLParam("audience", a.audience))
	if err != nil {
		return nil, tokenError(err)
	}
	return &DeviceCode{DeviceAuthResponse: *resp}, nil
}

// PollToken waits for the user to complete the device authorization.
//
// Polling stops when the device code expires.
func (a *Authenticator) PollToken(ctx context.Context, code *DeviceCode) (*Tokens, error) {
	a.l.Debug("waiting for device authorization", zap.Int64("interval", code.Interval), zap.Time("expiry", code.Expiry))
	token, err := a.oauth.DeviceAccessToken(a.withClient(ctx), &code.DeviceAuthResponse,
		oauth2.SetAuthURLParam("grant_type", a.grantType))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, status.ErrExpiredToken
		}
		return nil, tokenError(err)
	}
	return &Tokens{Access: token.AccessToken, Refresh: token.RefreshToken}, nil
}

// DeviceFlow runs a full device authorization, calling prompt once the user code is known
func (a *Authenticator) DeviceFlow(ctx context.Context, prompt func(*DeviceCode)) (*Tokens, error) {
	code, err := a.RequestDeviceCode(ctx)
	if err != nil {
		return nil, err
	}
	if prompt != nil {
		prompt(code)
	}
	return a.PollToken(ctx, code)
}

// Refresh exchanges a refresh token for a new access token.
// The refresh token is kept when the identity provider does not rotate it.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	if refreshToken == "" {
		return nil, status.ErrNotAuthenticated
	}
	token, err := a.oauth.TokenSource(a.withClient(ctx), &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, tokenError(err)
	}
	tokens := &Tokens{Access: token.AccessToken, Refresh: token.RefreshToken}
	if tokens.Refresh == "" {
		tokens.Refresh = refreshToken
	}
	a.l.Debug("access token refreshed")
	return tokens, nil
}

// tokenError maps an identity provider error response to a status error
func tokenError(err error) error {
	var re *oauth2.RetrieveError
	if !errors.As(err, &re) {
		return status.ErrTokenEndpoint.Wrap(err)
	}
	detail := fmt.Errorf("%s", re.ErrorDescription)
	switch re.ErrorCode {
	case "authorization_pending":
		return status.ErrAuthorizationPending.Wrap(detail)
	case "slow_down":
		return status.ErrSlowDown.Wrap(detail)
	case "expired_token":
		return status.ErrExpiredToken.Wrap(detail)
	case "access_denied":
		return status.ErrAccessDenied.Wrap(detail)
	case "invalid_grant":
		return status.ErrNotAuthenticated.Wrap(detail)
	case "":
		return status.ErrTokenEndpoint.Wrap(err)
	default:
		return status.ErrTokenEndpoint.Wrap(fmt.Errorf("%s: %s", re.ErrorCode, re.ErrorDescription))
	}
}
