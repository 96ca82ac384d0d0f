package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
)

// OAuthConfig configures the OAuth2-backed identity provider. Defaults point
// at Google; the endpoint fields exist so tests and other OIDC-compatible
// providers can redirect the flow.
type OAuthConfig struct {
	ClientID     string   `env:"OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"OAUTH_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"OAUTH_REDIRECT_URL,required"`
	Scopes       []string `env:"OAUTH_SCOPES" envSeparator:"," envDefault:"openid,email"`

	AuthURL     string `env:"OAUTH_AUTH_URL" envDefault:"https://accounts.google.com/o/oauth2/auth"`
	TokenURL    string `env:"OAUTH_TOKEN_URL" envDefault:"https://oauth2.googleapis.com/token"`
	UserInfoURL string `env:"OAUTH_USERINFO_URL" envDefault:"https://www.googleapis.com/oauth2/v3/userinfo"`
}

// OAuthProvider implements Provider over the standard authorization-code
// flow: exchange the code for a token, then fetch the userinfo profile.
type OAuthProvider struct {
	oauth       *oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewOAuthProvider creates an OAuth2-backed identity provider.
func NewOAuthProvider(cfg OAuthConfig) *OAuthProvider {
	return &OAuthProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.AuthURL,
				TokenURL: cfg.TokenURL,
			},
		},
		userInfoURL: cfg.UserInfoURL,
		httpClient:  http.DefaultClient,
	}
}

// AuthCodeURL returns the provider's authorization URL with the given state.
func (p *OAuthProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

// ExchangeCode redeems the authorization code exactly once. Provider
// rejections (4xx) surface as ErrInvalidCode so a consumed or forged code is
// distinguishable from provider downtime.
func (p *OAuthProvider) ExchangeCode(ctx context.Context, code string) (Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil && retrieveErr.Response.StatusCode < 500 {
			return Identity{}, errors.Join(ErrInvalidCode, err)
		}
		return Identity{}, errors.Join(ErrProvider, err)
	}

	profile, err := p.fetchProfile(ctx, token)
	if err != nil {
		return Identity{}, err
	}
	if profile.Subject == "" {
		return Identity{}, ErrIncompleteProfile
	}

	return Identity{
		UserID:  DeriveUserID(profile.Subject),
		Subject: profile.Subject,
		Email:   profile.Email,
	}, nil
}

type userInfo struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}

func (p *OAuthProvider) fetchProfile(ctx context.Context, token *oauth2.Token) (userInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return userInfo{}, errors.Join(ErrProvider, err)
	}
	token.SetAuthHeader(req)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return userInfo{}, errors.Join(ErrProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return userInfo{}, errors.Join(ErrProvider, fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode))
	}

	var profile userInfo
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return userInfo{}, errors.Join(ErrProvider, err)
	}
	return profile, nil
}
