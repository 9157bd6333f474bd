package auth

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// oidcIdentity verifies ID tokens against the issuer's published keys.
type oidcIdentity struct {
	verifier *oidc.IDTokenVerifier
}

// DiscoverProvider runs OIDC discovery for the issuer and returns the token
// verifier together with the OAuth2 endpoints it advertises.
func DiscoverProvider(ctx context.Context, cfg OAuthConfig) (IdentityVerifier, oauth2.Endpoint, error) {
	provider, err := oidc.NewProvider(ctx, cfg.IssuerURL)
	if err != nil {
		return nil, oauth2.Endpoint{}, fmt.Errorf("oidc discovery for %s: %w", cfg.IssuerURL, err)
	}

	identity := &oidcIdentity{
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}
	return identity, provider.Endpoint(), nil
}

func (o *oidcIdentity) Subject(ctx context.Context, rawIDToken string) (string, error) {
	idToken, err := o.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", fmt.Errorf("failed to verify ID token: %w", err)
	}
	if idToken.Subject == "" {
		return "", fmt.Errorf("ID token has no subject")
	}
	return idToken.Subject, nil
}
