package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chainsafe/claims-registry/pkg/claim"
)

// JWTAuthenticator authenticates bearer tokens. HS256 tokens are checked against a
// shared secret, RS256 tokens against the keys published at a JWKS URL. The caller is
// the token subject.
type JWTAuthenticator struct {
	secret  []byte
	jwksURL string
	issuer  string
	client  *http.Client

	keys   map[string]*rsa.PublicKey
	keysMu sync.RWMutex
}

// JWKS represents a JSON Web Key Set
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK represents a JSON Web Key
type JWK struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// NewJWTAuthenticator creates a JWT authenticator. At least one of secret and jwksURL
// must be set. A non-empty issuer is required to match the iss claim.
func NewJWTAuthenticator(secret, jwksURL, issuer string) (*JWTAuthenticator, error) {
	if secret == "" && jwksURL == "" {
		return nil, errors.New("either an hmac secret or a jwks url is required")
	}
	return &JWTAuthenticator{
		secret:  []byte(secret),
		jwksURL: jwksURL,
		issuer:  issuer,
		client:  &http.Client{Timeout: 10 * time.Second},
		keys:    make(map[string]*rsa.PublicKey),
	}, nil
}

// Authenticate implements Authenticator.
func (a *JWTAuthenticator) Authenticate(r *http.Request) (claim.AccountID, error) {
	raw, err := bearerToken(r)
	if err != nil {
		return "", err
	}
	return a.ValidateToken(r.Context(), raw)
}

// ParseAccount implements Authenticator. Token subjects are opaque, any non-blank
// value is accepted as is.
func (a *JWTAuthenticator) ParseAccount(s string) (claim.AccountID, error) {
	return ParseSubject(s)
}

// ValidateToken parses and verifies raw and returns its subject.
func (a *JWTAuthenticator) ValidateToken(ctx context.Context, raw string) (claim.AccountID, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "RS256"}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (any, error) {
		return a.keyFor(ctx, token)
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claim.AccountID(claims.Subject), nil
}

func (a *JWTAuthenticator) keyFor(ctx context.Context, token *jwt.Token) (any, error) {
	switch token.Method.(type) {
	case *jwt.SigningMethodHMAC:
		if len(a.secret) == 0 {
			return nil, errors.New("hmac tokens are not accepted")
		}
		return a.secret, nil
	case *jwt.SigningMethodRSA:
		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, errors.New("missing kid in token header")
		}
		return a.getKey(ctx, kid)
	default:
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
}

// getKey retrieves a key by ID, refreshing from JWKS if needed
func (a *JWTAuthenticator) getKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	a.keysMu.RLock()
	key, exists := a.keys[kid]
	a.keysMu.RUnlock()
	if exists {
		return key, nil
	}

	if err := a.refreshKeys(ctx); err != nil {
		return nil, err
	}

	a.keysMu.RLock()
	key, exists = a.keys[kid]
	a.keysMu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("key not found: %s", kid)
	}
	return key, nil
}

// refreshKeys fetches and parses the JWKS
func (a *JWTAuthenticator) refreshKeys(ctx context.Context) error {
	if a.jwksURL == "" {
		return errors.New("JWKS URL not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("failed to decode JWKS: %w", err)
	}

	a.keysMu.Lock()
	defer a.keysMu.Unlock()
	for _, k := range jwks.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := parseRSAPublicKey(k.N, k.E)
		if err != nil {
			continue
		}
		a.keys[k.Kid] = pub
	}
	return nil
}

// parseRSAPublicKey parses RSA public key components from base64url-encoded strings
func parseRSAPublicKey(nStr, eStr string) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(nStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(eStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode exponent: %w", err)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: int(new(big.Int).SetBytes(eBytes).Int64()),
	}, nil
}
