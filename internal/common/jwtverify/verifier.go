package jwtverify

import (
	"crypto"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/secure-notes/backend/internal/observability/metrics"
)

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
	ErrInvalidPublicKey     = errors.New("invalid public key")

	errMissingUsername = errors.New("token has no username claim")
)

type Claims struct {
	Username  string
	Subject   string
	ExpiresAt *time.Time
}

type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Option func(*options)

type options struct {
	leeway   time.Duration
	issuer   string
	audience string
}

func WithLeeway(d time.Duration) Option {
	return func(o *options) { o.leeway = d }
}

func WithIssuer(issuer string) Option {
	return func(o *options) { o.issuer = issuer }
}

func WithAudience(audience string) Option {
	return func(o *options) { o.audience = audience }
}

// Verifier checks bearer tokens against one public key and one asymmetric
// algorithm. It is immutable after construction.
type Verifier struct {
	alg    string
	key    crypto.PublicKey
	parser *jwt.Parser
}

func NewVerifier(publicKeyPEM []byte, algorithm string, opts ...Option) (*Verifier, error) {
	key, err := parsePublicKey(publicKeyPEM, algorithm)
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{algorithm}),
		jwt.WithIssuedAt(),
	}
	if o.leeway > 0 {
		parserOpts = append(parserOpts, jwt.WithLeeway(o.leeway))
	}
	if o.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(o.issuer))
	}
	if o.audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(o.audience))
	}

	return &Verifier{
		alg:    algorithm,
		key:    key,
		parser: jwt.NewParser(parserOpts...),
	}, nil
}

func (v *Verifier) Algorithm() string {
	return v.alg
}

// Verify returns the claims of a valid token. Every failure is reported as
// ErrInvalidToken with the library error attached as the cause.
func (v *Verifier) Verify(tokenString string) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	var tc tokenClaims
	if _, err := v.parser.ParseWithClaims(tokenString, &tc, v.keyFunc); err != nil {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, ErrInvalidToken.WithCause(err)
	}

	if strings.TrimSpace(tc.Username) == "" {
		metrics.JWTValidationsFailed.Inc()
		return Claims{}, ErrInvalidToken.WithCause(errMissingUsername)
	}

	claims := Claims{
		Username: tc.Username,
		Subject:  tc.Subject,
	}
	if tc.ExpiresAt != nil {
		exp := tc.ExpiresAt.Time
		claims.ExpiresAt = &exp
	}
	return claims, nil
}

func (v *Verifier) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method == nil || token.Method.Alg() != v.alg {
		return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
	}
	return v.key, nil
}

func parsePublicKey(pemBytes []byte, algorithm string) (crypto.PublicKey, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	var (
		key crypto.PublicKey
		err error
	)
	switch method.(type) {
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		key, err = jwt.ParseRSAPublicKeyFromPEM(pemBytes)
	case *jwt.SigningMethodECDSA:
		key, err = jwt.ParseECPublicKeyFromPEM(pemBytes)
	case *jwt.SigningMethodEd25519:
		key, err = jwt.ParseEdPublicKeyFromPEM(pemBytes)
	default:
		return nil, fmt.Errorf("%w: %q is not asymmetric", ErrUnsupportedAlgorithm, algorithm)
	}
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrInvalidPublicKey, algorithm, err)
	}
	return key, nil
}
