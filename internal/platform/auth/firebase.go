// Package auth verifies Firebase ID tokens and exposes the calling user to
// handlers.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
)

var (
	ErrNoToken          = errors.New("no bearer token")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenRevoked     = errors.New("token revoked")
	ErrUserDisabled     = errors.New("user disabled")
	ErrCertificateFetch = errors.New("certificate fetch failed")
)

// FirebaseUser is the identity carried by a verified ID token.
type FirebaseUser struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
	Provider      string
}

// Verifier checks a bearer token and returns the user it identifies.
type Verifier interface {
	Verify(ctx context.Context, token string) (*FirebaseUser, error)
}

// FirebaseVerifier verifies ID tokens with the Firebase Admin SDK, including
// revocation and disabled-user checks.
type FirebaseVerifier struct {
	client *fbauth.Client
}

// NewFirebaseVerifier returns a verifier backed by client.
func NewFirebaseVerifier(client *fbauth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

// Verify implements Verifier.
func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*FirebaseUser, error) {
	token, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, idToken)
	if err != nil {
		return nil, classifyVerifyErr(err)
	}

	user := &FirebaseUser{
		UID:      token.UID,
		Provider: token.Firebase.SignInProvider,
	}
	user.Email, _ = token.Claims["email"].(string)
	user.EmailVerified, _ = token.Claims["email_verified"].(bool)
	user.Name, _ = token.Claims["name"].(string)
	user.Picture, _ = token.Claims["picture"].(string)
	return user, nil
}

func classifyVerifyErr(err error) error {
	switch {
	case fbauth.IsIDTokenExpired(err):
		return fmt.Errorf("%w: %w", ErrTokenExpired, err)
	case fbauth.IsIDTokenRevoked(err):
		return fmt.Errorf("%w: %w", ErrTokenRevoked, err)
	case fbauth.IsUserDisabled(err):
		return fmt.Errorf("%w: %w", ErrUserDisabled, err)
	case fbauth.IsCertificateFetchFailed(err):
		return fmt.Errorf("%w: %w", ErrCertificateFetch, err)
	default:
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
}

// InsecureVerifier accepts any non-empty token and uses it as the uid. It is
// for local development only.
type InsecureVerifier struct{}

// Verify implements Verifier.
func (InsecureVerifier) Verify(_ context.Context, token string) (*FirebaseUser, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInvalidToken
	}
	return &FirebaseUser{UID: token, Provider: "insecure"}, nil
}

// MockVerifier returns a fixed user or error.
type MockVerifier struct {
	User  *FirebaseUser
	Error error
}

// Verify implements Verifier.
func (m *MockVerifier) Verify(context.Context, string) (*FirebaseUser, error) {
	if m.Error != nil {
		return nil, m.Error
	}
	return m.User, nil
}

// TestUser returns a stable user for tests.
func TestUser() *FirebaseUser {
	return &FirebaseUser{
		UID:           "test-user-123",
		Email:         "test@example.com",
		EmailVerified: true,
		Name:          "Test User",
		Provider:      "password",
	}
}

// ExtractBearerToken returns the token from an Authorization header value.
func ExtractBearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrNoToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
