package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/cqrs"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/models"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/utils"
)

type mockUserReader struct {
	byEmailFn func(email string) (*models.User, error)
}

func (m *mockUserReader) GetByEmail(email string) (*models.User, error) {
	if m.byEmailFn != nil {
		return m.byEmailFn(email)
	}
	return nil, models.ErrUserNotFound
}
func (m *mockUserReader) GetView(ctx context.Context, id string) (*models.UserView, error) {
	return nil, models.ErrUserNotFound
}

// Token tests never touch the database, so the repository can be nil.
func newTokenService(secret string, ttl time.Duration) *AuthQueryService {
	return NewAuthQueryService(nil, []byte(secret), ttl)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTokenService("test-secret", time.Hour)

	token, err := svc.generateToken("usr-0000000000000001")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	userID, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("failed to verify freshly minted token: %v", err)
	}
	if userID != "usr-0000000000000001" {
		t.Errorf("expected user id to round-trip, got %q", userID)
	}
}

func TestVerifyToken(t *testing.T) {
	svc := newTokenService("test-secret", time.Hour)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "expired token",
			token: func(t *testing.T) string {
				expired := newTokenService("test-secret", -time.Minute)
				token, err := expired.generateToken("usr-0000000000000001")
				if err != nil {
					t.Fatalf("failed to generate token: %v", err)
				}
				return token
			},
		},
		{
			name: "token signed with a different secret",
			token: func(t *testing.T) string {
				other := newTokenService("other-secret", time.Hour)
				token, err := other.generateToken("usr-0000000000000001")
				if err != nil {
					t.Fatalf("failed to generate token: %v", err)
				}
				return token
			},
		},
		{
			name: "unsigned token with alg none",
			token: func(t *testing.T) string {
				claims := Claims{
					UserID: "usr-0000000000000001",
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
					},
				}
				token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
				if err != nil {
					t.Fatalf("failed to build none token: %v", err)
				}
				return token
			},
		},
		{
			name: "token with empty user id",
			token: func(t *testing.T) string {
				claims := Claims{
					RegisteredClaims: jwt.RegisteredClaims{
						ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
					},
				}
				token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
				if err != nil {
					t.Fatalf("failed to sign token: %v", err)
				}
				return token
			},
		},
		{
			name:  "garbage string",
			token: func(t *testing.T) string { return "not.a.token" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.VerifyToken(tt.token(t))
			if err != models.ErrInvalidToken {
				t.Errorf("[%s] expected ErrInvalidToken, got %v", tt.name, err)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-pw")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	alice := &models.User{
		ID: "usr-0000000000000001", Username: "alice",
		Email: "alice@example.com", PasswordHash: hash,
	}

	t.Run("valid credentials mint a verifiable token", func(t *testing.T) {
		svc := NewAuthQueryService(&mockUserReader{
			byEmailFn: func(email string) (*models.User, error) { return alice, nil },
		}, []byte("test-secret"), time.Hour)

		token, user, err := svc.Login(cqrs.LoginCommand{Email: alice.Email, Password: "s3cret-pw"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user == nil || user.ID != alice.ID {
			t.Errorf("expected user view for %q, got %+v", alice.ID, user)
		}
		userID, err := svc.VerifyToken(token)
		if err != nil || userID != alice.ID {
			t.Errorf("minted token does not verify: %v, %q", err, userID)
		}
	})

	t.Run("wrong password and unknown email collapse to one error", func(t *testing.T) {
		tests := []struct {
			name     string
			reader   *mockUserReader
			password string
		}{
			{
				name: "wrong password",
				reader: &mockUserReader{
					byEmailFn: func(email string) (*models.User, error) { return alice, nil },
				},
				password: "wrong",
			},
			{
				name:     "unknown email",
				reader:   &mockUserReader{},
				password: "s3cret-pw",
			},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := NewAuthQueryService(tt.reader, []byte("test-secret"), time.Hour)
				_, _, err := svc.Login(cqrs.LoginCommand{Email: "alice@example.com", Password: tt.password})
				if !errors.Is(err, models.ErrInvalidCredentials) {
					t.Errorf("[%s] expected ErrInvalidCredentials, got %v", tt.name, err)
				}
			})
		}
	})

	t.Run("store failure is not a credential failure", func(t *testing.T) {
		storeErr := errors.New("connection refused")
		svc := NewAuthQueryService(&mockUserReader{
			byEmailFn: func(email string) (*models.User, error) { return nil, storeErr },
		}, []byte("test-secret"), time.Hour)

		_, _, err := svc.Login(cqrs.LoginCommand{Email: alice.Email, Password: "s3cret-pw"})
		if errors.Is(err, models.ErrInvalidCredentials) {
			t.Error("store failure was reported as invalid credentials")
		}
		if !errors.Is(err, storeErr) {
			t.Errorf("expected the store error to pass through, got %v", err)
		}
	})
}

func TestTokenExpirySetFromTTL(t *testing.T) {
	svc := newTokenService("test-secret", 2*time.Hour)

	tokenString, err := svc.generateToken("usr-0000000000000001")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	claims := &Claims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}); err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if lifetime != 2*time.Hour {
		t.Errorf("expected 2h lifetime, got %v", lifetime)
	}
}
