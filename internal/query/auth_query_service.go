package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/cqrs"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/models"
	"github.com/atharvakulkarni-07/expense-tracker-version-2/internal/utils"
)

// Claims is the JWT payload.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// UserReader is the user store used for credential checks and profile reads.
type UserReader interface {
	GetByEmail(email string) (*models.User, error)
	GetView(ctx context.Context, id string) (*models.UserView, error)
}

// AuthQueryService handles login and token verification. The signing secret
// and token lifetime are constructor arguments so tests can inject fixed
// values; nothing here reads process-wide state.
type AuthQueryService struct {
	users  UserReader
	secret []byte
	ttl    time.Duration
}

func NewAuthQueryService(users UserReader, secret []byte, ttl time.Duration) *AuthQueryService {
	return &AuthQueryService{users: users, secret: secret, ttl: ttl}
}

// Login checks credentials and mints a token. Unknown email and wrong
// password return the same error so callers cannot enumerate accounts; a
// store failure is not a credential failure and passes through unchanged.
func (s *AuthQueryService) Login(cmd cqrs.LoginCommand) (string, *models.UserView, error) {
	user, err := s.users.GetByEmail(cmd.Email)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return "", nil, models.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !utils.CheckPassword(cmd.Password, user.PasswordHash) {
		return "", nil, models.ErrInvalidCredentials
	}
	token, err := s.generateToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, &models.UserView{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

// VerifyToken validates signature and expiry and returns the embedded user
// id. Malformed, expired and badly signed tokens all return ErrInvalidToken.
func (s *AuthQueryService) VerifyToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return "", models.ErrInvalidToken
	}
	return claims.UserID, nil
}

// GetUser returns the public view of a user.
func (s *AuthQueryService) GetUser(q cqrs.GetUserQuery) (*models.UserView, error) {
	return s.users.GetView(context.Background(), q.UserID)
}

func (s *AuthQueryService) generateToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}
