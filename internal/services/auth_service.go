package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/muhammedkh45/Echoo/internal/domain/user"
	"github.com/muhammedkh45/Echoo/internal/repository"
	echoo_errors "github.com/muhammedkh45/Echoo/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AccessClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identity is what a successful authentication attaches to a connection or
// request.
type Identity struct {
	User   user.User
	Claims AccessClaims
	Scheme string
}

// AuthService resolves "<scheme> <token>" credentials. Each scheme has its
// own signing key; lookup is case-insensitive.
type AuthService struct {
	keys    map[string][]byte
	users   repository.UserRepository
	revoked repository.RevokedTokenRepository
}

func NewAuthService(keys map[string][]byte, users repository.UserRepository, revoked repository.RevokedTokenRepository) *AuthService {
	normalized := make(map[string][]byte, len(keys))
	for scheme, key := range keys {
		normalized[strings.ToLower(scheme)] = key
	}
	return &AuthService{keys: normalized, users: users, revoked: revoked}
}

func splitCredential(credential string) (string, string, error) {
	parts := strings.Fields(credential)
	if len(parts) != 2 {
		return "", "", echoo_errors.ErrMissingCredential
	}
	return parts[0], parts[1], nil
}

// Authenticate verifies credential and loads the user named by its subject.
func (s *AuthService) Authenticate(ctx context.Context, credential string) (Identity, error) {
	scheme, token, err := splitCredential(credential)
	if err != nil {
		return Identity{}, err
	}

	key, ok := s.keys[strings.ToLower(scheme)]
	if !ok {
		return Identity{}, echoo_errors.ErrUnknownScheme
	}

	claims, err := s.ParseAccessToken(token, key)
	if err != nil {
		return Identity{}, err
	}

	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return Identity{}, err
		}
		if revoked {
			return Identity{}, echoo_errors.ErrInvalidToken
		}
	}

	userID, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return Identity{}, echoo_errors.ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, echoo_errors.ErrNotFound) {
			return Identity{}, echoo_errors.ErrInvalidToken
		}
		return Identity{}, err
	}

	return Identity{User: u, Claims: claims, Scheme: strings.ToLower(scheme)}, nil
}

func (s *AuthService) ParseAccessToken(tokenString string, key []byte) (AccessClaims, error) {
	if tokenString == "" {
		return AccessClaims{}, echoo_errors.ErrMissingCredential
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return AccessClaims{}, fmt.Errorf("%w: %v", echoo_errors.ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return AccessClaims{}, echoo_errors.ErrInvalidToken
	}

	return *claims, nil
}

// IssueAccessToken signs a token for u. Tokens are normally minted by the
// account service; this is used by tooling and the dev seed.
func IssueAccessToken(key []byte, u user.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Role: string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.Hex(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}
