package service

import (
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"faxfhir/internal/config"
	"faxfhir/internal/domain"
)

// Claims represents the JWT claims issued for an authenticated API client.
type Claims struct {
	jwt.RegisteredClaims
	ClientName string `json:"client_name"`
	StoreData  bool   `json:"store_data"`
}

// Token holds an issued access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// AuthService authenticates integration partners by API key and exchanges
// keys for short-lived JWTs.
type AuthService interface {
	Authenticate(apiKey string) (*domain.APIClient, error)
	IssueToken(client *domain.APIClient) (*Token, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	keys []config.APIKeyConfig
	cfg  config.JWTConfig
}

// NewAuthService creates a new AuthService from the configured key list.
func NewAuthService(keys []config.APIKeyConfig, cfg config.JWTConfig) AuthService {
	return &authService{keys: keys, cfg: cfg}
}

// Authenticate resolves an API key to its client. Keys stored as bcrypt
// hashes are compared with bcrypt; plaintext keys use a constant-time
// comparison.
func (s *authService) Authenticate(apiKey string) (*domain.APIClient, error) {
	if apiKey == "" {
		return nil, domain.ErrInvalidAPIKey
	}

	for _, k := range s.keys {
		if strings.HasPrefix(k.Key, "$2") {
			if bcrypt.CompareHashAndPassword([]byte(k.Key), []byte(apiKey)) == nil {
				return &domain.APIClient{Name: k.Name, StoreData: k.StoreData}, nil
			}
			continue
		}
		if subtle.ConstantTimeCompare([]byte(k.Key), []byte(apiKey)) == 1 {
			return &domain.APIClient{Name: k.Name, StoreData: k.StoreData}, nil
		}
	}
	return nil, domain.ErrInvalidAPIKey
}

func (s *authService) IssueToken(client *domain.APIClient) (*Token, error) {
	now := time.Now()
	expiry := now.Add(s.cfg.AccessExpiry)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   client.Name,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.New().String(),
		},
		ClientName: client.Name,
		StoreData:  client.StoreData,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	return &Token{AccessToken: signed, ExpiresAt: expiry}, nil
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
