package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	tokenGenerator *JWTTokenGenerator
	bcryptCost     int
}

func NewService(repo RepositoryAPI, tokenGen *JWTTokenGenerator, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
	}
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: ttl,
	}
}

// Authenticate validates credentials and returns a signed token plus the
// resolved identity.
func (s *Service) Authenticate(dto LoginDTO) (string, Identity, error) {
	if err := dto.Validate(); err != nil {
		return "", Identity{}, err
	}

	id, storedHash, err := s.repo.GetCredentialsByEmail(dto.Email)
	if err != nil {
		return "", Identity{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(dto.Password)); err != nil {
		return "", Identity{}, ErrInvalidCredentials
	}

	identity, err := s.repo.GetIdentity(id)
	if err != nil {
		return "", Identity{}, ErrInvalidCredentials
	}

	token, err := s.tokenGenerator.GenerateToken(identity)
	if err != nil {
		return "", Identity{}, err
	}

	return token, identity, nil
}

// Signup registers a new account with the user role.
func (s *Service) Signup(dto SignupDTO) (Identity, error) {
	if err := dto.Validate(); err != nil {
		return Identity{}, err
	}

	taken, err := s.repo.EmailExists(dto.Email)
	if err != nil {
		return Identity{}, fmt.Errorf("signup email lookup: %w", err)
	}
	if taken {
		return Identity{}, ErrEmailTaken
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return Identity{}, fmt.Errorf("signup password hash: %w", err)
	}

	return s.repo.CreateUser(dto.Name, dto.Email, hash)
}

// ValidateAccessToken validates a token string and returns its claims.
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateToken(tokenString)
}

// ResolveIdentity re-checks the token subject against the store; a token for a
// deleted account must stop working immediately. The role always comes from the
// store, not from stale claims.
func (s *Service) ResolveIdentity(claims *Claims) (Identity, error) {
	identity, err := s.repo.GetIdentity(claims.UserID)
	if err != nil {
		return Identity{}, ErrUnknownSubject
	}
	return identity, nil
}

func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// GenerateToken creates a signed access token for the identity.
func (j *JWTTokenGenerator) GenerateToken(identity Identity) (string, error) {
	expiresAt := time.Now().Add(j.TokenTTL)

	claims := &Claims{
		UserID: identity.ID,
		Email:  identity.Email,
		Role:   identity.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   identity.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
