package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Role is the closed set of caller roles. It is decided exactly once, when an
// identity is resolved from a token, and never re-derived from free text
// downstream.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole normalizes a stored role value. Anything that is not an admin
// marker collapses to RoleUser.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

func (r Role) String() string { return string(r) }

// Identity is the resolved caller passed to every service. Services never see
// the raw bearer credential.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (string, Identity, error)
	Signup(dto SignupDTO) (Identity, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ResolveIdentity(claims *Claims) (Identity, error)
	HashPassword(password string) (string, error)
}

// RepositoryAPI is the credential/identity lookup consumed by the service.
type RepositoryAPI interface {
	GetCredentialsByEmail(email string) (id string, passwordHash string, err error)
	GetIdentity(id string) (Identity, error)
	EmailExists(email string) (bool, error)
	CreateUser(name, email, passwordHash string) (Identity, error)
}

type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("missing token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnknownSubject     = errors.New("unknown token subject")
	ErrEmailTaken         = errors.New("email already in use")
)

type ctxKey string

const ContextIdentityKey ctxKey = "identity"

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ContextIdentityKey).(Identity)
	return id, ok
}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ContextIdentityKey, id)
}

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
