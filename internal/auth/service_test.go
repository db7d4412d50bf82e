package auth

import (
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock repository for testing
type mockAuthRepository struct {
	credentials map[string]string   // email -> password hash
	idsByEmail  map[string]string   // email -> user id
	identities  map[string]Identity // user id -> identity
}

func newMockAuthRepository() *mockAuthRepository {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	return &mockAuthRepository{
		credentials: map[string]string{
			"user@example.com":  string(hash),
			"admin@example.com": string(hash),
		},
		idsByEmail: map[string]string{
			"user@example.com":  "user-1",
			"admin@example.com": "admin-1",
		},
		identities: map[string]Identity{
			"user-1":  {ID: "user-1", Email: "user@example.com", Name: "User", Role: RoleUser},
			"admin-1": {ID: "admin-1", Email: "admin@example.com", Name: "Admin", Role: RoleAdmin},
		},
	}
}

func (m *mockAuthRepository) GetCredentialsByEmail(email string) (string, string, error) {
	hash, ok := m.credentials[email]
	if !ok {
		return "", "", ErrInvalidCredentials
	}
	return m.idsByEmail[email], hash, nil
}

func (m *mockAuthRepository) GetIdentity(id string) (Identity, error) {
	identity, ok := m.identities[id]
	if !ok {
		return Identity{}, ErrUnknownSubject
	}
	return identity, nil
}

func (m *mockAuthRepository) EmailExists(email string) (bool, error) {
	_, ok := m.credentials[email]
	return ok, nil
}

func (m *mockAuthRepository) CreateUser(name, email, passwordHash string) (Identity, error) {
	id := "new-" + name
	m.credentials[email] = passwordHash
	m.idsByEmail[email] = id
	identity := Identity{ID: id, Email: email, Name: name, Role: RoleUser}
	m.identities[id] = identity
	return identity, nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockAuthRepository
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		tokenGen := NewJWTTokenGenerator("test-secret-at-least-32-characters!!", time.Hour)
		service = NewService(mockRepo, tokenGen, bcrypt.MinCost)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.It("returns a token and the identity for valid credentials", func() {
			token, identity, err := service.Authenticate(LoginDTO{
				Email:    "user@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(token).NotTo(gomega.BeEmpty())
			gomega.Expect(identity.ID).To(gomega.Equal("user-1"))
			gomega.Expect(identity.Role).To(gomega.Equal(RoleUser))
		})

		ginkgo.It("rejects a wrong password", func() {
			_, _, err := service.Authenticate(LoginDTO{
				Email:    "user@example.com",
				Password: "wrong_password",
			})
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
		})

		ginkgo.It("rejects an unknown email with the same error", func() {
			_, _, err := service.Authenticate(LoginDTO{
				Email:    "ghost@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
		})
	})

	ginkgo.Describe("token round trip", func() {
		ginkgo.It("validates a token it issued and resolves the identity", func() {
			token, _, err := service.Authenticate(LoginDTO{
				Email:    "admin@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			claims, err := service.ValidateAccessToken(token)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(claims.UserID).To(gomega.Equal("admin-1"))

			identity, err := service.ResolveIdentity(claims)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(identity.Role).To(gomega.Equal(RoleAdmin))
		})

		ginkgo.It("rejects a garbage token", func() {
			_, err := service.ValidateAccessToken("not.a.token")
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		})

		ginkgo.It("rejects an expired token", func() {
			expiredGen := NewJWTTokenGenerator("test-secret-at-least-32-characters!!", -time.Hour)
			token, err := expiredGen.GenerateToken(Identity{ID: "user-1"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			gomega.Expect(err).To(gomega.MatchError(ErrTokenExpired))
		})

		ginkgo.It("rejects a token signed with a different secret", func() {
			otherGen := NewJWTTokenGenerator("another-secret-also-32-characters!!!", time.Hour)
			token, err := otherGen.GenerateToken(Identity{ID: "user-1"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(token)
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		})

		ginkgo.It("fails resolution for a deleted account", func() {
			tokenGen := NewJWTTokenGenerator("test-secret-at-least-32-characters!!", time.Hour)
			token, err := tokenGen.GenerateToken(Identity{ID: "deleted-1"})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			claims, err := service.ValidateAccessToken(token)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			_, err = service.ResolveIdentity(claims)
			gomega.Expect(err).To(gomega.MatchError(ErrUnknownSubject))
		})

		ginkgo.It("reflects a role change on the next resolution", func() {
			token, _, err := service.Authenticate(LoginDTO{
				Email:    "user@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			promoted := mockRepo.identities["user-1"]
			promoted.Role = RoleAdmin
			mockRepo.identities["user-1"] = promoted

			claims, err := service.ValidateAccessToken(token)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			identity, err := service.ResolveIdentity(claims)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(identity.Role).To(gomega.Equal(RoleAdmin))
		})
	})

	ginkgo.Describe("Signup", func() {
		ginkgo.It("creates an account with the user role", func() {
			identity, err := service.Signup(SignupDTO{
				Name:     "Newbie",
				Email:    "new@example.com",
				Password: "long-enough-password",
			})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(identity.Role).To(gomega.Equal(RoleUser))
		})

		ginkgo.It("rejects an email already in use", func() {
			_, err := service.Signup(SignupDTO{
				Name:     "Clone",
				Email:    "user@example.com",
				Password: "long-enough-password",
			})
			gomega.Expect(err).To(gomega.MatchError(ErrEmailTaken))
		})
	})

	ginkgo.Describe("ParseRole", func() {
		ginkgo.It("recognizes admin case-insensitively", func() {
			gomega.Expect(ParseRole("Admin")).To(gomega.Equal(RoleAdmin))
			gomega.Expect(ParseRole(" ADMIN ")).To(gomega.Equal(RoleAdmin))
		})

		ginkgo.It("collapses everything else to user", func() {
			gomega.Expect(ParseRole("user")).To(gomega.Equal(RoleUser))
			gomega.Expect(ParseRole("superuser")).To(gomega.Equal(RoleUser))
			gomega.Expect(ParseRole("")).To(gomega.Equal(RoleUser))
		})
	})
})
