package employee_test

import (
	"fmt"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/eunbikang/worklog-management/internal/auth"
	"github.com/eunbikang/worklog-management/internal/employee"
)

func TestEmployeeService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Employee Service Suite")
}

// Mock repository for testing
type mockEmployeeRepository struct {
	employees map[string]*employee.Employee
	nextID    int
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{employees: make(map[string]*employee.Employee), nextID: 1}
}

func (m *mockEmployeeRepository) Create(e *employee.Employee) error {
	if e.ID == "" {
		e.ID = fmt.Sprintf("emp-%d", m.nextID)
		m.nextID++
	}
	stored := *e
	m.employees[e.ID] = &stored
	return nil
}

func (m *mockEmployeeRepository) GetByID(id string) (*employee.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, employee.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *mockEmployeeRepository) GetAll() ([]*employee.Employee, error) {
	out := make([]*employee.Employee, 0, len(m.employees))
	for _, e := range m.employees {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEmployeeRepository) EmailExists(email string, excludeID string) (bool, error) {
	for _, e := range m.employees {
		if e.Email == email && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEmployeeRepository) Update(e *employee.Employee) error {
	if _, ok := m.employees[e.ID]; !ok {
		return employee.ErrNotFound
	}
	stored := *e
	m.employees[e.ID] = &stored
	return nil
}

func (m *mockEmployeeRepository) Delete(id string) error {
	if _, ok := m.employees[id]; !ok {
		return employee.ErrNotFound
	}
	delete(m.employees, id)
	return nil
}

func strPtr(s string) *string { return &s }
func ratePtr(v int64) *int64  { return &v }

var _ = Describe("EmployeeService", func() {
	var (
		service  *employee.Service
		mockRepo *mockEmployeeRepository
		admin    auth.Identity
		alice    auth.Identity
	)

	BeforeEach(func() {
		mockRepo = newMockEmployeeRepository()
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = employee.NewService(mockRepo, 4, nil, lg)

		admin = auth.Identity{ID: "admin-1", Role: auth.RoleAdmin}
		alice = auth.Identity{ID: "alice-1", Role: auth.RoleUser}

		mockRepo.Create(&employee.Employee{ID: "admin-1", Name: "Admin", Email: "admin@example.com", Role: auth.RoleAdmin})
		mockRepo.Create(&employee.Employee{ID: "alice-1", Name: "Alice", Email: "alice@example.com", Role: auth.RoleUser, HourlyRate: ratePtr(1000)})
	})

	Describe("GetAll", func() {
		It("lists everyone for an admin", func() {
			all, err := service.GetAll(admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(2))
		})

		It("forbids non-admin callers", func() {
			_, err := service.GetAll(alice)
			Expect(err).To(MatchError(employee.ErrForbidden))
		})
	})

	Describe("GetByID", func() {
		It("lets a user read their own record", func() {
			e, err := service.GetByID(alice, "alice-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Email).To(Equal("alice@example.com"))
		})

		It("forbids reading someone else's record", func() {
			_, err := service.GetByID(alice, "admin-1")
			Expect(err).To(MatchError(employee.ErrForbidden))
		})

		It("lets an admin read anyone", func() {
			_, err := service.GetByID(admin, "alice-1")
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("Create", func() {
		It("creates an employee with a hashed password", func() {
			e, err := service.Create(admin, employee.CreateEmployeeDTO{
				Name:       "Bob",
				Email:      "bob@example.com",
				Password:   "secret-password",
				HourlyRate: ratePtr(1500),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.ID).NotTo(BeEmpty())
			Expect(e.PasswordHash).NotTo(Equal("secret-password"))
			Expect(auth.VerifyPassword(e.PasswordHash, "secret-password")).To(Succeed())
		})

		It("rejects a duplicate email", func() {
			_, err := service.Create(admin, employee.CreateEmployeeDTO{
				Name: "Other Alice", Email: "alice@example.com", Password: "secret-password",
			})
			Expect(err).To(MatchError(employee.ErrEmailTaken))
		})

		It("forbids non-admin callers", func() {
			_, err := service.Create(alice, employee.CreateEmployeeDTO{
				Name: "Bob", Email: "bob@example.com", Password: "secret-password",
			})
			Expect(err).To(MatchError(employee.ErrForbidden))
		})

		It("rejects a short password", func() {
			_, err := service.Create(admin, employee.CreateEmployeeDTO{
				Name: "Bob", Email: "bob@example.com", Password: "short",
			})
			Expect(err).To(BeAssignableToTypeOf(employee.ValidationError{}))
		})
	})

	Describe("Update", func() {
		It("applies partial updates", func() {
			e, err := service.Update(alice, "alice-1", employee.UpdateEmployeeDTO{
				Name: strPtr("Alice K"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Name).To(Equal("Alice K"))
			Expect(e.Email).To(Equal("alice@example.com"))
		})

		It("rejects an email already used by someone else", func() {
			_, err := service.Update(alice, "alice-1", employee.UpdateEmployeeDTO{
				Email: strPtr("admin@example.com"),
			})
			Expect(err).To(MatchError(employee.ErrEmailTaken))
		})

		It("accepts the employee's own current email", func() {
			_, err := service.Update(alice, "alice-1", employee.UpdateEmployeeDTO{
				Email: strPtr("alice@example.com"),
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("clears the default rate when asked", func() {
			e, err := service.Update(alice, "alice-1", employee.UpdateEmployeeDTO{ClearRate: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.HourlyRate).To(BeNil())
		})

		It("forbids role changes by non-admins", func() {
			_, err := service.Update(alice, "alice-1", employee.UpdateEmployeeDTO{
				Role: strPtr("admin"),
			})
			Expect(err).To(MatchError(employee.ErrForbidden))
		})

		It("forbids an admin changing their own role", func() {
			_, err := service.Update(admin, "admin-1", employee.UpdateEmployeeDTO{
				Role: strPtr("user"),
			})
			Expect(err).To(MatchError(employee.ErrSelfRoleChange))
		})

		It("lets an admin promote another employee", func() {
			e, err := service.Update(admin, "alice-1", employee.UpdateEmployeeDTO{
				Role: strPtr("admin"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.Role).To(Equal(auth.RoleAdmin))
		})
	})

	Describe("Delete", func() {
		It("lets an admin delete another employee", func() {
			Expect(service.Delete(admin, "alice-1")).To(Succeed())
			_, err := mockRepo.GetByID("alice-1")
			Expect(err).To(MatchError(employee.ErrNotFound))
		})

		It("blocks an admin deleting their own account", func() {
			Expect(service.Delete(admin, "admin-1")).To(MatchError(employee.ErrSelfDelete))
		})

		It("forbids non-admin callers", func() {
			Expect(service.Delete(alice, "alice-1")).To(MatchError(employee.ErrForbidden))
		})

		It("fails on a missing employee", func() {
			Expect(service.Delete(admin, "missing")).To(MatchError(employee.ErrNotFound))
		})
	})
})
