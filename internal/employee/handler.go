package employee

import (
	"encoding/json"
	"log/slog"
	"net/http"

	errors "github.com/eunbikang/worklog-management/internal"
	"github.com/eunbikang/worklog-management/internal/auth"
	"github.com/eunbikang/worklog-management/internal/transport"
	"github.com/eunbikang/worklog-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetAll(caller auth.Identity) ([]*Employee, error)
	GetByID(caller auth.Identity, id string) (*Employee, error)
	Create(caller auth.Identity, dto CreateEmployeeDTO) (*Employee, error)
	Update(caller auth.Identity, id string, dto UpdateEmployeeDTO) (*Employee, error)
	Delete(caller auth.Identity, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	employees, err := h.Service.GetAll(caller)
	if err != nil {
		h.handleServiceError(w, err, "ListEmployees")
		return
	}

	h.WriteJSON(w, http.StatusOK, employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	e, err := h.Service.GetByID(caller, id)
	if err != nil {
		h.handleServiceError(w, err, "GetEmployee")
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.Create(caller, dto)
	if err != nil {
		h.handleServiceError(w, err, "CreateEmployee")
		return
	}

	h.Logger.Info("CreateEmployee: employee created", "employee_id", e.ID, "by", caller.ID)
	h.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")

	var dto UpdateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := h.Service.Update(caller, id, dto)
	if err != nil {
		h.handleServiceError(w, err, "UpdateEmployee")
		return
	}

	h.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Service.Delete(caller, id); err != nil {
		h.handleServiceError(w, err, "DeleteEmployee")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error, op string) {
	switch err {
	case ErrNotFound:
		h.HandleAppError(w, errors.NewNotFoundError("employee not found", errors.ErrCodeEmployeeNotFound))
	case ErrForbidden:
		h.HandleAppError(w, errors.NewForbiddenError("not allowed to access this employee", errors.ErrCodeForbiddenAccess))
	case ErrEmailTaken:
		h.HandleAppError(w, errors.NewValidationError("email already in use", errors.ErrCodeEmailTaken))
	case ErrSelfDelete:
		h.HandleAppError(w, errors.NewValidationError("cannot delete your own account", errors.ErrCodeSelfDelete))
	case ErrSelfRoleChange:
		h.HandleAppError(w, errors.NewValidationError("cannot change your own role", errors.ErrCodeSelfRoleChange))
	default:
		if _, ok := err.(ValidationError); ok {
			h.HandleAppError(w, errors.NewValidationError(err.Error(), errors.ErrCodeValidationFailed))
			return
		}
		h.Logger.Error(op+": service error", "error", err)
		h.HandleAppError(w, errors.NewInternalError("internal server error", err))
	}
}
