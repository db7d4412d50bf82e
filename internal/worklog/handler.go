package worklog

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
	RecordShift(caller auth.Identity, dto CreateWorkLogDTO) (*WorkLog, error)
	UpdateShift(caller auth.Identity, shiftID string, dto UpdateWorkLogDTO) (*WorkLog, error)
	DeleteShift(caller auth.Identity, shiftID string) error
	ListShifts(caller auth.Identity, q ListQuery) ([]*WorkLog, error)
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

func (h *Handler) ListWorkLogs(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	q := ListQuery{
		StartDate:  r.URL.Query().Get("start_date"),
		EndDate:    r.URL.Query().Get("end_date"),
		EmployeeID: r.URL.Query().Get("user_id"),
	}

	logs, err := h.Service.ListShifts(caller, q)
	if err != nil {
		h.handleServiceError(w, err, "ListWorkLogs")
		return
	}

	h.WriteJSON(w, http.StatusOK, logs)
}

func (h *Handler) CreateWorkLog(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateWorkLogDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	log, err := h.Service.RecordShift(caller, dto)
	if err != nil {
		h.handleServiceError(w, err, "CreateWorkLog")
		return
	}

	h.Logger.Info("CreateWorkLog: shift recorded",
		"shift_id", log.ID,
		"employee_id", log.UserID,
		"work_date", log.WorkDate)

	h.WriteJSON(w, http.StatusCreated, log)
}

func (h *Handler) UpdateWorkLog(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	shiftID := chi.URLParam(r, "id")

	var dto UpdateWorkLogDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	log, err := h.Service.UpdateShift(caller, shiftID, dto)
	if err != nil {
		h.handleServiceError(w, err, "UpdateWorkLog")
		return
	}

	h.WriteJSON(w, http.StatusOK, log)
}

func (h *Handler) DeleteWorkLog(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	shiftID := chi.URLParam(r, "id")
	if err := h.Service.DeleteShift(caller, shiftID); err != nil {
		h.handleServiceError(w, err, "DeleteWorkLog")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleServiceError maps domain errors to HTTP statuses. The overlap
// conflict gets a 409 distinct from validation failures so clients can show
// it as "already exists" instead of "bad request".
func (h *Handler) handleServiceError(w http.ResponseWriter, err error, op string) {
	switch err {
	case ErrNotFound:
		h.HandleAppError(w, errors.NewNotFoundError("work log not found", errors.ErrCodeWorkLogNotFound))
	case ErrEmployeeNotFound:
		h.HandleAppError(w, errors.NewNotFoundError("employee not found", errors.ErrCodeEmployeeNotFound))
	case ErrForbidden:
		h.HandleAppError(w, errors.NewForbiddenError("not allowed to access this work log", errors.ErrCodeForbiddenAccess))
	case ErrOverlap:
		h.HandleAppError(w, errors.NewConflictError("an overlapping shift already exists for that time window", errors.ErrCodeShiftOverlap))
	case ErrInvalidTimeRange:
		h.HandleAppError(w, errors.NewValidationError("end time must be after start time", errors.ErrCodeInvalidTimeRange))
	case ErrMissingRate:
		h.HandleAppError(w, errors.NewValidationError("no hourly rate available; set a default rate or pass one explicitly", errors.ErrCodeMissingRate))
	default:
		if _, ok := err.(ValidationError); ok {
			h.HandleAppError(w, errors.NewValidationError(err.Error(), errors.ErrCodeValidationFailed))
			return
		}
		h.Logger.Error(op+": service error", "error", err)
		h.HandleAppError(w, errors.NewInternalError("internal server error", err))
	}
}
