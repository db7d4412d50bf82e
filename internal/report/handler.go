package report

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/eunbikang/worklog-management/internal/auth"
	"github.com/eunbikang/worklog-management/internal/transport"
	"github.com/eunbikang/worklog-management/pkg/logger"
)

type Handler struct {
	*transport.BaseHandler
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		service:     service,
	}
}

// MonthlyReport returns the JSON payroll summary for ?month=YYYY-MM, with an
// optional ?user_id= filter for administrators.
func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	month := r.URL.Query().Get("month")
	employeeID := r.URL.Query().Get("user_id")

	result, err := h.service.GetMonthlyReport(caller, month, employeeID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// ExportMonthlyReport streams the same summary as an XLSX attachment.
func (h *Handler) ExportMonthlyReport(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	month := r.URL.Query().Get("month")
	employeeID := r.URL.Query().Get("user_id")

	data, err := h.service.ExportMonthlyReport(caller, month, employeeID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="salary-report-%s.xlsx"`, month))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.Logger.Error("failed to write xlsx response", "error", err)
	}
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidMonth):
		h.WriteError(w, http.StatusBadRequest, "month must be in YYYY-MM form")
	case errors.Is(err, ErrEmptyReport):
		h.WriteError(w, http.StatusNotFound, "no work logs found for the requested month")
	default:
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
