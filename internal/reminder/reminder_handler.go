package reminder

import (
	"net/http"
	"strconv"
	"time"

	reminderrors "github.com/tonyorjime-cloud/WorNest/internal/reminder/errors"
	"github.com/tonyorjime-cloud/WorNest/internal/shared/apperror"
	"github.com/tonyorjime-cloud/WorNest/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("reminder.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reminder.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("reminder request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Evaluate(c *gin.Context) {
	companyID := c.GetString("company_id")

	evalDate, leadDays, err := parseEvaluationQuery(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	includeSuppressed := c.Query("include_suppressed") == "true"

	resp, err := h.service.Evaluate(c.Request.Context(), companyID, evalDate, leadDays, includeSuppressed)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) StaffAlerts(c *gin.Context) {
	companyID := c.GetString("company_id")
	staffID := c.Param("id")

	evalDate, leadDays, err := parseEvaluationQuery(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.StaffAlerts(c.Request.Context(), companyID, staffID, evalDate, leadDays)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Dispatches(c *gin.Context) {
	companyID := c.GetString("company_id")

	sentOn := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.writeServiceError(c, reminderrors.ErrInvalidDate)
			return
		}
		sentOn = parsed
	}

	resp, err := h.service.Dispatches(c.Request.Context(), companyID, sentOn)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func parseEvaluationQuery(c *gin.Context) (time.Time, int, error) {
	evalDate := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, 0, reminderrors.ErrInvalidDate
		}
		evalDate = parsed
	}

	leadDays := DefaultLeadWindowDays
	if raw := c.Query("lead_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return time.Time{}, 0, reminderrors.ErrInvalidLeadWindow
		}
		leadDays = parsed
	}
	return evalDate, leadDays, nil
}
