package reminderrors

import (
	"net/http"

	"github.com/tonyorjime-cloud/WorNest/internal/shared/apperror"
)

var (
	ErrInvalidStaffID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid staff id",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidLeadWindow = apperror.New(
		apperror.CodeInvalidInput,
		"lead_days must be a non-negative integer",
		http.StatusBadRequest,
	)
)
