package assignmenterrors

import (
	"net/http"

	"github.com/tonyorjime-cloud/WorNest/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidStaffID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid staff id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrStaffNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"staff does not belong to this company",
		http.StatusBadRequest,
	)
	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"assignment not found",
		http.StatusNotFound,
	)
	ErrAlreadyCompleted = apperror.New(
		apperror.CodeInvalidState,
		"assignment is already completed",
		http.StatusBadRequest,
	)
)
