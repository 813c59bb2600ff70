package stafferrors

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
	ErrStaffNotFound = apperror.New(
		apperror.CodeNotFound,
		"staff not found",
		http.StatusNotFound,
	)
	ErrDuplicateEmail = apperror.New(
		apperror.CodeConflict,
		"email already registered",
		http.StatusConflict,
	)
	ErrAlreadyInactive = apperror.New(
		apperror.CodeInvalidState,
		"staff is already deactivated",
		http.StatusBadRequest,
	)
)
