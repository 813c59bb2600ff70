package rankerrors

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
	ErrRankNotFound = apperror.New(
		apperror.CodeNotFound,
		"rank not found",
		http.StatusNotFound,
	)
	ErrDuplicateRank = apperror.New(
		apperror.CodeConflict,
		"rank name or level already exists",
		http.StatusConflict,
	)
	ErrDuplicateAlias = apperror.New(
		apperror.CodeConflict,
		"alias already exists",
		http.StatusConflict,
	)
	ErrAliasTargetUnknown = apperror.New(
		apperror.CodeInvalidInput,
		"alias must point at an existing canonical rank",
		http.StatusBadRequest,
	)
)
