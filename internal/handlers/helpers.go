package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/apperrors"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/dto"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/middleware"
	"github.com/Desmondwr/payrovaHR-backend-sub000/internal/utils/pagination"
)

// RegisterValidators installs the custom binding validators used by the
// treasury DTOs. Must run once before the router starts serving.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// ISO-4217 style code: exactly three uppercase letters.
		_ = v.RegisterValidation("currency", func(fl validator.FieldLevel) bool {
			code := fl.Field().String()
			if len(code) != 3 {
				return false
			}
			for _, r := range code {
				if r < 'A' || r > 'Z' {
					return false
				}
			}
			return true
		})
	}
}

// statusForError maps treasury service errors onto HTTP status codes. Policy
// refusals are 422: the request was well formed but the institution's
// configuration forbids it.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrMissingBeneficiaryDetails),
		errors.Is(err, apperrors.ErrProofRequired):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrInvalidStateTransition),
		errors.Is(err, apperrors.ErrSessionAlreadyOpen),
		errors.Is(err, apperrors.ErrAmbiguousMatch):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrConfigurationDisabled),
		errors.Is(err, apperrors.ErrPaymentMethodDisabled),
		errors.Is(err, apperrors.ErrReconciliationDisabled),
		errors.Is(err, apperrors.ErrSelfApprovalNotAllowed),
		errors.Is(err, apperrors.ErrApprovalRequiredForCancellation),
		errors.Is(err, apperrors.ErrUnapprovedLinesRemain),
		errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrBalanceCapExceeded),
		errors.Is(err, apperrors.ErrSourceNotActive),
		errors.Is(err, apperrors.ErrNoOpenSession):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the failure envelope for a service error, hiding
// internals behind the fallback message on 500s.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, dto.Fail(fallback))
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()))
	c.JSON(status, dto.Fail(err.Error()))
}

// tenantAndUser pulls the institution and acting user from the context. The
// tenant middleware guarantees the institution; mutating endpoints also need
// a user for audit stamping and abort with 401 when the header is missing.
func tenantAndUser(c *gin.Context, requireUser bool) (institutionID string, userID string, ok bool) {
	institutionID, ok = middleware.GetInstitutionIDFromContext(c)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.Fail("institution not resolved"))
		return "", "", false
	}
	userID, _ = middleware.GetUserIDFromContext(c)
	if requireUser && userID == "" {
		c.JSON(http.StatusUnauthorized, dto.Fail("X-User-ID header required"))
		return "", "", false
	}
	return institutionID, userID, true
}

// pageFromQuery normalizes ?page= and ?pageSize=.
func pageFromQuery(c *gin.Context) pagination.Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "0"))
	return pagination.Normalize(page, pageSize)
}

// pagedData wraps a result slice into the paged list payload.
func pagedData(p pagination.Params, total int, results any) dto.PagedList {
	return dto.PagedList{
		Count:    total,
		Next:     p.NextPage(total),
		Previous: p.PreviousPage(),
		Results:  results,
	}
}
