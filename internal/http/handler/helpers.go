package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ifinsure/internal/http/middleware"
	"ifinsure/internal/service"
)

// pagination reads limit/offset query params with sane defaults.
func pagination(c *fiber.Ctx) (limit, offset int) {
	return c.QueryInt("limit", 20), c.QueryInt("offset", 0)
}

// pathID validates the :id path parameter as a UUID.
func pathID(c *fiber.Ctx, name string) (string, error) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
	}
	return id, nil
}

// currentUserID reads the authenticated user id set by RequireAuth.
func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.UserIDLocalKey).(string)
	return id
}

func currentUserType(c *fiber.Ctx) string {
	t, _ := c.Locals(middleware.UserTypeLocalKey).(string)
	return t
}

func currentSessionID(c *fiber.Ctx) string {
	s, _ := c.Locals(middleware.SessionIDLocalKey).(string)
	return s
}

// writeServiceError translates service sentinel errors to HTTP without
// leaking internals.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrNotTrashed):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, service.ErrAccountDisabled), errors.Is(err, service.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "operation not allowed")
	case errors.Is(err, service.ErrInsufficientFunds):
		return writeError(c, fiber.StatusConflict, "INSUFFICIENT_FUNDS", "insufficient wallet balance")
	case errors.Is(err, service.ErrEmailTaken), errors.Is(err, service.ErrCodeTaken):
		return writeError(c, fiber.StatusConflict, "ALREADY_EXISTS", err.Error())
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrIDRequired),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidUserType),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrRatingOutOfRange),
		errors.Is(err, service.ErrUnknownMethod):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, service.ErrNoAgentAvailable),
		errors.Is(err, service.ErrTicketTerminal),
		errors.Is(err, service.ErrTicketUnassigned),
		errors.Is(err, service.ErrAgentUnavailable),
		errors.Is(err, service.ErrAgentOverCapacity),
		errors.Is(err, service.ErrLevelTooLow),
		errors.Is(err, service.ErrMaxEscalation),
		errors.Is(err, service.ErrLeadConverted),
		errors.Is(err, service.ErrNotDraft),
		errors.Is(err, service.ErrNotSubmitted),
		errors.Is(err, service.ErrPaymentOutstanding),
		errors.Is(err, service.ErrPolicyNotActive),
		errors.Is(err, service.ErrPolicyNotCovering),
		errors.Is(err, service.ErrCoverageExceeded),
		errors.Is(err, service.ErrClaimSettled),
		errors.Is(err, service.ErrClaimNotApproved),
		errors.Is(err, service.ErrInvoiceSettled),
		errors.Is(err, service.ErrInvoiceCancelled),
		errors.Is(err, service.ErrOverpayment),
		errors.Is(err, service.ErrWalletInactive),
		errors.Is(err, service.ErrSameWallet),
		errors.Is(err, service.ErrCurrencyMismatch),
		errors.Is(err, service.ErrRestoreUnsupported):
		return writeError(c, fiber.StatusConflict, "CONFLICT", err.Error())
	}
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
