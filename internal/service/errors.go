package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/auth"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/billing"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/calculator"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/recurring"
	"github.com/NaranjoDevv/FinanceZZ-sub001/internal/storage"
)

// errInvalid marks request validation failures.
var errInvalid = errors.New("invalid argument")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalid, fmt.Sprintf(format, args...))
}

// toConnectError maps domain and storage errors onto Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists), errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, storage.ErrInUse),
		errors.Is(err, calculator.ErrDebtAlreadyPaid),
		errors.Is(err, calculator.ErrGoalCompleted),
		errors.Is(err, auth.ErrRegistrationClosed),
		errors.Is(err, billing.ErrCheckoutDisabled):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, billing.ErrLimitExceeded):
		return connect.NewError(connect.CodeResourceExhausted, err)
	case errors.Is(err, auth.ErrPermissionDenied):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrAccountDisabled),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, errInvalid),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrPasswordTooLong),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, calculator.ErrInvalidAmount),
		errors.Is(err, calculator.ErrOverpayment),
		errors.Is(err, calculator.ErrZeroSubtotal),
		errors.Is(err, calculator.ErrNoParticipants),
		errors.Is(err, calculator.ErrTotalBelowItems),
		errors.Is(err, recurring.ErrInvalidFrequency),
		errors.Is(err, recurring.ErrInvalidType),
		errors.Is(err, recurring.ErrEndBeforeStart):
		return connect.NewError(connect.CodeInvalidArgument, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
