package mapping

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/eslsoft/vocdrill/internal/entity"
)

// ToConnectError translates domain errors into connect status codes. Errors that already carry
// a connect code pass through unchanged.
func ToConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, entity.ErrInvalidWordSetID),
		errors.Is(err, entity.ErrInvalidWordSetName),
		errors.Is(err, entity.ErrInvalidWordPair),
		errors.Is(err, entity.ErrInvalidListQuery),
		errors.Is(err, entity.ErrInvalidChoice),
		errors.Is(err, entity.ErrInvalidChoiceCount):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, entity.ErrWordSetNotFound),
		errors.Is(err, entity.ErrSessionNotFound),
		errors.Is(err, entity.ErrUnknownRound),
		errors.Is(err, entity.ErrUnknownItem):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, entity.ErrEmptyPool),
		errors.Is(err, entity.ErrInsufficientPool),
		errors.Is(err, entity.ErrRoundAnswered):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
