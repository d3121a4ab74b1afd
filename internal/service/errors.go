package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/billtracker/internal/auth"
	"github.com/mmynk/billtracker/internal/calculator"
	"github.com/mmynk/billtracker/internal/middleware"
	"github.com/mmynk/billtracker/internal/storage"
)

// connectError maps domain and store errors onto Connect codes.
func connectError(err error) error {
	var verr *calculator.ValidationError
	switch {
	case errors.As(err, &verr):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotPermitted):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict), errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrMissingToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// ownerID returns the authenticated user of the request.
func ownerID(ctx context.Context) (string, error) {
	id := middleware.GetUserID(ctx)
	if id == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return id, nil
}

func invalid(field, reason string) error {
	return connect.NewError(connect.CodeInvalidArgument, &calculator.ValidationError{Field: field, Reason: reason})
}
