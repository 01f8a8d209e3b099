package pgsql

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/SscSPs/pos_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgQueryCanceled        = "57014"
	pgCheckViolation       = "23514"
	pgNumericOutOfRange    = "22003"

	openSessionIndex = "cash_register_sessions_one_open"
)

func isUniqueViolation(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr, true
	}
	return nil, false
}

// mapTxError turns driver failures into the error kinds the services
// understand. Lost connections count as transient: posts are keyed by
// reference, so retrying after an ambiguous commit replays instead of
// double-applying. Everything else passes through untouched.
func mapTxError(err error) error {
	if err == nil {
		return nil
	}
	var timeoutErr *apperrors.TransactionTimeoutError
	if errors.As(err, &timeoutErr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &apperrors.TransactionTimeoutError{Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgQueryCanceled:
			return &apperrors.TransactionTimeoutError{Err: err}
		case pgSerializationFailure, pgDeadlockDetected:
			return fmt.Errorf("%w: %w", apperrors.ErrTransient, err)
		case pgCheckViolation, pgNumericOutOfRange:
			return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		return err
	}

	if isConnectionError(err) {
		return fmt.Errorf("%w: %w", apperrors.ErrTransient, err)
	}
	return err
}

func isConnectionError(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF)
}
