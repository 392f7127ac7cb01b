package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrValidation wraps every rejected input; the wrapped message names the field
	ErrValidation = errors.New("validation failed")

	// ErrStoreUnavailable wraps unexpected store failures. The operation was not applied.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrUnauthenticated = errors.New("authentication required")
	ErrNotDoctor       = errors.New("only doctors can manage time slots")

	ErrDoctorNotFound = errors.New("doctor not found")

	ErrSlotNotFound        = errors.New("time slot not found")
	ErrSlotNotOwned        = errors.New("time slot does not belong to you")
	ErrSlotHasAppointments = errors.New("time slot has appointments and cannot be deleted")
	ErrSlotAlreadyBooked   = errors.New("this time slot was just booked by someone else, please refresh availability")

	ErrBookingDatePast             = errors.New("cannot book a date in the past")
	ErrAppointmentNotFound         = errors.New("appointment not found")
	ErrAppointmentNotOwned         = errors.New("appointment does not belong to you")
	ErrAppointmentAlreadyCancelled = errors.New("appointment is already cancelled")

	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")

	ErrAuditLogNotFound = errors.New("audit log not found")
)

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func storeError(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23503 = foreign_key_violation
		return pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	return false
}
