package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint \"qrmaze_email_set_number_key\""}

	if !IsUniqueViolation(dup) {
		t.Error("expected 23505 to be a unique violation")
	}
	if !IsUniqueViolation(fmt.Errorf("insert: %w", dup)) {
		t.Error("expected wrapped 23505 to be a unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Error("foreign key violation must not be treated as duplicate")
	}
	if IsUniqueViolation(errors.New("boom")) {
		t.Error("plain errors are not unique violations")
	}
}

func TestTranslate(t *testing.T) {
	if translate(nil) != nil {
		t.Fatal("nil must stay nil")
	}

	err := translate(&pgconn.PgError{Code: "23505", Message: "dup"})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	other := errors.New("connection reset")
	if got := translate(other); got != other {
		t.Errorf("expected passthrough, got %v", got)
	}
}
