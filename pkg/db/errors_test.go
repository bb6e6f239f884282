package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

func TestIsUndefinedTable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "pgx", err: fmt.Errorf("query: %w", &pgconn.PgError{Code: "42P01", Message: `relation "events" does not exist`}), want: true},
		{name: "pq", err: &pq.Error{Code: "42P01"}, want: true},
		{name: "other pg code", err: &pgconn.PgError{Code: "42703"}, want: false},
		{name: "sqlite", err: errors.New("no such table: content_posts"), want: true},
		{name: "plain", err: errors.New("connection refused"), want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUndefinedTable(tc.err); got != tc.want {
				t.Fatalf("IsUndefinedTable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "user_profiles_external_id_key"}
	if !IsUniqueViolation(pgErr, "") {
		t.Fatal("expected unique violation")
	}
	if !IsUniqueViolation(pgErr, "user_profiles_external_id_key") {
		t.Fatal("expected constraint match")
	}
	if IsUniqueViolation(pgErr, "event_rsvps_event_id_user_id_key") {
		t.Fatal("unexpected match on a different constraint")
	}
	if !IsUniqueViolation(errors.New("UNIQUE constraint failed: user_profiles.external_id"), "") {
		t.Fatal("expected sqlite unique violation")
	}
	if IsUniqueViolation(&pgconn.PgError{Code: "42P01"}, "") {
		t.Fatal("undefined table is not a unique violation")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound)) {
		t.Fatal("expected wrapped record-not-found to match")
	}
	if IsNotFound(errors.New("boom")) {
		t.Fatal("unexpected match")
	}
}
