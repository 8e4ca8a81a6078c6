package http

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDecimalTags(t *testing.T) {
	type P struct {
		Amount decimal.Decimal `json:"amount" validate:"dpos,dec2"`
		Commit decimal.Decimal `json:"commit" validate:"dnonneg"`
	}
	cv := NewValidator()

	for _, s := range []string{"1", "0.01", "500000", "123.45"} {
		if err := cv.Validate(P{Amount: decimal.RequireFromString(s)}); err != nil {
			t.Fatalf("amount %s should be valid: %v", s, err)
		}
	}

	cases := []struct {
		p     P
		field string
		msg   string
	}{
		{P{Amount: decimal.Zero}, "amount", "greater than 0"},
		{P{Amount: decimal.RequireFromString("-5")}, "amount", "greater than 0"},
		{P{Amount: decimal.RequireFromString("1.234")}, "amount", "2 decimal places"},
		{P{Amount: decimal.RequireFromString("1"), Commit: decimal.RequireFromString("-0.01")}, "commit", "not be negative"},
	}
	for _, tc := range cases {
		err := cv.Validate(tc.p)
		if err == nil {
			t.Fatalf("expected error for %+v", tc.p)
		}
		if !containsFieldMsg(ToFieldErrors(err), tc.field, tc.msg) {
			t.Fatalf("want %s %q, got %+v", tc.field, tc.msg, ToFieldErrors(err))
		}
	}
}

func TestPastDate(t *testing.T) {
	type P struct {
		DOB string `json:"dateOfBirth" validate:"pastdate"`
	}
	cv := NewValidator()
	for _, s := range []string{"1990-01-31", "1985-06-01T00:00:00Z"} {
		if err := cv.Validate(P{DOB: s}); err != nil {
			t.Fatalf("%q should be valid: %v", s, err)
		}
	}
	future := time.Now().AddDate(1, 0, 0).Format(dateLayout)
	for _, s := range []string{"", "31/01/1990", "1990-13-01", future} {
		err := cv.Validate(P{DOB: s})
		if err == nil || !containsFieldMsg(ToFieldErrors(err), "dateOfBirth", "past date") {
			t.Fatalf("%q: want pastdate error, got %v", s, err)
		}
	}
}

func TestToFieldErrors_UsesJSONNames(t *testing.T) {
	type P struct {
		Email  string `json:"emergencyEmail" validate:"email"`
		Status string `json:"status" validate:"oneof=approved rejected"`
		Months int    `json:"duration" validate:"gt=0"`
	}
	err := NewValidator().Validate(P{Email: "nope", Status: "maybe"})
	fe := ToFieldErrors(err)
	if len(fe) != 3 {
		t.Fatalf("want 3 errors, got %+v", fe)
	}
	for _, want := range []struct{ field, msg string }{
		{"emergencyEmail", "valid email"},
		{"status", "one of: approved rejected"},
		{"duration", "greater than 0"},
	} {
		if !containsFieldMsg(fe, want.field, want.msg) {
			t.Fatalf("missing %s %q in %+v", want.field, want.msg, fe)
		}
	}
}

func TestToFieldErrors_NonValidationError(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || !strings.Contains(fe[0].Message, "boom") {
		t.Fatalf("unexpected: %+v", fe)
	}
}
