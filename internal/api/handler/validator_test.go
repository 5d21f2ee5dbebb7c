package handler

import (
	"strings"
	"testing"
)

func TestValidator_Messages(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&createUserRequest{Email: "nope", Password: "short", Role: "root", Status: "Banned"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{
		"name is required",
		"email must be a valid email",
		"password must be at least 8 characters",
		"role must be one of: superadmin, admin, voter",
		"status must be one of: Active, Inactive, Pending",
	} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q does not contain %q", msg, want)
		}
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	err := NewValidator().Validate(&createBoothRequest{Name: "Hall"})
	if err == nil || err.Error() != "constituency_id is required" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidator_Valid(t *testing.T) {
	req := &loginRequest{Email: "a@example.com", Password: "x", Role: "superadmin"}
	if err := NewValidator().Validate(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
