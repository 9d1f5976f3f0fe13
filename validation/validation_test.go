package validation

import (
	"regexp"
	"strings"
	"testing"

	"github.com/kbukum/habit/errors"
)

func TestValidatorRequired(t *testing.T) {
	if New().Required("name", "John").HasErrors() {
		t.Error("expected no errors for valid input")
	}
	if !New().Required("name", "").HasErrors() {
		t.Error("expected error for empty required field")
	}
	if !New().Required("name", "   ").HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorMinMaxLength(t *testing.T) {
	if New().MinLength("password", "1234567", 8).Validate() == nil {
		t.Error("expected error for 7 characters with min 8")
	}
	if err := New().MinLength("password", "12345678", 8).Validate(); err != nil {
		t.Errorf("unexpected error at exactly min: %v", err)
	}
	if New().MaxLength("password", strings.Repeat("a", 129), 128).Validate() == nil {
		t.Error("expected error above max")
	}
	// Multi-byte characters count once.
	if err := New().MinLength("password", "ééééééée", 8).Validate(); err != nil {
		t.Errorf("expected 8 runes to satisfy min 8: %v", err)
	}
}

func TestValidatorPattern(t *testing.T) {
	re := regexp.MustCompile(`^[a-z]+$`)
	if New().Pattern("code", "abc", re).HasErrors() {
		t.Error("expected match")
	}
	if !New().Pattern("code", "ABC", re).HasErrors() {
		t.Error("expected mismatch")
	}
	if New().Pattern("code", "", re).HasErrors() {
		t.Error("empty values are skipped")
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New().Custom(false, "new_password", "must differ")
	errs := v.Errors()
	if len(errs) != 1 || errs[0].Field != "new_password" || errs[0].Message != "must differ" {
		t.Errorf("unexpected errors %v", errs)
	}
}

func TestValidatorValidate_AppError(t *testing.T) {
	err := New().
		Required("name", "").
		MinLength("password", "x", 8).
		Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Code != errors.ErrCodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %s", err.Code)
	}
	fields, ok := err.Details["fields"].([]FieldError)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected two field errors in details, got %v", err.Details["fields"])
	}
	if !strings.Contains(err.Message, "name is required") {
		t.Errorf("expected message to mention name, got %q", err.Message)
	}
}

type registration struct {
	Name     string `json:"name" validate:"required,alphanum,min=1,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func TestStructValidateValid(t *testing.T) {
	r := registration{Name: "ElonMusk", Email: "elon@example.com", Password: "g0t0m@rs"}
	if err := Validate(r); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	r := registration{Name: "elon musk!", Email: "not-an-email", Password: "short"}
	err := Validate(r)
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	fields := appErr.Details["fields"].([]FieldError)
	got := map[string]string{}
	for _, f := range fields {
		got[f.Field] = f.Message
	}
	if got["name"] != "must contain only letters and digits" {
		t.Errorf("unexpected name message %q", got["name"])
	}
	if got["email"] != "must be a valid email address" {
		t.Errorf("unexpected email message %q", got["email"])
	}
	if got["password"] != "must be at least 8 characters" {
		t.Errorf("unexpected password message %q", got["password"])
	}
}

func TestStructValidateMaxName(t *testing.T) {
	r := registration{Name: strings.Repeat("a", 33), Email: "a@b.co", Password: "longenough"}
	err := Validate(r)
	if err == nil || !strings.Contains(err.Error(), "name must be at most 32 characters") {
		t.Errorf("expected max length error for name, got %v", err)
	}
}

func TestValidatorTag(t *testing.T) {
	if New().Tag("email", "elon@example.com", "email").HasErrors() {
		t.Error("expected valid email to pass")
	}
	errs := New().Tag("email", "elon", "email").Errors()
	if len(errs) != 1 || errs[0].Message != "must be a valid email address" {
		t.Errorf("unexpected errors %v", errs)
	}
	errs = New().Tag("name", "elon musk", "alphanum").Errors()
	if len(errs) != 1 || errs[0].Message != "must contain only letters and digits" {
		t.Errorf("unexpected errors %v", errs)
	}
	if New().Tag("email", "", "email").HasErrors() {
		t.Error("empty values are skipped")
	}
}
