package forms

import (
	"testing"

	pkgerrors "github.com/cetrics/nexdawn-storefront/pkg/errors"
)

func detailsFor(t *testing.T, err error) map[string]string {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %T", typed.Details())
	}
	return details
}

func TestLoginValidation(t *testing.T) {
	if err := Check(Login{Email: "amy@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("valid login rejected: %v", err)
	}

	err := Check(Login{Email: "not-an-email", Password: ""})
	details := detailsFor(t, err)
	if details["email"] != "must be a valid email" {
		t.Fatalf("unexpected email message %q", details["email"])
	}
	if details["password"] != "is required" {
		t.Fatalf("unexpected password message %q", details["password"])
	}
}

func TestRegistrationPasswordConfirmation(t *testing.T) {
	form := Registration{
		Username:        "amy01",
		Email:           "amy@example.com",
		FirstName:       "Amy",
		LastName:        "Pond",
		Password:        "hunter22",
		ConfirmPassword: "different",
	}
	details := detailsFor(t, Check(form))
	if details["confirm_password"] != "must match password" {
		t.Fatalf("unexpected message %q", details["confirm_password"])
	}

	form.ConfirmPassword = form.Password
	if err := Check(form); err != nil {
		t.Fatalf("matching passwords rejected: %v", err)
	}
}

func TestContactMessageLength(t *testing.T) {
	err := Check(Contact{Name: "Amy", Email: "amy@example.com", Message: "hi"})
	details := detailsFor(t, err)
	if details["message"] != "must be at least 10" {
		t.Fatalf("unexpected message %q", details["message"])
	}
}

func TestResetPasswordRequiresToken(t *testing.T) {
	err := Check(ResetPassword{Password: "hunter22", ConfirmPassword: "hunter22"})
	details := detailsFor(t, err)
	if details["token"] != "is required" {
		t.Fatalf("unexpected message %q", details["token"])
	}
}
