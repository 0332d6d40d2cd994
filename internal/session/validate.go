package session

import (
	"regexp"
	"strings"
)

// MinPasswordLen is the shortest password the auth form accepts.
const MinPasswordLen = 6

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// FieldErrors maps a form field ("email", "password", "name") to the
// message shown next to it.
type FieldErrors map[string]string

// ValidateCredentials checks auth form input before it is sent. The name
// is only required in register mode. An empty result means the input is
// acceptable.
func ValidateCredentials(mode AuthMode, email, password, name string) FieldErrors {
	errs := FieldErrors{}

	switch {
	case email == "":
		errs["email"] = "Email is required"
	case !emailPattern.MatchString(email):
		errs["email"] = "Email is invalid"
	}

	switch {
	case password == "":
		errs["password"] = "Password is required"
	case len(password) < MinPasswordLen:
		errs["password"] = "Password must be at least 6 characters"
	}

	if mode == ModeRegister && strings.TrimSpace(name) == "" {
		errs["name"] = "Name is required"
	}
	return errs
}

// First returns the message of the first failing field in form order.
func (e FieldErrors) First() string {
	for _, f := range []string{"email", "password", "name"} {
		if msg, ok := e[f]; ok {
			return msg
		}
	}
	return ""
}
