package api

import "strings"

// Validate checks the fields the login endpoint requires.
func (r LoginRequest) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(r.Email) == "" {
		fields["email"] = "email is required"
	}
	if r.Password == "" {
		fields["password"] = "password is required"
	}
	return fieldError(fields)
}

// Validate checks the register precondition before anything goes on the
// wire: all three fields present and both passwords equal.
func (r RegisterRequest) Validate() error {
	fields := map[string]string{}
	if strings.TrimSpace(r.Email) == "" {
		fields["email"] = "email is required"
	}
	if r.Password == "" {
		fields["password"] = "password is required"
	}
	if r.ConfirmPassword == "" {
		fields["confirmPassword"] = "password confirmation is required"
	}
	if r.Password != "" && r.ConfirmPassword != "" && r.Password != r.ConfirmPassword {
		fields["passwordMatch"] = "passwords do not match"
	}
	return fieldError(fields)
}

func fieldError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &AuthError{Kind: KindValidation, Message: "invalid form", Fields: fields}
}
