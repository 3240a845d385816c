package handlers

import (
	"regexp"
	"strings"
)

const (
	maxNameLength     = 50
	minPasswordLength = 8
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)

// validateEmail returns an empty string when the email is acceptable,
// otherwise a human-readable message.
func validateEmail(email string) string {
	if strings.TrimSpace(email) == "" {
		return "Please provide an email"
	}
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return "Please provide a valid email address"
	}
	return ""
}

func validateName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Please provide a name"
	}
	if len(trimmed) > maxNameLength {
		return "Name cannot be more than 50 characters"
	}
	return ""
}

// validatePassword enforces the complexity rule for new passwords: minimum
// length plus uppercase, lowercase, digit and symbol.
func validatePassword(password string) string {
	if password == "" {
		return "Please provide a password"
	}
	if len(password) < minPasswordLength {
		return "Password must be at least 8 characters long"
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, c := range password {
		switch {
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= '0' && c <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSymbol {
		return "Password must contain uppercase, lowercase, number, and special character"
	}
	return ""
}

func validateRegistration(name, email, password string) string {
	if msg := validateName(name); msg != "" {
		return msg
	}
	if msg := validateEmail(email); msg != "" {
		return msg
	}
	return validatePassword(password)
}

func validateLogin(email, password string) string {
	if msg := validateEmail(email); msg != "" {
		return msg
	}
	if password == "" {
		return "Please provide a password"
	}
	return ""
}

func validatePasswordChange(currentPassword, newPassword string) string {
	if currentPassword == "" {
		return "Please provide currentPassword"
	}
	if msg := validatePassword(newPassword); msg != "" {
		return msg
	}
	if currentPassword == newPassword {
		return "New password must be different from current password"
	}
	return ""
}

func validateProfileUpdate(name, email, avatar string) string {
	if name == "" && email == "" && avatar == "" {
		return "Please provide at least one field to update"
	}
	if name != "" {
		if msg := validateName(name); msg != "" {
			return msg
		}
	}
	if email != "" {
		if msg := validateEmail(email); msg != "" {
			return msg
		}
	}
	return ""
}
