// Package validation provides input validation utilities.
package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"kindnest/internal/models"
)

// CommentContentMax is the inclusive upper bound on comment length, in runes.
const CommentContentMax = 500

// ValidateCommentContent enforces the 1-500 character bound on comment
// content. The bound is checked before any write; an empty or oversized
// comment never reaches the datastore. Violations carry the validation
// error code so they surface as 400s, not internal errors.
func ValidateCommentContent(content string) error {
	if content == "" {
		return models.NewValidationError("comment content is required")
	}
	if utf8.RuneCountInString(content) > CommentContentMax {
		return models.NewValidationError(fmt.Sprintf("comment must not exceed %d characters", CommentContentMax))
	}
	return nil
}

var usernameRegex = regexp.MustCompile(`^[a-z0-9_]{3,24}$`)

var reservedUsernames = map[string]struct{}{
	"admin":    {},
	"api":      {},
	"auth":     {},
	"settings": {},
	"children": {},
	"parents":  {},
	"posts":    {},
	"comments": {},
	"follows":  {},
	"profile":  {},
	"feed":     {},
	"metrics":  {},
	"login":    {},
	"signup":   {},
}

// ValidateUsername validates username format and reserved names.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return models.NewValidationError("username must be 3-24 characters and contain only lowercase letters, numbers, and underscores")
	}
	if _, exists := reservedUsernames[username]; exists {
		return models.NewValidationError("username is reserved")
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail checks basic email shape and length.
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return models.NewValidationError("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return models.NewValidationError("email format is invalid")
	}
	return nil
}
