package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	// Usernames: letters, digits, dot and underscore
	UsernamePattern = `^[A-Za-z0-9._]{3,30}$`

	// Slugs: lowercase words joined by single dashes
	SlugPattern = `^[a-z0-9]+(?:-[a-z0-9]+)*$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Username *regexp.Regexp
	Slug     *regexp.Regexp
}{
	Username: regexp.MustCompile(UsernamePattern),
	Slug:     regexp.MustCompile(SlugPattern),
}

// IsValidUsername reports whether s is an acceptable username.
func IsValidUsername(s string) bool {
	return CompiledPatterns.Username.MatchString(s)
}

// IsValidSlug reports whether s is a well-formed slug.
func IsValidSlug(s string) bool {
	return CompiledPatterns.Slug.MatchString(s)
}

// Register adds the "username" and "slug" tags to a validator.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return IsValidUsername(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return IsValidSlug(fl.Field().String())
	})
}
