package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxNameLength bounds birthday names and period labels.
const maxNameLength = 256

// ValidateName validates a birthday name or period label.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters other than the newline used to pack several names
//   - Maximum length of 256 characters
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if r != '\n' && unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	return nil
}

// ValidateOutputPath validates the destination of a rendered image.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
//   - Extension, when present, must be .png
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(filepath.Separator)) {
		return New(ErrCodeInvalidPath, "output path must name a file, not a directory")
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != "" && ext != ".png" {
		return New(ErrCodeInvalidFormat, "unsupported output extension %q (only .png)", ext)
	}

	return nil
}

// ValidateSmoothFactor ensures the calendar tint factor fits in a color channel.
func ValidateSmoothFactor(s int) error {
	if s < 0 || s > 255 {
		return New(ErrCodeInvalidInput, "smooth factor %d out of range [0, 255]", s)
	}
	return nil
}
