package errors

import (
	"strings"
	"unicode"
)

// Limits applied to pasted images and user-supplied names.
const (
	MaxImageDimension = 16384
	maxPathLength     = 4096
	maxAppNameLength  = 64
)

// ValidatePath validates a local image path supplied on the command line or
// pasted into the editor.
//
// Validation rules:
//   - Path cannot be empty or whitespace
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// IsURL reports whether s looks like an http(s) URL rather than a path.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// ValidateImageSize rejects intrinsic image sizes the editor cannot place.
func ValidateImageSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidImage, "image has no pixels (%dx%d)", width, height)
	}
	if width > MaxImageDimension || height > MaxImageDimension {
		return New(ErrCodeInvalidImage, "image too large (%dx%d, max %d per side)", width, height, MaxImageDimension)
	}
	return nil
}

// ValidateAppName validates the application name used as the export
// filename prefix. It must be a simple, non-hidden basename.
func ValidateAppName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "app name cannot be empty")
	}

	if len(name) > maxAppNameLength {
		return New(ErrCodeInvalidConfig, "app name too long (max %d characters)", maxAppNameLength)
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidConfig, "app name cannot contain path separators")
	}

	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidConfig, "app name cannot start with a dot")
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidConfig, "app name contains invalid characters")
		}
	}

	return nil
}
