// Package errors provides shared error wrapping helpers.
package errors

import "fmt"

// WrapWithContext wraps an error with a context prefix, preserving the
// original error for errors.Is/As checks.
func WrapWithContext(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// WrapWithContextf wraps an error with a formatted context prefix.
func WrapWithContextf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
