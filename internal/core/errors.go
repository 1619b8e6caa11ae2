package core

import "fmt"

// ValidationError reports a missing or malformed request input. The web
// layer maps it to HTTP 400.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s %s", e.Field, e.Msg)
	}
	return fmt.Sprintf("%s is required", e.Field)
}

// NotFoundError reports a referenced workbook that does not exist on disk.
// The web layer maps it to HTTP 404.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}
