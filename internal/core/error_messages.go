// Package core provides the workbook service: the load-merge-store cycle
// around the merge engine, path resolution, per-path locking, and the
// operation audit trail.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Codes are grouped by category:
//
//	REQ001 - Missing required field in the request body
//	REQ002 - Invalid file path (outside the configured base directory)
//
//	FILE001 - File not found
//	FILE002 - Unsupported file extension (only .xls and .xlsx are handled)
//	FILE003 - File could not be decoded
//	FILE004 - File could not be written
//
//	MRG001 - Empty input: no records or update tuples supplied
//	MRG002 - Schema mismatch: record introduces a column the table lacks
//	MRG003 - Unknown column referenced by an update condition
//
//	ERR000 - Fallback for anything unmapped
//
// Mapping is by error type, not string matching: the engine and codec
// return typed errors end to end.
package core

import (
	"errors"

	"github.com/sheetserve/sheetserve/internal/codec"
	"github.com/sheetserve/sheetserve/internal/table"
)

// UserMessage is a user-friendly error with a support code and a suggested
// action.
type UserMessage struct {
	Code    string
	Message string
	Action  string
}

// MapError converts any error from the service, engine, or codec into a
// UserMessage suitable for a client response. Technical details stay in the
// server log.
func MapError(err error) UserMessage {
	var (
		validation  *ValidationError
		notFound    *NotFoundError
		unsupported *codec.UnsupportedFormatError
		decode      *codec.DecodeError
		encode      *codec.EncodeError
		mismatch    *table.SchemaMismatchError
		unknownCol  *table.UnknownColumnError
	)

	switch {
	case errors.As(err, &validation):
		return UserMessage{
			Code:    "REQ001",
			Message: validation.Error(),
			Action:  "Include the missing field and retry",
		}
	case errors.As(err, &notFound):
		return UserMessage{
			Code:    "FILE001",
			Message: notFound.Error(),
			Action:  "Check the file path or create the file first",
		}
	case errors.As(err, &unsupported):
		return UserMessage{
			Code:    "FILE002",
			Message: unsupported.Error(),
			Action:  "Use a .xls or .xlsx file",
		}
	case errors.As(err, &decode):
		return UserMessage{
			Code:    "FILE003",
			Message: "file could not be read: " + decode.Err.Error(),
			Action:  "Verify the file is a valid spreadsheet",
		}
	case errors.As(err, &encode):
		return UserMessage{
			Code:    "FILE004",
			Message: "file could not be written: " + encode.Err.Error(),
			Action:  "Check disk space and permissions",
		}
	case errors.Is(err, table.ErrEmptyInput):
		return UserMessage{
			Code:    "MRG001",
			Message: "no records provided",
			Action:  "Send at least one record",
		}
	case errors.As(err, &mismatch):
		return UserMessage{
			Code:    "MRG002",
			Message: mismatch.Error(),
			Action:  "Only use columns that already exist in the file, or use smart-update",
		}
	case errors.As(err, &unknownCol):
		return UserMessage{
			Code:    "MRG003",
			Message: unknownCol.Error(),
			Action:  "Check the condition column name against the file's header row",
		}
	default:
		return UserMessage{
			Code:    "ERR000",
			Message: "an unexpected error occurred",
			Action:  "Please try again or contact support",
		}
	}
}

// StatusCode returns the HTTP status the web layer should use for err:
// 400 for request validation, 404 for missing files, 500 for everything
// else (engine and codec failures alike).
func StatusCode(err error) int {
	var (
		validation *ValidationError
		notFound   *NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		return 400
	case errors.As(err, &notFound):
		return 404
	default:
		return 500
	}
}
