package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeCredentialMissing Code = "CREDENTIAL_MISSING"
	CodeValidation        Code = "VALIDATION_ERROR"
	CodeRequestFailed     Code = "REQUEST_FAILED"
	CodeNetwork           Code = "NETWORK_FAILURE"
	CodePersistence       Code = "PERSISTENCE_ERROR"
	CodeInternal          Code = "INTERNAL_ERROR"
)

// GenericMessage is recorded when a failure carries no usable message of its
// own; it matches what the remote API's consumers have historically shown.
const GenericMessage = "An error occurred"

type Metadata struct {
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeCredentialMissing: {
		Retryable:      false,
		PublicMessage:  "credentials required",
		DetailsAllowed: false,
	},
	CodeValidation: {
		Retryable:      false,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeRequestFailed: {
		Retryable:      false,
		PublicMessage:  "request failed",
		DetailsAllowed: true,
	},
	CodeNetwork: {
		Retryable:      true,
		PublicMessage:  "network failure",
		DetailsAllowed: false,
	},
	CodePersistence: {
		Retryable:      true,
		PublicMessage:  "persistence failed",
		DetailsAllowed: false,
	},
	CodeInternal: {
		Retryable:      true,
		PublicMessage:  "internal error",
		DetailsAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// UserMessage converts any error into the human-readable string the stores
// record in their error fields. Typed errors contribute their own message,
// untyped ones fall back to the generic message so raw transport details
// never leak to a presentation layer.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if typed := As(err); typed != nil {
		if msg := typed.Message(); msg != "" {
			return msg
		}
		return MetadataFor(typed.Code()).PublicMessage
	}
	return GenericMessage
}
