package domain

import "errors"

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")

	ErrUnsupportedSchema = errors.New("Unsupported schema")
	ErrInvalidJsonFormat = errors.New("invalid JSON format")

	// content decoding
	ErrUnrecognizedContentFormat  = errors.New("unrecognized content format")
	ErrUnsupportedContentEncoding = errors.New("unsupported content encoding")
	ErrInvalidDecimals            = errors.New("invalid decimals value")

	// get-method calls
	ErrRemoteCall = errors.New("remote call failed")

	// request error
	ErrInvalidAddress = errors.New("Invalid address")
)
