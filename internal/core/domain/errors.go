package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidName indicates an operation or field name outside the naming grammar.
	ErrInvalidName = errors.New("invalid name")

	// ErrMalformedHit indicates a search hit lacks the fields needed to fetch its content.
	ErrMalformedHit = errors.New("malformed search hit")

	// ErrUnsupportedIndex indicates an unknown search index kind.
	ErrUnsupportedIndex = errors.New("unsupported search index")

	// ErrMissingOrganization indicates no Azure DevOps organization is configured.
	ErrMissingOrganization = errors.New("organization is required")

	// Authentication Errors.

	// ErrAuthRequired indicates no access token is available.
	ErrAuthRequired = errors.New("authentication required")
)
