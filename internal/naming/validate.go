// Package naming checks the identifiers exposed to MCP clients.
//
// Operation (tool) names and field (parameter) names share one grammar:
// 1 to 64 characters drawn from A-Z, a-z, 0-9, underscore, dot and hyphen.
// The same grammar backs the static extractor used by the lint command and
// the pre-publish pass the MCP server runs before registering its tools.
package naming

import (
	"fmt"
	"regexp"

	"github.com/custodia-labs/azdo-mcp/internal/core/domain"
)

const (
	// MaxNameLength is the upper bound for any exposed name.
	MaxNameLength = 64

	// FieldNameWarnLength is the length above which a field name is flagged
	// as a style problem. Longer names remain valid.
	FieldNameWarnLength = 32

	// AllowedCharacters names the accepted character set in error messages.
	AllowedCharacters = "'A-Z', 'a-z', '0-9', '_', '.', '-'"
)

// namePattern is the single source of the grammar.
var namePattern = regexp.MustCompile(fmt.Sprintf(`^[a-zA-Z0-9_.-]{1,%d}$`, MaxNameLength))

// Subject describes which kind of name is being validated.
type Subject string

const (
	SubjectName      Subject = "Name"
	SubjectOperation Subject = "Operation name"
	SubjectField     Subject = "Field name"
)

// Reason classifies a validation failure.
type Reason int

const (
	ReasonEmpty Reason = iota + 1
	ReasonTooLong
	ReasonInvalidCharacters
)

func (r Reason) String() string {
	switch r {
	case ReasonEmpty:
		return "empty"
	case ReasonTooLong:
		return "too long"
	case ReasonInvalidCharacters:
		return "contains invalid characters"
	default:
		return "unknown"
	}
}

// ValidationError reports a name that does not match the grammar.
type ValidationError struct {
	Subject Subject
	Name    string
	Reason  Reason
	// Length is the rune count of Name.
	Length int
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonEmpty:
		return fmt.Sprintf("%s cannot be empty", e.Subject)
	case ReasonTooLong:
		return fmt.Sprintf("%s '%s' is %d characters long, maximum allowed is %d",
			e.Subject, e.Name, e.Length, MaxNameLength)
	default:
		return fmt.Sprintf("%s '%s' contains invalid characters. Only %s are allowed",
			e.Subject, e.Name, AllowedCharacters)
	}
}

// Unwrap lets callers match any naming failure with domain.ErrInvalidName.
func (e *ValidationError) Unwrap() error {
	return domain.ErrInvalidName
}

// Validate checks name against the grammar. It returns nil or a *ValidationError.
func Validate(name string) error {
	return validate(SubjectName, name)
}

// ValidateOperationName validates a tool name.
func ValidateOperationName(name string) error {
	return validate(SubjectOperation, name)
}

// ValidateFieldName validates a tool input property name.
func ValidateFieldName(name string) error {
	return validate(SubjectField, name)
}

func validate(subject Subject, name string) error {
	length := len([]rune(name))
	switch {
	case length == 0:
		return &ValidationError{Subject: subject, Name: name, Reason: ReasonEmpty}
	case length > MaxNameLength:
		return &ValidationError{Subject: subject, Name: name, Reason: ReasonTooLong, Length: length}
	case !namePattern.MatchString(name):
		return &ValidationError{Subject: subject, Name: name, Reason: ReasonInvalidCharacters, Length: length}
	}
	return nil
}

// FieldNameWarning reports a style warning for field names longer than
// FieldNameWarnLength. It has no bearing on validity.
func FieldNameWarning(name string) (string, bool) {
	length := len([]rune(name))
	if length <= FieldNameWarnLength {
		return "", false
	}
	return fmt.Sprintf("%s '%s' is %d characters long, recommended maximum is %d",
		SubjectField, name, length, FieldNameWarnLength), true
}
