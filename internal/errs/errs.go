package errs

import (
	"errors"
	"fmt"
	"strings"
)

type Code uint16

const (
	CodeUnknown Code = iota
	CodeConfigNotFound
	CodeConfigParse
	CodeTypeResolution
	CodeUnregisteredType
	CodeMissingParameter
	CodeConversion
	CodeArgumentTypeMismatch
	CodeConstructorInvocation
	CodeCircularDependency
	CodeDuplicateRegistration
	CodeResourceNotFound
	CodeValidationFailed
)

var codeNames = map[Code]string{
	CodeUnknown:               "UNKNOWN",
	CodeConfigNotFound:        "CONFIG_NOT_FOUND",
	CodeConfigParse:           "CONFIG_PARSE",
	CodeTypeResolution:        "TYPE_RESOLUTION",
	CodeUnregisteredType:      "UNREGISTERED_TYPE",
	CodeMissingParameter:      "MISSING_PARAMETER",
	CodeConversion:            "CONVERSION",
	CodeArgumentTypeMismatch:  "ARGUMENT_TYPE_MISMATCH",
	CodeConstructorInvocation: "CONSTRUCTOR_INVOCATION",
	CodeCircularDependency:    "CIRCULAR_DEPENDENCY",
	CodeDuplicateRegistration: "DUPLICATE_REGISTRATION",
	CodeResourceNotFound:      "RESOURCE_NOT_FOUND",
	CodeValidationFailed:      "VALIDATION_FAILED",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", c)
}

// Error is the single failure type produced by every stage of loading and
// resolution. Path holds the chain of type ids being resolved when the
// failure happened, outermost first.
type Error struct {
	Code    Code
	Message string
	Type    string
	Cause   error
	Path    []string
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s]", e.Code))

	if e.Type != "" {
		b.WriteString(fmt.Sprintf(" type=%q:", e.Type))
	}

	b.WriteString(" ")
	b.WriteString(e.Message)

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	if len(e.Path) > 1 && e.Code != CodeCircularDependency {
		b.WriteString(" (while resolving ")
		b.WriteString(strings.Join(e.Path, " -> "))
		b.WriteString(")")
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func (e *Error) WithType(typeID string) *Error {
	e.Type = typeID
	return e
}

// WithPath records the resolution chain unless one is already set; the
// innermost failure knows the longest chain.
func (e *Error) WithPath(path []string) *Error {
	if len(e.Path) == 0 && len(path) > 0 {
		e.Path = append([]string(nil), path...)
	}
	return e
}

func New(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Has reports whether any error in err's tree carries code, including
// errors joined under a validation failure.
func Has(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}

func ConfigNotFound(source string, cause error) *Error {
	return New(CodeConfigNotFound, fmt.Sprintf("configuration %q not found", source), cause)
}

func ConfigParse(message string, cause error) *Error {
	return New(CodeConfigParse, message, cause)
}

func TypeResolution(typeID, message string) *Error {
	return New(CodeTypeResolution, message, nil).WithType(typeID)
}

func UnregisteredType(typeID string) *Error {
	return New(
		CodeUnregisteredType,
		fmt.Sprintf("no registration for type %s", typeID),
		nil,
	).WithType(typeID)
}

func MissingParameter(typeID, param string) *Error {
	return New(
		CodeMissingParameter,
		fmt.Sprintf("no constructor parameter named %q configured", param),
		nil,
	).WithType(typeID)
}

func Conversion(text, kind string, cause error) *Error {
	return New(
		CodeConversion,
		fmt.Sprintf("cannot convert %q to %s", text, kind),
		cause,
	)
}

func ArgumentTypeMismatch(typeID string, index int, param, got, want string) *Error {
	return New(
		CodeArgumentTypeMismatch,
		fmt.Sprintf("argument %d (%s) has type %s, constructor expects %s", index, param, got, want),
		nil,
	).WithType(typeID)
}

func ConstructorInvocation(typeID string, cause error) *Error {
	return New(CodeConstructorInvocation, "constructor failed", cause).WithType(typeID)
}

func CircularDependency(chain []string) *Error {
	return New(
		CodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %s", strings.Join(chain, " -> ")),
		nil,
	).WithPath(chain)
}

func DuplicateRegistration(typeID string) *Error {
	return New(
		CodeDuplicateRegistration,
		fmt.Sprintf("type %s is registered more than once", typeID),
		nil,
	).WithType(typeID)
}

func ResourceNotFound(name string, searched []string) *Error {
	msg := fmt.Sprintf("resource %q not found", name)
	if len(searched) > 0 {
		msg += " in " + strings.Join(searched, ", ")
	}
	return New(CodeResourceNotFound, msg, nil)
}

func ValidationFailed(cause error) *Error {
	return New(CodeValidationFailed, "registry validation failed", cause)
}
