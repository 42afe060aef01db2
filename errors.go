package bantam

import (
	"github.com/danpasecinic/bantam/internal/errs"
)

// Error is returned by every failing operation. Code identifies the failure;
// Path holds the chain of type ids being resolved, outermost first.
type Error = errs.Error

type ErrorCode = errs.Code

const (
	ErrCodeUnknown               = errs.CodeUnknown
	ErrCodeConfigNotFound        = errs.CodeConfigNotFound
	ErrCodeConfigParse           = errs.CodeConfigParse
	ErrCodeTypeResolution        = errs.CodeTypeResolution
	ErrCodeUnregisteredType      = errs.CodeUnregisteredType
	ErrCodeMissingParameter      = errs.CodeMissingParameter
	ErrCodeConversion            = errs.CodeConversion
	ErrCodeArgumentTypeMismatch  = errs.CodeArgumentTypeMismatch
	ErrCodeConstructorInvocation = errs.CodeConstructorInvocation
	ErrCodeCircularDependency    = errs.CodeCircularDependency
	ErrCodeDuplicateRegistration = errs.CodeDuplicateRegistration
	ErrCodeResourceNotFound      = errs.CodeResourceNotFound
	ErrCodeValidationFailed      = errs.CodeValidationFailed
)

// HasCode reports whether err, or any error joined or wrapped inside it,
// carries code.
func HasCode(err error, code ErrorCode) bool {
	return errs.Has(err, code)
}

func IsConfigNotFound(err error) bool {
	return errs.Has(err, errs.CodeConfigNotFound)
}

func IsConfigParse(err error) bool {
	return errs.Has(err, errs.CodeConfigParse)
}

func IsTypeResolution(err error) bool {
	return errs.Has(err, errs.CodeTypeResolution)
}

func IsUnregisteredType(err error) bool {
	return errs.Has(err, errs.CodeUnregisteredType)
}

func IsMissingParameter(err error) bool {
	return errs.Has(err, errs.CodeMissingParameter)
}

func IsConversion(err error) bool {
	return errs.Has(err, errs.CodeConversion)
}

func IsArgumentTypeMismatch(err error) bool {
	return errs.Has(err, errs.CodeArgumentTypeMismatch)
}

func IsConstructorInvocation(err error) bool {
	return errs.Has(err, errs.CodeConstructorInvocation)
}

func IsCircularDependency(err error) bool {
	return errs.Has(err, errs.CodeCircularDependency)
}

func IsDuplicateRegistration(err error) bool {
	return errs.Has(err, errs.CodeDuplicateRegistration)
}

func IsResourceNotFound(err error) bool {
	return errs.Has(err, errs.CodeResourceNotFound)
}

func IsValidationFailed(err error) bool {
	return errs.Has(err, errs.CodeValidationFailed)
}
