package errors

import (
	"errors"
	"fmt"
)

// Domain enumerates the possible error domains
type Domain string

const (
	DomainConfig    Domain = "config"
	DomainService   Domain = "service"
	DomainLayer     Domain = "layer"
	DomainHandler   Domain = "handler"
	DomainForwarder Domain = "forwarder"
	DomainOutput    Domain = "output"
)

// Code enumerates possible error codes for each domain
type Code string

const (
	CodeInvalidConfig      Code = "invalid_config"
	CodeInvalidService     Code = "invalid_service"
	CodeWriteFailed        Code = "write_failed"
	CodeSubscriptionFailed Code = "subscription_failed"
	CodeValidationFailed   Code = "validation_failed"
	CodeDescribeFailed     Code = "describe_failed"
)

// PluginError carries the domain, a code unique within it, and the function
// the failure relates to, if any.
type PluginError struct {
	ErrDomain Domain
	ErrCode   Code
	Message   string
	Function  string
	Cause     error
}

func (e *PluginError) Error() string {
	msg := e.Message
	if e.Function != "" {
		msg = fmt.Sprintf("%s (function: %s)", msg, e.Function)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *PluginError) Unwrap() error {
	return e.Cause
}

// New creates a new PluginError.
func New(domain Domain, code Code, message string) *PluginError {
	return &PluginError{
		ErrDomain: domain,
		ErrCode:   code,
		Message:   message,
	}
}

// Wrap wraps an error with domain context.
func Wrap(domain Domain, code Code, message string, err error) *PluginError {
	return &PluginError{
		ErrDomain: domain,
		ErrCode:   code,
		Message:   message,
		Cause:     err,
	}
}

// WithFunction adds function name context to the error
func (e *PluginError) WithFunction(name string) *PluginError {
	e.Function = name
	return e
}

// Is checks if an error is a PluginError with the specified domain and code.
func Is(err error, domain Domain, code Code) bool {
	var pe *PluginError
	if errors.As(err, &pe) {
		return pe.ErrDomain == domain && pe.ErrCode == code
	}
	return false
}
