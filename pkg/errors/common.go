package errors

import (
	"errors"
	"fmt"
)

var (
	ErrConflictingAPIKeys     = errors.New("`apiKey` and `apiKMSKey` should not be set at the same time")
	ErrInvalidSite            = errors.New("invalid site URL, must be either datadoghq.com, datadoghq.eu, us3.datadoghq.com, or ddog-gov.com")
	ErrExtensionWithForwarder = errors.New("`addExtension` and `forwarder`/`forwarderArn` should not be set at the same time")
	ErrExtensionMissingAPIKey = errors.New("when `addExtension` is true, `apiKey` or `apiKMSKey` must also be set")
	ErrConflictingForwarder   = errors.New("both 'forwarderArn' and 'forwarder' parameters are set, please only use the 'forwarderArn' parameter")
	ErrInvalidLogLevel        = errors.New("invalid log level")

	ErrUnknownHook          = errors.New("unknown lifecycle event")
	ErrNoCompiledTemplate   = errors.New("no cloudformation stack available, skipping subscribing Datadog forwarder")
	ErrNoProviderClients    = errors.New("cloud provider clients not configured")
	ErrForwarderValidation  = errors.New("could not perform GetFunction on forwarder")
	ErrTooManySubscriptions = errors.New("too many existing subscription filters")

	ErrServiceNotFound = errors.New("service definition not found")
	ErrInvalidService  = errors.New("invalid service definition")
)

func WithDetails(err error, details string) error {
	return fmt.Errorf("%s: %w", details, err)
}

func IsConfigurationError(err error) bool {
	var pe *PluginError
	if errors.As(err, &pe) {
		return pe.ErrDomain == DomainConfig
	}
	return errors.Is(err, ErrConflictingAPIKeys) ||
		errors.Is(err, ErrInvalidSite) ||
		errors.Is(err, ErrExtensionWithForwarder) ||
		errors.Is(err, ErrExtensionMissingAPIKey) ||
		errors.Is(err, ErrConflictingForwarder) ||
		errors.Is(err, ErrInvalidLogLevel)
}
