package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	dderrors "github.com/ignitionstack/serverless-datadog/pkg/errors"
)

// Sites lists the intake sites the plugin accepts.
var Sites = []string{
	"datadoghq.com",
	"datadoghq.eu",
	"us3.datadoghq.com",
	"ddog-gov.com",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration before anything is changed. Only the
// apiKey and apiKMSKey settings count as an API key for the extension.
func (c *Configuration) Validate() error {
	if c.APIKey != "" && c.APIKMSKey != "" {
		return dderrors.ErrConflictingAPIKeys
	}

	if !validSite(c.Site) {
		return dderrors.WithDetails(dderrors.ErrInvalidSite, fmt.Sprintf("site %q", c.Site))
	}

	if c.AddExtension {
		if c.HasForwarder() {
			return dderrors.ErrExtensionWithForwarder
		}
		if c.APIKey == "" && c.APIKMSKey == "" {
			return dderrors.ErrExtensionMissingAPIKey
		}
	}

	if IsSet(c.Forwarder) && IsSet(c.ForwarderArn) {
		return dderrors.ErrConflictingForwarder
	}

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "LogLevel" {
					return dderrors.WithDetails(dderrors.ErrInvalidLogLevel, fmt.Sprintf("log level %q", c.LogLevel))
				}
			}
		}
		return dderrors.Wrap(dderrors.DomainConfig, dderrors.CodeInvalidConfig, "invalid configuration", err)
	}

	return nil
}

// HasForwarder reports whether forwarder or forwarderArn is set. Empty
// strings count as unset.
func (c *Configuration) HasForwarder() bool {
	return IsSet(c.Forwarder) || IsSet(c.ForwarderArn)
}

// ForwarderTarget returns whichever of forwarderArn and forwarder is set,
// preferring forwarderArn.
func (c *Configuration) ForwarderTarget() interface{} {
	if IsSet(c.ForwarderArn) {
		return c.ForwarderArn
	}
	if IsSet(c.Forwarder) {
		return c.Forwarder
	}
	return nil
}

// IsSet reports whether a forwarder value is present: non-nil and not an
// empty or blank string.
func IsSet(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	default:
		return true
	}
}

func validSite(site string) bool {
	site = strings.ToLower(site)
	for _, s := range Sites {
		if s == site {
			return true
		}
	}
	return false
}
