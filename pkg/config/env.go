package config

import (
	"strconv"

	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
)

const (
	APIKeyEnvVar     = "DD_API_KEY"
	KMSAPIKeyEnvVar  = "DD_KMS_API_KEY"
	SiteEnvVar       = "DD_SITE"
	LogLevelEnvVar   = "DD_LOG_LEVEL"
	FlushToLogEnvVar = "DD_FLUSH_TO_LOG"
	TraceEnvVar      = "DD_TRACE_ENABLED"
	LogsInjectEnvVar = "DD_LOGS_INJECTION"
)

// ApplyEnvironment writes the configuration into the provider environment.
// Variables the service already defines are left alone. It returns the
// names of the variables it set.
func (c *Configuration) ApplyEnvironment(s *serverless.Service) []string {
	if s.Provider.Environment == nil {
		s.Provider.Environment = map[string]interface{}{}
	}
	env := s.Provider.Environment

	var set []string
	put := func(key, value string) {
		if _, ok := env[key]; ok {
			return
		}
		env[key] = value
		set = append(set, key)
	}

	if c.APIKey != "" {
		put(APIKeyEnvVar, c.APIKey)
	}
	if c.APIKMSKey != "" {
		put(KMSAPIKeyEnvVar, c.APIKMSKey)
	}
	put(SiteEnvVar, c.Site)
	if c.LogLevel != "" {
		put(LogLevelEnvVar, c.LogLevel)
	}
	put(FlushToLogEnvVar, strconv.FormatBool(c.FlushMetricsToLogs))
	put(TraceEnvVar, strconv.FormatBool(c.EnableDDTracing))
	put(LogsInjectEnvVar, strconv.FormatBool(c.InjectLogContext))

	return set
}
