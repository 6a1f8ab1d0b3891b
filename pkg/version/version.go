package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is the plugin release. Overridden at build time with
// -ldflags "-X github.com/ignitionstack/serverless-datadog/pkg/version.Version=..."
var Version = "2.18.0"

// Tag returns the value stamped on functions, always prefixed with "v".
func Tag() string {
	v, err := semver.NewVersion(Version)
	if err != nil {
		return "v" + strings.TrimPrefix(Version, "v")
	}
	return "v" + v.String()
}
