// Package output adds monitoring links to the compiled template and prints
// them after a deploy.
package output

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"go.uber.org/zap"

	"github.com/ignitionstack/serverless-datadog/pkg/provider"
	"github.com/ignitionstack/serverless-datadog/pkg/runtime"
	"github.com/ignitionstack/serverless-datadog/pkg/serverless"
)

// Prefix marks the outputs owned by the plugin.
const Prefix = "DatadogMonitor"

var nonAlphanumeric = regexp.MustCompile(`[^A-Za-z0-9]`)

// Link is one output added to the template.
type Link struct {
	Key         string
	Function    string
	URL         string
	Description string
}

// OutputKey is the template output key for a function.
func OutputKey(function string) string {
	return Prefix + nonAlphanumeric.ReplaceAllString(function, "")
}

// FunctionURL is the monitoring page of a deployed function.
func FunctionURL(site, deployedName string) string {
	return fmt.Sprintf("https://app.%s/functions?cloud=aws&entity_view=lambda_functions&search=%s", site, deployedName)
}

// AddLinks adds one output per function to tmpl and returns them in order.
func AddLinks(tmpl *serverless.CompiledTemplate, svc *serverless.Service, infos []runtime.FunctionInfo, stage, site string) []Link {
	doc := tmpl.Document()
	outputs, ok := tmpl.Outputs()
	if !ok {
		outputs = map[string]interface{}{}
		doc["Outputs"] = outputs
	}

	links := make([]Link, 0, len(infos))
	for _, info := range infos {
		link := Link{
			Key:         OutputKey(info.Name),
			Function:    info.Name,
			URL:         FunctionURL(strings.ToLower(site), svc.DeployedFunctionName(info.Name, stage)),
			Description: fmt.Sprintf("See %s in Datadog", info.Name),
		}
		outputs[link.Key] = map[string]interface{}{
			"Description": link.Description,
			"Value":       link.URL,
		}
		links = append(links, link)
	}
	return links
}

// StackLink is a plugin output read back from a deployed stack.
type StackLink struct {
	Description string
	URL         string
}

// FetchLinks returns the plugin outputs of stackName, sorted by
// description. API failures are logged and yield no links.
func FetchLinks(ctx context.Context, stacks provider.StacksAPI, stackName string, logger *zap.Logger) []StackLink {
	if logger == nil {
		logger = zap.NewNop()
	}
	if stacks == nil {
		return nil
	}

	out, err := stacks.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{StackName: aws.String(stackName)})
	if err != nil {
		logger.Debug("could not describe stack", zap.String("stack", stackName), zap.Error(err))
		return nil
	}

	var links []StackLink
	for _, stack := range out.Stacks {
		for _, o := range stack.Outputs {
			if !strings.HasPrefix(aws.ToString(o.OutputKey), Prefix) {
				continue
			}
			links = append(links, StackLink{
				Description: aws.ToString(o.Description),
				URL:         aws.ToString(o.OutputValue),
			})
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].Description < links[j].Description })
	return links
}

// Print writes links as `Description: URL`, one per line, under a heading.
func Print(w io.Writer, links []StackLink) error {
	if len(links) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Datadog Monitoring"); err != nil {
		return err
	}
	for _, link := range links {
		if _, err := fmt.Fprintf(w, "  %s: %s\n", link.Description, link.URL); err != nil {
			return err
		}
	}
	return nil
}
