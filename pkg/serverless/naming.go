package serverless

import (
	"fmt"
	"strings"
)

const (
	DefaultStage  = "dev"
	DefaultRegion = "us-east-1"
)

var functionNameReplacer = strings.NewReplacer("-", "Dash", "_", "Underscore")

// NormalizeName upper-cases the first letter, as the host does for logical IDs.
func NormalizeName(name string) string {
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// NormalizeFunctionName turns a function key into its CloudFormation logical ID prefix.
func NormalizeFunctionName(key string) string {
	return NormalizeName(functionNameReplacer.Replace(key))
}

// LogGroupLogicalID is the template resource ID of a function's log group.
func LogGroupLogicalID(key string) string {
	return NormalizeFunctionName(key) + "LogGroup"
}

// LogGroupName is the physical log group a deployed function writes to.
func LogGroupName(functionName string) string {
	return "/aws/lambda/" + functionName
}

// DeployedFunctionName returns the name the host deploys function key under.
func (s *Service) DeployedFunctionName(key, stage string) string {
	if fn, ok := s.Functions[key]; ok && fn.Name != "" {
		return fn.Name
	}
	return fmt.Sprintf("%s-%s-%s", s.Name(), stage, key)
}

// StackName returns the CloudFormation stack name for stage.
func (s *Service) StackName(stage string) string {
	if s.Provider.StackName != "" {
		return s.Provider.StackName
	}
	return fmt.Sprintf("%s-%s", s.Name(), stage)
}

// ResolveStage picks the CLI option, then the provider value, then the default.
func (s *Service) ResolveStage(option string) string {
	switch {
	case option != "":
		return option
	case s.Provider.Stage != "":
		return s.Provider.Stage
	default:
		return DefaultStage
	}
}

// ResolveRegion picks the CLI option, then the provider value, then the default.
func (s *Service) ResolveRegion(option string) string {
	switch {
	case option != "":
		return option
	case s.Provider.Region != "":
		return s.Provider.Region
	default:
		return DefaultRegion
	}
}
