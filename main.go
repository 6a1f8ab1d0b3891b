package main

import "github.com/ignitionstack/serverless-datadog/cmd"

func main() {
	cmd.Execute()
}
