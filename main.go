package main

import (
	"github.com/openshift-assisted/assisted-service-mcp/cmd"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
