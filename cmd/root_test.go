package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCmdProperties(t *testing.T) {
	assert.Equal(t, "assisted-service-mcp", rootCmd.Use)
	assert.Equal(t, "MCP server for the Red Hat Assisted Installer", rootCmd.Short)
	assert.True(t, strings.Contains(rootCmd.Long, "Model Context Protocol"))
	assert.True(t, strings.Contains(rootCmd.Long, "Assisted Installer"))
	assert.True(t, rootCmd.SilenceUsage)
}

func TestSetVersion(t *testing.T) {
	originalVersion := rootCmd.Version
	defer func() {
		rootCmd.Version = originalVersion
	}()

	testVersion := "v1.2.3-test"
	SetVersion(testVersion)

	assert.Equal(t, testVersion, rootCmd.Version)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	subcommands := rootCmd.Commands()

	var foundCommands []string
	for _, cmd := range subcommands {
		foundCommands = append(foundCommands, cmd.Use)
	}

	assert.Contains(t, foundCommands, "version")
	assert.Contains(t, foundCommands, "self-update")
	assert.Contains(t, foundCommands, "serve")

	assert.GreaterOrEqual(t, len(foundCommands), 3)
}
