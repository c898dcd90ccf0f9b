package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for the assisted-service-mcp application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "assisted-service-mcp",
	Short: "MCP server for the Red Hat Assisted Installer",
	Long: `assisted-service-mcp is a Model Context Protocol (MCP) server that exposes
the Red Hat Assisted Installer API as tools. It lets MCP clients create
OpenShift clusters, monitor installations, assign host roles, download
discovery ISOs, and retrieve cluster credentials.

When run without subcommands, it starts the MCP server (equivalent to 'assisted-service-mcp serve').`,
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles subcommands and flags.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "assisted-service-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
	rootCmd.AddCommand(newServeCmd())
}
