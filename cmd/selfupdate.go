package cmd

import (
	"fmt"
	"os"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// githubRepoSlug identifies the GitHub repository used for release lookups.
const githubRepoSlug = "openshift-assisted/assisted-service-mcp"

// newSelfUpdateCmd creates the Cobra command for updating the binary to the
// latest GitHub release.
func newSelfUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "self-update",
		Short: "Update assisted-service-mcp to the latest version",
		Long: `Check GitHub for a newer release of assisted-service-mcp and replace the
current binary with it. Development builds cannot be updated this way.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			version := rootCmd.Version
			if version == "" || version == "dev" {
				return fmt.Errorf("cannot self-update a development version (current: %q); "+
					"install a released binary first", version)
			}

			ctx := cmd.Context()
			latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(githubRepoSlug))
			if err != nil {
				return fmt.Errorf("checking for latest release: %w", err)
			}
			if !found {
				return fmt.Errorf("no release found for %s", githubRepoSlug)
			}

			if latest.LessOrEqual(version) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Current version %s is already the latest\n", version)
				return nil
			}

			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("locating current executable: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updating %s -> %s\n", version, latest.Version())
			if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
				return fmt.Errorf("updating binary: %w", err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully updated to version %s\n", latest.Version())
			return nil
		},
	}
}
