// Command aotctl is a thin CLI demonstrating the package-analysis and
// inspection APIs (§6.3/§6.4) over a plain on-disk project: `analyze`
// prints a one-line-per-resource summary, `inspect` prints the full
// InspectionResult as JSON for piping into another tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aurelia/aot/pkg/aotconfig"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "aotctl",
		Short:         "inspect and analyze Aurelia packages ahead of time",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "aot.toml", "path to the project's aot.toml")

	root.AddCommand(newAnalyzeCmd(&configPath))
	root.AddCommand(newInspectCmd(&configPath))
	return root
}

func loadConfig(path string) (aotconfig.Config, error) {
	cfg, err := aotconfig.Load(path)
	if err != nil {
		return aotconfig.Config{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}
