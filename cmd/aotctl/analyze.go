package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurelia/aot/internal/cfgflag"
	"github.com/aurelia/aot/internal/obslog"
	"github.com/aurelia/aot/pkg/packageanalysis"
)

func newAnalyzeCmd(configPath *string) *cobra.Command {
	var cacheDir string
	var fingerprint string

	cmd := &cobra.Command{
		Use:   "analyze <packageRoot>",
		Short: "analyze one package's resources, configurations, and gaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			mode, ok := cfg.CacheMode()
			if !ok {
				mode = cfgflag.CacheReadWrite
			}
			dir := cacheDir
			if dir == "" {
				dir = cfg.Cache.Dir
			}

			logger := obslog.New("aotctl-analyze", nil)
			result := packageanalysis.AnalyzePackage(cmd.Context(), args[0], osFSHost{}, packageanalysis.Options{
				PreferSource: true,
				Cache: packageanalysis.CacheOptions{
					Dir:           dir,
					SchemaVersion: cfg.Cache.SchemaVersion,
					Fingerprint:   fingerprint,
					Mode:          mode,
				},
				Logger: logger,
			})

			fmt.Fprintf(cmd.OutOrStdout(), "%s@%s  confidence=%s  strategy=%s  cached=%v\n",
				result.Analysis.Name, result.Analysis.Version, result.Confidence, result.PrimaryStrategy, result.FromCache)
			for _, r := range result.Analysis.Resources {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-8s %-24s %s\n", r.Kind, r.Name.Val, r.File)
			}
			for _, g := range result.Gaps {
				fmt.Fprintf(cmd.OutOrStdout(), "  gap: %s: %s\n", g.Kind, g.What)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "override the aot.toml cache directory")
	cmd.Flags().StringVar(&fingerprint, "fingerprint", "", "cache fingerprint (e.g. tool version) to bust stale entries")
	return cmd
}
