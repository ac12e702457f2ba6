package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aurelia/aot/internal/cfgflag"
	"github.com/aurelia/aot/pkg/inspect"
	"github.com/aurelia/aot/pkg/packageanalysis"
)

func newInspectCmd(configPath *string) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "inspect <packageRoot>",
		Short: "print a package's full inspection result as JSON",
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

			result := inspect.Inspect(cmd.Context(), args[0], osFSHost{}, inspect.Options{
				Analysis: packageanalysis.Options{
					PreferSource: true,
					Cache: packageanalysis.CacheOptions{
						Dir:           cfg.Cache.Dir,
						SchemaVersion: cfg.Cache.SchemaVersion,
						Mode:          mode,
					},
				},
			})

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("encoding inspection result: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", true, "indent the JSON output")
	return cmd
}
