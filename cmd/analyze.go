package cmd

import (
	"fmt"
	"time"

	"github.com/lehigh-university-libraries/skinscan/internal/batch"
	"github.com/lehigh-university-libraries/skinscan/internal/report"
	"github.com/lehigh-university-libraries/skinscan/internal/simulated"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		delay       time.Duration
		workers     int
		format      string
		catalogPath string
	)

	cmd := &cobra.Command{
		Use:   "analyze <image>...",
		Short: "Analyze local images and print a report for each",
		Long: `Runs the same upload and analysis flow as the web view against local files
and prints the analysis report for every image.

Images are processed concurrently, at most --workers at a time.`,
		Example: `  # Analyze one image
  skinscan analyze arm.jpg

  # Analyze a folder of images quickly, as YAML
  skinscan analyze --delay 0 --format yaml photos/*.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportFormat, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("delay") {
				delay = envDuration("SKINSCAN_ANALYSIS_DELAY", delay)
			}
			if !cmd.Flags().Changed("catalog") {
				catalogPath = envOr("SKINSCAN_CATALOG", catalogPath)
			}

			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}

			provider := simulated.New(cat, simulated.WithDelay(delay))
			outcomes, err := batch.Run(cmd.Context(), provider, args, workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for i, o := range outcomes {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if o.Error != "" {
					failed++
					fmt.Fprintf(out, "❌ %s: %s\n", o.Path, o.Error)
					continue
				}
				rep, err := report.Build(o.Snapshot, time.Now())
				if err != nil {
					return err
				}
				if err := rep.Write(out, reportFormat); err != nil {
					return fmt.Errorf("failed to write report for %s: %w", o.Path, err)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d images could not be analyzed", failed, len(outcomes))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&delay, "delay", simulated.DefaultDelay, "Simulated analysis time per image")
	cmd.Flags().IntVar(&workers, "workers", 4, "Number of images analyzed concurrently")
	cmd.Flags().StringVar(&format, "format", "text", "Report format (text or yaml)")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file (.yaml, .json or .parquet); defaults to the built-in catalog")

	return cmd
}
