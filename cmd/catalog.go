package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/lehigh-university-libraries/skinscan/internal/catalog"
	"github.com/spf13/cobra"
)

func newCatalogCmd() *cobra.Command {
	var (
		format      string
		output      string
		catalogPath string
	)

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Validate and export the condition catalog",
		Long: `Loads the condition catalog (built-in unless --catalog is given), validates it
and prints or writes it in the requested format.

Parquet output needs --output; the other formats print to stdout when no
output file is given.`,
		Example: `  # Show the built-in catalog
  skinscan catalog

  # Export it as Parquet
  skinscan catalog --format parquet --output catalog.parquet

  # Validate a custom catalog
  skinscan catalog --catalog my-catalog.yaml --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("catalog") {
				catalogPath = envOr("SKINSCAN_CATALOG", catalogPath)
			}
			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}

			if output != "" {
				fileFormat, err := catalog.FormatFromPath(output)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("format") && string(fileFormat) != format {
					return fmt.Errorf("output %s does not match format %s", output, format)
				}
				if err := cat.Save(output); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✅ Catalog written to: %s\n", output)
				return nil
			}

			switch format {
			case "text":
				return printCatalog(cmd.OutOrStdout(), cat)
			case "json", "yaml":
				return cat.Encode(cmd.OutOrStdout(), catalog.Format(format))
			case "parquet":
				return fmt.Errorf("--output is required for parquet")
			default:
				return fmt.Errorf("unsupported format: %s", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format (text, json, yaml or parquet)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout; format follows its extension")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog file to load instead of the built-in one")

	return cmd
}

func printCatalog(w io.Writer, cat *catalog.Catalog) error {
	var b strings.Builder

	b.WriteString("========================================\n")
	b.WriteString("Condition Catalog\n")
	b.WriteString("========================================\n")
	for i, d := range cat.Diseases() {
		fmt.Fprintf(&b, "[%d] %-28s %3d%%  %s\n", i+1, d.Name, d.Confidence, d.Severity)
		for _, doc := range d.Doctors {
			fmt.Fprintf(&b, "      %s, %s\n", doc.Name, doc.Hospital)
		}
	}

	b.WriteString("\nDoctors:\n")
	for _, doc := range cat.Doctors() {
		fmt.Fprintf(&b, "  %s (%s) %s, %s %s\n", doc.Name, doc.Specialty, doc.Hospital, doc.Location, doc.Phone)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
