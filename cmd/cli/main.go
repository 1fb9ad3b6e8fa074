package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/adapters/export"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/adapters/plot"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/app"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal/config"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal/container"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fbmn-stats",
		Short:         "Two-group non-parametric tests over LC-MS/MS feature tables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newTestCmd(stats.IndependentGroups),
		newTestCmd(stats.PairedSamples),
		newAttributesCmd(),
	)
	return rootCmd
}

// tableFlags are shared by every command that reads the input tables
type tableFlags struct {
	features  string
	metadata  string
	transpose bool
	sheet     string
}

func (f *tableFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.features, "features", "", "Feature table (csv, tsv or xlsx)")
	cmd.Flags().StringVar(&f.metadata, "metadata", "", "Metadata table (csv, tsv or xlsx)")
	cmd.Flags().BoolVar(&f.transpose, "transpose", false, "Feature table has features as rows and samples as columns")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet to read from xlsx files (default: first)")
	cmd.MarkFlagRequired("features")
	cmd.MarkFlagRequired("metadata")
}

func (f *tableFlags) source() app.TableSource {
	return app.TableSource{
		FeaturePath:  f.features,
		MetadataPath: f.metadata,
		Transpose:    f.transpose,
		Sheet:        f.sheet,
	}
}

func newTestCmd(family stats.TestFamily) *cobra.Command {
	var tables tableFlags
	var attribute, groups, alternative, correction string
	var out, volcano, boxDir string
	var workers int

	cmd := &cobra.Command{
		Use:   string(family),
		Short: fmt.Sprintf("Run the %s on every feature", family.DisplayName()),
		Long: fmt.Sprintf(`Run the %s on every feature, comparing two levels of a metadata attribute,
then correct the p-values and write the ranked result table as CSV.

Example: fbmn-stats %s --features quant.csv --metadata meta.csv --attribute ATTRIBUTE_Group --groups control,treated --correction fdr_bh`,
			family.DisplayName(), family),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			labels := strings.Split(groups, ",")
			if len(labels) != 2 {
				return fmt.Errorf("--groups needs exactly two comma-separated labels, got %q", groups)
			}

			c, err := newContainer(workers)
			if err != nil {
				return err
			}
			defer c.Shutdown()

			if err := c.Service.LoadFiles(c.Reader, tables.source(), "cli"); err != nil {
				return err
			}

			table, err := c.Service.Run(cmd.Context(), app.RunRequest{
				Family: family,
				Grouping: stats.Grouping{
					Attribute: attribute,
					GroupA:    strings.TrimSpace(labels[0]),
					GroupB:    strings.TrimSpace(labels[1]),
				},
				Alternative: stats.Alternative(alternative),
				Correction:  correction,
			})
			if err != nil {
				return err
			}

			if err := writeTable(cmd.OutOrStdout(), out, table); err != nil {
				return err
			}
			if volcano != "" {
				if err := writeVolcano(volcano, table); err != nil {
					return err
				}
			}
			if boxDir != "" {
				if err := writeBoxPlots(c.Service, boxDir, table); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d features tested, %d undefined, %d significant (%s)\n",
				table.Grouping, len(table.Rows), table.Undefined, len(table.Significant()), table.Correction)
			return nil
		},
	}

	tables.register(cmd)
	cmd.Flags().StringVar(&attribute, "attribute", "", "Metadata attribute defining the groups")
	cmd.Flags().StringVar(&groups, "groups", "", "The two attribute levels to compare, as A,B")
	cmd.Flags().StringVar(&alternative, "alternative", string(stats.TwoSided), "Alternative hypothesis: two-sided|greater|less")
	cmd.Flags().StringVar(&correction, "correction", "", "P-value correction: none|bonf|sidak|holm|fdr_bh|fdr_by (default: DEFAULT_CORRECTION or fdr_bh)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "CSV output path, or - for stdout; a directory gets the default file name")
	cmd.Flags().StringVar(&volcano, "volcano", "", "Write a volcano plot PNG to this path")
	cmd.Flags().StringVar(&boxDir, "box-dir", "", "Write a box plot PNG per significant feature into this directory")
	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent feature tests (default: ANALYSIS_WORKERS or GOMAXPROCS)")
	cmd.MarkFlagRequired("attribute")
	cmd.MarkFlagRequired("groups")

	return cmd
}

func newAttributesCmd() *cobra.Command {
	var tables tableFlags

	cmd := &cobra.Command{
		Use:   "attributes",
		Short: "List metadata attributes usable as groupings, with their levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(0)
			if err != nil {
				return err
			}
			defer c.Shutdown()

			if err := c.Service.LoadFiles(c.Reader, tables.source(), "cli"); err != nil {
				return err
			}
			attrs, err := c.Service.Attributes()
			if err != nil {
				return err
			}
			for _, attr := range attrs {
				levels, err := c.Service.Levels(attr)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", attr, strings.Join(levels, ", "))
			}
			return nil
		},
	}

	tables.register(cmd)
	return cmd
}

// newContainer wires the pipeline from the environment; the CLI never serves metrics
func newContainer(workers int) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.Server.MetricsEnabled = false
	if workers > 0 {
		cfg.Analysis.Workers = workers
	}
	logger := internal.NewLoggerWithFormat(cfg.Logging.Level, cfg.Logging.Format)
	return container.New(cfg, logger)
}

func writeTable(stdout io.Writer, out string, table *stats.ResultTable) error {
	if out == "-" {
		return export.WriteCSV(stdout, table)
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		out = filepath.Join(out, export.FileName(table))
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := export.WriteCSV(f, table); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeVolcano(path string, table *stats.ResultTable) error {
	img, err := plot.Volcano(table)
	if err != nil {
		return fmt.Errorf("volcano plot: %w", err)
	}
	return os.WriteFile(path, img, 0o644)
}

func writeBoxPlots(service *app.AnalysisService, dir string, table *stats.ResultTable) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, row := range table.Significant() {
		fg, err := service.FeatureGroups(table.Key, row.Feature)
		if err != nil {
			return err
		}
		img, err := plot.BoxPlot(row.Feature, row.PCorrected,
			plot.Group{Label: fg.A.Label, Values: fg.A.Values},
			plot.Group{Label: fg.B.Label, Values: fg.B.Values},
		)
		if err != nil {
			return fmt.Errorf("box plot for %s: %w", row.Feature, err)
		}
		name := strings.NewReplacer("/", "_", string(filepath.Separator), "_").Replace(row.Feature) + ".png"
		if err := os.WriteFile(filepath.Join(dir, name), img, 0o644); err != nil {
			return err
		}
	}
	return nil
}
