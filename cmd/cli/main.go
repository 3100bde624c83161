package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"goeda/adapters/rng"
	"goeda/adapters/tabular"
	"goeda/app"
	"goeda/internal"
	"goeda/internal/dataset"
	apperrors "goeda/internal/errors"
)

func main() {
	_ = godotenv.Load()

	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error kind to the process exit code
func exitCodeFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidInput:
		return 2
	case apperrors.CodeUnsupportedFormat:
		return 3
	case apperrors.CodeParseFailure:
		return 4
	case apperrors.CodeTableNotFound:
		return 5
	case apperrors.CodeColumnNotFound:
		return 6
	case apperrors.CodeEmptyRequest:
		return 7
	case apperrors.CodeAnalysisFailure:
		return 8
	}
	return 1
}

type options struct {
	seed   int64
	pretty bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:           "goeda",
		Short:         "Exploratory data analysis for CSV, Excel, JSON and Parquet files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Int64Var(&opts.seed, "seed", 0, "Seed for scatter sampling (0 = random)")
	rootCmd.PersistentFlags().BoolVar(&opts.pretty, "pretty", true, "Indent JSON output")

	rootCmd.AddCommand(
		newAnalyzeCmd(opts),
		newColumnsCmd(opts),
		newPreviewCmd(opts),
		newRemoveColumnsCmd(opts),
		newReportCmd(opts),
	)
	return rootCmd
}

// services builds file-only services rooted at the directory holding path
func services(path string, opts *options) (*app.AnalysisService, *app.DatasetService, string) {
	storage := dataset.NewLocalFileStorageWithPath(filepath.Dir(path))
	logger := internal.NewDefaultLogger("")
	reader := tabular.NewDataReader()
	analysis := app.NewAnalysisService(storage, reader, rng.NewRNGAdapter(opts.seed), logger)
	datasets := app.NewDatasetService(storage, nil, reader, tabular.NewDataWriter(), logger)
	return analysis, datasets, filepath.Base(path)
}

func writeJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [file]",
		Short: "Print overview, column statistics, chart data and insights as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, _, name := services(args[0], opts)
			result, err := analysis.Analyze(commandContext(cmd), name)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result, opts.pretty)
		},
	}
}

func newColumnsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "columns [file]",
		Short: "Describe every column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, _, name := services(args[0], opts)
			info, err := analysis.Columns(commandContext(cmd), name)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), info, opts.pretty)
		},
	}
}

func newPreviewCmd(opts *options) *cobra.Command {
	var rows int
	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Print the first rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, _, name := services(args[0], opts)
			preview, err := analysis.Preview(commandContext(cmd), name, rows)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), preview, opts.pretty)
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 10, "Number of rows (1-1000)")
	return cmd
}

func newRemoveColumnsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-columns [file] [column...]",
		Short: "Write a copy of the file without the given columns as <name>_eda<ext>",
		Long: `Remove columns from a dataset and save the result next to it.

The source file is never modified. Example: goeda remove-columns data/sales.csv deal_id notes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, datasets, name := services(args[0], opts)
			result, err := datasets.RemoveColumns(commandContext(cmd), name, args[1:])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result, opts.pretty)
		},
	}
}

func newReportCmd(opts *options) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Render an analysis report as Markdown or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analysis, _, name := services(args[0], opts)
			body, err := analysis.Report(commandContext(cmd), name, app.ReportFormat(format))
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(out, body, 0644); err != nil {
				return apperrors.Wrapf(err, "failed to write %s", out)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "markdown", "markdown or html")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the report to a file instead of stdout")
	return cmd
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
