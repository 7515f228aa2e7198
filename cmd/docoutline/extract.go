package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/batch"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/render"
)

var (
	extractWorkers int
	extractOut     string
	extractFormat  string
	extractStdout  bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <path>...",
	Short: "Write an outline for each document",
	Long: `Infer the outline of each file, or of every supported file directly
inside each directory, and write <name>.json (or the chosen format) next to
the input or into --out.

Examples:
  docoutline extract report.pdf
  docoutline extract ./docs --out ./outlines --workers 8
  docoutline extract guide.md --format markdown --stdout`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		format, err := render.ParseFormat(extractFormat)
		if err != nil {
			return err
		}
		log := newLogger(cmd.ErrOrStderr(), cfg)

		files, err := batch.Collect(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no supported documents in %v", args)
		}

		opts := batch.Options{
			Workers: extractWorkers,
			OutDir:  extractOut,
			Format:  format,
		}
		if extractStdout {
			opts.Stdout = cmd.OutOrStdout()
		}
		runner := batch.NewRunner(pipeline.NewOrchestrator(cfg, log), opts, log)

		sum, err := runner.Run(cmd.Context(), files)
		log.Info("extract finished", "processed", sum.Processed, "failed", sum.Failed)
		if err != nil {
			return fmt.Errorf("%d of %d documents failed", sum.Failed, len(files))
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().IntVar(&extractWorkers, "workers", runtime.NumCPU(), "documents processed in parallel")
	extractCmd.Flags().StringVar(&extractOut, "out", "", "output directory (default: next to each input)")
	extractCmd.Flags().StringVar(&extractFormat, "format", "json", "output format: json, yaml, markdown or html")
	extractCmd.Flags().BoolVar(&extractStdout, "stdout", false, "print results instead of writing files")
}
