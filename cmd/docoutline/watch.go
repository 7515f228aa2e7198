package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/batch"
	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/dgallion1/docoutline/internal/render"
)

var (
	watchOut      string
	watchFormat   string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Write outlines for documents as they appear in a directory",
	Long: `Watch a directory and write an outline for every supported document
created or modified in it. Output goes to <dir>/outlines unless --out is set.
Subdirectories are not watched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		format, err := render.ParseFormat(watchFormat)
		if err != nil {
			return err
		}
		dir := args[0]
		if info, err := os.Stat(dir); err != nil {
			return err
		} else if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		out := watchOut
		if out == "" {
			out = filepath.Join(dir, "outlines")
		}

		log := newLogger(cmd.ErrOrStderr(), cfg)
		runner := batch.NewRunner(pipeline.NewOrchestrator(cfg, log), batch.Options{
			Workers: 1,
			OutDir:  out,
			Format:  format,
		}, log)

		w, err := batch.NewWatcher(dir, runner, watchDebounce, log)
		if err != nil {
			return err
		}
		return w.Run(cmd.Context())
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchOut, "out", "", "output directory (default: <dir>/outlines)")
	watchCmd.Flags().StringVar(&watchFormat, "format", "json", "output format: json, yaml, markdown or html")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", batch.DefaultDebounce, "quiet period before a changed file is processed")
}
