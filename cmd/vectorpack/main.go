// Command vectorpack converts folders of rasters into gradient + color-band
// svg documents bundled with their source in zip archives.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/setanarut/vectorpack"
	"github.com/setanarut/vectorpack/batch"
	"github.com/setanarut/vectorpack/internal/config"
	"github.com/setanarut/vectorpack/internal/logging"
	"github.com/setanarut/vectorpack/utils"
)

var (
	cfgFile    string
	envFile    string
	logLevel   string
	outputJSON bool

	cfg    *config.Config
	logger zerolog.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "vectorpack",
		Short:         "Convert rasters into gradient + color-band svg bundles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(envFile); err != nil {
				return err
			}
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if outputJSON {
				cfg.Log.Format = "json"
			}
			logger = logging.New(logging.Config{
				Level:   cfg.Log.Level,
				Format:  cfg.Log.Format,
				Output:  cmd.ErrOrStderr(),
				Service: "vectorpack",
			})
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file (default: built-in defaults and env vars)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&outputJSON, "json", false, "log in JSON format")

	root.AddCommand(newConvertCmd())
	root.AddCommand(newSwatchCmd())
	return root
}

// exitCode is 2 for configuration errors and 1 for any other failure.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, vectorpack.ErrInvalidConfig):
		return 2
	default:
		return 1
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

func newConvertCmd() *cobra.Command {
	var (
		masks      bool
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "convert <folder>",
		Short: "Convert every raster in a folder into name.svg and name.zip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			inputs, err := batch.Discover(dir, nil)
			if err != nil {
				return err
			}

			var bar *progressbar.ProgressBar
			if !noProgress {
				bar = progressbar.NewOptions(len(inputs),
					progressbar.OptionSetDescription("converting"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionSetItsString("files"),
					progressbar.OptionOnCompletion(func() { fmt.Fprint(os.Stderr, "\n") }),
				)
			}

			report, err := batch.Run(cmd.Context(), dir, batch.Options{
				Vector:      cfg.VectorOptions(),
				Workers:     cfg.Batch.Workers,
				StopOnError: cfg.Batch.StopOnError,
				OutputDir:   cfg.Batch.OutputDir,
				Masks:       masks,
				Logger:      &logger,
				Progress: func(batch.Result) {
					if bar != nil {
						_ = bar.Add(1)
					}
				},
			})
			if err != nil {
				return err
			}
			if bar != nil {
				_ = bar.Finish()
			}

			printSummary(cmd.OutOrStdout(), report)
			if n := len(report.Failed()); n > 0 {
				return fmt.Errorf("%d of %d files failed", n, len(report.Results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&masks, "masks", false, "also write one PNG mask per color band")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the progress bar")
	return cmd
}

func printSummary(w io.Writer, report *batch.Report) {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)
	for _, res := range report.Results {
		name := filepath.Base(res.Input)
		if res.OK() {
			ok.Fprintf(w, "✓ %s", name)
			fmt.Fprintf(w, " → %s, %s (%d rects)\n", filepath.Base(res.SVG), filepath.Base(res.Archive), res.Elements)
			continue
		}
		bad.Fprintf(w, "✗ %s", name)
		fmt.Fprintf(w, " [%s] %v\n", res.Code, res.Err)
	}
	s := report.Summary()
	fmt.Fprintf(w, "%d files: %d ok, %d failed, %d canceled; mean %v ± %v, %.0f rects/file\n",
		s.Total, s.Succeeded, s.Failed, s.Canceled, s.MeanDuration, s.StdDuration, s.MeanElements)
}

func newSwatchCmd() *cobra.Command {
	var (
		method   string
		out      string
		tileSize int
		sorted   bool
	)

	cmd := &cobra.Command{
		Use:   "swatch <image>",
		Short: "Save a palette preview strip for an image",
		Long: `Composite the image exactly as convert does and render its palette.

The frequency method shows the colors of the svg background gradient; the
dominantcolor and kmeans methods give a perceptual preview only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := utils.ParsePaletteMethod(method)
			if err != nil {
				return err
			}
			img, err := utils.ReadImage(args[0])
			if err != nil {
				return err
			}
			canvas, err := vectorpack.Composite(img, cfg.VectorOptions())
			if err != nil {
				return err
			}
			palette := utils.ExtractPalette(canvas, cfg.Colors, m)
			if sorted {
				utils.SortPaletteByBrightness(palette)
			}
			dst := out
			if dst == "" {
				dst = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + "_palette.png"
			}
			if err := utils.SavePalette(palette, tileSize, dst); err != nil {
				return err
			}
			logger.Info().Str("method", m.String()).Int("colors", len(palette)).Str("out", dst).Msg("swatch saved")
			for _, c := range palette {
				fmt.Fprintln(cmd.OutOrStdout(), c.Hex())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&method, "method", "m", "frequency", "palette method: frequency, dominantcolor, kmeans")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output PNG (default <image>_palette.png)")
	cmd.Flags().IntVar(&tileSize, "tile", 64, "swatch tile size in pixels")
	cmd.Flags().BoolVar(&sorted, "sort", false, "order swatches from dark to bright")
	return cmd
}
