package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"github.com/uyouii/ratebands/common"
	"github.com/uyouii/ratebands/config"
	"github.com/uyouii/ratebands/pipeline"
	"github.com/uyouii/ratebands/render"
	"github.com/uyouii/ratebands/source"
	"github.com/uyouii/ratebands/utils"
	"go.uber.org/zap"
)

type inputFlags struct {
	configPath string
	sourcePath string
	matrixPath string

	rate     string
	central  string
	levels   []float64
	bins     int
	start    float64
	end      float64
	node     int
	nodeMode string
	smooth   bool
	span     float64
	xlim     string
	ylim     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.configPath, "config", "", "YAML options file")
	flags.StringVar(&f.sourcePath, "source", "", "YAML source manifest naming the rate matrix files")
	flags.StringVar(&f.matrixPath, "matrix", "", "Precomputed rate matrix (.csv or .xlsx), header row = time bins")
	flags.StringVar(&f.rate, "rate", "speciation", "Rate kind: speciation|extinction|netdiv|trait")
	flags.StringVar(&f.central, "central", "mean", "Central tendency: mean|median")
	flags.Float64SliceVar(&f.levels, "levels", nil, "Quantile levels (default 0.00..1.00 by 0.01)")
	flags.IntVar(&f.bins, "bins", pipeline.DefaultBins, "Number of time bins drawn from the source")
	flags.Float64Var(&f.start, "start", 0, "Window start, time before present")
	flags.Float64Var(&f.end, "end", 0, "Window end, time before present")
	flags.IntVar(&f.node, "node", 0, "Sub-clade node id")
	flags.StringVar(&f.nodeMode, "node-mode", "include", "Sub-clade mode: include|exclude")
	flags.BoolVar(&f.smooth, "smooth", false, "Smooth band edges and the central curve")
	flags.Float64Var(&f.span, "span", 0.2, "Smoothing span in (0,1]")
	flags.StringVar(&f.xlim, "xlim", "auto", "Time axis bounds as time before present, min,max or auto")
	flags.StringVar(&f.ylim, "ylim", "auto", "Value axis bounds min,max or auto")
}

// options loads the config file and lets explicitly set flags win.
func (f *inputFlags) options(cmd *cobra.Command) (*config.Options, error) {
	opts, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("rate") {
		opts.Rate = f.rate
	}
	if flags.Changed("central") {
		opts.Central = f.central
	}
	if flags.Changed("levels") {
		opts.Levels = f.levels
	}
	if flags.Changed("bins") {
		opts.Bins = f.bins
	}
	if flags.Changed("start") || flags.Changed("end") {
		opts.Window = &config.WindowOptions{Start: f.start, End: f.end}
	}
	if flags.Changed("node") {
		opts.Node = &config.NodeOptions{Node: f.node, Mode: f.nodeMode}
	}
	if flags.Changed("smooth") {
		opts.Smooth = f.smooth
	}
	if flags.Changed("span") {
		opts.Span = f.span
	}
	if flags.Changed("xlim") {
		if opts.XLim, err = config.ParseLimits(f.xlim); err != nil {
			return nil, err
		}
	}
	if flags.Changed("ylim") {
		if opts.YLim, err = config.ParseLimits(f.ylim); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func (f *inputFlags) request(cmd *cobra.Command, opts *config.Options) (*pipeline.Request, error) {
	req := pipeline.NewRequest()
	if err := req.FromOptions(opts); err != nil {
		return nil, err
	}

	switch {
	case f.matrixPath != "" && f.sourcePath != "":
		return nil, common.InvalidArgument("--matrix and --source are mutually exclusive")
	case f.matrixPath != "":
		m, err := source.LoadMatrixFile(f.matrixPath)
		if err != nil {
			return nil, err
		}
		req.Matrix = m
		// the default bin count only applies to sources
		if !cmd.Flags().Changed("bins") {
			req.Bins = 0
		}
	case f.sourcePath != "":
		src, err := source.LoadManifest(f.sourcePath)
		if err != nil {
			return nil, err
		}
		req.Source = src
	default:
		return nil, common.InvalidArgument("one of --matrix or --source is required")
	}
	return req, nil
}

func newPlotCmd() *cobra.Command {
	var in inputFlags
	var out, format, bandColor, centralColor string
	var width, height int
	var opacity float64

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Draw the quantile bands and central curve to a PNG or SVG file",
		Long: `Draw rate-through-time bands.

Example: ratebands plot --source rates.yaml --rate netdiv --smooth --out netdiv.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := in.options(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("format") {
				opts.Format = format
			}
			if flags.Changed("width") {
				opts.Width = width
			}
			if flags.Changed("height") {
				opts.Height = height
			}
			if flags.Changed("band-color") {
				opts.BandColor = bandColor
			}
			if flags.Changed("central-color") {
				opts.CentralColor = centralColor
			}
			if flags.Changed("opacity") {
				opts.BandOpacity = opacity
			}
			opts.Collect = false
			opts.Overlay = false

			req, err := in.request(cmd, opts)
			if err != nil {
				return err
			}
			return runPlot(cmd.Context(), req, render.Format(opts.Format), opts.Width, opts.Height, out)
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "Output image path")
	cmd.Flags().StringVar(&format, "format", "png", "Image format: png|svg")
	cmd.Flags().IntVar(&width, "width", 800, "Image width in pixels")
	cmd.Flags().IntVar(&height, "height", 600, "Image height in pixels")
	cmd.Flags().StringVar(&bandColor, "band-color", "blue", "Band fill color, name or #rrggbb")
	cmd.Flags().StringVar(&centralColor, "central-color", "red", "Central curve color, name or #rrggbb")
	cmd.Flags().Float64Var(&opacity, "opacity", 0.01, "Band fill opacity in [0,1]")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runPlot(ctx context.Context, req *pipeline.Request, format render.Format, width, height int, out string) error {
	logger := utils.GetLogger(ctx)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	err = render.WithChartSurface(format, width, height, f, func(surface render.Surface) error {
		req.Surface = surface
		_, err := pipeline.Run(ctx, req)
		return err
	})
	if err != nil {
		logger.Error("plot failed", zap.Error(err), zap.String("out", out))
		return err
	}
	logger.Info("plot written", zap.String("out", out))
	return f.Close()
}

func newSummarizeCmd() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Print the bands, central curve and time bins as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := in.options(cmd)
			if err != nil {
				return err
			}
			opts.Collect = true

			req, err := in.request(cmd, opts)
			if err != nil {
				return err
			}
			res, err := pipeline.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	in.register(cmd)
	return cmd
}
