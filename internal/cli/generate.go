package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/coleslaw481/patrix/pkg/anim"
	"github.com/coleslaw481/patrix/pkg/drop"
	"github.com/coleslaw481/patrix/pkg/tiles"
)

const (
	defaultDuration = 400 // milliseconds between frames
	defaultUpdators = 30  // concurrent tile updators (sequential state machines)
	defaultGlow     = 24  // full-brightness cells when prefilling
	defaultFrames   = 500 // frames to generate
	defaultColSep   = 4   // pixels between columns
	defaultRowSep   = 2   // pixels between rows
	defaultWidth    = 800 // output image width
	defaultHeight   = 600 // output image height
	defaultSeed     = 42  // random seed for reproducible output
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	duration int    // milliseconds between switching frames
	updators int    // number of column droppers simulated per frame
	prefill  bool   // randomly fill the canvas before the first frame
	glow     int    // prefill cells drawn at full brightness
	frames   int    // number of frames to generate
	colsep   int    // pixels between each column
	rowsep   int    // pixels between each row
	width    int    // width of output image
	height   int    // height of output image
	seed     int64  // seed for the randomness source
	config   string // optional TOML config file
}

// newGenerateCmd creates the generate command, the heart of patrix: it loads
// the tile set, runs the drop simulation and writes the looping GIF.
func newGenerateCmd() *cobra.Command {
	opts := generateOpts{
		duration: defaultDuration,
		updators: defaultUpdators,
		glow:     defaultGlow,
		frames:   defaultFrames,
		colsep:   defaultColSep,
		rowsep:   defaultRowSep,
		width:    defaultWidth,
		height:   defaultHeight,
		seed:     defaultSeed,
	}

	cmd := &cobra.Command{
		Use:   "generate <imagedir> <outdir>",
		Short: "Generate a tile-drop animation from a directory of PNG tiles",
		Long: `Generate repeatedly drops randomly chosen tiles down random columns of a
black canvas, fading each dropped tile through a five-step brightness trail
as newer tiles land above it, and writes the frame sequence as a looping
animated GIF to <outdir>/out.gif.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.config != "" {
				if err := applyConfigFile(opts.config, cmd.Flags(), &opts); err != nil {
					return err
				}
			}
			return runGenerate(cmd.Context(), args[0], args[1], &opts)
		},
	}

	cmd.Flags().IntVar(&opts.duration, "duration", opts.duration, "milliseconds between switching frames")
	cmd.Flags().IntVar(&opts.updators, "updators", opts.updators, "number of concurrent tile updators")
	cmd.Flags().BoolVar(&opts.prefill, "prefill", false, "randomly fill image first")
	cmd.Flags().IntVar(&opts.glow, "glow", opts.glow, "number of full-brightness cells when prefilling")
	cmd.Flags().IntVar(&opts.frames, "frames", opts.frames, "number of frames to generate")
	cmd.Flags().IntVar(&opts.colsep, "colsep", opts.colsep, "number of pixels between each column")
	cmd.Flags().IntVar(&opts.rowsep, "rowsep", opts.rowsep, "number of pixels between each row")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "width of output image")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "height of output image")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "random seed for reproducible output")
	cmd.Flags().StringVar(&opts.config, "config", "", "TOML config file (flags take precedence)")

	return cmd
}

// runGenerate executes the full pipeline: tiles in, frames simulated, GIF out.
func runGenerate(ctx context.Context, imagedir, outdir string, opts *generateOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	set, err := tiles.Load(imagedir)
	if err != nil {
		return err
	}
	logger.Infof("Loaded %d tiles (rotations included) from %s", set.Len(), imagedir)

	sim, err := drop.New(set, drop.Config{
		Width:    opts.width,
		Height:   opts.height,
		ColSep:   opts.colsep,
		RowSep:   opts.rowsep,
		Droppers: opts.updators,
		Frames:   opts.frames,
		Prefill:  opts.prefill,
		Glow:     opts.glow,
		Seed:     opts.seed,
	})
	if err != nil {
		return err
	}
	logger.Debugf("Anchor grid: %d columns x %d rows", sim.Grid().Cols(), sim.Grid().Rows())

	if opts.prefill {
		sim.Prefill()
		logger.Debug("Prefilled canvas with dim tiles")
	}

	meter := newMeter(ctx, "Simulating frames", opts.frames)
	meter.Start()
	frames, err := sim.Run(ctx, func(int) { meter.Tick() })
	meter.Stop()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			printError("Simulation cancelled")
		}
		return err
	}
	logger.Infof("Simulated %d frames at %dx%d", len(frames), opts.width, opts.height)

	path, err := anim.WriteGIF(outdir, frames, opts.duration)
	if err != nil {
		return err
	}

	prog.done("Animation generated")
	printSuccess("Wrote %d frames at %dms per frame", len(frames), opts.duration)
	printFile(path)
	printDetail("%d updators, seed %d", opts.updators, opts.seed)
	return nil
}
