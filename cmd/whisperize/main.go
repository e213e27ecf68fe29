// Command whisperize converts voiced speech in a WAV file into whispered
// speech with the Phantom Silhouette method.
//
// Usage:
//
//	whisperize [flags] <input.wav> <output.wav>
//
// Examples:
//
//	whisperize voice.wav whisper.wav
//	whisperize --noise=white --mix=0.3 voice.wav whisper.wav
//	whisperize --block=1024 --shortfall=hold voice.wav whisper.wav
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-whisper/dsp/core"
	"github.com/cwbudde/algo-whisper/dsp/effect"
	"github.com/cwbudde/algo-whisper/dsp/noise"
	"github.com/cwbudde/algo-whisper/stats/level"
	"github.com/cwbudde/algo-whisper/stats/spectral"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Input  string `arg:"" name:"input" type:"existingfile" help:"Voiced speech WAV file."`
	Output string `arg:"" name:"output" type:"path" help:"Destination WAV file."`

	Noise       string  `default:"pink" enum:"white,pink" help:"Excitation noise (${enum})."`
	Mix         float64 `default:"0" help:"Dry share of the output: 0 is fully whispered, 1 is the input."`
	Block       int     `default:"0" help:"Block size in samples; 0 processes the whole file."`
	FramePeriod float64 `default:"5" name:"frame-period" help:"Analysis frame period in milliseconds."`
	Shortfall   string  `default:"zero" enum:"zero,hold" help:"How short synthesized blocks are extended (${enum})."`
	Seed        int64   `default:"1" help:"Noise seed."`
	BitDepth    int     `name:"bit-depth" default:"0" help:"Output bit depth; 0 keeps the input's."`

	Verbose   bool             `short:"v" help:"Log state transitions and block details."`
	LogFormat string           `name:"log-format" default:"text" enum:"text,json" help:"Log output format (${enum})."`
	Version   kong.VersionFlag `help:"Show version information."`
}

func main() {
	cli := &CLI{}
	kong.Parse(cli, parserOptions()...)

	log := newLogger(cli.Verbose, cli.LogFormat, os.Stderr)
	if err := run(cli, log, os.Stdout); err != nil {
		log.WithError(err).Debug("whisperize failed")
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func parserOptions() []kong.Option {
	return []kong.Option{
		kong.Name("whisperize"),
		kong.Description("Convert voiced speech to whispered speech."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
		kong.Help(helpPrinter),
	}
}

func newLogger(verbose bool, format string, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	if format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func run(cli *CLI, log *logrus.Logger, stdout io.Writer) error {
	kind, err := noise.ParseKind(cli.Noise)
	if err != nil {
		return err
	}
	policy, err := effect.ParseShortfallPolicy(cli.Shortfall)
	if err != nil {
		return err
	}
	if cli.Mix < 0 || cli.Mix > 1 {
		return fmt.Errorf("%w: %v", effect.ErrMixRange, cli.Mix)
	}
	if cli.Block < 0 {
		return fmt.Errorf("block size must be >= 0: %d", cli.Block)
	}

	in, err := readWAV(cli.Input)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"file":       cli.Input,
		"sampleRate": in.sampleRate,
		"channels":   len(in.channels),
		"bitDepth":   in.bitDepth,
		"frames":     in.frames(),
	}).Info("decoded input")

	fx, err := effect.New(
		effect.WithProcessorOptions(
			core.WithSampleRate(float64(in.sampleRate)),
			core.WithBlockSize(cli.Block),
			core.WithFramePeriod(cli.FramePeriod),
		),
		effect.WithNoiseKind(kind),
		effect.WithSeed(cli.Seed),
		effect.WithShortfallPolicy(policy),
		effect.WithLogger(log),
	)
	if err != nil {
		return err
	}

	before, err := measure(in.channels[0], in.sampleRate)
	if err != nil {
		return err
	}
	start := time.Now()

	if err := processBlocks(fx, in.channels, cli.Block, cli.Mix); err != nil {
		return err
	}
	elapsed := time.Since(start)
	after, err := measure(in.channels[0], in.sampleRate)
	if err != nil {
		return err
	}

	out := in
	if cli.BitDepth != 0 {
		if cli.BitDepth != 8 && cli.BitDepth != 16 && cli.BitDepth != 24 && cli.BitDepth != 32 {
			return fmt.Errorf("unsupported output bit depth %d", cli.BitDepth)
		}
		out.bitDepth = cli.BitDepth
	}
	if err := writeWAV(cli.Output, out); err != nil {
		return fmt.Errorf("%s: %w", cli.Output, err)
	}

	log.WithFields(logrus.Fields{
		"file":    cli.Output,
		"blocks":  fx.Blocks(),
		"elapsed": elapsed.String(),
	}).Info("wrote output")

	return printReport(stdout, before, after)
}

// processBlocks whispers channels in place, block by block.
func processBlocks(fx *effect.Effect, channels [][]float64, block int, mix float64) error {
	frames := len(channels[0])
	if block <= 0 {
		block = frames
	}

	view := make([][]float64, len(channels))
	for start := 0; start < frames; start += block {
		end := min(start+block, frames)
		for ch := range channels {
			view[ch] = channels[ch][start:end]
		}
		if err := fx.ProcessChannels(view, mix); err != nil {
			return fmt.Errorf("block at frame %d: %w", start, err)
		}
	}
	return nil
}

// report pairs the level and spectral figures of one signal.
type report struct {
	level    level.Stats
	spectrum spectral.Profile
}

func measure(x []float64, sampleRate int) (report, error) {
	p, err := spectral.Analyze(x, float64(sampleRate), 0)
	if err != nil {
		return report{}, err
	}
	return report{level: level.Measure(x), spectrum: p}, nil
}

func printReport(w io.Writer, before, after report) error {
	fmt.Fprintln(w, titleStyle.Render("Level report"))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "\tPeak [dB]\tRMS [dB]\tCrest [dB]\tClipped\tCentroid [Hz]\t<1 kHz [%%]\n")
	for _, row := range []struct {
		name string
		r    report
	}{{"input", before}, {"output", after}} {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%d\t%.0f\t%.1f\n", row.name,
			row.r.level.PeakDB, row.r.level.RMSDB, row.r.level.CrestFactorDB, row.r.level.Clipped,
			row.r.spectrum.Centroid, 100*row.r.spectrum.LowBandRatio)
	}
	fmt.Fprintf(tw, "gain\t\t%.2f\t\t\t\t\n", level.GainDB(before.level, after.level))
	return tw.Flush()
}
