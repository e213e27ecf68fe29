package main

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-whisper/dsp/effect"
	"github.com/cwbudde/algo-whisper/internal/testutil"
)

func writeVowel(t *testing.T, channels int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voice.wav")

	p := &pcmAudio{sampleRate: 16000, bitDepth: 16}
	for range channels {
		p.channels = append(p.channels, testutil.Vowel(200, 16000, 0.3, 4000))
	}
	if err := writeWAV(path, p); err != nil {
		t.Fatalf("writeWAV() error = %v", err)
	}
	return path
}

func quietLogger() *logrus.Logger {
	return newLogger(false, "text", io.Discard)
}

func baseCLI(in, out string) *CLI {
	return &CLI{
		Input:       in,
		Output:      out,
		Noise:       "pink",
		FramePeriod: 5,
		Shortfall:   "zero",
		Seed:        1,
		LogFormat:   "text",
	}
}

func TestRunWhispersFile(t *testing.T) {
	in := writeVowel(t, 2)
	out := filepath.Join(t.TempDir(), "whisper.wav")

	var report bytes.Buffer
	if err := run(baseCLI(in, out), quietLogger(), &report); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	got, err := readWAV(out)
	if err != nil {
		t.Fatalf("readWAV() error = %v", err)
	}
	if got.frames() != 4000 || len(got.channels) != 2 || got.sampleRate != 16000 {
		t.Fatalf("output = %d frames, %d ch, %d Hz", got.frames(), len(got.channels), got.sampleRate)
	}
	// Channel 1 receives the wet signal of channel 0.
	testutil.RequireSliceNearlyEqual(t, got.channels[1], got.channels[0], 0)
	if testutil.RMS(got.channels[0]) == 0 {
		t.Fatal("output is silent")
	}

	for _, want := range []string{"input", "output", "gain", "RMS [dB]"} {
		if !strings.Contains(report.String(), want) {
			t.Fatalf("report %q does not contain %q", report.String(), want)
		}
	}
}

func TestRunDryMixKeepsInput(t *testing.T) {
	in := writeVowel(t, 1)
	out := filepath.Join(t.TempDir(), "dry.wav")

	cli := baseCLI(in, out)
	cli.Mix = 1
	cli.Block = 1024
	if err := run(cli, quietLogger(), io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	src, err := readWAV(in)
	if err != nil {
		t.Fatal(err)
	}
	got, err := readWAV(out)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got.channels[0], src.channels[0], 0)
}

func TestRunBitDepthOverride(t *testing.T) {
	in := writeVowel(t, 1)
	out := filepath.Join(t.TempDir(), "out24.wav")

	cli := baseCLI(in, out)
	cli.BitDepth = 24
	if err := run(cli, quietLogger(), io.Discard); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	got, err := readWAV(out)
	if err != nil {
		t.Fatal(err)
	}
	if got.bitDepth != 24 {
		t.Fatalf("bitDepth = %d, want 24", got.bitDepth)
	}
}

func TestRunValidation(t *testing.T) {
	in := writeVowel(t, 1)
	out := filepath.Join(t.TempDir(), "x.wav")

	tests := []struct {
		name   string
		mutate func(*CLI)
	}{
		{"noise", func(c *CLI) { c.Noise = "brown" }},
		{"shortfall", func(c *CLI) { c.Shortfall = "loop" }},
		{"block", func(c *CLI) { c.Block = -1 }},
		{"bit depth", func(c *CLI) { c.BitDepth = 12 }},
		{"missing input", func(c *CLI) { c.Input = filepath.Join(t.TempDir(), "none.wav") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := baseCLI(in, out)
			tt.mutate(cli)
			if err := run(cli, quietLogger(), io.Discard); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	cli := baseCLI(in, out)
	cli.Mix = 1.5
	if err := run(cli, quietLogger(), io.Discard); !errors.Is(err, effect.ErrMixRange) {
		t.Fatalf("error = %v, want ErrMixRange", err)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	if l := newLogger(true, "json", io.Discard); l.GetLevel() != logrus.DebugLevel {
		t.Fatalf("verbose level = %v, want debug", l.GetLevel())
	}
	if _, ok := newLogger(false, "json", io.Discard).Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatal("json format not applied")
	}
	if l := newLogger(false, "text", io.Discard); l.GetLevel() != logrus.InfoLevel {
		t.Fatalf("default level = %v, want info", l.GetLevel())
	}
}

func TestHelpListsFlags(t *testing.T) {
	var out bytes.Buffer
	opts := append(parserOptions(), kong.Writers(&out, &out), kong.Exit(func(int) {}))

	parser, err := kong.New(&CLI{}, opts...)
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}
	// Exit is disabled, so parsing continues and fails on the missing
	// positional arguments.
	_, _ = parser.Parse([]string{"--help"})

	for _, want := range []string{"whisperize", "--noise", "--mix", "--block", "default: pink", "<input>"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("help output missing %q:\n%s", want, out.String())
		}
	}
}

func TestParseFlags(t *testing.T) {
	in := writeVowel(t, 1)
	cli := &CLI{}

	parser, err := kong.New(cli, append(parserOptions(), kong.Exit(func(int) {}))...)
	if err != nil {
		t.Fatalf("kong.New() error = %v", err)
	}
	if _, err := parser.Parse([]string{"--noise=white", "--mix=0.25", "--block=512", in, "out.wav"}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cli.Noise != "white" || cli.Mix != 0.25 || cli.Block != 512 {
		t.Fatalf("parsed = %+v", cli)
	}
	if cli.Shortfall != "zero" || cli.FramePeriod != 5 || cli.Seed != 1 {
		t.Fatalf("defaults = %+v", cli)
	}
}
