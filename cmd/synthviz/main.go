// Command synthviz computes the numeric data behind the synthesis explainer
// figures (spectra, detune sweeps, waveforms, envelopes, filter curves, bar
// charts) as JSON, and encodes audio previews of the detuned oscillators.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/RyanBlaney/synthviz/config"
	"github.com/RyanBlaney/synthviz/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// action runs a subcommand once flags and config are settled
type action func(ctx context.Context, cfg *config.Config, out *output) error

// output buffers a command's result so a failing command prints nothing to stdout
type output struct {
	bytes.Buffer
	pretty bool
}

func (o *output) emit(v any) error {
	enc := json.NewEncoder(o)
	if o.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// command registers its flags on fs and returns the action to run after parsing.
// set reports whether a flag was given on the command line.
type command struct {
	summary string
	setup   func(fs *flag.FlagSet, set func(name string) bool) action
}

var commands = map[string]command{
	"spectrum": {"normalized magnitude spectrum of two detuned saws", spectrumCommand},
	"sweep":    {"one spectrum per frame of a detune ramp", sweepCommand},
	"waveform": {"samples of a plotted oscillator shape", waveformCommand},
	"adsr":     {"ADSR envelope polylines", adsrCommand},
	"filter":   {"2nd-order filter response curve", filterCommand},
	"bars":     {"synthetic bar spectra", barsCommand},
	"preview":  {"encode an audio preview of the detuned saws", previewCommand},
	"window":   {"window coefficients", windowCommand},
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	name := args[0]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "synthviz: unknown command %q\n", name)
		usage(stderr)
		return 2
	}

	fs := flag.NewFlagSet("synthviz "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a YAML configuration file")
	scene := fs.String("scene", string(config.SceneDefault), "preset to start from: "+sceneList())
	logLevel := fs.String("log-level", "", "override log_level (debug, info, warn, error)")
	pretty := fs.Bool("pretty", false, "indent JSON output")

	given := map[string]bool{}
	act := cmd.setup(fs, func(name string) bool { return given[name] })

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })

	cfg, err := loadConfig(*configPath, config.Scene(*scene))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(stderr, "synthviz: config file %q not found\n", *configPath)
		} else {
			fmt.Fprintf(stderr, "synthviz: %v\n", err)
		}
		return 1
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "synthviz: %v\n", err)
		return 1
	}
	// stdout carries the JSON, so every level goes to stderr
	logger := logging.NewWriterLogger(stderr, stderr)
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)

	ctx = logging.ContextWithFields(ctx, logging.Fields{"command": name})
	logging.WithContext(ctx).Debug("synthviz starting", logging.Fields{
		"config": *configPath,
		"scene":  *scene,
	})

	out := &output{pretty: *pretty}
	if err := act(ctx, cfg, out); err != nil {
		logging.WithContext(ctx).Error(err, "Command failed")
		return 1
	}
	if _, err := out.WriteTo(stdout); err != nil {
		fmt.Fprintf(stderr, "synthviz: write output: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig(path string, scene config.Scene) (*config.Config, error) {
	if path == "" {
		cfg := config.ForScene(scene)
		return cfg, config.Validate(cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := config.LoadScene(scene, f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: synthviz <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")

	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-9s %s\n", n, commands[n].summary)
	}
}

func sceneList() string {
	names := make([]string, len(config.Scenes))
	for i, s := range config.Scenes {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
