package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/projectdiscovery/goflags"
	envutil "github.com/projectdiscovery/utils/env"

	"github.com/jo-hoe/qrextract/internal/core"
)

const usage = "usage: extract-qr [flags] <source_dir> <output_csv>"

type options struct {
	ConfigFile string
	Workers    int
	TryHarder  bool
	Verbose    bool
	Silent     bool
	Args       []string
}

func parseOptions(args []string) (*options, error) {
	opts := &options{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`extract-qr decodes the QR code of every image in a directory and writes the results to a CSV file.

` + usage)

	flagSet.CreateGroup("config", "Config",
		// CONFIG_PATH is honoured when no config flag is given
		flagSet.StringVarP(&opts.ConfigFile, "config", "c", envutil.GetEnvOrDefault("CONFIG_PATH", ""), "optional YAML configuration file"),
	)
	flagSet.CreateGroup("decode", "Decode",
		flagSet.IntVarP(&opts.Workers, "workers", "w", -1, "number of images decoded in parallel (0 = number of CPUs)"),
		flagSet.BoolVar(&opts.TryHarder, "try-harder", false, "spend more time looking for QR codes in difficult images"),
	)
	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "show per-file decode results"),
		flagSet.BoolVar(&opts.Silent, "silent", false, "only log errors"),
	)

	// goflags also maintains a default config file under the user config
	// directory; failing to write it must not stop the run
	if err := flagSet.Parse(); err != nil {
		slog.Warn("failed to prepare flag defaults file", "error", err)
	}

	positional, err := parseInterspersed(flagSet.CommandLine, args)
	if err != nil {
		return nil, err
	}
	opts.Args = positional
	return opts, nil
}

// parseInterspersed parses args with fs, allowing flags before, between and
// after positional arguments. Everything after "--" is positional.
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}

		consumed := len(args) - len(rest)
		if consumed > 0 && args[consumed-1] == "--" {
			return append(positional, rest...), nil
		}

		positional = append(positional, rest[0])
		args = rest[1:]
	}
}

// buildConfig merges the optional config file with command line values.
// Command line values win.
func buildConfig(opts *options) (*core.ExtractConfig, error) {
	config := &core.ExtractConfig{}
	if opts.ConfigFile != "" {
		loaded, err := core.LoadConfig(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	switch len(opts.Args) {
	case 0:
	case 2:
		config.SourceDir = opts.Args[0]
		config.OutputCSV = opts.Args[1]
	default:
		return nil, fmt.Errorf("expected 2 arguments, got %d\n%s", len(opts.Args), usage)
	}

	if opts.Workers >= 0 {
		config.Workers = opts.Workers
	}
	if opts.TryHarder {
		config.TryHarder = true
	}
	if opts.Verbose {
		config.LogLevel = "debug"
	} else if opts.Silent {
		config.LogLevel = "error"
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w\n%s", err, usage)
	}
	return config, nil
}

func configureLogging(config *core.ExtractConfig) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.SlogLevel()})
	slog.SetDefault(slog.New(handler))
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract-qr: %v\n", err)
		os.Exit(1)
	}

	config, err := buildConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract-qr: %v\n", err)
		os.Exit(1)
	}
	configureLogging(config)

	coreService := core.NewCoreService(config, nil)
	if err := coreService.Run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "extract-qr: %v\n", err)
		os.Exit(1)
	}
}
