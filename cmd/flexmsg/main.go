// flexmsg renders buoy reports through the generic message renderer.
//
// By default it prints the built-in sample reports. --encode writes the
// samples as length-prefixed wire frames to a file instead, and --decode
// renders the frames stored in a file.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/anirudhraja/flexmsg"
	"github.com/anirudhraja/flexmsg/buoy"
	"github.com/anirudhraja/flexmsg/config"
	"github.com/anirudhraja/flexmsg/message"
	"github.com/anirudhraja/flexmsg/output"
	"github.com/anirudhraja/flexmsg/wire"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type arguments struct {
	configPath string
	format     string
	strategy   string
	precision  int
	logLevel   string
	encodePath string
	decodePath string
}

func run(args []string, stdout, stderr io.Writer) error {
	var a arguments
	flagSet := pflag.NewFlagSet("flexmsg", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&a.configPath, "config", "", "path to YAML config file (default: $"+config.EnvVar+")")
	flagSet.StringVar(&a.format, "format", "", "output format: text, json, yaml, cbor")
	flagSet.StringVar(&a.strategy, "strategy", "", "sample strategy: layout, tagged, both")
	flagSet.IntVar(&a.precision, "precision", -1, "fractional digits for floats")
	flagSet.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.StringVar(&a.encodePath, "encode", "", "write the samples as wire frames to this file")
	flagSet.StringVar(&a.decodePath, "decode", "", "render wire frames read from this file")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := loadConfig(a, flagSet)
	if err != nil {
		return err
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts := []flexmsg.Option{
		flexmsg.WithLogger(logger),
		flexmsg.WithPrecision(cfg.Precision),
	}
	if cfg.Strict {
		opts = append(opts, flexmsg.WithStrictDecoding())
	}
	fm := flexmsg.New(opts...)
	if err := buoy.Register(fm.GetRegistry()); err != nil {
		return fmt.Errorf("registering layout schemas: %w", err)
	}
	if err := buoy.RegisterTagged(fm.GetRegistry()); err != nil {
		return fmt.Errorf("registering tagged schemas: %w", err)
	}
	required := append(buoy.Kinds(), buoy.TaggedKinds()...)
	if err := fm.Freeze(required...); err != nil {
		return err
	}
	logger.Debug("schema table ready", "messages", fm.ListMessages())

	var instances []message.Instance
	if a.decodePath != "" {
		instances, err = readFrames(fm, a.decodePath)
	} else {
		instances, err = samples(fm, cfg.Strategy)
	}
	if err != nil {
		return err
	}

	if a.encodePath != "" {
		if err := writeFrames(fm, a.encodePath, instances); err != nil {
			return err
		}
		logger.Info("wrote wire frames", "path", a.encodePath, "messages", len(instances))
		return nil
	}

	sink, err := output.New(cfg.Format, stdout, output.Options{Color: useColor(cfg.Color, stdout)})
	if err != nil {
		return err
	}
	for _, inst := range instances {
		rendering, err := fm.RenderMessage(inst)
		if err != nil {
			return err
		}
		if err := sink.Write(rendering); err != nil {
			return fmt.Errorf("writing %s: %w", rendering.Name, err)
		}
	}
	return sink.Flush()
}

// loadConfig reads the config file and applies flags that were set.
func loadConfig(a arguments, flagSet *pflag.FlagSet) (config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if flagSet.Changed("format") {
		cfg.Format = a.format
	}
	if flagSet.Changed("strategy") {
		cfg.Strategy = a.strategy
	}
	if flagSet.Changed("precision") {
		cfg.Precision = a.precision
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func samples(fm *flexmsg.Flexmsg, strategy string) ([]message.Instance, error) {
	var instances []message.Instance
	if strategy == "layout" || strategy == "both" {
		instances = append(instances, buoy.Samples()...)
	}
	if strategy == "tagged" || strategy == "both" {
		tagged, err := buoy.TaggedSamples(fm.GetRegistry())
		if err != nil {
			return nil, err
		}
		instances = append(instances, tagged...)
	}
	return instances, nil
}

func writeFrames(fm *flexmsg.Flexmsg, path string, instances []message.Instance) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, inst := range instances {
		data, err := fm.Marshal(inst)
		if err != nil {
			return err
		}
		if err := wire.WriteFrame(f, data); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return f.Close()
}

func readFrames(fm *flexmsg.Flexmsg, path string) ([]message.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var instances []message.Instance
	frames := wire.NewFrameReader(f)
	for {
		frame, err := frames.Next()
		if errors.Is(err, io.EOF) {
			return instances, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: frame %d: %w", path, len(instances), err)
		}
		inst, err := fm.Parse(frame)
		if err != nil {
			return nil, fmt.Errorf("%s: frame %d: %w", path, len(instances), err)
		}
		instances = append(instances, inst)
	}
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
