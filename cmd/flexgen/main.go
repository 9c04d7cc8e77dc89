// flexgen generates layout payload structs and their registration code from
// message definitions in protobuf syntax.
//
//	flexgen --in buoy.proto --out buoy.flex.go --package buoy
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/anirudhraja/flexmsg/internal/protogen"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "flexgen: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var inPath, outPath, pkg string

	flagSet := pflag.NewFlagSet("flexgen", pflag.ContinueOnError)
	flagSet.StringVar(&inPath, "in", "", "input .proto file")
	flagSet.StringVar(&outPath, "out", "", "output Go file (default: stdout)")
	flagSet.StringVar(&pkg, "package", "", "Go package name (default: proto package)")
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if inPath == "" {
		return fmt.Errorf("--in is required")
	}

	content, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	file, err := protogen.Parse(bytes.NewReader(content), inPath)
	if err != nil {
		return err
	}
	src, err := protogen.Generate(file, pkg)
	if err != nil {
		return err
	}

	if outPath == "" {
		_, err = os.Stdout.Write(src)
		return err
	}
	return os.WriteFile(outPath, src, 0o644)
}
