//go:build !desktop && !dev && !production

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
)

// Headless entry point: slices a scene file and prints one line per plane.
func main() {
	configPath := flag.String("config", "", "TOML config file (default $"+configEnv+")")
	out := flag.String("o", "", "write caps to this STL file")
	angle := flag.Float64("orbit", 0, "orbit the viewer by this many radians before slicing")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: kerf [flags] scene.kerf\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := setup(*configPath)
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}
	src, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		slog.Error("read scene", "err", err)
		os.Exit(1)
	}

	app := NewAppWithConfig(cfg)
	result := app.Orbit(string(src), *angle)
	for _, w := range result.Warnings {
		slog.Warn(w.String())
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			slog.Error(e.String())
		}
		os.Exit(1)
	}

	fmt.Printf("mode %s, step %g, %d planes, %d caps\n", result.Mode, result.Step, len(result.Rings), len(result.Caps))
	for _, r := range result.Rings {
		fmt.Printf("t=%.3f points=%d %s capped=%t\n", r.T, r.Points, r.Status, r.Capped)
	}

	if *out != "" {
		if err := app.export(string(src), *angle, *out); err != nil {
			slog.Error("export", "err", err)
			os.Exit(1)
		}
	}
}
