package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"floe/internal/driver"
	"floe/internal/project"
	"floe/internal/trace"
)

// buildOptions assembles driver options from persistent flags and the
// discovered manifest.
func buildOptions(cmd *cobra.Command) (driver.Options, error) {
	var opts driver.Options

	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	noCache, err := cmd.Root().PersistentFlags().GetBool("no-cache")
	if err != nil {
		return opts, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	traceStr, err := cmd.Root().PersistentFlags().GetString("trace")
	if err != nil {
		return opts, fmt.Errorf("failed to get trace flag: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return opts, err
	}
	manifest, err := project.Discover(cwd)
	if err != nil {
		return opts, err
	}
	opts.Manifest = manifest

	if jobs == 0 {
		jobs = manifest.Index.Jobs
	}
	opts.Jobs = jobs
	opts.MaxDiagnostics = maxDiagnostics

	level, err := trace.ParseLevel(traceStr)
	if err != nil {
		return opts, err
	}
	if level == trace.LevelOff && manifest.Trace.Level != "" {
		level, err = trace.ParseLevel(manifest.Trace.Level)
		if err != nil {
			return opts, fmt.Errorf("manifest: %w", err)
		}
	}
	if level > trace.LevelOff {
		opts.Tracer = trace.NewStreamTracer(os.Stderr, level)
	} else {
		opts.Tracer = trace.Nop
	}

	if !noCache && manifest.CacheEnabled() {
		dir, err := driver.CacheDir()
		if err == nil {
			cache, cacheErr := driver.OpenDiskCache(dir)
			if cacheErr == nil {
				opts.Cache = cache
			} else {
				fmt.Fprintf(os.Stderr, "warning: cache disabled: %v\n", cacheErr)
			}
		}
	}
	return opts, nil
}

func useColor(cmd *cobra.Command) bool {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout))
}
