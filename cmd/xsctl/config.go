// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/katalvlaran/mgxs/collapse"
	"github.com/katalvlaran/mgxs/xs"
)

// Environment variables read by loadConfig; flags override them.
const (
	envLogLevel      = "XSCTL_LOG_LEVEL"
	envScheme        = "XSCTL_SCHEME"
	envMaxIterations = "XSCTL_MAX_ITERATIONS"
	envTolerance     = "XSCTL_TOLERANCE"
	envAngularOrder  = "XSCTL_ANGULAR_ORDER"
	envPlotDir       = "XSCTL_PLOT_DIR"
)

// config holds the settings shared by every subcommand.
type config struct {
	LogLevel      slog.Level
	Scheme        string
	MaxIterations int
	Tolerance     float64
	AngularOrder  int
	PlotDir       string
}

func defaultConfig() config {
	return config{
		LogLevel:      slog.LevelInfo,
		Scheme:        "gauss",
		MaxIterations: collapse.DefaultMaxIterations,
		Tolerance:     collapse.DefaultTolerance,
		AngularOrder:  xs.DefaultAngularOrder,
		PlotDir:       ".",
	}
}

// loadConfig overlays the XSCTL_* variables found through getenv on the
// defaults. Unset or empty variables keep the default.
func loadConfig(getenv func(string) string) (config, error) {
	cfg := defaultConfig()
	if v := getenv(envLogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("%s: %w", envLogLevel, err)
		}
	}
	if v := getenv(envScheme); v != "" {
		if _, _, ok := collapse.ParseScheme(v); !ok {
			return cfg, fmt.Errorf("%s: unknown scheme %q", envScheme, v)
		}
		cfg.Scheme = v
	}
	if v := getenv(envMaxIterations); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("%s: want a positive integer, got %q", envMaxIterations, v)
		}
		cfg.MaxIterations = n
	}
	if v := getenv(envTolerance); v != "" {
		tol, err := strconv.ParseFloat(v, 64)
		if err != nil || !(tol > 0) {
			return cfg, fmt.Errorf("%s: want a positive number, got %q", envTolerance, v)
		}
		cfg.Tolerance = tol
	}
	if v := getenv(envAngularOrder); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("%s: want a non-negative integer, got %q", envAngularOrder, v)
		}
		cfg.AngularOrder = n
	}
	if v := getenv(envPlotDir); v != "" {
		cfg.PlotDir = v
	}

	return cfg, nil
}
