package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

var availableLoggingLevels = []string{"panic", "fatal", "error", "warn", "info", "debug"}
var availableLoggingLevelsString = strings.Join(availableLoggingLevels, ", ")

var availableKernels = []string{KernelMDC, KernelMarchingCubes}

type checkFunc func(conf *Config) error

// Validate runs every check and joins all failures.
func (c Config) Validate() error {
	checkFuncs := []checkFunc{
		checkCellSize,
		checkSharpness,
		checkCounts,
		checkNormalEpsilon,
		checkKernel,
		checkLogLevel,
		checkTimeout,
	}

	var errs []error
	for _, check := range checkFuncs {
		if err := check(&c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func checkCellSize(conf *Config) error {
	if math.IsNaN(conf.CellSize) || math.IsInf(conf.CellSize, 0) || conf.CellSize <= 0 {
		return fmt.Errorf("invalid cell_size %v: must be positive", conf.CellSize)
	}
	return nil
}

func checkSharpness(conf *Config) error {
	if math.IsNaN(conf.Sharpness) || conf.Sharpness < 0 || conf.Sharpness > 1 {
		return fmt.Errorf("invalid sharpness %v: must be in [0, 1]", conf.Sharpness)
	}
	return nil
}

func checkCounts(conf *Config) error {
	var errs []error
	if conf.BisectionSteps < 0 {
		errs = append(errs, fmt.Errorf("invalid bisection_steps %d: must not be negative", conf.BisectionSteps))
	}
	if conf.Workers < 0 {
		errs = append(errs, fmt.Errorf("invalid workers %d: must not be negative", conf.Workers))
	}
	if conf.MaxCells < 0 {
		errs = append(errs, fmt.Errorf("invalid max_cells %d: must not be negative", conf.MaxCells))
	}
	return errors.Join(errs...)
}

func checkNormalEpsilon(conf *Config) error {
	if math.IsNaN(conf.NormalEpsilon) || conf.NormalEpsilon < 0 {
		return fmt.Errorf("invalid normal_epsilon %v: must not be negative", conf.NormalEpsilon)
	}
	return nil
}

func checkKernel(conf *Config) error {
	if !slices.Contains(availableKernels, conf.Kernel) {
		return fmt.Errorf("invalid kernel %q: one of %s", conf.Kernel, strings.Join(availableKernels, ", "))
	}
	return nil
}

func checkLogLevel(conf *Config) error {
	if !slices.Contains(availableLoggingLevels, conf.LogLevel) {
		return fmt.Errorf("invalid log_level %q: one of %s", conf.LogLevel, availableLoggingLevelsString)
	}
	return nil
}

func checkTimeout(conf *Config) error {
	if conf.EvalTimeout < 0 {
		return fmt.Errorf("invalid eval_timeout %s: must not be negative", conf.EvalTimeout)
	}
	return nil
}
