// Package config loads chart tunables from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"git.sr.ht/~whereswaldon/zoomchart/engine"
	"git.sr.ht/~whereswaldon/zoomchart/pointer"
)

// ErrInvalid reports a configuration value the chart cannot work with.
var ErrInvalid = errors.New("invalid configuration")

// FileConfig represents the TOML configuration file. Unset keys keep their
// defaults.
type FileConfig struct {
	Range     RangeConfig     `toml:"range"`
	Selector  SelectorConfig  `toml:"selector"`
	XAxis     XAxisConfig     `toml:"xaxis"`
	YAxis     YAxisConfig     `toml:"yaxis"`
	Pointer   PointerConfig   `toml:"pointer"`
	Animation AnimationConfig `toml:"animation"`
}

// RangeConfig maps the fixed-point selection scale.
type RangeConfig struct {
	Max       *int `toml:"max"`
	MinLength *int `toml:"min-length"`
}

// SelectorConfig maps the range selector's geometry.
type SelectorConfig struct {
	ThumbWidth   *float32 `toml:"thumb-width"`
	BorderHeight *float32 `toml:"border-height"`
	TouchWidth   *float32 `toml:"touch-width"`
}

// XAxisConfig maps the day label settings.
type XAxisConfig struct {
	LabelWidth    *float32 `toml:"label-width"`
	LabelMargin   *float32 `toml:"label-margin"`
	BudgetDivisor *int     `toml:"budget-divisor"`
	CacheSize     *int     `toml:"cache-size"`
}

// YAxisConfig maps the gridline settings.
type YAxisConfig struct {
	Gridlines   *int     `toml:"gridlines"`
	LabelHeight *float32 `toml:"label-height"`
}

// PointerConfig maps crosshair settings.
type PointerConfig struct {
	Mode           *string  `toml:"mode"`
	CancelDistance *float32 `toml:"cancel-distance"`
}

// AnimationConfig maps animation settings.
type AnimationConfig struct {
	// Duration is a Go duration string such as "300ms".
	Duration *string `toml:"duration"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not
// an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Parse decodes TOML text.
func Parse(text string) (FileConfig, error) {
	var cfg FileConfig
	if _, err := toml.Decode(text, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Engine applies the file's overrides to the default chart configuration
// and validates the result.
func (f FileConfig) Engine() (engine.Config, error) {
	cfg := engine.DefaultConfig()
	set(&cfg.Selector.Scale.Max, f.Range.Max)
	set(&cfg.Selector.Scale.MinLength, f.Range.MinLength)
	set(&cfg.Selector.ThumbWidth, f.Selector.ThumbWidth)
	set(&cfg.Selector.BorderHeight, f.Selector.BorderHeight)
	set(&cfg.Selector.AdditionalTouchWidth, f.Selector.TouchWidth)
	set(&cfg.XAxis.LabelWidth, f.XAxis.LabelWidth)
	set(&cfg.XAxis.LabelMargin, f.XAxis.LabelMargin)
	set(&cfg.XAxis.BudgetDivisor, f.XAxis.BudgetDivisor)
	set(&cfg.XAxis.CacheSize, f.XAxis.CacheSize)
	set(&cfg.YAxis.Gridlines, f.YAxis.Gridlines)
	set(&cfg.YAxis.LabelHeight, f.YAxis.LabelHeight)
	set(&cfg.PointerCancelDistance, f.Pointer.CancelDistance)

	var errs []error
	if f.Pointer.Mode != nil {
		mode, err := pointer.ParseMode(*f.Pointer.Mode)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
		}
		cfg.PointerMode = mode
	}
	if f.Animation.Duration != nil {
		d, err := time.ParseDuration(*f.Animation.Duration)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: animation duration: %w", ErrInvalid, err))
		}
		cfg.AnimationDuration = d
	}
	cfg.YAxis.FadeDuration = cfg.AnimationDuration
	if err := errors.Join(errs...); err != nil {
		return cfg, err
	}
	return cfg, Validate(cfg)
}

// Validate rejects configurations the chart cannot lay out.
func Validate(cfg engine.Config) error {
	var errs []error
	scale := cfg.Selector.Scale
	if scale.Max <= 0 {
		errs = append(errs, fmt.Errorf("%w: range max %d must be positive", ErrInvalid, scale.Max))
	}
	if scale.MinLength < 1 || scale.MinLength >= scale.Max {
		errs = append(errs, fmt.Errorf("%w: range min-length %d must be in [1, %d)", ErrInvalid, scale.MinLength, scale.Max))
	}
	if cfg.YAxis.Gridlines < 2 {
		errs = append(errs, fmt.Errorf("%w: yaxis gridlines %d must be at least 2", ErrInvalid, cfg.YAxis.Gridlines))
	}
	if cfg.XAxis.BudgetDivisor < 1 {
		errs = append(errs, fmt.Errorf("%w: xaxis budget-divisor %d must be at least 1", ErrInvalid, cfg.XAxis.BudgetDivisor))
	}
	if cfg.AnimationDuration < 0 {
		errs = append(errs, fmt.Errorf("%w: negative animation duration %v", ErrInvalid, cfg.AnimationDuration))
	}
	return errors.Join(errs...)
}
