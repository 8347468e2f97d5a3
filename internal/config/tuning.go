package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigName is the tuning file searched for when no -config flag
// is given. Unlike the flag path, a missing default file is not an
// error: every knob has a built-in fallback.
const DefaultConfigName = "photometry-tuning.json"

// TuningConfig holds the adjustable parameters for a cleaning run. All
// fields are pointers so a partial JSON file overrides only the values
// it names; the Get* methods supply defaults for the rest.
type TuningConfig struct {
	// Clip params
	SigmaClip *float64 `json:"sigma_clip,omitempty"`
	MaxIters  *int     `json:"max_iters,omitempty"`
	Cut       *int     `json:"cut,omitempty"`

	// Table layout params: zero-based column positions and the number
	// of leading header rows to skip.
	FluxColumn    *int `json:"flux_column,omitempty"`
	FluxErrColumn *int `json:"flux_err_column,omitempty"`
	TimeColumn    *int `json:"time_column,omitempty"`
	XColumn       *int `json:"x_column,omitempty"`
	YColumn       *int `json:"y_column,omitempty"`
	PSFXColumn    *int `json:"psf_x_column,omitempty"`
	PSFYColumn    *int `json:"psf_y_column,omitempty"`
	SkipRows      *int `json:"skip_rows,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from a file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadDefaultConfig looks for DefaultConfigName in the working directory
// and its parents. A missing file is not an error: the empty config is
// returned and every accessor falls back to its default.
func LoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigName,
		filepath.Join("..", DefaultConfigName),
		filepath.Join("..", "..", DefaultConfigName),
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	return EmptyTuningConfig()
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.SigmaClip != nil && *c.SigmaClip <= 0 {
		return fmt.Errorf("sigma_clip must be positive, got %f", *c.SigmaClip)
	}
	if c.MaxIters != nil && *c.MaxIters < 1 {
		return fmt.Errorf("max_iters must be at least 1, got %d", *c.MaxIters)
	}
	if c.Cut != nil && *c.Cut < 0 {
		return fmt.Errorf("cut must be non-negative, got %d", *c.Cut)
	}
	if c.SkipRows != nil && *c.SkipRows < 0 {
		return fmt.Errorf("skip_rows must be non-negative, got %d", *c.SkipRows)
	}

	// Column positions must be non-negative and distinct: two
	// quantities reading the same column is always a layout mistake.
	cols := map[string]*int{
		"flux_column":     c.FluxColumn,
		"flux_err_column": c.FluxErrColumn,
		"time_column":     c.TimeColumn,
		"x_column":        c.XColumn,
		"y_column":        c.YColumn,
		"psf_x_column":    c.PSFXColumn,
		"psf_y_column":    c.PSFYColumn,
	}
	seen := map[int]string{}
	for name, col := range cols {
		if col == nil {
			continue
		}
		if *col < 0 {
			return fmt.Errorf("%s must be non-negative, got %d", name, *col)
		}
		if prev, dup := seen[*col]; dup {
			return fmt.Errorf("%s and %s both read column %d", prev, name, *col)
		}
		seen[*col] = name
	}

	return nil
}

// GetSigmaClip returns the sigma_clip value or the default.
func (c *TuningConfig) GetSigmaClip() float64 {
	if c.SigmaClip == nil {
		return 6.0
	}
	return *c.SigmaClip
}

// GetMaxIters returns the max_iters value or the default.
func (c *TuningConfig) GetMaxIters() int {
	if c.MaxIters == nil {
		return 1
	}
	return *c.MaxIters
}

// GetCut returns the cut value or the default.
func (c *TuningConfig) GetCut() int {
	if c.Cut == nil {
		return 0
	}
	return *c.Cut
}

// GetFluxColumn returns the flux_column value or the default.
func (c *TuningConfig) GetFluxColumn() int {
	if c.FluxColumn == nil {
		return 0
	}
	return *c.FluxColumn
}

// GetFluxErrColumn returns the flux_err_column value or the default.
func (c *TuningConfig) GetFluxErrColumn() int {
	if c.FluxErrColumn == nil {
		return 1
	}
	return *c.FluxErrColumn
}

// GetTimeColumn returns the time_column value or the default.
func (c *TuningConfig) GetTimeColumn() int {
	if c.TimeColumn == nil {
		return 2
	}
	return *c.TimeColumn
}

// GetXColumn returns the x_column value or the default.
func (c *TuningConfig) GetXColumn() int {
	if c.XColumn == nil {
		return 4
	}
	return *c.XColumn
}

// GetYColumn returns the y_column value or the default.
func (c *TuningConfig) GetYColumn() int {
	if c.YColumn == nil {
		return 6
	}
	return *c.YColumn
}

// GetPSFXColumn returns the psf_x_column value or the default.
func (c *TuningConfig) GetPSFXColumn() int {
	if c.PSFXColumn == nil {
		return 8
	}
	return *c.PSFXColumn
}

// GetPSFYColumn returns the psf_y_column value or the default.
func (c *TuningConfig) GetPSFYColumn() int {
	if c.PSFYColumn == nil {
		return 10
	}
	return *c.PSFYColumn
}

// GetSkipRows returns the skip_rows value or the default.
func (c *TuningConfig) GetSkipRows() int {
	if c.SkipRows == nil {
		return 1
	}
	return *c.SkipRows
}
