// Package config loads vttkit defaults from a TOML file. Values from the
// file seed the command flags; flags set explicitly on the command line
// take precedence.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mgpai22/vttkit/internal/subtitle"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"
)

//go:embed sample_config.toml
var sampleConfig string

const (
	defaultShow               = 50
	defaultWindowMinutes      = 10
	defaultPattern            = "*.vtt"
	defaultOverlapToleranceMS = 100
	defaultMaxGapMS           = 500
	defaultCompressMaxChars   = 130
	defaultWrapMaxChars       = 84
)

// Clean contains timestamp checking and fixing settings.
type Clean struct {
	Fix             bool `toml:"fix"`
	AllowZeroLength bool `toml:"allow_zero_length"`
	Show            int  `toml:"show"`
}

// Split contains settings for splitting a file into parts.
type Split struct {
	WindowMinutes int  `toml:"window_minutes"`
	Rebase        bool `toml:"rebase"`
}

// Merge contains settings for joining parts back together.
type Merge struct {
	Pattern            string `toml:"pattern"`
	OverlapToleranceMS int    `toml:"overlap_tolerance_ms"`
	SkipUnorderable    bool   `toml:"skip_unorderable"`
}

// Compress contains settings for coalescing adjacent cues.
type Compress struct {
	MaxGapMS      int  `toml:"max_gap_ms"`
	MaxChars      int  `toml:"max_chars"`
	MaxDurationMS int  `toml:"max_duration_ms"`
	SentenceBreak bool `toml:"sentence_break"`
	Number        bool `toml:"number"`
}

// Wrap contains settings for splitting overlong cues.
type Wrap struct {
	MaxChars  int `toml:"max_chars"`
	LineWidth int `toml:"line_width"`
}

type Config struct {
	Clean    Clean    `toml:"clean"`
	Split    Split    `toml:"split"`
	Merge    Merge    `toml:"merge"`
	Compress Compress `toml:"compress"`
	Wrap     Wrap     `toml:"wrap"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Clean: Clean{Show: defaultShow},
		Split: Split{WindowMinutes: defaultWindowMinutes},
		Merge: Merge{
			Pattern:            defaultPattern,
			OverlapToleranceMS: defaultOverlapToleranceMS,
		},
		Compress: Compress{
			MaxGapMS: defaultMaxGapMS,
			MaxChars: defaultCompressMaxChars,
		},
		Wrap: Wrap{MaxChars: defaultWrapMaxChars},
	}
}

// DefaultConfigPath returns the per-user configuration location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vttkit/config.toml")
}

// Load reads the configuration at path, or at the default locations when
// path is empty, and validates it. It returns the resolved path and whether
// a file was found there.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vttkit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func (c *Config) normalize() {
	c.Merge.Pattern = strings.TrimSpace(c.Merge.Pattern)
	if c.Merge.Pattern == "" {
		c.Merge.Pattern = defaultPattern
	}
	if c.Clean.Show <= 0 {
		c.Clean.Show = defaultShow
	}
}

// Validate checks every section and reports all problems at once.
func (c *Config) Validate() error {
	return multierr.Combine(
		c.validateSplit(),
		c.validateMerge(),
		c.validateCompress(),
		c.validateWrap(),
	)
}

func (c *Config) validateSplit() error {
	if c.Split.WindowMinutes <= 0 {
		return fmt.Errorf("split.window_minutes: %w: must be positive, got %d",
			subtitle.ErrInvalidWindow, c.Split.WindowMinutes)
	}
	return nil
}

func (c *Config) validateMerge() error {
	if c.Merge.OverlapToleranceMS < 0 {
		return fmt.Errorf("merge.overlap_tolerance_ms must not be negative, got %d",
			c.Merge.OverlapToleranceMS)
	}
	if _, err := filepath.Match(c.Merge.Pattern, ""); err != nil {
		return fmt.Errorf("merge.pattern %q: %w", c.Merge.Pattern, err)
	}
	return nil
}

func (c *Config) validateCompress() error {
	if err := c.CompressOptions().Validate(); err != nil {
		return fmt.Errorf("compress: %w", err)
	}
	return nil
}

func (c *Config) validateWrap() error {
	if err := c.WrapOptions().Validate(); err != nil {
		return fmt.Errorf("wrap: %w", err)
	}
	return nil
}

func (c *Config) ParseOptions() subtitle.ParseOptions {
	return subtitle.ParseOptions{
		Fix:             c.Clean.Fix,
		AllowZeroLength: c.Clean.AllowZeroLength,
	}
}

func (c *Config) SplitOptions() subtitle.SplitOptions {
	return subtitle.SplitOptions{
		Window: time.Duration(c.Split.WindowMinutes) * time.Minute,
		Rebase: c.Split.Rebase,
	}
}

func (c *Config) MergeOptions() subtitle.MergeOptions {
	return subtitle.MergeOptions{
		OverlapTolerance: time.Duration(c.Merge.OverlapToleranceMS) * time.Millisecond,
	}
}

func (c *Config) CompressOptions() subtitle.CompressOptions {
	return subtitle.CompressOptions{
		MaxGap:             time.Duration(c.Compress.MaxGapMS) * time.Millisecond,
		MaxChars:           c.Compress.MaxChars,
		MaxDuration:        time.Duration(c.Compress.MaxDurationMS) * time.Millisecond,
		BreakOnSentenceEnd: c.Compress.SentenceBreak,
		Number:             c.Compress.Number,
	}
}

func (c *Config) WrapOptions() subtitle.WrapOptions {
	return subtitle.WrapOptions{
		MaxChars:  c.Wrap.MaxChars,
		LineWidth: c.Wrap.LineWidth,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes the sample configuration to path. An existing file
// is left untouched.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config already exists: %s", expanded)
	}

	if dir := filepath.Dir(expanded); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
