package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/codalotl/sidebyside/internal/highlight"
	"github.com/codalotl/sidebyside/internal/sidebyside"
)

// FileConfig is the YAML config file. Unset fields keep their defaults.
//
// Example:
//
//	matching: words
//	diffStyle: char
//	width: 160
//	color: false
type FileConfig struct {
	Matching                        *string  `yaml:"matching"`
	DiffStyle                       *string  `yaml:"diffStyle"`
	NoMatchThreshold                *float64 `yaml:"noMatchThreshold"`
	MatchWordsThreshold             *float64 `yaml:"matchWordsThreshold"`
	MatchingMaxComparisons          *int     `yaml:"matchingMaxComparisons"`
	MaxLineSizeInBlockForComparison *int     `yaml:"maxLineSizeInBlockForComparison"`
	MaxLineLengthHighlight          *int     `yaml:"maxLineLengthHighlight"`
	Width                           *int     `yaml:"width"`
	TabWidth                        *int     `yaml:"tabWidth"`
	Color                           *bool    `yaml:"color"`
	Context                         *int     `yaml:"context"`
	LogFile                         *string  `yaml:"logFile"`
}

// LoadConfig reads and decodes the YAML config file at path. Unknown keys are an error.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &fc, nil
}

// settings is the fully resolved configuration of one run: defaults, then the config file, then flags.
type settings struct {
	engine   sidebyside.Config
	width    int // 0 means detect from the terminal.
	tabWidth int
	color    bool
	context  int
	logFile  string
}

func defaultSettings(color bool) settings {
	return settings{
		engine:   sidebyside.DefaultConfig(),
		tabWidth: 4,
		color:    color,
		context:  3,
	}
}

func (s *settings) applyFile(fc *FileConfig) error {
	if fc.Matching != nil {
		m, err := sidebyside.ParseMatching(*fc.Matching)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		s.engine.Matching = m
	}
	if fc.DiffStyle != nil {
		st, err := highlight.ParseStyle(*fc.DiffStyle)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		s.engine.DiffStyle = st
	}
	setIf(&s.engine.NoMatchThreshold, fc.NoMatchThreshold)
	setIf(&s.engine.MatchWordsThreshold, fc.MatchWordsThreshold)
	setIf(&s.engine.MatchingMaxComparisons, fc.MatchingMaxComparisons)
	setIf(&s.engine.MaxLineSizeInBlockForComparison, fc.MaxLineSizeInBlockForComparison)
	setIf(&s.engine.MaxLineLengthHighlight, fc.MaxLineLengthHighlight)
	setIf(&s.width, fc.Width)
	setIf(&s.tabWidth, fc.TabWidth)
	setIf(&s.color, fc.Color)
	setIf(&s.context, fc.Context)
	setIf(&s.logFile, fc.LogFile)
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// flagValues holds the raw values of the flags shared by every command.
type flagValues struct {
	config      string
	matching    string
	diffStyle   string
	width       int
	tabWidth    int
	color       bool
	context     int
	logFile     string
	diagnostics bool
}

func (v *flagValues) register(fs *pflag.FlagSet) {
	fs.StringVar(&v.config, "config", "", "YAML config file")
	fs.StringVarP(&v.matching, "matching", "m", "lines", "line matching within changed groups: none, lines, or words")
	fs.StringVarP(&v.diffStyle, "diff-style", "s", "word", "intra-line highlight granularity: word or char")
	fs.IntVarP(&v.width, "width", "w", 0, "total output width in columns (default: terminal width)")
	fs.IntVar(&v.tabWidth, "tab-width", 4, "columns per tab")
	fs.BoolVar(&v.color, "color", false, "color terminal output (default: on when stdout is a terminal)")
	fs.IntVarP(&v.context, "context", "U", 3, "context lines around changes (compare only)")
	fs.StringVar(&v.logFile, "log-file", "", "append debug logs and input defects to this file")
	fs.BoolVar(&v.diagnostics, "diagnostics", false, "print input defects to stderr")
}

// resolve builds settings from defaults, the config file named by --config, and the flags the user set explicitly.
func (v *flagValues) resolve(fs *pflag.FlagSet, colorDefault bool) (settings, error) {
	s := defaultSettings(colorDefault)
	if v.config != "" {
		fc, err := LoadConfig(v.config)
		if err != nil {
			return settings{}, err
		}
		if err := s.applyFile(fc); err != nil {
			return settings{}, err
		}
	}

	if fs.Changed("matching") {
		m, err := sidebyside.ParseMatching(v.matching)
		if err != nil {
			return settings{}, usageError{err}
		}
		s.engine.Matching = m
	}
	if fs.Changed("diff-style") {
		st, err := highlight.ParseStyle(v.diffStyle)
		if err != nil {
			return settings{}, usageError{err}
		}
		s.engine.DiffStyle = st
	}
	if fs.Changed("width") {
		s.width = v.width
	}
	if fs.Changed("tab-width") {
		s.tabWidth = v.tabWidth
	}
	if fs.Changed("color") {
		s.color = v.color
	}
	if fs.Changed("context") {
		s.context = v.context
	}
	if fs.Changed("log-file") {
		s.logFile = v.logFile
	}

	if err := s.engine.Validate(); err != nil {
		return settings{}, err
	}
	if s.context < 0 {
		return settings{}, usageError{fmt.Errorf("context must be >= 0, got %d", s.context)}
	}
	if s.width < 0 {
		return settings{}, usageError{fmt.Errorf("width must be >= 0, got %d", s.width)}
	}
	return s, nil
}
