package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// options collects every tunable of the tool. Values are resolved with
// priority: defaults < YAML parameter file < explicit flags.
type options struct {
	Input        string  `yaml:"input"`
	Output       string  `yaml:"output"`
	Min          float64 `yaml:"min"`
	Max          float64 `yaml:"max"`
	Error        float64 `yaml:"error"`
	Side         string  `yaml:"side"`
	Left         string  `yaml:"left_channel"`
	Right        string  `yaml:"right_channel"`
	Gamma        string  `yaml:"gamma"`
	Iterations   int     `yaml:"iterations"`
	Uniform      float64 `yaml:"uniform"`
	Binary       bool    `yaml:"binary"`
	FeatureAngle float64 `yaml:"feature_angle"`
	Verbose      bool    `yaml:"verbose"`
	Histogram    string  `yaml:"hist"`
	Preview      string  `yaml:"preview"`
	ConfigFile   string  `yaml:"-"`
}

func defaultOptions() options {
	return options{Side: "left"}
}

// mergeFile layers the YAML file under the explicitly set flags: a flag
// given on the command line always wins over the file.
func (o *options) mergeFile(path string, flags *pflag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fromFile := defaultOptions()
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	set := make(map[string]bool)
	flags.Visit(func(f *pflag.Flag) { set[f.Name] = true })
	if !set["input"] {
		o.Input = fromFile.Input
	}
	if !set["output"] {
		o.Output = fromFile.Output
	}
	if !set["min"] {
		o.Min = fromFile.Min
	}
	if !set["max"] {
		o.Max = fromFile.Max
	}
	if !set["error"] {
		o.Error = fromFile.Error
	}
	if !set["side"] && fromFile.Side != "" {
		o.Side = fromFile.Side
	}
	if !set["left-channel"] {
		o.Left = fromFile.Left
	}
	if !set["right-channel"] {
		o.Right = fromFile.Right
	}
	if !set["gamma"] {
		o.Gamma = fromFile.Gamma
	}
	if !set["iterations"] {
		o.Iterations = fromFile.Iterations
	}
	if !set["uniform"] {
		o.Uniform = fromFile.Uniform
	}
	if !set["binary"] {
		o.Binary = fromFile.Binary
	}
	if !set["feature-angle"] {
		o.FeatureAngle = fromFile.FeatureAngle
	}
	if !set["verbose"] {
		o.Verbose = fromFile.Verbose
	}
	if !set["hist"] {
		o.Histogram = fromFile.Histogram
	}
	if !set["preview"] {
		o.Preview = fromFile.Preview
	}
	return nil
}

// check validates what must be known before touching any file.
func (o options) check() error {
	if o.Input == "" {
		return fmt.Errorf("no input mesh given, use --input")
	}
	if o.Output == "" {
		return fmt.Errorf("no output mesh given, use --output")
	}
	if o.Uniform == 0 && (o.Min <= 0 || o.Max <= 0) {
		return fmt.Errorf("adaptive grading needs positive --min and --max edge lengths")
	}
	return nil
}

// newLogger builds the console logger used in verbose mode.
func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true
	return cfg.Build()
}
