package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nihei9/pcfg/grammar"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config contains configuration options. Command-line flags override the values loaded from a file.
type Config struct {
	UnknownMarker string    `toml:"unknown-marker" json:"unknown-marker"`
	Parse         Parse     `toml:"parse" json:"parse"`
	Translate     Translate `toml:"translate" json:"translate"`
	Batch         Batch     `toml:"batch" json:"batch"`
	Log           Log       `toml:"log" json:"log"`
}

type Parse struct {
	StartSymbol string `toml:"start-symbol" json:"start-symbol"`
	Markovize   bool   `toml:"markovize" json:"markovize"`
	Fallback    bool   `toml:"fallback" json:"fallback"`
	// MaxLength bounds the number of tokens of a line; longer lines are left unparsed. Zero means no bound.
	MaxLength int `toml:"max-length" json:"max-length"`
}

type Translate struct {
	StartSymbol         string  `toml:"start-symbol" json:"start-symbol"`
	Glue                bool    `toml:"glue" json:"glue"`
	IdentityProbability float64 `toml:"identity-probability" json:"identity-probability"`
}

type Batch struct {
	Workers int `toml:"workers" json:"workers"`
}

type Log struct {
	Level string `toml:"level" json:"level"`
}

var defaultConf = Config{
	UnknownMarker: grammar.DefaultUnknownMarker,
	Parse: Parse{
		StartSymbol: "TOP",
		Markovize:   true,
		Fallback:    true,
	},
	Translate: Translate{
		StartSymbol:         grammar.DefaultPhraseSymbol,
		Glue:                true,
		IdentityProbability: grammar.DefaultIdentityProbability,
	},
	Batch: Batch{
		Workers: 4,
	},
	Log: Log{
		Level: "info",
	},
}

// NewConfig creates a new config instance with default values.
func NewConfig() *Config {
	conf := defaultConf
	return &conf
}

// Load loads config options from a toml file. Keys the config doesn't know are rejected.
func (c *Config) Load(confFile string) error {
	md, err := toml.DecodeFile(confFile, c)
	if err != nil {
		return errors.Wrapf(err, "cannot load the config file %s", confFile)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.Errorf("%s: unknown config keys: %s", confFile, strings.Join(keys, ", "))
	}
	return c.Valid()
}

// Valid checks the values of the config.
func (c *Config) Valid() error {
	if c.UnknownMarker == "" {
		return errors.New("unknown-marker must not be empty")
	}
	if c.Parse.StartSymbol == "" || c.Translate.StartSymbol == "" {
		return errors.New("start-symbol must not be empty")
	}
	if c.Parse.MaxLength < 0 {
		return errors.Errorf("parse.max-length must be greater than or equal to 0: %v", c.Parse.MaxLength)
	}
	if p := c.Translate.IdentityProbability; p <= 0 || p > 1 {
		return errors.Errorf("translate.identity-probability must be in (0, 1]: %v", p)
	}
	if c.Batch.Workers < 1 {
		return errors.Errorf("batch.workers must be greater than or equal to 1: %v", c.Batch.Workers)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	return nil
}

// InducerOptions returns the options to train an induced grammar. When markovize is false, the
// grammar is trained without vertical markovization regardless of the config.
func (c *Config) InducerOptions(markovize bool) []grammar.Option {
	opts := []grammar.Option{
		grammar.UnknownMarker(c.UnknownMarker),
	}
	if markovize {
		opts = append(opts, grammar.VerticalMarkovization())
	}
	return opts
}

// SynchronousOptions returns the options to load a synchronous grammar.
func (c *Config) SynchronousOptions() []grammar.Option {
	opts := []grammar.Option{
		grammar.UnknownMarker(c.UnknownMarker),
		grammar.PhraseSymbol(c.Translate.StartSymbol),
		grammar.IdentityProbability(c.Translate.IdentityProbability),
	}
	if !c.Translate.Glue {
		opts = append(opts, grammar.DisableGlue())
	}
	return opts
}

// NewLogger builds a logger writing to stderr at the configured level.
func (l *Log) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log.level")
	}
	var zc zap.Config
	if level == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("cannot build a logger: %w", err)
	}
	return logger, nil
}
