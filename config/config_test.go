package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nihei9/pcfg/grammar"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0600))
	return path
}

func TestNewConfig(t *testing.T) {
	conf := NewConfig()
	require.NoError(t, conf.Valid())
	require.Equal(t, grammar.DefaultUnknownMarker, conf.UnknownMarker)
	require.Equal(t, "TOP", conf.Parse.StartSymbol)
	require.True(t, conf.Parse.Markovize)
	require.Equal(t, grammar.DefaultPhraseSymbol, conf.Translate.StartSymbol)
	require.True(t, conf.Translate.Glue)
	require.Equal(t, grammar.DefaultIdentityProbability, conf.Translate.IdentityProbability)
	require.Equal(t, 4, conf.Batch.Workers)

	// Every config owns its copy of the defaults.
	conf.Batch.Workers = 1
	require.Equal(t, 4, NewConfig().Batch.Workers)
}

func TestConfig_Load(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		check   func(t *testing.T, conf *Config)
		error   bool
	}{
		{
			caption: "values in a file override the defaults",
			src: `
unknown-marker = "UNK"

[parse]
start-symbol = "S"
markovize = false
max-length = 40

[translate]
glue = false
identity-probability = 1e-6

[batch]
workers = 8

[log]
level = "debug"
`,
			check: func(t *testing.T, conf *Config) {
				require.Equal(t, "UNK", conf.UnknownMarker)
				require.Equal(t, "S", conf.Parse.StartSymbol)
				require.False(t, conf.Parse.Markovize)
				require.True(t, conf.Parse.Fallback)
				require.Equal(t, 40, conf.Parse.MaxLength)
				require.Equal(t, grammar.DefaultPhraseSymbol, conf.Translate.StartSymbol)
				require.False(t, conf.Translate.Glue)
				require.Equal(t, 1e-6, conf.Translate.IdentityProbability)
				require.Equal(t, 8, conf.Batch.Workers)
				require.Equal(t, "debug", conf.Log.Level)
			},
		},
		{
			caption: "an empty file keeps the defaults",
			src:     ``,
			check: func(t *testing.T, conf *Config) {
				require.Equal(t, NewConfig(), conf)
			},
		},
		{
			caption: "unknown keys are rejected",
			src: `
[parse]
start = "S"
`,
			error: true,
		},
		{
			caption: "a malformed file is rejected",
			src:     `[parse`,
			error:   true,
		},
		{
			caption: "an identity probability must be a probability",
			src: `
[translate]
identity-probability = 2.0
`,
			error: true,
		},
		{
			caption: "a batch needs a worker",
			src: `
[batch]
workers = 0
`,
			error: true,
		},
		{
			caption: "a log level must be known",
			src: `
[log]
level = "verbose"
`,
			error: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			conf := NewConfig()
			err := conf.Load(writeConfig(t, tt.src))
			if tt.error {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, conf)
		})
	}

	t.Run("a missing file is reported", func(t *testing.T) {
		err := NewConfig().Load(filepath.Join(t.TempDir(), "missing.toml"))
		require.Error(t, err)
	})
}

func TestConfig_Options(t *testing.T) {
	conf := NewConfig()
	conf.UnknownMarker = "UNK"
	conf.Translate.Glue = false

	require.Len(t, conf.InducerOptions(false), 1)
	require.Len(t, conf.InducerOptions(true), 2)
	require.Len(t, conf.SynchronousOptions(), 4)

	in := grammar.NewInducer(conf.InducerOptions(true)...)
	g, err := in.Grammar()
	require.NoError(t, err)
	require.True(t, g.IsMarkovized())
	require.Equal(t, "UNK", g.UnknownMarker())

	g, err = grammar.NewSynchronousGrammar(nil, conf.SynchronousOptions()...)
	require.NoError(t, err)
	require.Equal(t, "UNK", g.UnknownMarker())
	// Without the glue rule, only the identity rule of the unknown marker remains.
	require.Len(t, g.Rules(), 1)
}

func TestLog_NewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := (&Log{Level: level}).NewLogger()
		require.NoError(t, err)
		require.NotNil(t, logger)
	}
	_, err := (&Log{Level: "verbose"}).NewLogger()
	require.Error(t, err)
}
