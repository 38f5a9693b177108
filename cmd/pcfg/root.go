package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/nihei9/pcfg/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "pcfg",
	Short: "Train a probabilistic context-free grammar and decode sentences with it",
	Long: `pcfg provides the following features:
- Trains a probabilistic context-free grammar from a treebank.
- Parses sentences into their most probable trees.
- Translates sentences with a synchronous grammar.
- Tests a grammar against expected trees.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var rootFlags = struct {
	config *string
}{}

func init() {
	rootFlags.config = rootCmd.PersistentFlags().StringP("config", "c", "", "config file path (TOML)")
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

// loadConfig returns the default config overridden by the config file given with --config.
func loadConfig() (*config.Config, *zap.Logger, error) {
	conf := config.NewConfig()
	if *rootFlags.config != "" {
		err := conf.Load(*rootFlags.config)
		if err != nil {
			return nil, nil, err
		}
	}
	logger, err := conf.Log.NewLogger()
	if err != nil {
		return nil, nil, err
	}
	return conf, logger, nil
}

// recoverError converts a panic into an error and prints the stack trace of the panic.
func recoverError(retErr *error) {
	v := recover()
	if v == nil {
		return
	}
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("an unexpected error occurred: %v", v)
	}
	fmt.Fprintf(os.Stderr, "%v:\n%v", err, string(debug.Stack()))
	*retErr = err
}
