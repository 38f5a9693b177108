package main

import (
	"fmt"
	"os"

	"github.com/nihei9/pcfg/grammar"
	"github.com/nihei9/pcfg/spec/tree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var trainFlags = struct {
	output        *string
	name          *string
	markovize     *bool
	skipMalformed *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "train [<corpus file path>]",
		Short: "Train a grammar from a corpus of trees",
		Example: `  pcfg train corpus.txt -o grammar.json
  pcfg train corpus.txt --markovize=false -o plain.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runTrain,
	}
	trainFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	trainFlags.name = cmd.Flags().String("name", "", "grammar name (default the base name of the corpus file)")
	trainFlags.markovize = cmd.Flags().Bool("markovize", true, "annotate non-terminals with the labels of their parents (default parse.markovize)")
	trainFlags.skipMalformed = cmd.Flags().Bool("skip-malformed", false, "train on the well-formed trees even if the corpus has malformed lines")
	rootCmd.AddCommand(cmd)
}

func runTrain(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)

	conf, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var corpusPath string
	if len(args) > 0 {
		corpusPath = args[0]
	}
	src, srcName, err := openSource(corpusPath)
	if err != nil {
		return err
	}
	defer src.Close()

	corpus, err := tree.ReadCorpus(src)
	if err != nil {
		return err
	}
	if len(corpus.Errors) > 0 {
		printSpecErrors(corpus.Errors, corpusPath, srcName)
		if !*trainFlags.skipMalformed {
			return fmt.Errorf("the corpus has %v malformed lines", len(corpus.Errors))
		}
		logger.Warn("skipped malformed lines", zap.Int("count", len(corpus.Errors)))
	}

	markovize := conf.Parse.Markovize
	if cmd.Flags().Changed("markovize") {
		markovize = *trainFlags.markovize
	}
	g, err := grammar.Induce(corpus.Trees, conf.InducerOptions(markovize)...)
	if err != nil {
		return err
	}
	logger.Info("trained a grammar",
		zap.Int("trees", len(corpus.Trees)),
		zap.Int("rules", len(g.Rules())),
		zap.Int("bases", len(g.Bases())),
		zap.Int("words", len(g.WordsSeen())),
		zap.Bool("markovized", g.IsMarkovized()))

	name := *trainFlags.name
	if name == "" {
		name = grammarName(corpusPath, "grammar")
	}
	err = writeGrammar(g, name, *trainFlags.output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot write the grammar: %v\n", err)
		return err
	}
	return nil
}
