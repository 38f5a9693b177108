package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nihei9/pcfg/driver"
	verr "github.com/nihei9/pcfg/error"
	"github.com/nihei9/pcfg/grammar"
	"github.com/nihei9/pcfg/spec/rule"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var translateFlags = struct {
	source        *string
	workers       *int
	skipMalformed *bool
	output        *string
	score         *bool
	unparsed      *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "translate <rule table file path>",
		Short: "Translate sentences with a synchronous grammar",
		Long: `Translate sentences with a synchronous grammar built from a rule table.

Unseen words are covered by identity rules, which emit no text. A sentence made only of unseen
words therefore has a derivation and is printed as an empty line. Use --unparsed or --score to
tell it apart from a sentence without any derivation.`,
		Example: `  cat src | pcfg translate rules.tsv
  pcfg translate rules.tsv -s src --grammar-output grammar.json`,
		Args: cobra.ExactArgs(1),
		RunE: runTranslate,
	}
	translateFlags.source = cmd.Flags().StringP("source", "s", "", "source file path containing one sentence per line (default stdin)")
	translateFlags.workers = cmd.Flags().IntP("workers", "w", 0, "number of sentences translated in parallel (default batch.workers)")
	translateFlags.skipMalformed = cmd.Flags().Bool("skip-malformed", false, "load the well-formed records even if the rule table has malformed lines")
	translateFlags.output = cmd.Flags().String("grammar-output", "", "also write the synchronous grammar to this file path")
	translateFlags.score = cmd.Flags().Bool("score", false, "print the probability of the best derivation before each translation")
	translateFlags.unparsed = cmd.Flags().String("unparsed", "", "text printed in place of a sentence without any derivation (default an empty line)")
	rootCmd.AddCommand(cmd)
}

func runTranslate(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)

	conf, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	g, err := readRuleTable(args[0], conf.SynchronousOptions(), logger)
	if err != nil {
		return err
	}
	if *translateFlags.output != "" {
		err := writeGrammar(g, grammarName(args[0], "rules"), *translateFlags.output)
		if err != nil {
			return fmt.Errorf("Cannot write the grammar: %w", err)
		}
	}

	p, err := driver.NewParser(g,
		driver.StartSymbol(conf.Translate.StartSymbol),
		driver.Logger(logger),
	)
	if err != nil {
		return err
	}

	return decode(cmd.Context(), p, *translateFlags.source, workers(conf.Batch.Workers, *translateFlags.workers), os.Stdout, *translateFlags.unparsed, func(w io.Writer, res *driver.Result) {
		printTranslation(w, res, *translateFlags.score)
	}, logger)
}

func printTranslation(w io.Writer, res *driver.Result, score bool) {
	if score {
		fmt.Fprintf(w, "%g\t", res.Score)
	}
	fmt.Fprintln(w, res.Translation)
}

func readRuleTable(path string, opts []grammar.Option, logger *zap.Logger) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the rule table %s: %w", path, err)
	}
	defer f.Close()

	tab, err := rule.Read(f)
	if err != nil {
		return nil, err
	}
	if len(tab.Errors) > 0 {
		printSpecErrors(tab.Errors, path, path)
		if !*translateFlags.skipMalformed {
			return nil, fmt.Errorf("the rule table has %v malformed lines", len(tab.Errors))
		}
		logger.Warn("skipped malformed lines", zap.Int("count", len(tab.Errors)))
	}

	g, err := grammar.NewSynchronousGrammar(tab.Records, opts...)
	if err != nil {
		if specErrs, ok := err.(verr.SpecErrors); ok {
			for _, e := range specErrs {
				e.FilePath = path
				e.SourceName = path
			}
		}
		return nil, err
	}
	logger.Info("loaded a synchronous grammar",
		zap.Int("records", len(tab.Records)),
		zap.Int("rules", len(g.Rules())),
		zap.Int("words", len(g.WordsSeen())))
	return g, nil
}
