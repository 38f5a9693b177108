package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nihei9/pcfg/driver"
	"github.com/nihei9/pcfg/grammar"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var parseFlags = struct {
	source    *string
	fallback  *string
	start     *string
	maxLength *int
	workers   *int
	tree      *bool
	score     *bool
	unparsed  *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "parse <grammar file path>",
		Short: "Parse sentences into their most probable trees",
		Example: `  cat src | pcfg parse grammar.json
  pcfg parse grammar.json --fallback plain.json -s src`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "source file path containing one sentence per line (default stdin)")
	parseFlags.fallback = cmd.Flags().String("fallback", "", "grammar file path tried when the primary grammar cannot parse a sentence")
	parseFlags.start = cmd.Flags().String("start", "", "start symbol (default parse.start-symbol)")
	parseFlags.maxLength = cmd.Flags().Int("max-length", 0, "leave sentences longer than this unparsed (default parse.max-length)")
	parseFlags.workers = cmd.Flags().IntP("workers", "w", 0, "number of sentences parsed in parallel (default batch.workers)")
	parseFlags.tree = cmd.Flags().Bool("tree", false, "print trees with ruled lines instead of the bracketed notation")
	parseFlags.score = cmd.Flags().Bool("score", false, "print the probability of the best derivation before each result")
	parseFlags.unparsed = cmd.Flags().String("unparsed", "", "text printed in place of a sentence without any derivation (default an empty line)")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)

	conf, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	g, _, err := readGrammar(args[0])
	if err != nil {
		return err
	}

	start := conf.Parse.StartSymbol
	if g.Kind() == grammar.KindSynchronous {
		start = conf.Translate.StartSymbol
	}
	if *parseFlags.start != "" {
		start = *parseFlags.start
	}
	maxLen := conf.Parse.MaxLength
	if cmd.Flags().Changed("max-length") {
		maxLen = *parseFlags.maxLength
	}
	opts := []driver.ParserOption{
		driver.StartSymbol(start),
		driver.MaxLength(maxLen),
		driver.Logger(logger),
	}
	if *parseFlags.fallback != "" && !conf.Parse.Fallback {
		logger.Info("the fallback grammar is disabled by parse.fallback", zap.String("path", *parseFlags.fallback))
	}
	if *parseFlags.fallback != "" && conf.Parse.Fallback {
		fg, _, err := readGrammar(*parseFlags.fallback)
		if err != nil {
			return err
		}
		opts = append(opts, driver.Fallback(fg))
	}
	p, err := driver.NewParser(g, opts...)
	if err != nil {
		return err
	}

	return decode(cmd.Context(), p, *parseFlags.source, workers(conf.Batch.Workers, *parseFlags.workers), os.Stdout, *parseFlags.unparsed, func(w io.Writer, res *driver.Result) {
		if *parseFlags.score {
			fmt.Fprintf(w, "%g\t", res.Score)
		}
		if *parseFlags.tree && res.Tree != nil {
			driver.PrintTree(w, res.Tree)
			return
		}
		fmt.Fprintln(w, res)
	}, logger)
}

func workers(configured, flag int) int {
	if flag > 0 {
		return flag
	}
	return configured
}

// decode parses every line of the source and prints the results in input order. A line without a
// result is printed as the unparsed text.
func decode(ctx context.Context, p *driver.Parser, srcPath string, workers int, w io.Writer, unparsed string, printResult func(w io.Writer, res *driver.Result), logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}

	src, _, err := openSource(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	lines, err := readLines(src)
	if err != nil {
		return err
	}

	results, stats, err := driver.DecodeAll(ctx, p, lines, workers)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	defer bw.Flush()
	for _, res := range results {
		if res == nil {
			fmt.Fprintln(bw, unparsed)
			continue
		}
		printResult(bw, res)
	}

	if n := stats.Unparsed.Load() + stats.TooLong.Load(); n > 0 {
		logger.Warn("some sentences were left unparsed", zap.Int64("count", n))
	}
	return nil
}

func readLines(src io.Reader) ([]string, error) {
	var lines []string
	s := bufio.NewScanner(src)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
