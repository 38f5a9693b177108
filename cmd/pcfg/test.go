package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/pcfg/driver"
	"github.com/nihei9/pcfg/tester"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var testFlags = struct {
	fallback *string
	start    *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "test <grammar file path> <test file path>|<test directory path>",
		Short:   "Test a grammar",
		Example: `  pcfg test grammar.json test`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	testFlags.fallback = cmd.Flags().String("fallback", "", "grammar file path tried when the primary grammar cannot parse a sentence")
	testFlags.start = cmd.Flags().String("start", "", "start symbol (default parse.start-symbol)")
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)

	conf, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	g, _, err := readGrammar(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a grammar: %w", err)
	}
	start := conf.Parse.StartSymbol
	if *testFlags.start != "" {
		start = *testFlags.start
	}
	opts := []driver.ParserOption{
		driver.StartSymbol(start),
		driver.Logger(logger),
	}
	if *testFlags.fallback != "" && !conf.Parse.Fallback {
		logger.Info("the fallback grammar is disabled by parse.fallback", zap.String("path", *testFlags.fallback))
	}
	if *testFlags.fallback != "" && conf.Parse.Fallback {
		fg, _, err := readGrammar(*testFlags.fallback)
		if err != nil {
			return fmt.Errorf("Cannot read a grammar: %w", err)
		}
		opts = append(opts, driver.Fallback(fg))
	}
	p, err := driver.NewParser(g, opts...)
	if err != nil {
		return err
	}

	var cs []*tester.TestCaseWithMetadata
	{
		cs = tester.ListTestCases(args[1])
		errOccurred := false
		for _, c := range cs {
			if c.Error != nil {
				fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
				errOccurred = true
			}
		}
		if errOccurred {
			return errors.New("Cannot run test")
		}
	}

	t := &tester.Tester{
		Parser: p,
		Cases:  cs,
	}
	rs := t.Run()
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("Test failed")
	}
	return nil
}
