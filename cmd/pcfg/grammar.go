package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	verr "github.com/nihei9/pcfg/error"
	"github.com/nihei9/pcfg/grammar"
	spec "github.com/nihei9/pcfg/spec/grammar"
)

func readGrammar(path string) (*grammar.Grammar, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("Cannot open the grammar file %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	sg := &spec.Grammar{}
	err = json.Unmarshal(d, sg)
	if err != nil {
		return nil, "", fmt.Errorf("Cannot read the grammar file %s: %w", path, err)
	}
	g, err := grammar.Import(sg)
	if err != nil {
		return nil, "", fmt.Errorf("Cannot read the grammar file %s: %w", path, err)
	}
	return g, sg.Name, nil
}

// writeGrammar writes the grammar in JSON to the path or to stdout when the path is empty.
func writeGrammar(g *grammar.Grammar, name string, path string) error {
	var w io.Writer
	if path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	} else {
		w = os.Stdout
	}

	b, err := json.Marshal(g.Export(name))
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v\n", string(b))
	return nil
}

// grammarName derives a grammar name from a file path, such as `wsj` from `corpus/wsj.txt`.
func grammarName(path string, defaultName string) string {
	if path == "" {
		return defaultName
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// openSource returns the file of the path or stdin when the path is empty.
func openSource(path string) (io.ReadCloser, string, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), "stdin", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("Cannot open the source file %s: %w", path, err)
	}
	return f, path, nil
}

// printSpecErrors prints errors found in an input file with the lines they were found on.
func printSpecErrors(errs verr.SpecErrors, path, sourceName string) {
	for _, err := range errs {
		err.FilePath = path
		err.SourceName = sourceName
		fmt.Fprintln(os.Stderr, err)
	}
}
