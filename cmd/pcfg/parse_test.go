package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/pcfg/driver"
	"github.com/nihei9/pcfg/grammar"
	"github.com/nihei9/pcfg/spec/rule"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestDecode_Translate(t *testing.T) {
	tab, err := rule.Read(strings.NewReader("PHRASE\tw1 w2\t[1] [0]\t0.9\n"))
	require.NoError(t, err)
	require.Empty(t, tab.Errors)
	g, err := grammar.NewSynchronousGrammar(tab.Records, grammar.DisableGlue())
	require.NoError(t, err)
	p, err := driver.NewParser(g)
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "src")
	require.NoError(t, os.WriteFile(src, []byte("w1 w2\nzz\nzz zz\n"), 0644))

	tests := []struct {
		caption  string
		unparsed string
		out      string
	}{
		{
			caption: "an unseen sentence and a sentence without any derivation both print an empty line",
			out:     "w2 w1\n\n\n",
		},
		{
			caption:  "a sentence without any derivation prints the unparsed text",
			unparsed: "<none>",
			out:      "w2 w1\n\n<none>\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			var b bytes.Buffer
			err := decode(context.Background(), p, src, 2, &b, tt.unparsed, func(w io.Writer, res *driver.Result) {
				printTranslation(w, res, false)
			}, zaptest.NewLogger(t))
			require.NoError(t, err)
			require.Equal(t, tt.out, b.String())
		})
	}

	t.Run("scores tell an unseen sentence from a sentence without any derivation", func(t *testing.T) {
		var b bytes.Buffer
		err := decode(context.Background(), p, src, 2, &b, "", func(w io.Writer, res *driver.Result) {
			printTranslation(w, res, true)
		}, zaptest.NewLogger(t))
		require.NoError(t, err)
		lines := strings.Split(b.String(), "\n")
		require.Len(t, lines, 4)
		require.True(t, strings.HasSuffix(lines[0], "\tw2 w1"))
		require.True(t, strings.HasSuffix(lines[1], "\t"))
		require.NotEqual(t, "\t", lines[1])
		require.Empty(t, lines[2])
	})
}
