package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"text/template"

	"github.com/cheynewallace/tabby"
	spec "github.com/nihei9/pcfg/spec/grammar"
	"github.com/spf13/cobra"
)

var showFlags = struct {
	top  *int
	json *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "show <grammar file path>",
		Short:   "Print a grammar in a readable format",
		Example: `  pcfg show grammar.json --top 20`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	showFlags.top = cmd.Flags().Int("top", 10, "number of rules listed in the ranking tables (0 lists all rules)")
	showFlags.json = cmd.Flags().Bool("json", false, "print the description in JSON")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverError(&retErr)

	g, name, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	desc := g.Describe(name)

	if *showFlags.json {
		b, err := json.Marshal(desc)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%v\n", string(b))
		return nil
	}

	return writeDescription(os.Stdout, desc, *showFlags.top)
}

const descTemplate = `# Grammar

name:          {{ .Name }}
kind:          {{ .Kind }}
markovized:   {{ .Markovized }}
rules:         {{ .RuleCount }}
bases:         {{ .BaseCount }}
words:         {{ .WordCount }}
non-terminals: {{ .NonTerminalCount }}
terminals:     {{ .TerminalCount }}

# Rules
{{ range groupByLHS .Rules }}
## {{ .LHS }}

{{ range .Rules -}}
{{ printRule . }}
{{ end -}}
{{ end }}`

type lhsGroup struct {
	LHS   string
	Rules []*spec.RuleDescription
}

func writeDescription(w io.Writer, desc *spec.Description, top int) error {
	fns := template.FuncMap{
		"groupByLHS": func(rules []*spec.RuleDescription) []*lhsGroup {
			var groups []*lhsGroup
			index := map[string]*lhsGroup{}
			for _, r := range rules {
				g, ok := index[r.LHS]
				if !ok {
					g = &lhsGroup{
						LHS: r.LHS,
					}
					index[r.LHS] = g
					groups = append(groups, g)
				}
				g.Rules = append(g.Rules, r)
			}
			return groups
		},
		"printRule": func(r *spec.RuleDescription) string {
			return fmt.Sprintf("%4v %8.6f %6v %v", r.Number, r.Probability, r.Count, r.Text)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(descTemplate)
	if err != nil {
		return err
	}
	err = tmpl.Execute(w, desc)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "# Top rules by count\n\n")
	writeRanking(w, desc.Rules, top, func(a, b *spec.RuleDescription) bool {
		return a.Count > b.Count
	})
	fmt.Fprintf(w, "\n# Top rules by probability\n\n")
	writeRanking(w, desc.Rules, top, func(a, b *spec.RuleDescription) bool {
		return a.Probability > b.Probability
	})

	return nil
}

// writeRanking prints the top rules in a table. Rules ranked equal keep their insertion order.
func writeRanking(w io.Writer, rules []*spec.RuleDescription, top int, less func(a, b *spec.RuleDescription) bool) {
	ranked := make([]*spec.RuleDescription, len(rules))
	copy(ranked, rules)
	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})
	if top > 0 && top < len(ranked) {
		ranked = ranked[:top]
	}

	t := tabby.NewCustom(tabwriter.NewWriter(w, 0, 0, 2, ' ', 0))
	t.AddHeader("#", "RULE", "COUNT", "PROBABILITY")
	for _, r := range ranked {
		t.AddLine(r.Number, r.Text, r.Count, fmt.Sprintf("%.6f", r.Probability))
	}
	t.Print()
}
