package rule

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	verr "github.com/nihei9/pcfg/error"
	"github.com/pkg/errors"
)

// Record is one rule of a synchronous rule table.
//
// Source tokens carrying an index suffix, such as `PHRASE[0]`, refer to non-terminals. Target tokens
// containing `[0]` or `[1]` are placeholders replaced with the output of the corresponding source
// symbol.
type Record struct {
	LHS         string
	Source      []string
	Target      []string
	Probability float64
	Row         int
}

// Table holds the records of a rule table. Malformed records don't stop reading; they are reported
// in Errors and left out of Records.
type Table struct {
	Records []*Record
	Errors  verr.SpecErrors
}

// Read reads a rule table consisting of one tab-separated record per line. Empty lines are skipped.
// The returned error reports only failures of the reader.
func Read(src io.Reader) (*Table, error) {
	tab := &Table{}
	s := bufio.NewScanner(src)
	s.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	row := 0
	for s.Scan() {
		row++
		line := strings.TrimRight(s.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := parseRecord(line, row)
		if err != nil {
			tab.Errors = append(tab.Errors, err)
			continue
		}
		tab.Records = append(tab.Records, rec)
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "cannot read a rule table")
	}
	return tab, nil
}

func parseRecord(line string, row int) (*Record, *verr.SpecError) {
	fields := strings.Split(line, "\t")
	if len(fields) != 4 {
		return nil, &verr.SpecError{
			Cause:  synErrFieldCount,
			Detail: strconv.Itoa(len(fields)) + " fields found",
			Row:    row,
		}
	}

	lhs := strings.TrimSpace(fields[0])
	if lhs == "" {
		return nil, &verr.SpecError{
			Cause: synErrNoLHS,
			Row:   row,
		}
	}
	src := strings.Fields(fields[1])
	if len(src) == 0 {
		return nil, &verr.SpecError{
			Cause: synErrNoSource,
			Row:   row,
		}
	}
	tgt := strings.Fields(fields[2])
	if len(tgt) == 0 {
		return nil, &verr.SpecError{
			Cause: synErrNoTarget,
			Row:   row,
		}
	}
	p, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
	if err != nil {
		return nil, &verr.SpecError{
			Cause:  synErrInvalidProb,
			Detail: fields[3],
			Row:    row,
		}
	}
	if math.IsNaN(p) || p <= 0 || p > 1 {
		return nil, &verr.SpecError{
			Cause:  synErrProbOutOfRange,
			Detail: fields[3],
			Row:    row,
		}
	}

	return &Record{
		LHS:         lhs,
		Source:      src,
		Target:      tgt,
		Probability: p,
		Row:         row,
	}, nil
}
