package symbol

import (
	"fmt"
	"sort"
)

type symbolKind string

const (
	symbolKindNonTerminal = symbolKind("non-terminal")
	symbolKindTerminal    = symbolKind("terminal")
)

func (t symbolKind) String() string {
	return string(t)
}

type SymbolNum uint32

func (n SymbolNum) Int() int {
	return int(n)
}

// Symbol is an interned grammar label. The most significant bit holds the kind, so a terminal and
// a non-terminal spelled the same way are different symbols.
type Symbol uint32

func (s Symbol) String() string {
	kind, num := s.describe()
	var prefix string
	switch {
	case s.IsNil():
		prefix = "?"
	case kind == symbolKindNonTerminal:
		prefix = "n"
	case kind == symbolKindTerminal:
		prefix = "t"
	default:
		prefix = "?"
	}
	return fmt.Sprintf("%v%v", prefix, num)
}

const (
	maskKindPart    = uint32(0x80000000)
	maskNonTerminal = uint32(0x00000000)
	maskTerminal    = uint32(0x80000000)

	maskNumberPart = uint32(0x7fffffff)

	SymbolNil = Symbol(0)

	nonTerminalNumMin = SymbolNum(1)
	terminalNumMin    = SymbolNum(1)
	symbolNumMax      = SymbolNum(maskNumberPart)
)

func newSymbol(kind symbolKind, num SymbolNum) (Symbol, error) {
	if num > symbolNumMax {
		return SymbolNil, fmt.Errorf("a symbol number exceeds the limit; limit: %v, passed: %v", symbolNumMax, num)
	}

	kindMask := maskNonTerminal
	if kind == symbolKindTerminal {
		kindMask = maskTerminal
	}
	return Symbol(kindMask | uint32(num)), nil
}

func (s Symbol) Num() SymbolNum {
	_, num := s.describe()
	return num
}

func (s Symbol) Byte() []byte {
	if s.IsNil() {
		return []byte{0, 0, 0, 0}
	}
	v := uint32(s)
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func (s Symbol) IsNil() bool {
	_, num := s.describe()
	return num == 0
}

func (s Symbol) IsNonTerminal() bool {
	if s.IsNil() {
		return false
	}
	kind, _ := s.describe()
	return kind == symbolKindNonTerminal
}

func (s Symbol) IsTerminal() bool {
	if s.IsNil() {
		return false
	}
	return !s.IsNonTerminal()
}

func (s Symbol) describe() (symbolKind, SymbolNum) {
	kind := symbolKindNonTerminal
	if uint32(s)&maskKindPart > 0 {
		kind = symbolKindTerminal
	}
	num := SymbolNum(uint32(s) & maskNumberPart)
	return kind, num
}

type SymbolTable struct {
	nonTerm2Sym  map[string]Symbol
	term2Sym     map[string]Symbol
	sym2Text     map[Symbol]string
	nonTermTexts []string
	termTexts    []string
	nonTermNum   SymbolNum
	termNum      SymbolNum
}

type SymbolTableWriter struct {
	*SymbolTable
}

type SymbolTableReader struct {
	*SymbolTable
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		nonTerm2Sym: map[string]Symbol{},
		term2Sym:    map[string]Symbol{},
		sym2Text:    map[Symbol]string{},
		termTexts: []string{
			"", // Nil
		},
		nonTermTexts: []string{
			"", // Nil
		},
		nonTermNum: nonTerminalNumMin,
		termNum:    terminalNumMin,
	}
}

func (t *SymbolTable) Writer() *SymbolTableWriter {
	return &SymbolTableWriter{
		SymbolTable: t,
	}
}

func (t *SymbolTable) Reader() *SymbolTableReader {
	return &SymbolTableReader{
		SymbolTable: t,
	}
}

func (w *SymbolTableWriter) RegisterNonTerminalSymbol(text string) (Symbol, error) {
	if sym, ok := w.nonTerm2Sym[text]; ok {
		return sym, nil
	}
	sym, err := newSymbol(symbolKindNonTerminal, w.nonTermNum)
	if err != nil {
		return SymbolNil, err
	}
	w.nonTermNum++
	w.nonTerm2Sym[text] = sym
	w.sym2Text[sym] = text
	w.nonTermTexts = append(w.nonTermTexts, text)
	return sym, nil
}

func (w *SymbolTableWriter) RegisterTerminalSymbol(text string) (Symbol, error) {
	if sym, ok := w.term2Sym[text]; ok {
		return sym, nil
	}
	sym, err := newSymbol(symbolKindTerminal, w.termNum)
	if err != nil {
		return SymbolNil, err
	}
	w.termNum++
	w.term2Sym[text] = sym
	w.sym2Text[sym] = text
	w.termTexts = append(w.termTexts, text)
	return sym, nil
}

func (r *SymbolTableReader) ToNonTerminal(text string) (Symbol, bool) {
	if sym, ok := r.nonTerm2Sym[text]; ok {
		return sym, true
	}
	return SymbolNil, false
}

func (r *SymbolTableReader) ToTerminal(text string) (Symbol, bool) {
	if sym, ok := r.term2Sym[text]; ok {
		return sym, true
	}
	return SymbolNil, false
}

func (r *SymbolTableReader) ToText(sym Symbol) (string, bool) {
	text, ok := r.sym2Text[sym]
	return text, ok
}

func (r *SymbolTableReader) TerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.termNum.Int()-terminalNumMin.Int())
	for sym := range r.sym2Text {
		if !sym.IsTerminal() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

// TerminalTexts returns the texts of terminals in registration order. The first element is the
// empty text of the nil symbol.
func (r *SymbolTableReader) TerminalTexts() []string {
	return r.termTexts
}

func (r *SymbolTableReader) NonTerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, r.nonTermNum.Int()-nonTerminalNumMin.Int())
	for sym := range r.sym2Text {
		if !sym.IsNonTerminal() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool {
		return syms[i] < syms[j]
	})
	return syms
}

func (r *SymbolTableReader) NonTerminalTexts() []string {
	return r.nonTermTexts
}
