package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/aledsdavies/adacheck/core/invariant"
)

// ErrDuplicateDeclaration is returned by Declare for a name that is already in the table
var ErrDuplicateDeclaration = errors.New("duplicate declaration")

// SymbolKind distinguishes the procedure name from declared variables
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolProcedure
)

// Symbol is one declared name
type Symbol struct {
	Name string // Spelling at the point of declaration
	Kind SymbolKind
	Line int
}

// SymbolTable is the flat set of names declared in one procedure.
// Names compare case-insensitively, like keywords, and keep declaration order.
type SymbolTable struct {
	index   map[string]int
	symbols []Symbol
}

// NewSymbolTable creates an empty table
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{index: make(map[string]int)}
}

func symbolKey(name string) string {
	return strings.ToLower(name)
}

// Declare adds name to the table.
// Redeclaring a name is an error wrapping ErrDuplicateDeclaration and leaves the table unchanged.
func (st *SymbolTable) Declare(name string, kind SymbolKind, line int) error {
	invariant.Precondition(name != "", "declared name must not be empty")
	invariant.Precondition(line > 0, "declaration line must be positive, got %d", line)

	key := symbolKey(name)
	if i, exists := st.index[key]; exists {
		return fmt.Errorf("%w: %s (first declared at line %d)", ErrDuplicateDeclaration, name, st.symbols[i].Line)
	}

	st.index[key] = len(st.symbols)
	st.symbols = append(st.symbols, Symbol{Name: name, Kind: kind, Line: line})
	return nil
}

// Lookup returns the symbol declared for name
func (st *SymbolTable) Lookup(name string) (Symbol, bool) {
	i, ok := st.index[symbolKey(name)]
	if !ok {
		return Symbol{}, false
	}
	return st.symbols[i], true
}

// IsDeclared reports whether name is in the table
func (st *SymbolTable) IsDeclared(name string) bool {
	_, ok := st.index[symbolKey(name)]
	return ok
}

// Variables returns the declared variables in declaration order, without the procedure name
func (st *SymbolTable) Variables() []string {
	vars := make([]string, 0, len(st.symbols))
	for _, sym := range st.symbols {
		if sym.Kind == SymbolVariable {
			vars = append(vars, sym.Name)
		}
	}
	return vars
}

// Suggest returns the declared variable closest to name, or "" when nothing is similar.
// Candidates that contain name as a fuzzy subsequence rank first; failing that,
// candidates that are themselves a subsequence of name (name has extra characters).
func (st *SymbolTable) Suggest(name string) string {
	vars := st.Variables()
	if len(vars) == 0 || name == "" {
		return ""
	}

	if ranks := fuzzy.RankFindFold(name, vars); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDistance := "", -1
	for _, candidate := range vars {
		distance := fuzzy.RankMatchFold(candidate, name)
		if distance < 0 {
			continue
		}
		if bestDistance < 0 || distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best
}
