package parser

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// messages renders the tree's diagnostics as they are printed
func messages(tree *ParseTree) []string {
	var out []string
	for _, d := range tree.Diagnostics {
		out = append(out, d.String())
	}
	return out
}

func TestAcceptedPrograms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		declared []string
	}{
		{
			name:     "single assignment",
			input:    "procedure P is X : integer; begin X := 1; end P;",
			declared: []string{"X"},
		},
		{
			name: "every declaration form",
			input: `procedure Main is
  A, B, C : integer;
  Limit : constant integer := 100;
  Ratio : float := 1.5E-3;
  Flag : boolean := true;
  Name : string := "main";
  Initial : character := 'm';
  Index : integer (1..10) := 5;
begin
  A := B + C;
end Main;`,
			declared: []string{"A", "B", "C", "Limit", "Ratio", "Flag", "Name", "Initial", "Index"},
		},
		{
			name: "io statements",
			input: `procedure IO is
  X : integer;
begin
  get (X);
  put (X * 2);
  putline ("done");
end IO;`,
			declared: []string{"X"},
		},
		{
			name: "nested if with elsif and else",
			input: `procedure P is
  X : integer;
begin
  if X > 0 then
    if X > 1 then
      put (X);
    end if;
  elsif X = 0 then
    putline ("zero");
  else
    X := 0;
  end if;
end P;`,
			declared: []string{"X"},
		},
		{
			name:     "keywords and names are case-insensitive",
			input:    "PROCEDURE p IS x : INTEGER; BEGIN X := 1; END P;",
			declared: []string{"x"},
		},
		{
			name: "comments are ignored",
			input: `-- checker input
procedure P is -- entry
  X : integer; -- counter
begin
  X := X - -1; -- unary minus, not a comment
end P;`,
			declared: []string{"X"},
		},
		{
			name:     "subscripted name",
			input:    "procedure P is A, I : integer; begin A := A(I..I + 1) mod 2; end P;",
			declared: []string{"A", "I"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := ParseString(tt.input)

			assert.Empty(t, messages(tree))
			assert.True(t, tree.Accepted)
			if diff := cmp.Diff(tt.declared, tree.Declared); diff != "" {
				t.Errorf("declared mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSuccessReport(t *testing.T) {
	var out bytes.Buffer
	tree := ParseString("procedure P is X, Y : integer; begin X := 1; end P;", WithOutput(&out))

	require.True(t, tree.Accepted)
	assert.Equal(t, "Declared Variables:\nX, Y\n\n(DONE)\n", out.String())
}

func TestRejectedPrograms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		messages []string
		kind     ErrorKind
	}{
		{
			name:  "empty input",
			input: "",
			messages: []string{
				"1: Incorrect compilation file.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "missing procedure name",
			input: "procedure is",
			messages: []string{
				"1: Missing Procedure Name.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "missing is",
			input: "procedure P begin",
			messages: []string{
				"1: Missing IS keyword after procedure name.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "duplicate declaration",
			input: "procedure P is X, X : integer; begin end P;",
			messages: []string{
				"1: Variable Redefinition: X (first declared at line 1)",
				"1: Incorrect identifiers list in Declaration Statement.",
				"1: Non-recognizable Declaration Part.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: DuplicateDeclaration,
		},
		{
			name:  "procedure name cannot be redeclared",
			input: "procedure P is P : integer; begin P := 1; end P;",
			messages: []string{
				"1: Variable Redefinition: P (first declared at line 1)",
				"1: Incorrect identifiers list in Declaration Statement.",
				"1: Non-recognizable Declaration Part.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: DuplicateDeclaration,
		},
		{
			name:  "undefined assignment target",
			input: "procedure P is X : integer; begin Y := 1; end P;",
			messages: []string{
				"1: Using Undefined Variable: Y",
				"1: Invalid assignment statement.",
				"1: Syntactic error in statement list.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: UndefinedVariable,
		},
		{
			name:  "missing declaration semicolon",
			input: "procedure P is X : integer begin X := 1; end P;",
			messages: []string{
				"1: Missing semicolon at end of declaration statement.",
				"1: Incorrect Declaration Statement.",
				"1: Non-recognizable Declaration Part.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: MissingTerminator,
		},
		{
			name:  "missing comma between identifiers",
			input: "procedure P is X Y : integer; begin X := 1; end P;",
			messages: []string{
				"1: Missing comma in declaration statement.",
				"1: Incorrect identifiers list in Declaration Statement.",
				"1: Non-recognizable Declaration Part.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "keyword used as identifier",
			input: "procedure P is X, begin : integer; begin X := 1; end P;",
			messages: []string{
				"1: Missing identifier after comma: found 'begin'.",
				"1: Incorrect identifiers list in Declaration Statement.",
				"1: Non-recognizable Declaration Part.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "invalid type",
			input: "procedure P is X : real; begin X := 1; end P;",
			messages: []string{
				"1: Incorrect Declaration Type: 'real'.",
				"1: Incorrect Declaration Statement.",
				"1: Non-recognizable Declaration Part.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "single dot in range",
			input: "procedure P is X : integer (1 . 10); begin X := 1; end P;",
			messages: []string{
				"1: Invalid range: expected '..' but found '.' followed by '10'.",
				"1: Incorrect Declaration Statement.",
				"1: Non-recognizable Declaration Part.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "missing assignment operator",
			input: "procedure P is X : integer; begin X = 1; end P;",
			messages: []string{
				"1: Missing Assignment Operator",
				"1: Invalid assignment statement.",
				"1: Syntactic error in statement list.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "missing operand after plus",
			input: "procedure P is X : integer; begin X := X + ; end P;",
			messages: []string{
				"1: Invalid Expression: unexpected ';'.",
				"1: Missing operand after '+'.",
				"1: Invalid assignment statement.",
				"1: Syntactic error in statement list.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "undefined variable in expression",
			input: "procedure P is X : integer; begin X := Z * 2; end P;",
			messages: []string{
				"1: Using Undefined Variable: Z",
				"1: Invalid reference to a variable.",
				"1: Invalid assignment statement.",
				"1: Syntactic error in statement list.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: UndefinedVariable,
		},
		{
			name:  "unclosed parenthesis",
			input: "procedure P is X : integer; begin X := (X + 1; end P;",
			messages: []string{
				"1: Missing right parenthesis after expression",
				"1: Invalid assignment statement.",
				"1: Syntactic error in statement list.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: MissingTerminator,
		},
		{
			name:  "operand directly followed by identifier",
			input: "procedure P is X, Y : integer; begin X := 1 Y; end P;",
			messages: []string{
				"1: Missing operator before 'Y'.",
				"1: Invalid assignment statement.",
				"1: Syntactic error in statement list.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "relations do not chain",
			input: "procedure P is X : integer; begin if X < 1 < 2 then X := 1; end if; end P;",
			messages: []string{
				"1: If-Stmt Syntax Error: missing THEN",
				"1: Invalid If statement.",
				"1: Syntactic error in statement list.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "if without end if",
			input: "procedure P is X : integer; begin if X > 1 then X := 1; end P;",
			messages: []string{
				"1: Missing IF after END in If-statement.",
				"1: Invalid If statement.",
				"1: Syntactic error in statement list.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "put without parenthesis",
			input: "procedure P is X : integer; begin put X; end P;",
			messages: []string{
				"1: Missing Left Parenthesis",
				"1: Invalid put statement.",
				"1: Syntactic error in statement list.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "get of undeclared variable",
			input: "procedure P is X : integer; begin get (Q); end P;",
			messages: []string{
				"1: Using Undefined Variable: Q",
				"1: Invalid get statement.",
				"1: Syntactic error in statement list.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: UndefinedVariable,
		},
		{
			name:  "unknown statement",
			input: "procedure P is X : integer; begin 42; end P;",
			messages: []string{
				"1: Invalid statement: unexpected '42'.",
				"1: Syntactic error in statement list.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "empty statement list",
			input: "procedure P is X : integer; begin end P;",
			messages: []string{
				"1: Invalid statement: unexpected 'end'.",
				"1: Syntactic error in statement list.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "end name mismatch",
			input: "procedure P is X : integer; begin X := 1; end Q;",
			messages: []string{
				"1: Procedure name mismatch: expected P, got Q.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: SyntaxError,
		},
		{
			name:  "missing final semicolon",
			input: "procedure P is X : integer; begin X := 1; end P",
			messages: []string{
				"1: Missing semicolon at end of procedure.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: MissingTerminator,
		},
		{
			name:  "unrecognized character",
			input: "procedure P is X : integer; begin X := $; end P;",
			messages: []string{
				"1: Unrecognized Input Pattern ($)",
				"1: Invalid Expression: unexpected '$'.",
				"1: Invalid assignment statement.",
				"1: Syntactic error in statement list.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: LexicalError,
		},
		{
			name:  "identifier with a byte that is not UTF-8",
			input: "procedure P is X\xe9 : integer; begin X\xe9 := 1; end P;",
			messages: []string{
				`1: Unrecognized Input Pattern (\xe9)`,
				`1: Invalid name for an Identifier: (\xe9)`,
				"1: Incorrect identifiers list in Declaration Statement.",
				"1: Non-recognizable Declaration Part.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: LexicalError,
		},
		{
			name:  "NUL byte does not end the input",
			input: "procedure P is X : integer; begin X := 1\x00; end P;",
			messages: []string{
				`1: Unrecognized Input Pattern (\x00)`,
				"1: Missing semicolon at end of assignment statement.",
				"1: Invalid assignment statement.",
				"1: Syntactic error in statement list.",
				"1: Incorrect procedure body.",
				"1: Incorrect Procedure Definition.",
			},
			kind: LexicalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := ParseString(tt.input)

			assert.False(t, tree.Accepted)
			if diff := cmp.Diff(tt.messages, messages(tree)); diff != "" {
				t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
			}
			require.NotEmpty(t, tree.Diagnostics)
			assert.Equal(t, tt.kind, tree.Diagnostics[0].Kind)
			assert.Equal(t, len(tt.messages), tree.ErrorCount())
		})
	}
}

func TestContextualDiagnosticsFollowTheSpecificOne(t *testing.T) {
	tree := ParseString("procedure P is X : integer; begin X := Y; end P;")

	require.Len(t, tree.Diagnostics, 6)
	assert.False(t, tree.Diagnostics[0].Contextual, "the first diagnostic names the problem")
	for _, d := range tree.Diagnostics[1:] {
		assert.True(t, d.Contextual, "%q should be contextual", d.Message)
	}
}

func TestDiagnosticLines(t *testing.T) {
	input := `procedure P is
  X : integer;
begin
  X := 1;
  X := Y;
end P;`

	tree := ParseString(input)

	require.NotEmpty(t, tree.Diagnostics)
	assert.Equal(t, "5: Using Undefined Variable: Y", tree.Diagnostics[0].String())
	for _, d := range tree.Diagnostics {
		assert.Equal(t, 5, d.Line)
	}
}

func TestUndefinedVariableSuggestion(t *testing.T) {
	input := "procedure P is Total, Count : integer; begin Total := Totl + 1; end P;"

	t.Run("enabled", func(t *testing.T) {
		var out bytes.Buffer
		tree := ParseString(input, WithOutput(&out))

		require.NotEmpty(t, tree.Diagnostics)
		assert.Equal(t, "Total", tree.Diagnostics[0].Suggestion)
		assert.True(t, strings.HasPrefix(out.String(), "1: Using Undefined Variable: Totl\n   did you mean 'Total'?\n"), out.String())
	})

	t.Run("disabled", func(t *testing.T) {
		var out bytes.Buffer
		tree := ParseString(input, WithOutput(&out), WithSuggestions(false))

		require.NotEmpty(t, tree.Diagnostics)
		assert.Empty(t, tree.Diagnostics[0].Suggestion)
		assert.NotContains(t, out.String(), "did you mean")
	})
}

func TestFailureOutputHasNoReport(t *testing.T) {
	var out bytes.Buffer
	ParseString("procedure P is X : integer; begin Y := 1; end P;", WithOutput(&out))

	assert.NotContains(t, out.String(), "Declared Variables:")
	assert.Equal(t, 5, strings.Count(out.String(), "\n"))
}

func TestStatementListStopsAtBlockKeywords(t *testing.T) {
	// Each branch body ends at the next ELSIF, ELSE or END, which the if
	// statement then consumes itself.
	input := `procedure P is X : integer; begin
if X = 1 then X := 1; elsif X = 2 then X := 2; X := 3; else X := 4; end if;
end P;`

	tree := ParseString(input)
	require.True(t, tree.Accepted, messages(tree))

	ifStmt := tree.Root().Find(NodeIfStmt)
	require.NotNil(t, ifStmt)

	var lists []int
	for _, child := range ifStmt.Children {
		if child.Kind == NodeStmtList {
			lists = append(lists, len(child.Children))
		}
	}
	assert.Equal(t, []int{1, 2, 1}, lists)
}

func TestWithLoggerTracesProductions(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ParseString("procedure P is X : integer; begin X := 1; end P;", WithLogger(logger))

	assert.Contains(t, logs.String(), "msg=enter node=Procedure")
	assert.Contains(t, logs.String(), "msg=exit node=AssignStmt")
}

func TestEventsAreBalanced(t *testing.T) {
	inputs := []string{
		"procedure P is X : integer; begin X := 1; end P;",
		"procedure P is X : integer; begin X := (1 + ; end P;",
		"procedure",
		"",
	}

	for _, input := range inputs {
		tree := ParseString(input)
		depth := 0
		for _, ev := range tree.Events {
			switch ev.Kind {
			case EventOpen:
				depth++
			case EventClose:
				depth--
			}
			assert.GreaterOrEqual(t, depth, 0, "input %q", input)
		}
		assert.Equal(t, 0, depth, "input %q", input)
	}
}
