package parser

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aledsdavies/adacheck/pkgs/lexer"
)

// shape renders a node as a compact s-expression: single-child chains collapse
// and parentheses tokens are dropped, so only grouping decided by the parser shows.
func shape(n *Node) string {
	if n.Kind == NodeToken {
		return n.Token.Lexeme
	}

	var parts []string
	for _, child := range n.Children {
		if child.Kind == NodeToken && (child.Token.Is(lexer.LPAREN) || child.Token.Is(lexer.RPAREN)) {
			continue
		}
		parts = append(parts, shape(child))
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func TestExpressionPrecedence(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"A + B * C", "(A + (B * C))"},
		{"A * B + C", "((A * B) + C)"},
		{"-A * B", "(- (A * B))"},
		{"A ** B * C", "((A ** B) * C)"},
		{"A ** -B", "(A ** - B)"},
		{"A < B and C = D", "((A < B) and (C = D))"},
		{"(A + B) * C", "((A + B) * C)"},
		{"not A or B", "((not A) or B)"},
		{"A & B + C", "(A & B + C)"},
		{"A mod B / C", "(A mod B / C)"},
		{"A + B <= C * D", "((A + B) <= (C * D))"},
		{"A(1..2) + 1", "((A (1 . . 2)) + 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			input := "procedure P is A, B, C, D, X : integer; begin X := " + tt.expr + "; end P;"
			tree := ParseString(input)
			require.True(t, tree.Accepted, messages(tree))

			expr := tree.Root().Find(NodeExpr)
			require.NotNil(t, expr)
			assert.Equal(t, tt.want, shape(expr))
		})
	}
}

func TestDump(t *testing.T) {
	tree := ParseString("procedure P is X : integer; begin X := 1; end P;")
	require.True(t, tree.Accepted)

	var out bytes.Buffer
	require.NoError(t, tree.Dump(&out))

	want := `Procedure
  PROCEDURE "procedure"
  IDENT "P"
  IS "is"
  ProcBody
    DeclPart
      DeclStmt
        IDENT "X"
        COLON ":"
        Type
          INT "integer"
        SEMICOL ";"
    BEGIN "begin"
    StmtList
      AssignStmt
        IDENT "X"
        ASSOP ":="
        Expr
          Relation
            SimpleExpr
              STerm
                Term
                  Factor
                    Primary
                      ICONST "1"
        SEMICOL ";"
    END "end"
    IDENT "P"
    SEMICOL ";"
`
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}
}

func TestRootOfFailedParse(t *testing.T) {
	tree := ParseString("procedure P is X : integer; begin X := ; end P;")
	require.False(t, tree.Accepted)

	root := tree.Root()
	require.NotNil(t, root)
	assert.Equal(t, NodeProcedure, root.Kind)

	assign := root.Find(NodeAssignStmt)
	require.NotNil(t, assign)
	assert.Equal(t, "X", assign.Children[0].Token.Lexeme)
	assert.Nil(t, root.Find(NodeGetStmt))
}

func TestEmptyTree(t *testing.T) {
	tree := &ParseTree{}
	assert.Nil(t, tree.Root())

	var out bytes.Buffer
	require.NoError(t, tree.Dump(&out))
	assert.Empty(t, out.String())
}

func TestNodeKindString(t *testing.T) {
	assert.Equal(t, "SimpleExpr", NodeSimpleExpr.String())
	assert.Equal(t, "Range", NodeRange.String())
	assert.Equal(t, "NodeKind(99)", NodeKind(99).String())
}
