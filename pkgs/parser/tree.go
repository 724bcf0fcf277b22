package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/adacheck/pkgs/lexer"
)

// ParseTree is the result of checking one procedure
type ParseTree struct {
	Tokens      []lexer.Token // Every token pulled from the lexer, in order
	Events      []Event       // Parse events, balanced open/close
	Diagnostics []Diagnostic  // Everything reported, in order
	Declared    []string      // Declared variables in declaration order
	Accepted    bool          // True when the procedure parsed with no diagnostics
}

// ErrorCount returns the number of reported diagnostics
func (t *ParseTree) ErrorCount() int {
	return len(t.Diagnostics)
}

// Event represents a parse tree construction event
type Event struct {
	Kind EventKind
	Data uint32 // NodeKind for open/close, token index for token events
}

// EventKind represents the type of parse event
type EventKind uint8

const (
	EventOpen  EventKind = iota // Open syntax node
	EventClose                  // Close syntax node
	EventToken                  // Consume token
)

// NodeKind represents syntax node types, one per grammar production
type NodeKind uint32

const (
	NodeProcedure NodeKind = iota // procedure P is ... end P;
	NodeProcBody                  // DeclPart begin StmtList end P;
	NodeDeclPart                  // One or more declarations
	NodeDeclStmt                  // X, Y : constant integer (1..10) := 0;
	NodeType                      // integer | float | boolean | string | character

	// Statements
	NodeStmtList   // One or more statements
	NodeAssignStmt // X := Expr;
	NodePrintStmt  // put(Expr); putline(Expr);
	NodeGetStmt    // get(X);
	NodeIfStmt     // if Expr then ... {elsif ...} [else ...] end if;

	// Expressions
	NodeExpr       // Relation {and|or Relation}
	NodeRelation   // SimpleExpr [relop SimpleExpr]
	NodeSimpleExpr // STerm {+|-|& STerm}
	NodeSTerm      // [+|-] Term
	NodeTerm       // Factor {*|/|mod Factor}
	NodeFactor     // Primary [** Primary] | not Primary
	NodePrimary    // Name | literal | ( Expr )
	NodeName       // X | X(Range)
	NodeRange      // SimpleExpr [.. SimpleExpr]

	// NodeToken marks token leaves in a built Node tree; no event carries it
	NodeToken
)

var nodeNames = [...]string{
	NodeProcedure:  "Procedure",
	NodeProcBody:   "ProcBody",
	NodeDeclPart:   "DeclPart",
	NodeDeclStmt:   "DeclStmt",
	NodeType:       "Type",
	NodeStmtList:   "StmtList",
	NodeAssignStmt: "AssignStmt",
	NodePrintStmt:  "PrintStmt",
	NodeGetStmt:    "GetStmt",
	NodeIfStmt:     "IfStmt",
	NodeExpr:       "Expr",
	NodeRelation:   "Relation",
	NodeSimpleExpr: "SimpleExpr",
	NodeSTerm:      "STerm",
	NodeTerm:       "Term",
	NodeFactor:     "Factor",
	NodePrimary:    "Primary",
	NodeName:       "Name",
	NodeRange:      "Range",
	NodeToken:      "Token",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeNames) {
		return nodeNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is a materialized view of the event stream
type Node struct {
	Kind     NodeKind
	Token    lexer.Token // Set when Kind is NodeToken
	Children []*Node
}

// Root rebuilds the node tree from the events. It returns nil when no node was opened.
// A tree cut short by an error still yields every node that was opened.
func (t *ParseTree) Root() *Node {
	var root *Node
	var stack []*Node

	for _, ev := range t.Events {
		switch ev.Kind {
		case EventOpen:
			n := &Node{Kind: NodeKind(ev.Data)}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
		case EventClose:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case EventToken:
			if len(stack) == 0 || int(ev.Data) >= len(t.Tokens) {
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &Node{Kind: NodeToken, Token: t.Tokens[ev.Data]})
		}
	}
	return root
}

// Find returns the first node of kind in depth-first order, or nil
func (n *Node) Find(kind NodeKind) *Node {
	if n == nil {
		return nil
	}
	if n.Kind == kind {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(kind); found != nil {
			return found
		}
	}
	return nil
}

// Dump writes an indented rendering of the tree, one node or token per line
func (t *ParseTree) Dump(w io.Writer) error {
	root := t.Root()
	if root == nil {
		return nil
	}
	return dumpNode(w, root, 0)
}

func dumpNode(w io.Writer, n *Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	if n.Kind == NodeToken {
		_, err := fmt.Fprintf(w, "%s%s %q\n", indent, n.Token.Type, n.Token.Lexeme)
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%s\n", indent, n.Kind); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err := dumpNode(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
