package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aledsdavies/adacheck/pkgs/config"
	checkerrors "github.com/aledsdavies/adacheck/pkgs/errors"
	"github.com/aledsdavies/adacheck/pkgs/lexer"
	"github.com/aledsdavies/adacheck/pkgs/parser"
)

// checker runs one check with fixed settings
type checker struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	out    io.Writer
}

// checkInput checks the named file, or standard input for "-".
// The error is only for input that could not be read.
func (c *checker) checkInput(file string) (bool, error) {
	reader, closeFunc, err := c.inputReader(file)
	if err != nil {
		return false, err
	}
	defer func() { _ = closeFunc() }()

	return c.check(reader), nil
}

// check parses the procedure in r and prints the summary
func (c *checker) check(r io.Reader) bool {
	lex := lexer.New(r, lexer.WithLogger(c.logger))
	tree := parser.Parse(lex,
		parser.WithOutput(c.out),
		parser.WithLogger(c.logger),
		parser.WithSuggestions(c.cfg.Check.Suggestions),
	)

	if c.cfg.Check.Tree {
		if err := tree.Dump(c.out); err != nil {
			c.logger.Warn("tree dump failed", slog.String("error", err.Error()))
		}
	}

	if tree.Accepted {
		fmt.Fprintln(c.out, "Successful Parsing")
		return true
	}

	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, "Unsuccessful Parsing")
	fmt.Fprintf(c.out, "Number of Syntax Errors %d\n", tree.ErrorCount())
	return false
}

// inputReader handles the 2 modes of input:
// 1. Standard input with "-" (also used when no file is given)
// 2. File input
func (c *checker) inputReader(file string) (io.Reader, func() error, error) {
	if file == "-" {
		if !hasPipedInput(c.stdin) {
			c.logger.Info("reading procedure from terminal, end with Ctrl-D")
		}
		return c.stdin, func() error { return nil }, nil
	}

	f, err := os.Open(file)
	if os.IsNotExist(err) {
		return nil, nil, checkerrors.NewFileNotFoundError(file)
	}
	if err != nil {
		return nil, nil, checkerrors.NewInputError(file, err)
	}
	return f, f.Close, nil
}

// hasPipedInput detects if there's data piped to stdin.
// Readers that are not files always count as piped.
func hasPipedInput(stdin io.Reader) bool {
	f, ok := stdin.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	// Pipes may not report a size, so only the character-device bit is checked
	return (stat.Mode() & os.ModeCharDevice) == 0
}
