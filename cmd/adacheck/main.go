package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/adacheck/pkgs/config"
	checkerrors "github.com/aledsdavies/adacheck/pkgs/errors"
)

// Exit code constants
const (
	ExitAccepted = 0 // Procedure parsed cleanly
	ExitRejected = 1 // Diagnostics were reported
	ExitError    = 2 // Input, usage or watch failure
	ExitConfig   = 3 // Configuration file could not be decoded or validated
)

// debugEnv enables debug logging when set to any non-empty value
const debugEnv = "ADACHECK_DEBUG"

type options struct {
	configPath string
	tree       bool
	noSuggest  bool
	debug      bool
	watch      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs the command line and returns the process exit code
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	code := ExitAccepted
	cmd := newRootCmd(stdin, stdout, stderr, &code)
	// cobra falls back to os.Args for a nil slice
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		reportError(stderr, err)
		return exitCode(err)
	}
	return code
}

// exitCode maps a driver error to the process exit code
func exitCode(err error) int {
	if checkerrors.IsErrorType(err, checkerrors.ErrConfigParse) || checkerrors.IsErrorType(err, checkerrors.ErrConfigInvalid) {
		return ExitConfig
	}
	return ExitError
}

// reportError prints err, followed by a hint when its context says how to fix it
func reportError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var checkErr *checkerrors.CheckError
	if !errors.As(err, &checkErr) {
		return
	}
	if _, ok := checkErr.GetContext("level"); ok {
		fmt.Fprintf(w, "hint: log level must be one of %s\n", strings.Join(config.LevelNames(), ", "))
	}
	if path, ok := checkErr.GetContext("path"); ok && exitCode(err) == ExitConfig {
		fmt.Fprintf(w, "hint: fix or remove %v\n", path)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer, code *int) *cobra.Command {
	var opts options

	rootCmd := &cobra.Command{
		Use:   "adacheck [file]",
		Short: "Check the syntax of a procedure",
		Long: `adacheck parses a single procedure and reports the first syntax error
together with the constructs that enclose it. With no file, or with "-",
the procedure is read from standard input.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			file := "-"
			if len(args) == 1 {
				file = args[0]
			}

			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			c := &checker{
				cfg:    cfg,
				logger: newLogger(stderr, cfg.Log.SlogLevel()),
				stdin:  stdin,
				out:    stdout,
			}

			if opts.watch {
				if file == "-" {
					return checkerrors.New(checkerrors.ErrWatch, "--watch needs a file argument")
				}
				return watch(cmd.Context(), file, c)
			}

			result, err := c.checkInput(file)
			if err != nil {
				return err
			}
			if !result {
				*code = ExitRejected
			}
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (default ./"+config.DefaultFile+" if present)")
	rootCmd.Flags().BoolVar(&opts.tree, "tree", false, "Print the parse tree after checking")
	rootCmd.Flags().BoolVar(&opts.noSuggest, "no-suggest", false, "Disable \"did you mean\" suggestions")
	rootCmd.Flags().BoolVar(&opts.debug, "debug", false, "Trace every grammar production on stderr")
	rootCmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-check the file whenever it changes")

	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd
}

// loadConfig reads the configuration file and applies command-line overrides
func loadConfig(cmd *cobra.Command, opts options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadDefault(".")
	}
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("tree") {
		cfg.Check.Tree = opts.tree
	}
	if opts.noSuggest {
		cfg.Check.Suggestions = false
	}
	if opts.debug || os.Getenv(debugEnv) != "" {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// newLogger creates the stderr logger, without timestamps or levels
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}
