package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/hpungsan/hookline/internal/config"
	"github.com/hpungsan/hookline/internal/gitctx"
	"github.com/hpungsan/hookline/internal/hook"
	"github.com/hpungsan/hookline/internal/mcp"
	"github.com/hpungsan/hookline/internal/status"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"log": true, "statusline": true, "classify": true, "audit": true,
	"help": true, "h": true,
}

// firstArg returns the first argument that is not a global flag.
func firstArg(args []string) string {
	for _, a := range args[1:] {
		if a == "--verbose" {
			continue
		}
		return a
	}
	return ""
}

// hasVerbose reports whether the global --verbose flag was given.
func hasVerbose(args []string) bool {
	for _, a := range args[1:] {
		if a == "--verbose" {
			return true
		}
	}
	return false
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	arg := firstArg(args)
	if arg == "" {
		return false // No args → MCP server
	}
	if cliCommands[arg] {
		return true
	}
	return isHelpOrVersion(arg)
}

// isHelpOrVersion returns true if arg requests help or version info.
func isHelpOrVersion(arg string) bool {
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
  hookline: audit log + statusline hooks

  Hooks:  hookline log          (PostToolUse, tool event on stdin)
          hookline statusline   (status payload on stdin)

  Usage:  hookline <command> [options]
          hookline --help

  MCP server mode requires piped input.`)
}

func main() {
	args := os.Args

	// No args + interactive terminal → show banner and exit
	if firstArg(args) == "" && isTerminal() {
		printBanner()
		return
	}

	cfg := config.Load(os.Getenv)

	if isCLIMode(args) {
		app := newCLIApp(&env{cfg: cfg})
		if err := app.Run(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if arg := firstArg(args); arg != "" && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", arg)
		fmt.Fprintf(os.Stderr, "Run 'hookline --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default)
	logger := hook.NewLogger(os.Stderr, hasVerbose(args))
	defer logger.Sync() //nolint:errcheck

	renderer := status.New(cfg, gitctx.NewExecReader(""), logger)
	if err := mcp.Run(cfg, renderer, logger, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
