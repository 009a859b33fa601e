package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-gradebook/pkg/config"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/logger"
	"github.com/noah-isme/sma-gradebook/pkg/middleware/requestid"
	"github.com/noah-isme/sma-gradebook/pkg/observability"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}

	rootFlags := flag.NewFlagSet("gradebook", flag.ContinueOnError)
	apiURL := rootFlags.String("api-url", cfg.API.BaseURL, "base URL of the grade API")
	timeout := rootFlags.Duration("timeout", cfg.API.Timeout, "request timeout")
	logLevel := rootFlags.String("log-level", cfg.Log.Level, "diagnostic log level (debug, info, warn, error)")

	// commands are bound to a after flags are parsed
	a := &app{}
	root := &ffcli.Command{
		ShortUsage: "gradebook [flags] <subcommand>",
		ShortHelp:  "Manage students, subjects, teachers and grades of a school.",
		FlagSet:    rootFlags,
		Options:    []ff.Option{ff.WithEnvVarPrefix("GRADEBOOK")},
		Subcommands: []*ffcli.Command{
			loginCmd(a), logoutCmd(a), whoamiCmd(a), registerCmd(a),
			schoolsCmd(a), studentsCmd(a), subjectsCmd(a), teachersCmd(a), usersCmd(a),
			gradesCmd(a),
		},
	}
	root.Exec = func(context.Context, []string) error {
		fmt.Fprintln(os.Stderr, ffcli.DefaultUsageFunc(root))
		return flag.ErrHelp
	}

	if err := root.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg.API.BaseURL = *apiURL
	cfg.API.Timeout = *timeout
	cfg.Log.Level = *logLevel

	logr, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		return 1
	}
	defer logr.Sync() //nolint:errcheck

	flush, err := observability.InitSentry(cfg.Sentry.DSN, cfg.Env, cfg.Release)
	if err != nil {
		logr.Warn("sentry disabled", zap.Error(err))
	}
	defer flush()

	wired, err := newApp(cfg, logr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		return 1
	}
	*a = *wired
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*cfg.API.Timeout+time.Second)
	defer cancel()

	commandID := requestid.New()
	ctx = requestid.WithContext(ctx, commandID)
	logr.Debug("command", zap.String("request_id", commandID), zap.String("name", commandName(root)))

	if err := root.Run(ctx); err != nil {
		return a.fail(err)
	}
	return 0
}

// fail prints a user-facing message for err and returns the exit code.
func (a *app) fail(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 2
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(a.errOut, "cancelled")
		return 130
	}
	a.logger.Debug("command failed", zap.Error(err))
	for _, line := range failureLines(err) {
		fmt.Fprintln(a.errOut, line)
	}
	return 1
}

// failureLines is what fail prints for err.
func failureLines(err error) []string {
	lines := []string{appErrors.UserMessage(err)}
	if appErrors.IsKind(err, appErrors.KindUnauthorized) {
		lines = append(lines, "Run `gradebook login` to sign in.")
	}
	return lines
}

// commandName returns the first positional argument left after the root
// flags. Flag values are never logged since they may hold passwords.
func commandName(root *ffcli.Command) string {
	if rest := root.FlagSet.Args(); len(rest) > 0 {
		return rest[0]
	}
	return ""
}
