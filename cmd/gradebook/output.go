package main

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/noah-isme/sma-gradebook/internal/service"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

func newFlags(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

// usageError reports a malformed invocation.
func usageError(usage string) error {
	return appErrors.WithMessages(appErrors.ErrValidation, "usage: "+usage)
}

func needArgs(args []string, n int, usage string) error {
	if len(args) != n {
		return usageError(usage)
	}
	return nil
}

// parseScores reads each argument as a score typed by the user.
func parseScores(args []string) ([]float64, error) {
	scores := make([]float64, 0, len(args))
	for _, raw := range args {
		v, err := service.ParseScore(raw)
		if err != nil {
			return nil, appErrors.WithMessages(appErrors.ErrInvalidScore, fmt.Sprintf("%q: %s", raw, appErrors.ErrInvalidScore.Message))
		}
		scores = append(scores, v)
	}
	return scores, nil
}

func parseIndex(raw string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, appErrors.WithMessages(appErrors.ErrValidation, fmt.Sprintf("%q is not a score position", raw))
	}
	return idx, nil
}

// optional returns a pointer for flags the user actually set.
func optional(fs *flag.FlagSet, name, value string) *string {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	if !set {
		return nil
	}
	return &value
}

func table(w io.Writer, header []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}
