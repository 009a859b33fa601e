package main

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
)

func TestFailureLinesNeverSignedIn(t *testing.T) {
	lines := failureLines(fmt.Errorf("grades: %w", appErrors.ErrNotAuthenticated))
	assert.Equal(t, []string{appErrors.MsgSignInRequired, "Run `gradebook login` to sign in."}, lines)
}

func TestFailureLinesExpiredSession(t *testing.T) {
	lines := failureLines(appErrors.ErrUnauthorized)
	assert.Equal(t, appErrors.MsgSessionExpired, lines[0])
	assert.Len(t, lines, 2)
}

func TestFailureLinesNetwork(t *testing.T) {
	lines := failureLines(appErrors.FromTransport(fmt.Errorf("dial tcp: connection refused")))
	assert.Equal(t, []string{appErrors.MsgServiceUnavailable}, lines)
}

func TestFailExitCodes(t *testing.T) {
	var errOut bytes.Buffer
	a := &app{logger: zap.NewNop(), errOut: &errOut}

	assert.Equal(t, 1, a.fail(appErrors.ErrNotAuthenticated))
	assert.Equal(t, "Sign in required.\nRun `gradebook login` to sign in.\n", errOut.String())

	errOut.Reset()
	assert.Equal(t, 130, a.fail(context.Canceled))
	assert.Equal(t, "cancelled\n", errOut.String())
}
