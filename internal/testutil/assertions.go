package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertLogged checks that a text-format log line with the given message
// was written during the run.
func AssertLogged(t *testing.T, result *HarnessResult, message string) {
	t.Helper()

	expected := fmt.Sprintf("msg=%q", message)
	require.True(t,
		strings.Contains(result.LogOutput, expected),
		"expected log message %q was not found in logs", message,
	)
}
