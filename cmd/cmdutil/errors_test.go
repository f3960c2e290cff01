package cmdutil

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteUsageError(t *testing.T) {
	var out bytes.Buffer

	err := WriteUsageError(&out, &UsageError{Message: "Usage: sourcedb query @/path/to/list.txt"})

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, UsageExitCode, exitErr.Code)
	assert.Equal(t, "{\n  \"error\": \"Usage: sourcedb query @/path/to/list.txt\"\n}\n", out.String())
}

func TestWriteJSON_Compact(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, WriteJSON(&out, map[string]int{"b": 2, "a": 1}, false))

	assert.Equal(t, "{\"a\":1,\"b\":2}\n", out.String())
}

func TestExitError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &ExitError{Code: 1, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, "exit status 2", (&ExitError{Code: 2}).Error())
}
