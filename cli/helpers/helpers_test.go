package helpers

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCliError(t *testing.T) {
	t.Run("Should include details in the message", func(t *testing.T) {
		err := NewCliError("FILE_NOT_FOUND", "File not found", "history.json").WithContext("path", "history.json")

		assert.Equal(t, "FILE_NOT_FOUND: File not found (history.json)", err.Error())
		assert.Equal(t, "history.json", err.Context["path"])
	})

	t.Run("Should be found through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("run: %w", NewCliError("INVALID_INPUT", "bad input"))

		assert.Contains(t, FormatError(wrapped, OutputFormatJSON), `"error": "bad input"`)
	})
}

func TestFormatError(t *testing.T) {
	t.Run("Should list validation issues", func(t *testing.T) {
		err := NewInvalidHistoryError([]string{"turn[0]: exchange[0]: Missing tool result for call ID: 1"})

		assert.True(t, errors.Is(err, ErrInvalidHistory))
		assert.Equal(t, "message history is invalid: 1 issue", err.Error())
		assert.Contains(t, FormatError(err, OutputFormatText), "Missing tool result for call ID: 1")
		assert.Contains(t, FormatError(err, OutputFormatJSON), `"issues": [`)
	})

	t.Run("Should write nothing for nil errors", func(t *testing.T) {
		var buf bytes.Buffer
		OutputError(&buf, nil, OutputFormatText)
		assert.Empty(t, buf.String())
	})
}

func TestParseOutputFormat(t *testing.T) {
	t.Run("Should default to JSON", func(t *testing.T) {
		format, err := ParseOutputFormat("")
		require.NoError(t, err)
		assert.Equal(t, OutputFormatJSON, format)
	})

	t.Run("Should reject unknown formats", func(t *testing.T) {
		_, err := ParseOutputFormat("table")
		var cliErr *CliError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, "INVALID_FORMAT", cliErr.Code)
	})
}

func TestParseMessageDialect(t *testing.T) {
	t.Run("Should default to the native encoding", func(t *testing.T) {
		dialect, err := ParseMessageDialect("")
		require.NoError(t, err)
		assert.Equal(t, DialectNative, dialect)
	})

	t.Run("Should accept langchain", func(t *testing.T) {
		dialect, err := ParseMessageDialect("langchain")
		require.NoError(t, err)
		assert.Equal(t, DialectLangChain, dialect)
	})
}

func TestParseList(t *testing.T) {
	t.Run("Should split and trim comma separated values", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b", "c"}, ParseList([]string{" a ,b", "", "c,"}))
		assert.Nil(t, ParseList(nil))
	})
}

func TestOutputWriter(t *testing.T) {
	data := map[string]any{"removedTools": []string{"getPage"}, "fastPath": false}

	t.Run("Should write indented JSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutputWriter(&buf, OutputFormatJSON).WriteData(data))
		assert.Contains(t, buf.String(), `"fastPath": false`)
	})

	t.Run("Should write YAML", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewOutputWriter(&buf, OutputFormatYAML).WriteData(data))
		assert.Contains(t, buf.String(), "fastPath: false")
		assert.Contains(t, buf.String(), "- getPage")
	})

	t.Run("Should reject unsupported formats", func(t *testing.T) {
		assert.Error(t, NewOutputWriter(&bytes.Buffer{}, OutputFormatText).WriteData(data))
	})
}

func TestReadInput(t *testing.T) {
	t.Run("Should read stdin for a dash", func(t *testing.T) {
		data, err := ReadInput(t.Context(), "-", strings.NewReader("[]"))
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	})

	t.Run("Should report missing files", func(t *testing.T) {
		_, err := ReadInput(t.Context(), filepath.Join(t.TempDir(), "absent.json"), nil)
		var cliErr *CliError
		require.ErrorAs(t, err, &cliErr)
		assert.Equal(t, "FILE_NOT_FOUND", cliErr.Code)
	})
}
