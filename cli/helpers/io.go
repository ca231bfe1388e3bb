package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/compozy/ctxkeeper/pkg/logger"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
)

// OutputWriter handles different output formats
type OutputWriter struct {
	writer io.Writer
	format OutputFormat
}

// NewOutputWriter creates a new output writer
func NewOutputWriter(writer io.Writer, format OutputFormat) *OutputWriter {
	return &OutputWriter{
		writer: writer,
		format: format,
	}
}

// WriteData writes data in the specified format
func (ow *OutputWriter) WriteData(data any) error {
	switch ow.format {
	case OutputFormatJSON:
		return ow.writeJSON(data)
	case OutputFormatYAML:
		return ow.writeYAML(data)
	default:
		return fmt.Errorf("unsupported output format: %s", ow.format)
	}
}

func (ow *OutputWriter) writeJSON(data any) error {
	encoder := json.NewEncoder(ow.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// writeYAML goes through JSON first so custom JSON marshalers, like message
// content, shape the YAML too.
func (ow *OutputWriter) writeYAML(data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	out, err := yaml.JSONToYAML(raw)
	if err != nil {
		return fmt.Errorf("failed to convert output to YAML: %w", err)
	}
	_, err = ow.writer.Write(out)
	return err
}

// ReadInput reads input from stdin ("" or "-") or from a file
func ReadInput(ctx context.Context, source string, stdin io.Reader) ([]byte, error) {
	log := logger.FromContext(ctx)
	switch source {
	case "", "-":
		if isTerminal(stdin) {
			return nil, NewCliError("NO_INPUT", "No input file given and stdin is a terminal", "pass a file or pipe JSON into stdin")
		}
		log.Debug("reading from stdin")
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, NewCliError("STDIN_READ_ERROR", "Failed to read standard input", err.Error())
		}
		return data, nil
	default:
		log.Debug("reading from file", "file", source)
		return ReadFile(source)
	}
}

// ReadFile reads a file with enhanced error handling
func ReadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, NewCliError("INVALID_PATH", "File path cannot be empty")
	}
	if !FileExists(path) {
		return nil, NewCliError("FILE_NOT_FOUND", fmt.Sprintf("File not found: %s", path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewCliError("FILE_READ_ERROR", fmt.Sprintf("Failed to read file: %s", path), err.Error())
	}
	return data, nil
}

// FileExists reports whether path names an existing regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
