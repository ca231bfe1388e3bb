package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// CliError represents a CLI-specific error with enhanced context
type CliError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   string         `json:"details,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func (e *CliError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewCliError creates a new CLI error with context
func NewCliError(code, message string, details ...string) *CliError {
	err := &CliError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Context:   make(map[string]any),
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// WithContext adds context to the error
func (e *CliError) WithContext(key string, value any) *CliError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// FormatError renders err for the given output format.
func FormatError(err error, format OutputFormat) string {
	if err == nil {
		return ""
	}
	if format == OutputFormatJSON {
		return formatErrorJSON(err)
	}
	return formatErrorText(err)
}

func formatErrorJSON(err error) string {
	message, details := extractErrorInfo(err)
	payload := map[string]any{"error": message, "details": details}
	var invalid *InvalidHistoryError
	if errors.As(err, &invalid) {
		payload["issues"] = invalid.Issues
	}
	jsonBytes, marshalErr := json.MarshalIndent(payload, "", "  ")
	if marshalErr != nil {
		return `{"error": "JSON marshaling failed", "details": ""}`
	}
	return string(jsonBytes)
}

func formatErrorText(err error) string {
	message, details := extractErrorInfo(err)
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF6B6B")).
		Bold(true)
	result := style.Render(message)
	if details != "" {
		detailStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)
		result += "\n" + detailStyle.Render(fmt.Sprintf("Details: %s", details))
	}
	var invalid *InvalidHistoryError
	if errors.As(err, &invalid) {
		for _, issue := range invalid.Issues {
			result += "\n  - " + issue
		}
	}
	return result
}

func extractErrorInfo(err error) (message, details string) {
	var cliErr *CliError
	if errors.As(err, &cliErr) {
		return cliErr.Message, cliErr.Details
	}
	return err.Error(), ""
}

// OutputError writes err to w in the appropriate format
func OutputError(w io.Writer, err error, format OutputFormat) {
	if err == nil {
		return
	}
	fmt.Fprintln(w, FormatError(err, format))
}

// Pluralize returns the singular or plural form based on count
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// ParseList splits a comma separated flag value, dropping blanks.
func ParseList(values []string) []string {
	var out []string
	for _, value := range values {
		for item := range strings.SplitSeq(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}
