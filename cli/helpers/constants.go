package helpers

import "fmt"

// OutputFormat represents different output formats
type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	// OutputFormatText is only used to render errors for humans.
	OutputFormatText OutputFormat = "text"
)

// ParseOutputFormat validates a --format flag value.
func ParseOutputFormat(value string) (OutputFormat, error) {
	switch format := OutputFormat(value); format {
	case OutputFormatJSON, OutputFormatYAML:
		return format, nil
	case "":
		return OutputFormatJSON, nil
	default:
		return "", NewCliError("INVALID_FORMAT", fmt.Sprintf("unsupported output format: %s", value), "use json or yaml")
	}
}

// MessageDialect names the JSON encoding of a message history.
type MessageDialect string

const (
	DialectNative    MessageDialect = "native"
	DialectLangChain MessageDialect = "langchain"
)

// ParseMessageDialect validates a --dialect flag value.
func ParseMessageDialect(value string) (MessageDialect, error) {
	switch dialect := MessageDialect(value); dialect {
	case DialectNative, DialectLangChain:
		return dialect, nil
	case "":
		return DialectNative, nil
	default:
		return "", NewCliError("INVALID_DIALECT", fmt.Sprintf("unsupported message dialect: %s", value), "use native or langchain")
	}
}
