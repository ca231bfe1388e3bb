package cli

import (
	"github.com/compozy/ctxkeeper/cli/helpers"
	"github.com/compozy/ctxkeeper/engine/llm/contextmgr"
	"github.com/compozy/ctxkeeper/pkg/logger"
	"github.com/spf13/cobra"
)

// ValidateCmd returns the validate command
func ValidateCmd() *cobra.Command {
	var format, dialect string
	cmd := &cobra.Command{
		Use:   "validate [file|-]",
		Short: "Check a JSON message history for tool pairing problems",
		Long: `Parse a JSON array of messages into turns and report every orphaned message
and every tool call without a matching result. Exits non-zero when the history
is invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := helpers.ParseOutputFormat(format)
			if err != nil {
				return err
			}
			messageDialect, err := helpers.ParseMessageDialect(dialect)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			messages, err := readMessages(ctx, cmd, args, messageDialect)
			if err != nil {
				return err
			}
			report, err := contextmgr.ValidateMessages(ctx, messages)
			if err != nil {
				return helpers.NewCliError("VALIDATION_FAILED", "Failed to validate message history", err.Error())
			}
			if err := helpers.NewOutputWriter(cmd.OutOrStdout(), outputFormat).WriteData(report); err != nil {
				return err
			}
			if !report.IsValid {
				logger.FromContext(ctx).Debug("Rejecting invalid history", "invalid_turns", report.InvalidTurns)
				return helpers.NewInvalidHistoryError(report.Issues)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(helpers.OutputFormatJSON), "Output format (json, yaml)")
	cmd.Flags().StringVar(&dialect, "dialect", string(helpers.DialectNative), "Message encoding of the input (native, langchain)")
	return cmd
}
