package cli

import (
	"context"
	"fmt"

	"github.com/compozy/ctxkeeper/cli/helpers"
	llmadapter "github.com/compozy/ctxkeeper/engine/llm/adapter"
	"github.com/compozy/ctxkeeper/engine/llm/contextmgr"
	contextmetrics "github.com/compozy/ctxkeeper/engine/llm/contextmgr/metrics"
	"github.com/compozy/ctxkeeper/engine/llm/tokens"
	"github.com/compozy/ctxkeeper/engine/memory/workingmem"
	"github.com/compozy/ctxkeeper/pkg/config"
	"github.com/compozy/ctxkeeper/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/llms"
	"go.opentelemetry.io/otel"
)

const meterName = "github.com/compozy/ctxkeeper"

type trimOptions struct {
	format      string
	dialect     string
	activeTools []string
	session     string
}

// toolStore is the store surface the CLI drives: seeding plus what the
// trimmer needs.
type toolStore interface {
	contextmgr.ToolStore
	AddTools(ctx context.Context, names []string) error
}

// TrimCmd returns the trim command
func TrimCmd() *cobra.Command {
	opts := &trimOptions{}
	cmd := &cobra.Command{
		Use:   "trim [file|-]",
		Short: "Trim a JSON message history to the configured budget",
		Long: `Read a JSON array of messages, drop invalid and excess turns, and print the
trimmed history together with the tools that were deactivated.

Tool activation state lives in memory (seeded with --active-tools) unless
--redis-addr is given, in which case the Redis set for --session is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrim(cmd, args, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", string(helpers.OutputFormatJSON), "Output format (json, yaml)")
	flags.StringVar(&opts.dialect, "dialect", string(helpers.DialectNative), "Message encoding for input and output (native, langchain)")
	flags.StringSliceVar(&opts.activeTools, "active-tools", nil, "Tools currently active for the session")
	flags.StringVar(&opts.session, "session", "", "Session whose tool set is stored in Redis")
	flags.Int("max-messages", contextmgr.DefaultMaxMessages, "Message budget, system message included")
	flags.Int("min-turns-to-keep", contextmgr.DefaultMinTurnsToKeep, "Turns always kept, even over budget")
	flags.Int("preserve-recent", contextmgr.DefaultPreserveRecent, "Trailing messages that keep tool payloads")
	flags.Bool("count-tokens", false, "Report token totals before and after trimming")
	flags.String("encoding", tokens.DefaultEncoding, "Tiktoken encoding used with --count-tokens")
	flags.String("redis-addr", "", "Redis address for the tool store")
	flags.Int("redis-db", 0, "Redis database")
	flags.String("redis-prefix", workingmem.DefaultKeyPrefix, "Redis key prefix")
	return cmd
}

func runTrim(cmd *cobra.Command, args []string, opts *trimOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	format, err := helpers.ParseOutputFormat(opts.format)
	if err != nil {
		return err
	}
	dialect, err := helpers.ParseMessageDialect(opts.dialect)
	if err != nil {
		return err
	}
	messages, err := readMessages(ctx, cmd, args, dialect)
	if err != nil {
		return err
	}
	store, closeStore, err := openToolStore(ctx, cfg, opts)
	if err != nil {
		return err
	}
	defer closeStore()
	trimmer, err := contextmgr.NewTrimmer(contextConfig(cfg), store, trimmerOptions(ctx, cfg)...)
	if err != nil {
		return helpers.NewCliError("INVALID_CONFIG", "Invalid context configuration", err.Error())
	}
	result, err := trimmer.TrimContext(ctx, messages)
	if err != nil {
		return helpers.NewCliError("TRIM_FAILED", "Failed to trim message history", err.Error())
	}
	logger.FromContext(ctx).Info(
		"Trimmed message history",
		"messages_removed", result.MessagesRemoved,
		"turns_removed", result.TurnsRemoved,
		"invalid_turns_removed", result.InvalidTurnsRemoved,
		"removed_tools", result.RemovedTools,
	)
	writer := helpers.NewOutputWriter(cmd.OutOrStdout(), format)
	if dialect == helpers.DialectLangChain {
		return writer.WriteData(langChainTrimResult{
			TrimResult: result,
			Messages:   llmadapter.ToLangChain(result.Messages),
		})
	}
	return writer.WriteData(result)
}

// langChainTrimResult is a TrimResult whose messages use langchaingo's encoding.
type langChainTrimResult struct {
	*contextmgr.TrimResult
	Messages []llms.MessageContent `json:"messages"`
}

func readMessages(
	ctx context.Context,
	cmd *cobra.Command,
	args []string,
	dialect helpers.MessageDialect,
) ([]llmadapter.Message, error) {
	source := "-"
	if len(args) > 0 {
		source = args[0]
	}
	data, err := helpers.ReadInput(ctx, source, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	decode := llmadapter.DecodeMessages
	if dialect == helpers.DialectLangChain {
		decode = llmadapter.DecodeLangChainMessages
	}
	messages, err := decode(data)
	if err != nil {
		return nil, helpers.NewCliError("INVALID_INPUT", "Input is not a JSON message array", err.Error())
	}
	return messages, nil
}

func contextConfig(cfg *config.Config) contextmgr.Config {
	return contextmgr.Config{
		MaxMessages:    cfg.Context.MaxMessages,
		MinTurnsToKeep: cfg.Context.MinTurnsToKeep,
		PreserveRecent: cfg.Context.PreserveRecent,
	}
}

func trimmerOptions(ctx context.Context, cfg *config.Config) []contextmgr.Option {
	log := logger.FromContext(ctx)
	var opts []contextmgr.Option
	recorder, err := contextmetrics.NewRecorder(otel.Meter(meterName))
	if err != nil {
		log.Warn("Context metrics disabled", "error", err)
	} else {
		opts = append(opts, contextmgr.WithRecorder(recorder))
	}
	if cfg.Tokens.Enabled {
		counter, err := tokens.NewTiktokenCounter(cfg.Tokens.Encoding)
		if err != nil {
			log.Warn("Token counting disabled", "encoding", cfg.Tokens.Encoding, "error", err)
		} else {
			log.Debug("Token counting enabled", "encoding", counter.GetEncoding())
			opts = append(opts, contextmgr.WithTokenCounter(counter))
		}
	}
	return opts
}

func openToolStore(ctx context.Context, cfg *config.Config, opts *trimOptions) (toolStore, func(), error) {
	active := helpers.ParseList(opts.activeTools)
	if cfg.Redis.Addr == "" {
		return workingmem.NewMemoryStore(active...), func() {}, nil
	}
	if opts.session == "" {
		return nil, nil, helpers.NewCliError("MISSING_SESSION", "--session is required with a Redis tool store")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password.Value(),
		DB:       cfg.Redis.DB,
	})
	closeClient := func() {
		if err := client.Close(); err != nil {
			logger.FromContext(ctx).Warn("Failed to close Redis client", "error", err)
		}
	}
	if err := client.Ping(ctx).Err(); err != nil {
		closeClient()
		return nil, nil, helpers.NewCliError(
			"REDIS_UNAVAILABLE",
			fmt.Sprintf("Cannot reach Redis at %s", cfg.Redis.Addr),
			err.Error(),
		)
	}
	store, err := workingmem.NewRedisStore(
		client,
		opts.session,
		workingmem.WithKeyPrefix(cfg.Redis.Prefix),
		workingmem.WithTTL(cfg.Redis.TTL),
	)
	if err != nil {
		closeClient()
		return nil, nil, helpers.NewCliError("INVALID_SESSION", "Cannot open the session tool store", err.Error())
	}
	if err := store.AddTools(ctx, active); err != nil {
		closeClient()
		return nil, nil, helpers.NewCliError("REDIS_UNAVAILABLE", "Failed to seed active tools", err.Error())
	}
	return store, closeClient, nil
}
