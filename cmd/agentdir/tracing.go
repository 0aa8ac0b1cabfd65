package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/summon-ai/agentdir/pkg/telemetry"
	"github.com/summon-ai/agentdir/pkg/version"
)

// initTracing initializes the OpenTelemetry tracing system
func initTracing(ctx context.Context, cfg *AppConfig) (func(context.Context) error, error) {
	tracing := cfg.Tracing
	tracing.ServiceName = "agentdir"
	tracing.ServiceVersion = version.Get().Version

	shutdown, err := telemetry.Init(ctx, tracing)
	if err != nil {
		return nil, err
	}
	return shutdown, nil
}

// withTracing wraps a cobra command's RunE in a "cli.command" span
func withTracing(cmd *cobra.Command) *cobra.Command {
	originalRunE := cmd.RunE

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		attrs := []attribute.KeyValue{
			attribute.String("command.name", cmd.Name()),
			attribute.String("command.path", cmd.CommandPath()),
			attribute.Int("args.count", len(args)),
		}
		cmd.Flags().Visit(func(flag *pflag.Flag) {
			attrs = append(attrs, attribute.String("flag."+flag.Name, flag.Value.String()))
		})

		ctx, span := telemetry.Tracer().Start(cmd.Context(), "cli.command", trace.WithAttributes(attrs...))
		defer span.End()
		cmd.SetContext(ctx)

		if err := originalRunE(cmd, args); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		span.SetStatus(codes.Ok, "")
		return nil
	}

	return cmd
}

func init() {
	rootCmd.PersistentFlags().Bool("tracing-enabled", false, "Enable OpenTelemetry tracing")
	rootCmd.PersistentFlags().String("tracing-sampler", "ratio", "Tracing sampler type (always, never, ratio)")
	rootCmd.PersistentFlags().Float64("tracing-ratio", 1, "Sampling ratio when using ratio sampler")

	viper.BindPFlag("tracing.enabled", rootCmd.PersistentFlags().Lookup("tracing-enabled"))
	viper.BindPFlag("tracing.sampler", rootCmd.PersistentFlags().Lookup("tracing-sampler"))
	viper.BindPFlag("tracing.ratio", rootCmd.PersistentFlags().Lookup("tracing-ratio"))
}
