package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"github.com/MasterOfBinary/framebatch/batch"
	"github.com/MasterOfBinary/framebatch/internal/config"
	"github.com/MasterOfBinary/framebatch/processor"
	"github.com/MasterOfBinary/framebatch/promstats"
	"github.com/MasterOfBinary/framebatch/tick"
)

var errSimulated = errors.New("simulated failure")

type runOptions struct {
	configPath   string
	items        int
	cost         time.Duration
	fps          float64
	batchMode    bool
	initial      float64
	logLevel     string
	tickKind     string
	tickFPS      float64
	failAt       int
	abortAfter   time.Duration
	metrics      bool
	otlpEndpoint string
}

func runCmd() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process synthetic items of a fixed cost on a frame clock",
		Long: `Run schedules --items synthetic items, each costing --cost, over the
ticks of a frame loop or timer. Batches are sized so that no tick spends more
than 1000/fps milliseconds processing. Flags override the config file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return simulate(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	f.IntVar(&opts.items, "items", 1000, "number of items to process")
	f.DurationVar(&opts.cost, "cost", time.Millisecond, "simulated cost of one item")
	f.Float64Var(&opts.fps, "fps", batch.DefaultTargetFPS, "target frame rate batches are sized for")
	f.BoolVar(&opts.batchMode, "batch-mode", false, "process each batch in one call instead of item by item")
	f.Float64Var(&opts.initial, "initial-interval", batch.InitialIntervalPerItem, "initial cost guess in milliseconds per item")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	f.StringVar(&opts.tickKind, "tick", config.TickLoop, "tick source (loop or timer)")
	f.Float64Var(&opts.tickFPS, "tick-fps", 60, "rate of the tick source")
	f.IntVar(&opts.failAt, "fail-at", -1, "fail the batch containing this item position")
	f.DurationVar(&opts.abortAfter, "abort-after", 0, "abort the run after this long")
	f.BoolVar(&opts.metrics, "metrics", false, "print Prometheus metrics when done")
	f.StringVar(&opts.otlpEndpoint, "otlp-endpoint", "", "export batch spans to this OTLP/HTTP endpoint")

	return cmd
}

// loadConfig reads the config file, if any, and applies the flags that
// were set explicitly.
func loadConfig(cmd *cobra.Command, opts *runOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	f := cmd.Flags()
	if f.Changed("fps") {
		cfg.TargetFPS = opts.fps
	}
	if f.Changed("batch-mode") {
		cfg.BatchMode = opts.batchMode
	}
	if f.Changed("initial-interval") {
		cfg.InitialIntervalPerItem = opts.initial
	}
	if f.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if f.Changed("tick") {
		cfg.Tick.Kind = opts.tickKind
	}
	if f.Changed("tick-fps") {
		cfg.Tick.FPS = opts.tickFPS
	}

	if opts.items < 0 {
		return nil, fmt.Errorf("--items cannot be negative, got %d", opts.items)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func simulate(ctx context.Context, out, errOut io.Writer, cfg *config.Config, opts *runOptions) error {
	logger := zerolog.New(zerolog.ConsoleWriter{
		Out:        errOut,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}).
		Level(cfg.Level()).
		With().
		Timestamp().
		Logger()

	tracer, shutdown, err := newTracer(ctx, opts.otlpEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("trace exporter shutdown failed")
		}
	}()

	collector := promstats.NewCollector("")
	reg := prometheus.NewRegistry()
	reg.MustRegister(collector)

	tickCtx, stopTicks := context.WithCancel(ctx)
	g, gCtx := errgroup.WithContext(tickCtx)
	ticker := newTicker(gCtx, g, cfg.Tick)
	defer func() {
		stopTicks()
		_ = g.Wait()
	}()

	values := cfg.ToValues()
	s := batch.New(ticker, batch.NewConstantConfig(&values)).
		WithLogger(batch.NewZerologLogger(logger)).
		WithStats(collector).
		WithProgress(func(p batch.Progress) {
			logger.Trace().
				Str("run", p.RunID.String()).
				Int("processed", p.Processed).
				Int("total", p.Total).
				Float64("percent", p.PercentComplete()).
				Dur("remaining", p.EstimatedTimeRemaining()).
				Msg("progress")
		})

	items := make([]int, opts.items)
	for i := range items {
		items[i] = i
	}

	var calls atomic.Int64
	fn := workload(cfg.BatchMode, opts.cost, &calls)
	if opts.failAt >= 0 {
		fn = processor.FailAt(fn, opts.failAt, errSimulated)
	}
	fn = processor.WrapWithTracing(fn, tracer, "framebatch.simulate")

	outcomes := make(chan batch.Outcome[int], 1)
	h := batch.MapBatch(s, items, fn, func(o batch.Outcome[int]) {
		outcomes <- o
	})

	if opts.abortAfter > 0 {
		timer := time.AfterFunc(opts.abortAfter, func() {
			_ = h.Abort()
		})
		defer timer.Stop()
	}

	var outcome batch.Outcome[int]
	select {
	case outcome = <-outcomes:
	case <-ctx.Done():
		_ = h.Abort()
		outcome = <-outcomes
	}

	printSummary(out, h, outcome, collector.GetStats(), calls.Load())

	if opts.metrics {
		if err := writeMetrics(out, reg); err != nil {
			return err
		}
	}

	if errors.Is(outcome.Err, batch.ErrAborted) {
		return nil
	}
	return outcome.Err
}

// workload returns a function that spends cost per item and counts its
// invocations in calls. In batch mode the whole batch is one call; otherwise
// items go through the single-item adapter one at a time.
func workload(batchMode bool, cost time.Duration, calls *atomic.Int64) batch.BatchFunc[int, int] {
	if batchMode {
		whole := processor.Nil[int](cost)
		return func(ctx context.Context, items []int, done func([]int, error)) {
			calls.Add(1)
			whole(ctx, items, done)
		}
	}
	return batch.Sequential(batch.Sync(func(n int) (int, error) {
		calls.Add(1)
		if cost > 0 {
			time.Sleep(cost)
		}
		return n, nil
	}))
}

// newTicker returns a timer ticker, or a frame loop running in g until ctx
// is canceled.
func newTicker(ctx context.Context, g *errgroup.Group, cfg config.TickConfig) batch.Ticker {
	if cfg.Kind == config.TickTimer {
		return tick.NewTimer(time.Duration(float64(time.Second) / cfg.FPS))
	}

	loop := tick.NewLoop(cfg.FPS)
	g.Go(func() error {
		return loop.Run(ctx)
	})
	return loop
}

// newTracer returns a no-op tracer unless an OTLP endpoint is given.
func newTracer(ctx context.Context, endpoint string) (trace.Tracer, func(context.Context) error, error) {
	if endpoint == "" {
		return noop.NewTracerProvider().Tracer("framebatch"), func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return nil, nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	return tp.Tracer("framebatch"), tp.Shutdown, nil
}

func printSummary(w io.Writer, h *batch.Handle, o batch.Outcome[int], stats batch.Stats, calls int64) {
	result := batch.RunSucceeded
	switch {
	case errors.Is(o.Err, batch.ErrAborted):
		result = batch.RunAborted
	case o.Err != nil:
		result = batch.RunFailed
	}

	fmt.Fprintf(w, "run:               %s\n", h.ID())
	fmt.Fprintf(w, "result:            %s\n", result)
	if o.Err != nil {
		fmt.Fprintf(w, "error:             %v\n", o.Err)
	}
	fmt.Fprintf(w, "items:             %d\n", stats.ItemsProcessed)
	fmt.Fprintf(w, "batches:           %d\n", o.Meta.Batches)
	fmt.Fprintf(w, "function calls:    %d\n", calls)
	fmt.Fprintf(w, "interval per item: %.3fms\n", o.Meta.IntervalPerItem)
	fmt.Fprintf(w, "batch size:        %d\n", o.Meta.BatchSize)
	fmt.Fprintf(w, "average batch:     %.1f items, %v\n", stats.AverageBatchSize(), stats.AverageBatchTime())
	fmt.Fprintf(w, "elapsed:           %v\n", o.Meta.Elapsed)
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding metrics: %w", err)
		}
	}
	return nil
}
