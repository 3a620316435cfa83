package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChristianF88/rargsort/bench"
	"github.com/ChristianF88/rargsort/config"
	"github.com/ChristianF88/rargsort/ingestor"
	"github.com/ChristianF88/rargsort/output"
	"github.com/ChristianF88/rargsort/radix"
	"github.com/ChristianF88/rargsort/tui"
)

// stdout receives every result document
var stdout io.Writer = os.Stdout

// livePollInterval is how often live mode drains the ingestor
const livePollInterval = 500 * time.Millisecond

// OutputConfig holds output formatting options
type OutputConfig struct {
	Compact bool
	Plain   bool
	TUI     bool
}

// keyOrder maps keys to the representation whose bit pattern order is the
// requested order.
type keyOrder[T radix.Integer] struct {
	signed  bool
	prepare func([]T) []T
}

func bitOrder[T radix.Integer]() keyOrder[T] {
	return keyOrder[T]{prepare: func(data []T) []T { return data }}
}

func signedOrder[T radix.Signed](numeric bool) keyOrder[T] {
	if !numeric {
		return bitOrder[T]()
	}
	return keyOrder[T]{signed: true, prepare: radix.BiasSlice[T]}
}

// ============================================================================
// ARGSORT
// ============================================================================

// ArgsortFromConfig argsorts cfg.Argsort.Input and prints the result document
func ArgsortFromConfig(cfg *config.Config, outputConfig OutputConfig, lenient bool) error {
	result := executeArgsort(cfg, lenient)
	outputResult(result, outputConfig)
	if len(result.Errors) > 0 {
		return fmt.Errorf("argsort failed: %s", result.Errors[0].Message)
	}
	return nil
}

func executeArgsort(cfg *config.Config, lenient bool) *output.JSONOutput {
	start := time.Now()
	result := output.NewJSONOutput("argsort", start)

	var err error
	switch kt, so := cfg.Global.KeyType, cfg.Global.SignedOrder; kt {
	case "int8":
		err = argsortKeys(cfg, lenient, result, signedOrder[int8](so))
	case "int16":
		err = argsortKeys(cfg, lenient, result, signedOrder[int16](so))
	case "int32":
		err = argsortKeys(cfg, lenient, result, signedOrder[int32](so))
	case "int64":
		err = argsortKeys(cfg, lenient, result, signedOrder[int64](so))
	case "uint8":
		err = argsortKeys(cfg, lenient, result, bitOrder[uint8]())
	case "uint16":
		err = argsortKeys(cfg, lenient, result, bitOrder[uint16]())
	case "uint32":
		err = argsortKeys(cfg, lenient, result, bitOrder[uint32]())
	case "uint64":
		err = argsortKeys(cfg, lenient, result, bitOrder[uint64]())
	default:
		err = fmt.Errorf("unsupported keyType %q", kt)
	}
	if err != nil {
		result.AddError("argsort", err.Error(), 0)
	}

	result.UpdateDuration(start)
	return result
}

func argsortKeys[T radix.Integer](cfg *config.Config, lenient bool, result *output.JSONOutput, order keyOrder[T]) error {
	parseStart := time.Now()
	tokens, err := ingestor.ReadTokensFile(cfg.Argsort.Input)
	if err != nil {
		return err
	}

	var keys []T
	skipped := 0
	if lenient {
		keys, skipped = ingestor.ParseKeysLenient[T](tokens)
		if skipped > 0 {
			result.AddWarning("parse_error", fmt.Sprintf("%d keys could not be parsed as %s and were skipped", skipped, cfg.Global.KeyType), skipped)
		}
	} else if keys, err = ingestor.ParseKeys[T](tokens); err != nil {
		return err
	}
	parseDuration := time.Since(parseStart)

	if cfg.Global.SignedOrder && !order.signed {
		result.AddWarning("config", "signedOrder has no effect on unsigned keys", 0)
	}

	sortKeys := order.prepare(keys)
	bits := cfg.Global.Bits

	sortStart := time.Now()
	perm, err := radix.Argsort(sortKeys, bits)
	if err != nil {
		return err
	}
	sortDuration := time.Since(sortStart)

	res := &output.ArgsortResult{
		Input:       cfg.Argsort.Input,
		KeyType:     cfg.Global.KeyType,
		Bits:        bits,
		Passes:      radix.Passes(radix.KeyBits[T](), bits),
		SignedOrder: order.signed,
		N:           len(keys),
		Permutation: perm,
		Parsing: output.Parsing{
			DurationMS:    parseDuration.Milliseconds(),
			Tokens:        len(tokens),
			SkippedTokens: skipped,
		},
		SortTimeUS: sortDuration.Microseconds(),
	}

	if cfg.Argsort.Verify {
		ok := radix.Verify(sortKeys, perm)
		res.Verified = &ok
		if !ok {
			result.AddError("verify", "permutation is not a stable sorting permutation", 0)
		}
	}

	result.Argsort = res
	return nil
}

// ============================================================================
// BENCH
// ============================================================================

// BenchFromConfig runs the benchmark grid of cfg.Bench
func BenchFromConfig(cfg *config.Config, outputConfig OutputConfig) error {
	if outputConfig.TUI {
		return executeTUI(cfg)
	}

	result, err := executeBench(context.Background(), cfg)
	outputResult(result, outputConfig)
	return err
}

// executeTUI runs the benchmark in the background and shows it in the TUI
func executeTUI(cfg *config.Config) error {
	app := tui.NewApp(cfg)

	go func() {
		result, err := executeBench(context.Background(), cfg)
		if err != nil {
			// Show error in TUI instead of silent failure
			app.ShowError(fmt.Sprintf("Benchmark failed: %v", err))
			return
		}
		app.SetResults(result)
	}()

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func executeBench(ctx context.Context, cfg *config.Config) (*output.JSONOutput, error) {
	start := time.Now()
	result := output.NewJSONOutput("bench", start)

	opts := bench.Options{
		Sizes:    cfg.Bench.Sizes,
		BitsList: cfg.Bench.BitsList,
		MaxValue: cfg.Bench.MaxValue,
		Repeats:  cfg.Bench.Repeats,
		Seed:     cfg.Bench.Seed,
	}

	report, err := runBench(ctx, cfg.Global.KeyType, opts)
	if err != nil {
		result.AddError("bench", err.Error(), 0)
		result.UpdateDuration(start)
		return result, err
	}

	result.Bench = &output.BenchResult{
		Sizes:    opts.Sizes,
		BitsList: opts.BitsList,
		Report:   report,
	}

	// Generate the chart if plotPath is provided
	if cfg.Bench.PlotPath != "" {
		plotStart := time.Now()
		if err := output.PlotBench(report, cfg.Bench.PlotPath); err != nil {
			result.AddWarning("plot_error", err.Error(), 0)
		} else {
			result.AddWarning("info", fmt.Sprintf("Benchmark plot generated in %v at %s", time.Since(plotStart), cfg.Bench.PlotPath), 0)
		}
	}

	result.UpdateDuration(start)
	return result, nil
}

func runBench(ctx context.Context, keyType string, opts bench.Options) (*bench.Report, error) {
	switch keyType {
	case "int8":
		return bench.Run[int8](ctx, keyType, opts)
	case "int16":
		return bench.Run[int16](ctx, keyType, opts)
	case "int32":
		return bench.Run[int32](ctx, keyType, opts)
	case "int64":
		return bench.Run[int64](ctx, keyType, opts)
	case "uint8":
		return bench.Run[uint8](ctx, keyType, opts)
	case "uint16":
		return bench.Run[uint16](ctx, keyType, opts)
	case "uint32":
		return bench.Run[uint32](ctx, keyType, opts)
	case "uint64":
		return bench.Run[uint64](ctx, keyType, opts)
	default:
		return nil, fmt.Errorf("unsupported keyType %q", keyType)
	}
}

// ============================================================================
// LIVE
// ============================================================================

// batchSource is the part of the TCP ingestor live mode consumes
type batchSource interface {
	ReadBatch() ([]ingestor.Token, int, error)
	IsClosed() bool
}

// LiveFromConfig receives keys from Filebeat until SIGINT/SIGTERM and
// prints one document per drained batch.
func LiveFromConfig(cfg *config.Config, outputConfig OutputConfig) error {
	addr := ":" + cfg.Live.Port
	ing, err := ingestor.NewTCPIngestor(addr, cfg.Live.ReadTimeout)
	if err != nil {
		log.Fatalf("Failed to start ingestor: %v", err)
	}
	defer ing.Close()

	if err := ing.Accept(); err != nil {
		log.Fatalf("Failed to accept connections: %v", err)
	}

	fmt.Printf("Listening for Filebeat on %s (keyType=%s, bits=%d, signedOrder=%t)\n",
		ing.Addr(), cfg.Global.KeyType, cfg.Global.Bits, cfg.Global.SignedOrder)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runLive(ctx, ing, cfg, outputConfig, livePollInterval)
}

func runLive(ctx context.Context, src batchSource, cfg *config.Config, outputConfig OutputConfig, interval time.Duration) error {
	switch kt, so := cfg.Global.KeyType, cfg.Global.SignedOrder; kt {
	case "int8":
		return liveLoop(ctx, src, cfg, signedOrder[int8](so), outputConfig, interval)
	case "int16":
		return liveLoop(ctx, src, cfg, signedOrder[int16](so), outputConfig, interval)
	case "int32":
		return liveLoop(ctx, src, cfg, signedOrder[int32](so), outputConfig, interval)
	case "int64":
		return liveLoop(ctx, src, cfg, signedOrder[int64](so), outputConfig, interval)
	case "uint8":
		return liveLoop(ctx, src, cfg, bitOrder[uint8](), outputConfig, interval)
	case "uint16":
		return liveLoop(ctx, src, cfg, bitOrder[uint16](), outputConfig, interval)
	case "uint32":
		return liveLoop(ctx, src, cfg, bitOrder[uint32](), outputConfig, interval)
	case "uint64":
		return liveLoop(ctx, src, cfg, bitOrder[uint64](), outputConfig, interval)
	default:
		return fmt.Errorf("unsupported keyType %q", kt)
	}
}

func liveLoop[T radix.Integer](ctx context.Context, src batchSource, cfg *config.Config, order keyOrder[T], outputConfig OutputConfig, interval time.Duration) error {
	session, err := newLiveSession(src, cfg.Global.KeyType, cfg.Global.Bits, order)
	if err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("Shutting down live mode")
			return nil
		case <-ticker.C:
		}

		result, closed := session.step()
		if result != nil {
			outputResult(result, outputConfig)
		}
		if closed {
			fmt.Println("Ingestor closed, stopping live mode")
			return nil
		}
	}
}

// liveSession argsorts consecutive batches with one pooled Sorter
type liveSession[T radix.Integer] struct {
	src     batchSource
	sorter  *radix.Sorter[T]
	order   keyOrder[T]
	keyType string

	batch     int
	totalKeys int
}

func newLiveSession[T radix.Integer](src batchSource, keyType string, bits int, order keyOrder[T]) (*liveSession[T], error) {
	sorter, err := radix.NewSorter[T](radix.WithDigitWidth(bits))
	if err != nil {
		return nil, err
	}
	return &liveSession[T]{
		src:     src,
		sorter:  sorter,
		order:   order,
		keyType: keyType,
	}, nil
}

// step drains the source once. It returns nil when nothing arrived, and
// reports whether the source has been closed.
func (s *liveSession[T]) step() (*output.JSONOutput, bool) {
	loopStart := time.Now()

	tokens, skippedEvents, err := s.src.ReadBatch()
	if err != nil {
		result := output.NewJSONOutput("live", loopStart)
		result.AddError("ingestor", err.Error(), 0)
		return result, false
	}
	if len(tokens) == 0 && skippedEvents == 0 {
		return nil, s.src.IsClosed()
	}

	s.batch++
	keys, skippedKeys := ingestor.ParseKeysLenient[T](tokens)
	parseDuration := time.Since(loopStart)

	sortStart := time.Now()
	perm := s.sorter.Argsort(s.order.prepare(keys))
	sortDuration := time.Since(sortStart)
	s.totalKeys += len(keys)

	result := output.NewJSONOutput("live", loopStart)
	result.Argsort = &output.ArgsortResult{
		KeyType:     s.keyType,
		Bits:        s.sorter.DigitWidth(),
		Passes:      radix.Passes(radix.KeyBits[T](), s.sorter.DigitWidth()),
		SignedOrder: s.order.signed,
		N:           len(keys),
		Permutation: perm,
		Parsing: output.Parsing{
			DurationMS:    parseDuration.Milliseconds(),
			Tokens:        len(tokens),
			SkippedTokens: skippedKeys,
		},
		SortTimeUS: sortDuration.Microseconds(),
	}
	result.Live = &output.LiveStats{
		Batch:         s.batch,
		Keys:          len(keys),
		SkippedEvents: skippedEvents,
		SkippedKeys:   skippedKeys,
		TotalKeys:     s.totalKeys,
	}

	if skippedKeys > 0 {
		result.AddWarning("parse_error", fmt.Sprintf("%d keys could not be parsed as %s and were skipped", skippedKeys, s.keyType), skippedKeys)
	}
	if skippedEvents > 0 {
		result.AddWarning("missing_message", fmt.Sprintf("%d events had no message field", skippedEvents), skippedEvents)
	}

	result.UpdateDuration(loopStart)
	result.Live.LoopDuration = result.Metadata.DurationMS
	return result, false
}

// ============================================================================
// OUTPUT FUNCTIONS - Unified output handling
// ============================================================================

// outputResult is the unified output function that handles all output formats
func outputResult(jsonOutput *output.JSONOutput, outputConfig OutputConfig) {
	if outputConfig.Plain {
		output.WritePlain(stdout, jsonOutput)
		return
	}

	var jsonBytes []byte
	var err error

	if outputConfig.Compact {
		jsonBytes, err = jsonOutput.ToCompactJSON()
	} else {
		jsonBytes, err = jsonOutput.ToJSON()
	}

	if err != nil {
		fmt.Fprintf(stdout, `{"error": "failed to marshal JSON output: %v"}`+"\n", err)
		return
	}
	fmt.Fprintln(stdout, string(jsonBytes))
}
