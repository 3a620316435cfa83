package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ChristianF88/rargsort/config"
	"github.com/ChristianF88/rargsort/ingestor"
	"github.com/ChristianF88/rargsort/version"
	cli "github.com/urfave/cli/v2"
)

// parseDate attempts to parse the build date
func parseDate(d string) time.Time {
	t, err := time.Parse(time.RFC3339, d)
	if err != nil {
		return time.Now()
	}
	return t
}

// Shared flag definitions to eliminate duplication
var (
	// Configuration flags
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to configuration file (mutually exclusive with other flags)",
	}

	// Key flags
	keyTypeFlag = &cli.StringFlag{
		Name:  "keyType",
		Usage: "Integer key type: int8, int16, int32, int64, uint8, uint16, uint32 or uint64",
		Value: config.DefaultKeyType,
	}
	bitsFlag = &cli.IntFlag{
		Name:  "bits",
		Usage: "Digit width in bits consumed per pass (1-24); changes speed, never the result",
		Value: config.DefaultBits,
	}
	signedOrderFlag = &cli.BoolFlag{
		Name:  "signedOrder",
		Usage: "Order signed keys numerically instead of by bit pattern",
		Value: false,
	}

	// Output flags
	plotPathFlag = &cli.StringFlag{
		Name:  "plotPath",
		Usage: "Path where to save the benchmark chart (e.g., '/path/to/bench.html'). If not provided, no plot will be generated.",
	}
	compactFlag = &cli.BoolFlag{
		Name:  "compact",
		Usage: "Output compact JSON (no pretty printing)",
		Value: false,
	}
	plainFlag = &cli.BoolFlag{
		Name:  "plain",
		Usage: "Output plain text format for easy readability",
		Value: false,
	}
	tuiFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Launch TUI (Terminal User Interface) mode",
		Value: false,
	}

	// Argsort-specific flags
	inputFlag = &cli.StringFlag{
		Name:  "input",
		Usage: "Path to a file of whitespace or comma separated integer keys ('-' for stdin)",
	}
	verifyFlag = &cli.BoolFlag{
		Name:  "verify",
		Usage: "Check that the permutation is a stable sorting permutation",
		Value: false,
	}
	lenientFlag = &cli.BoolFlag{
		Name:  "lenient",
		Usage: "Skip keys that fail to parse instead of aborting",
		Value: false,
	}

	// Bench-specific flags
	sizesFlag = &cli.IntSliceFlag{
		Name:  "sizes",
		Usage: "Input sizes to benchmark (e.g., --sizes 1000,10000)",
	}
	bitsListFlag = &cli.IntSliceFlag{
		Name:  "bitsList",
		Usage: "Digit widths to benchmark (e.g., --bitsList 1,4,8,16)",
	}
	maxValueFlag = &cli.Int64Flag{
		Name:  "maxValue",
		Usage: "Random keys are drawn from [0, maxValue)",
		Value: config.DefaultMaxValue,
	}
	repeatsFlag = &cli.IntFlag{
		Name:  "repeats",
		Usage: "Timed repetitions per measurement",
		Value: config.DefaultRepeats,
	}
	seedFlag = &cli.Int64Flag{
		Name:  "seed",
		Usage: "Random seed for generated keys",
		Value: config.DefaultSeed,
	}

	// Live-specific flags
	portFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "Port to listen on for Filebeat (lumberjack v2)",
	}
	readTimeoutFlag = &cli.DurationFlag{
		Name:  "readTimeout",
		Usage: "Lumberjack connection read timeout",
		Value: config.DefaultReadTimeout,
	}
)

// allFlags are the flag names checked by validateConfigModeFlags
var allFlags = []string{
	"keyType", "bits", "signedOrder", "plotPath", "compact", "plain", "tui",
	"input", "verify", "lenient", "sizes", "bitsList", "maxValue", "repeats",
	"seed", "port", "readTimeout",
}

// Shared validation functions
func validateConfigModeFlags(c *cli.Context, allowedFlags []string) error {
	// Create a map for quick lookup of allowed flags
	allowed := make(map[string]bool)
	for _, flag := range allowedFlags {
		allowed[flag] = true
	}

	for _, flag := range allFlags {
		if c.IsSet(flag) && !allowed[flag] {
			return fmt.Errorf("when using --config, only %v flags are allowed", allowedFlags)
		}
	}
	return nil
}

func validatePlotPath(plotPath string) error {
	if plotPath != "" {
		plotDir := filepath.Dir(plotPath)
		if plotDir == "." {
			plotDir, _ = os.Getwd()
		}
		if _, err := os.Stat(plotDir); os.IsNotExist(err) {
			return fmt.Errorf("plot directory does not exist: %s", plotDir)
		}
	}
	return nil
}

func validateInputExists(path string) error {
	if path == ingestor.StdinPath {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", path)
	}
	return nil
}

// globalFromFlags builds the [global] section from the shared key flags
func globalFromFlags(c *cli.Context) *config.GlobalConfig {
	return &config.GlobalConfig{
		KeyType:     c.String("keyType"),
		Bits:        c.Int("bits"),
		SignedOrder: c.Bool("signedOrder"),
	}
}

// Command handler functions to reduce deep nesting

// handleArgsortCommand processes the argsort command
func handleArgsortCommand(c *cli.Context) error {
	configPath := c.String("config")
	if configPath != "" {
		return handleArgsortConfigMode(c, configPath)
	}
	return handleArgsortFlagsMode(c)
}

// handleArgsortConfigMode handles argsort command when using config file
func handleArgsortConfigMode(c *cli.Context, configPath string) error {
	if err := validateConfigModeFlags(c, []string{"compact", "plain", "lenient"}); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateArgsort(); err != nil {
		return fmt.Errorf("invalid argsort configuration: %w", err)
	}

	return ArgsortFromConfig(cfg, outputConfigFrom(c), c.Bool("lenient"))
}

// handleArgsortFlagsMode handles argsort command when using CLI flags only
func handleArgsortFlagsMode(c *cli.Context) error {
	if !c.IsSet("input") {
		return fmt.Errorf("input is required when not using --config")
	}

	if err := validateInputExists(c.String("input")); err != nil {
		return err
	}

	cfg := &config.Config{
		Global: globalFromFlags(c),
		Argsort: &config.ArgsortConfig{
			Input:  c.String("input"),
			Verify: c.Bool("verify"),
		},
	}
	if err := cfg.ValidateArgsort(); err != nil {
		return err
	}

	return ArgsortFromConfig(cfg, outputConfigFrom(c), c.Bool("lenient"))
}

// handleBenchCommand processes the bench command
func handleBenchCommand(c *cli.Context) error {
	configPath := c.String("config")
	if configPath != "" {
		return handleBenchConfigMode(c, configPath)
	}
	return handleBenchFlagsMode(c)
}

// handleBenchConfigMode handles bench command when using config file
func handleBenchConfigMode(c *cli.Context, configPath string) error {
	if err := validateConfigModeFlags(c, []string{"tui", "compact", "plain"}); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateBench(); err != nil {
		return fmt.Errorf("invalid bench configuration: %w", err)
	}

	if err := validatePlotPath(cfg.Bench.PlotPath); err != nil {
		return err
	}

	return BenchFromConfig(cfg, outputConfigFrom(c))
}

// handleBenchFlagsMode handles bench command when using CLI flags only
func handleBenchFlagsMode(c *cli.Context) error {
	benchCfg := &config.BenchConfig{
		Sizes:    c.IntSlice("sizes"),
		BitsList: c.IntSlice("bitsList"),
		MaxValue: c.Int64("maxValue"),
		Repeats:  c.Int("repeats"),
		Seed:     c.Int64("seed"),
		PlotPath: c.String("plotPath"),
	}
	if len(benchCfg.Sizes) == 0 {
		benchCfg.Sizes = append([]int(nil), config.DefaultSizes...)
	}
	if len(benchCfg.BitsList) == 0 {
		benchCfg.BitsList = append([]int(nil), config.DefaultBitsList...)
	}

	// bench has no --bits flag; every width comes from --bitsList
	global := globalFromFlags(c)
	global.Bits = config.DefaultBits

	cfg := &config.Config{
		Global: global,
		Bench:  benchCfg,
	}
	if err := cfg.ValidateBench(); err != nil {
		return err
	}

	if err := validatePlotPath(benchCfg.PlotPath); err != nil {
		return err
	}

	return BenchFromConfig(cfg, outputConfigFrom(c))
}

// handleLiveCommand processes the live command
func handleLiveCommand(c *cli.Context) error {
	configPath := c.String("config")
	if configPath != "" {
		return handleLiveConfigMode(c, configPath)
	}
	return handleLiveFlagsMode(c)
}

// handleLiveConfigMode handles live command when using config file
func handleLiveConfigMode(c *cli.Context, configPath string) error {
	if err := validateConfigModeFlags(c, []string{"compact", "plain"}); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateLive(); err != nil {
		return fmt.Errorf("invalid live configuration: %w", err)
	}

	fmt.Println("Running in live mode from config file:")
	return LiveFromConfig(cfg, outputConfigFrom(c))
}

// handleLiveFlagsMode handles live command when using CLI flags only
func handleLiveFlagsMode(c *cli.Context) error {
	if !c.IsSet("port") {
		return fmt.Errorf("port is required when not using --config")
	}

	cfg := &config.Config{
		Global: globalFromFlags(c),
		Live: &config.LiveConfig{
			Port:        strconv.Itoa(c.Int("port")),
			ReadTimeout: c.Duration("readTimeout"),
		},
	}
	if err := cfg.ValidateLive(); err != nil {
		return err
	}

	fmt.Println("Running in live mode with CLI flags:")
	return LiveFromConfig(cfg, outputConfigFrom(c))
}

func outputConfigFrom(c *cli.Context) OutputConfig {
	return OutputConfig{
		Compact: c.Bool("compact"),
		Plain:   c.Bool("plain"),
		TUI:     c.Bool("tui"),
	}
}

var App = &cli.App{
	Name:     "rargsort",
	Usage:    "Radix argsort of integer keys, with a benchmark harness and a live Filebeat mode",
	Version:  version.Version,
	Compiled: parseDate(version.Date),
	Commands: []*cli.Command{
		{
			Name:  "argsort",
			Usage: "Print the stable sorting permutation of the keys in a file",
			Flags: []cli.Flag{
				// Configuration
				configFlag,
				// Argsort-specific flags
				inputFlag,
				verifyFlag,
				lenientFlag,
				// Key flags
				keyTypeFlag,
				bitsFlag,
				signedOrderFlag,
				// Output flags
				compactFlag,
				plainFlag,
			},
			Action: handleArgsortCommand,
		},
		{
			Name:  "bench",
			Usage: "Time radix argsort per digit width against sort.SliceStable",
			Flags: []cli.Flag{
				// Configuration
				configFlag,
				// Bench-specific flags
				sizesFlag,
				bitsListFlag,
				maxValueFlag,
				repeatsFlag,
				seedFlag,
				keyTypeFlag,
				// Output flags
				plotPathFlag,
				tuiFlag,
				compactFlag,
				plainFlag,
			},
			Action: handleBenchCommand,
		},
		{
			Name:  "live",
			Usage: "Argsort keys received from Filebeat, one document per batch",
			Flags: []cli.Flag{
				// Configuration
				configFlag,
				// Live-specific flags
				portFlag,
				readTimeoutFlag,
				// Key flags
				keyTypeFlag,
				bitsFlag,
				signedOrderFlag,
				// Output flags
				compactFlag,
				plainFlag,
			},
			Action: handleLiveCommand,
		},
	},
}
