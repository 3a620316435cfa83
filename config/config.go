package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ChristianF88/rargsort/ingestor"
	"github.com/ChristianF88/rargsort/radix"
)

// Defaults applied when a key is absent from the file.
const (
	DefaultKeyType     = "int64"
	DefaultBits        = 8
	DefaultPort        = "5044"
	DefaultReadTimeout = 5 * time.Second
	DefaultRepeats     = 5
	DefaultMaxValue    = 10
	DefaultSeed        = 42
)

// DefaultSizes and DefaultBitsList are the bench grid when none is configured.
var (
	DefaultSizes    = []int{1000, 10000, 100000}
	DefaultBitsList = []int{1, 4, 8, 16}
)

// KeyTypes lists the accepted keyType names.
var KeyTypes = []string{"int8", "int16", "int32", "int64", "uint8", "uint16", "uint32", "uint64"}

type GlobalConfig struct {
	KeyType     string `toml:"keyType"`
	Bits        int    `toml:"bits"`
	SignedOrder bool   `toml:"signedOrder"`
}

type ArgsortConfig struct {
	Input  string `toml:"input"`
	Verify bool   `toml:"verify"`
}

type BenchConfig struct {
	Sizes    []int  `toml:"sizes"`
	BitsList []int  `toml:"bitsList"`
	MaxValue int64  `toml:"maxValue"`
	Repeats  int    `toml:"repeats"`
	Seed     int64  `toml:"seed"`
	PlotPath string `toml:"plotPath"`
}

type LiveConfig struct {
	Port        string        `toml:"port"`
	ReadTimeout time.Duration `toml:"readTimeout"`

	// Raw value for validation reporting when parsing fails
	ReadTimeoutRaw string `toml:"-"`
}

type Config struct {
	Global  *GlobalConfig  `toml:"global"`
	Argsort *ArgsortConfig `toml:"argsort"`
	Bench   *BenchConfig   `toml:"bench"`
	Live    *LiveConfig    `toml:"live"`
}

func LoadConfig(configPath string) (*Config, error) {
	configData, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(string(configData))
}

// ParseConfig decodes TOML text. Unknown sections and keys are ignored.
func ParseConfig(data string) (*Config, error) {
	var rawConfig map[string]any
	if _, err := toml.Decode(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config := &Config{}

	for key, value := range rawConfig {
		sectionMap, ok := value.(map[string]any)
		if !ok {
			continue
		}
		switch key {
		case "global":
			config.Global = parseGlobalConfig(sectionMap)
		case "argsort":
			config.Argsort = parseArgsortConfig(sectionMap)
		case "bench":
			bench, err := parseBenchConfig(sectionMap)
			if err != nil {
				return nil, fmt.Errorf("parsing bench config: %w", err)
			}
			config.Bench = bench
		case "live":
			config.Live = parseLiveConfig(sectionMap)
		}
	}

	// Defaults fill in absent sections; absent keys are defaulted by the
	// section parsers, so explicit zero values still reach validation.
	if config.Global == nil {
		config.Global = parseGlobalConfig(nil)
	}
	if config.Argsort == nil {
		config.Argsort = &ArgsortConfig{}
	}
	if config.Bench == nil {
		config.Bench, _ = parseBenchConfig(nil)
	}
	if config.Live == nil {
		config.Live = &LiveConfig{}
	}
	if config.Live.Port == "" {
		config.Live.Port = DefaultPort
	}
	if config.Live.ReadTimeout == 0 && config.Live.ReadTimeoutRaw == "" {
		config.Live.ReadTimeout = DefaultReadTimeout
	}

	return config, nil
}

func parseGlobalConfig(m map[string]any) *GlobalConfig {
	config := &GlobalConfig{
		KeyType: DefaultKeyType,
		Bits:    DefaultBits,
	}
	if v, ok := m["keyType"].(string); ok {
		config.KeyType = v
	}
	if v, ok := m["bits"].(int64); ok {
		config.Bits = int(v)
	}
	if v, ok := m["signedOrder"].(bool); ok {
		config.SignedOrder = v
	}
	return config
}

func parseArgsortConfig(m map[string]any) *ArgsortConfig {
	config := &ArgsortConfig{}
	if v, ok := m["input"].(string); ok {
		config.Input = v
	}
	if v, ok := m["verify"].(bool); ok {
		config.Verify = v
	}
	return config
}

func parseBenchConfig(m map[string]any) (*BenchConfig, error) {
	config := &BenchConfig{
		Sizes:    append([]int(nil), DefaultSizes...),
		BitsList: append([]int(nil), DefaultBitsList...),
		MaxValue: DefaultMaxValue,
		Repeats:  DefaultRepeats,
		Seed:     DefaultSeed,
	}
	if v, ok := m["sizes"]; ok {
		sizes, err := parseIntList("sizes", v)
		if err != nil {
			return nil, err
		}
		config.Sizes = sizes
	}
	if v, ok := m["bitsList"]; ok {
		bitsList, err := parseIntList("bitsList", v)
		if err != nil {
			return nil, err
		}
		config.BitsList = bitsList
	}
	if v, ok := m["maxValue"].(int64); ok {
		config.MaxValue = v
	}
	if v, ok := m["repeats"].(int64); ok {
		config.Repeats = int(v)
	}
	if v, ok := m["seed"].(int64); ok {
		config.Seed = v
	}
	if v, ok := m["plotPath"].(string); ok {
		config.PlotPath = v
	}
	return config, nil
}

func parseLiveConfig(m map[string]any) *LiveConfig {
	config := &LiveConfig{}
	if v, ok := m["port"].(string); ok {
		config.Port = v
	} else if v, ok := m["port"].(int64); ok {
		config.Port = fmt.Sprintf("%d", v)
	}
	if v, ok := m["readTimeout"].(string); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.ReadTimeout = d
		} else {
			config.ReadTimeoutRaw = v // Store for validation
		}
	}
	return config
}

// parseIntList accepts a TOML array of integers.
func parseIntList(field string, v any) ([]int, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an array of integers", field)
	}
	out := make([]int, 0, len(arr))
	for _, item := range arr {
		i, ok := item.(int64)
		if !ok {
			return nil, fmt.Errorf("%s contains non-integer value %v", field, item)
		}
		out = append(out, int(i))
	}
	return out, nil
}

// ValidKeyType reports whether name is one of KeyTypes.
func ValidKeyType(name string) bool {
	for _, kt := range KeyTypes {
		if kt == name {
			return true
		}
	}
	return false
}

// ValidateBits checks a digit width against the radix limits.
func ValidateBits(bits int) error {
	if bits < 1 || bits > radix.MaxDigitWidth {
		return fmt.Errorf("bits must be between 1 and %d, got %d", radix.MaxDigitWidth, bits)
	}
	return nil
}

func (c *Config) validateGlobal() error {
	if c.Global == nil {
		return fmt.Errorf("global configuration section is required")
	}
	if !ValidKeyType(c.Global.KeyType) {
		return fmt.Errorf("keyType %q is not supported (valid: %v)", c.Global.KeyType, KeyTypes)
	}
	if err := ValidateBits(c.Global.Bits); err != nil {
		return fmt.Errorf("global configuration: %w", err)
	}
	return nil
}

func (c *Config) ValidateArgsort() error {
	if err := c.validateGlobal(); err != nil {
		return err
	}

	if c.Argsort == nil {
		return fmt.Errorf("argsort configuration section is required")
	}

	if c.Argsort.Input == "" {
		return fmt.Errorf("input is required in argsort configuration")
	}

	// Check if input file exists
	if c.Argsort.Input != ingestor.StdinPath {
		if _, err := os.Stat(c.Argsort.Input); os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", c.Argsort.Input)
		}
	}

	return nil
}

func (c *Config) ValidateBench() error {
	if err := c.validateGlobal(); err != nil {
		return err
	}

	if c.Bench == nil {
		return fmt.Errorf("bench configuration section is required")
	}

	if len(c.Bench.Sizes) == 0 {
		return fmt.Errorf("sizes must list at least one size")
	}
	for _, n := range c.Bench.Sizes {
		if n < 0 {
			return fmt.Errorf("sizes must be non-negative, got %d", n)
		}
	}

	if len(c.Bench.BitsList) == 0 {
		return fmt.Errorf("bitsList must list at least one digit width")
	}
	for _, bits := range c.Bench.BitsList {
		if err := ValidateBits(bits); err != nil {
			return fmt.Errorf("bitsList: %w", err)
		}
	}

	if c.Bench.MaxValue < 1 {
		return fmt.Errorf("maxValue must be at least 1, got %d", c.Bench.MaxValue)
	}

	if c.Bench.Repeats < 1 {
		return fmt.Errorf("repeats must be at least 1, got %d", c.Bench.Repeats)
	}

	// PlotPath is optional - no validation needed if empty

	return nil
}

func (c *Config) ValidateLive() error {
	if err := c.validateGlobal(); err != nil {
		return err
	}

	if c.Live == nil {
		return fmt.Errorf("live configuration section is required")
	}

	if c.Live.Port == "" {
		return fmt.Errorf("port is required in live configuration")
	}

	if c.Live.ReadTimeoutRaw != "" {
		return fmt.Errorf("invalid readTimeout %q in live configuration", c.Live.ReadTimeoutRaw)
	}

	if c.Live.ReadTimeout <= 0 {
		return fmt.Errorf("readTimeout must be positive in live configuration")
	}

	return nil
}
