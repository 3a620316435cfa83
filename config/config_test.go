package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "test_config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return configPath
}

func TestLoadConfig(t *testing.T) {
	testConfigContent := `
[global]
keyType = "int32"
bits = 4
signedOrder = true

[argsort]
input = "/tmp/keys.txt"
verify = true

[bench]
sizes = [1000, 10000]
bitsList = [1, 4, 8, 16]
maxValue = 100
repeats = 3
seed = 7
plotPath = "/tmp/bench.html"

[live]
port = "6000"
readTimeout = "10s"
`

	config, err := LoadConfig(writeConfig(t, testConfigContent))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Global.KeyType != "int32" {
		t.Errorf("Expected KeyType to be 'int32', got '%s'", config.Global.KeyType)
	}
	if config.Global.Bits != 4 {
		t.Errorf("Expected Bits to be 4, got %d", config.Global.Bits)
	}
	if !config.Global.SignedOrder {
		t.Error("Expected SignedOrder to be true")
	}

	if config.Argsort.Input != "/tmp/keys.txt" {
		t.Errorf("Expected Input to be '/tmp/keys.txt', got '%s'", config.Argsort.Input)
	}
	if !config.Argsort.Verify {
		t.Error("Expected Verify to be true")
	}

	if len(config.Bench.Sizes) != 2 || config.Bench.Sizes[1] != 10000 {
		t.Errorf("Unexpected sizes %v", config.Bench.Sizes)
	}
	if len(config.Bench.BitsList) != 4 || config.Bench.BitsList[3] != 16 {
		t.Errorf("Unexpected bitsList %v", config.Bench.BitsList)
	}
	if config.Bench.MaxValue != 100 {
		t.Errorf("Expected MaxValue to be 100, got %d", config.Bench.MaxValue)
	}
	if config.Bench.Repeats != 3 {
		t.Errorf("Expected Repeats to be 3, got %d", config.Bench.Repeats)
	}
	if config.Bench.Seed != 7 {
		t.Errorf("Expected Seed to be 7, got %d", config.Bench.Seed)
	}
	if config.Bench.PlotPath != "/tmp/bench.html" {
		t.Errorf("Expected PlotPath to be '/tmp/bench.html', got '%s'", config.Bench.PlotPath)
	}

	if config.Live.Port != "6000" {
		t.Errorf("Expected Port to be '6000', got '%s'", config.Live.Port)
	}
	if config.Live.ReadTimeout != 10*time.Second {
		t.Errorf("Expected ReadTimeout to be 10s, got %v", config.Live.ReadTimeout)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := ParseConfig("")
	if err != nil {
		t.Fatalf("Failed to parse empty config: %v", err)
	}

	if config.Global.KeyType != DefaultKeyType {
		t.Errorf("Expected default KeyType, got '%s'", config.Global.KeyType)
	}
	if config.Global.Bits != DefaultBits {
		t.Errorf("Expected default Bits, got %d", config.Global.Bits)
	}
	if len(config.Bench.Sizes) != len(DefaultSizes) {
		t.Errorf("Expected default sizes, got %v", config.Bench.Sizes)
	}
	if len(config.Bench.BitsList) != len(DefaultBitsList) {
		t.Errorf("Expected default bitsList, got %v", config.Bench.BitsList)
	}
	if config.Bench.Repeats != DefaultRepeats || config.Bench.MaxValue != DefaultMaxValue || config.Bench.Seed != DefaultSeed {
		t.Errorf("Unexpected bench defaults %+v", config.Bench)
	}
	if config.Live.Port != DefaultPort {
		t.Errorf("Expected default Port, got '%s'", config.Live.Port)
	}
	if config.Live.ReadTimeout != DefaultReadTimeout {
		t.Errorf("Expected default ReadTimeout, got %v", config.Live.ReadTimeout)
	}
}

func TestLoadConfig_ExplicitZeroValues(t *testing.T) {
	config, err := ParseConfig("[global]\nbits = 0\n[bench]\nseed = 0\n")
	if err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}
	if config.Global.Bits != 0 {
		t.Errorf("Explicit bits = 0 must not be replaced by the default, got %d", config.Global.Bits)
	}
	if config.Bench.Seed != 0 {
		t.Errorf("Explicit seed = 0 must be kept, got %d", config.Bench.Seed)
	}
	if config.Global.KeyType != DefaultKeyType {
		t.Errorf("Absent keyType should default, got %q", config.Global.KeyType)
	}
}

func TestLoadConfig_DefaultsNotShared(t *testing.T) {
	config, err := ParseConfig("")
	if err != nil {
		t.Fatalf("Failed to parse empty config: %v", err)
	}
	config.Bench.Sizes[0] = -1
	if DefaultSizes[0] == -1 {
		t.Error("Config must not alias DefaultSizes")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	_, err := ParseConfig("[global\nkeyType = ")
	if err == nil {
		t.Error("Expected error for invalid TOML")
	}
}

func TestLoadConfig_NonIntegerSizes(t *testing.T) {
	_, err := ParseConfig("[bench]\nsizes = [1000, \"big\"]\n")
	if err == nil || !strings.Contains(err.Error(), "sizes") {
		t.Errorf("Expected sizes error, got %v", err)
	}

	_, err = ParseConfig("[bench]\nbitsList = 8\n")
	if err == nil || !strings.Contains(err.Error(), "bitsList") {
		t.Errorf("Expected bitsList error, got %v", err)
	}
}

func TestLoadConfig_IntegerPort(t *testing.T) {
	config, err := ParseConfig("[live]\nport = 7000\n")
	if err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}
	if config.Live.Port != "7000" {
		t.Errorf("Expected Port '7000', got '%s'", config.Live.Port)
	}
}

func TestLoadConfig_InvalidReadTimeout(t *testing.T) {
	config, err := ParseConfig("[live]\nreadTimeout = \"soon\"\n")
	if err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}
	if config.Live.ReadTimeoutRaw != "soon" {
		t.Errorf("Expected raw value to be kept, got '%s'", config.Live.ReadTimeoutRaw)
	}
	if err := config.ValidateLive(); err == nil {
		t.Error("Expected ValidateLive to reject invalid readTimeout")
	}
}

func TestValidateArgsort(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "keys.txt")
	if err := os.WriteFile(keyFile, []byte("3 1 2 1\n"), 0644); err != nil {
		t.Fatalf("Failed to write key file: %v", err)
	}

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"valid", "[argsort]\ninput = \"" + keyFile + "\"\n", ""},
		{"stdin", "[argsort]\ninput = \"-\"\n", ""},
		{"missing input", "[argsort]\nverify = true\n", "input is required"},
		{"input not found", "[argsort]\ninput = \"/nonexistent/keys.txt\"\n", "does not exist"},
		{"bad key type", "[global]\nkeyType = \"float64\"\n[argsort]\ninput = \"-\"\n", "keyType"},
		{"bits too large", "[global]\nbits = 25\n[argsort]\ninput = \"-\"\n", "bits must be between"},
		{"bits negative", "[global]\nbits = -1\n[argsort]\ninput = \"-\"\n", "bits must be between"},
		{"bits zero", "[global]\nbits = 0\n[argsort]\ninput = \"-\"\n", "bits must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseConfig(tt.content)
			if err != nil {
				t.Fatalf("Failed to parse config: %v", err)
			}
			err = config.ValidateArgsort()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateBench(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"defaults", "", ""},
		{"negative size", "[bench]\nsizes = [-1]\n", "sizes must be non-negative"},
		{"zero bits", "[bench]\nbitsList = [0, 8]\n", "bitsList"},
		{"wide bits", "[bench]\nbitsList = [8, 32]\n", "bitsList"},
		{"negative maxValue", "[bench]\nmaxValue = -5\n", "maxValue"},
		{"negative repeats", "[bench]\nrepeats = -1\n", "repeats"},
		{"zero repeats", "[bench]\nrepeats = 0\n", "repeats"},
		{"zero maxValue", "[bench]\nmaxValue = 0\n", "maxValue"},
		{"empty sizes", "[bench]\nsizes = []\n", "sizes"},
		{"empty bitsList", "[bench]\nbitsList = []\n", "bitsList"},
		{"zero global bits", "[global]\nbits = 0\n", "bits must be between"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseConfig(tt.content)
			if err != nil {
				t.Fatalf("Failed to parse config: %v", err)
			}
			err = config.ValidateBench()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateLive(t *testing.T) {
	config, err := ParseConfig("[live]\nport = \"5044\"\nreadTimeout = \"1s\"\n")
	if err != nil {
		t.Fatalf("Failed to parse config: %v", err)
	}
	if err := config.ValidateLive(); err != nil {
		t.Errorf("Expected valid live config, got %v", err)
	}

	config.Live.ReadTimeout = -time.Second
	if err := config.ValidateLive(); err == nil {
		t.Error("Expected error for negative readTimeout")
	}

	for _, bits := range []string{"0", "-1"} {
		config, err := ParseConfig("[global]\nbits = " + bits + "\n[live]\nport = \"5044\"\n")
		if err != nil {
			t.Fatalf("Failed to parse config: %v", err)
		}
		if err := config.ValidateLive(); err == nil {
			t.Errorf("Expected ValidateLive to reject bits = %s", bits)
		}
	}

	config.Live = nil
	if err := config.ValidateLive(); err == nil {
		t.Error("Expected error for missing live section")
	}
}

func TestValidKeyType(t *testing.T) {
	for _, kt := range KeyTypes {
		if !ValidKeyType(kt) {
			t.Errorf("Expected %s to be valid", kt)
		}
	}
	for _, kt := range []string{"", "int", "float32", "INT64"} {
		if ValidKeyType(kt) {
			t.Errorf("Expected %q to be invalid", kt)
		}
	}
}
