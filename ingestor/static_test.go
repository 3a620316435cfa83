package ingestor

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadTokens(t *testing.T) {
	input := `# keys for the example
3 1
2,1

	7	8
`
	tokens, err := ReadTokens(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Token{
		{"3", 2}, {"1", 2},
		{"2", 3}, {"1", 3},
		{"7", 5}, {"8", 5},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(tokens), tokens)
	}
	for i, w := range want {
		if tokens[i] != w {
			t.Errorf("token %d: expected %+v, got %+v", i, w, tokens[i])
		}
	}
}

func TestReadTokens_Empty(t *testing.T) {
	tokens, err := ReadTokens(strings.NewReader("\n# nothing\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("expected no tokens, got %v", tokens)
	}
}

func TestReadTokensFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.txt")
	if err := os.WriteFile(path, []byte("10 -5\n0x10\n"), 0644); err != nil {
		t.Fatalf("failed to write key file: %v", err)
	}

	tokens, err := ReadTokensFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	keys, err := ParseKeys[int32](tokens)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	want := []int32{10, -5, 16}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d: expected %d, got %d", i, want[i], keys[i])
		}
	}
}

func TestReadTokensFile_Missing(t *testing.T) {
	if _, err := ReadTokensFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseKey(t *testing.T) {
	if v, err := ParseKey[int8]("-128"); err != nil || v != math.MinInt8 {
		t.Errorf("int8 -128: got %d, %v", v, err)
	}
	if _, err := ParseKey[int8]("128"); err == nil {
		t.Error("int8 128 should overflow")
	}
	if v, err := ParseKey[uint16]("65535"); err != nil || v != math.MaxUint16 {
		t.Errorf("uint16 65535: got %d, %v", v, err)
	}
	if _, err := ParseKey[uint16]("-1"); err == nil {
		t.Error("uint16 -1 should fail")
	}
	if v, err := ParseKey[uint64]("0xFFFFFFFFFFFFFFFF"); err != nil || v != math.MaxUint64 {
		t.Errorf("uint64 max: got %d, %v", v, err)
	}
	if v, err := ParseKey[int64]("1_000"); err != nil || v != 1000 {
		t.Errorf("int64 1_000: got %d, %v", v, err)
	}
	if _, err := ParseKey[int32]("abc"); err == nil {
		t.Error("abc should fail")
	}
}

func TestParseKeys_ReportsLine(t *testing.T) {
	tokens := []Token{{"1", 1}, {"x", 4}}
	_, err := ParseKeys[int64](tokens)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `"x" at line 4`) {
		t.Errorf("error should name token and line, got %v", err)
	}
}

func TestParseKeysLenient(t *testing.T) {
	tokens := []Token{{"1", 1}, {"300", 1}, {"2", 2}, {"bad", 3}}
	keys, skipped := ParseKeysLenient[uint8](tokens)
	if skipped != 2 {
		t.Errorf("expected 2 skipped, got %d", skipped)
	}
	if len(keys) != 2 || keys[0] != 1 || keys[1] != 2 {
		t.Errorf("unexpected keys %v", keys)
	}
}

func TestIsSigned(t *testing.T) {
	if !isSigned[int16]() || isSigned[uint16]() || !isSigned[int64]() || isSigned[uint8]() {
		t.Error("isSigned misclassifies a type")
	}
}
