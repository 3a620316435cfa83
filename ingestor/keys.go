package ingestor

import (
	"fmt"
	"strconv"

	"github.com/ChristianF88/rargsort/radix"
)

// Token is one textual key together with where it came from. Line is the
// 1-based line in a file, or the event number in a live batch.
type Token struct {
	Text string
	Line int
}

// ParseKey parses s as a key of type T. Base prefixes (0x, 0o, 0b) and
// underscores are accepted as in Go literals.
func ParseKey[T radix.Integer](s string) (T, error) {
	bitSize := radix.KeyBits[T]()

	if isSigned[T]() {
		v, err := strconv.ParseInt(s, 0, bitSize)
		if err != nil {
			return 0, err
		}
		return T(v), nil
	}

	v, err := strconv.ParseUint(s, 0, bitSize)
	if err != nil {
		return 0, err
	}
	return T(v), nil
}

// ParseKeys parses every token, failing on the first invalid one.
func ParseKeys[T radix.Integer](tokens []Token) ([]T, error) {
	keys := make([]T, len(tokens))
	for i, tok := range tokens {
		v, err := ParseKey[T](tok.Text)
		if err != nil {
			return nil, fmt.Errorf("invalid key %q at line %d: %w", tok.Text, tok.Line, err)
		}
		keys[i] = v
	}
	return keys, nil
}

// ParseKeysLenient parses every token and skips the invalid ones, returning
// how many were skipped.
func ParseKeysLenient[T radix.Integer](tokens []Token) ([]T, int) {
	keys := make([]T, 0, len(tokens))
	skipped := 0
	for _, tok := range tokens {
		v, err := ParseKey[T](tok.Text)
		if err != nil {
			skipped++
			continue
		}
		keys = append(keys, v)
	}
	return keys, skipped
}

func isSigned[T radix.Integer]() bool {
	var zero T
	return ^zero < zero
}
