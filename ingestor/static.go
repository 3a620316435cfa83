package ingestor

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// StdinPath selects standard input instead of a file.
const StdinPath = "-"

// maxLineSize bounds a single input line (1 MiB)
const maxLineSize = 1 << 20

// ReadTokens splits r into key tokens. Keys are separated by whitespace or
// commas; blank lines and lines starting with '#' are skipped.
func ReadTokens(r io.Reader) ([]Token, error) {
	var tokens []Token
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tokens = appendFields(tokens, line, lineNum)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading keys at line %d: %w", lineNum+1, err)
	}
	return tokens, nil
}

// ReadTokensFile reads key tokens from path, or from stdin when path is "-".
func ReadTokensFile(path string) ([]Token, error) {
	if path == StdinPath {
		return ReadTokens(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file %s: %w", path, err)
	}
	defer f.Close()

	tokens, err := ReadTokens(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tokens, nil
}

func appendFields(tokens []Token, s string, line int) []Token {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\r'
	})
	for _, f := range fields {
		tokens = append(tokens, Token{Text: f, Line: line})
	}
	return tokens
}
