package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ChristianF88/rargsort/bench"
)

// maxPlainIndices limits how much of a permutation plain output prints
const maxPlainIndices = 32

const (
	heavyRule = "═══════════════════════════════════════════════════════════════════════════════"
	lightRule = "───────────────────────────────────────────────────────────────────────────────"
)

// WritePlain formats the output as human-readable plain text
func WritePlain(w io.Writer, j *JSONOutput) {
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintf(w, "                              rargsort %s results\n", j.Metadata.Command)
	fmt.Fprintf(w, "%s\n\n", heavyRule)

	fmt.Fprintf(w, "Generated:       %s\n", j.Metadata.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Version:         %s\n", j.Metadata.Version)
	fmt.Fprintf(w, "Duration:        %d ms\n\n", j.Metadata.DurationMS)

	if a := j.Argsort; a != nil {
		writeArgsortPlain(w, a)
	}
	if b := j.Bench; b != nil {
		writeBenchPlain(w, b)
	}
	if l := j.Live; l != nil {
		fmt.Fprintf(w, "LIVE BATCH %d\n", l.Batch)
		fmt.Fprintln(w, lightRule)
		fmt.Fprintf(w, "Keys:            %s (skipped: %d keys, %d events)\n", FormatNumber(l.Keys), l.SkippedKeys, l.SkippedEvents)
		fmt.Fprintf(w, "Total Keys:      %s\n", FormatNumber(l.TotalKeys))
		fmt.Fprintf(w, "Loop Time:       %d ms\n\n", l.LoopDuration)
	}

	if len(j.Warnings) > 0 || len(j.Errors) > 0 {
		fmt.Fprintln(w, "DIAGNOSTICS")
		fmt.Fprintln(w, lightRule)

		if len(j.Warnings) > 0 {
			fmt.Fprintln(w, "Warnings:")
			for _, warning := range j.Warnings {
				if warning.Type != "info" { // Skip info messages in plain output
					fmt.Fprintf(w, "  • %s\n", warning.Message)
				}
			}
		}

		if len(j.Errors) > 0 {
			fmt.Fprintln(w, "Errors:")
			for _, err := range j.Errors {
				fmt.Fprintf(w, "  • %s\n", err.Message)
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, heavyRule)
}

func writeArgsortPlain(w io.Writer, a *ArgsortResult) {
	fmt.Fprintln(w, "ARGSORT")
	fmt.Fprintln(w, lightRule)
	if a.Input != "" {
		fmt.Fprintf(w, "Input:           %s\n", a.Input)
	}
	fmt.Fprintf(w, "Keys:            %s %s\n", FormatNumber(a.N), a.KeyType)
	fmt.Fprintf(w, "Digit Width:     %d bits (%d passes)\n", a.Bits, a.Passes)
	order := "bit pattern"
	if a.SignedOrder {
		order = "numeric"
	}
	fmt.Fprintf(w, "Order:           %s\n", order)
	fmt.Fprintf(w, "Parse Time:      %d ms (%s tokens)\n", a.Parsing.DurationMS, FormatNumber(a.Parsing.Tokens))
	fmt.Fprintf(w, "Sort Time:       %d μs\n", a.SortTimeUS)
	if a.Verified != nil {
		fmt.Fprintf(w, "Verified:        %t\n", *a.Verified)
	}
	fmt.Fprintf(w, "Permutation:     %s\n\n", formatIndices(a.Permutation, maxPlainIndices))
}

func writeBenchPlain(w io.Writer, b *BenchResult) {
	fmt.Fprintln(w, "BENCHMARK")
	fmt.Fprintln(w, lightRule)
	if b.Report == nil {
		fmt.Fprintf(w, "No results\n\n")
		return
	}
	fmt.Fprintf(w, "Key Type:        %s\n", b.Report.KeyType)
	fmt.Fprintf(w, "Keys In:         [0, %d)\n", b.Report.MaxValue)
	fmt.Fprintf(w, "Seed:            %d\n\n", b.Report.Seed)

	fmt.Fprintf(w, "  %-8s  %10s  %5s  %6s  %12s  %12s\n", "method", "size", "bits", "passes", "min", "mean")
	for _, res := range b.Report.Results {
		bits, passes := "-", "-"
		if res.Method != bench.MethodStable {
			bits = fmt.Sprintf("%d", res.Bits)
			passes = fmt.Sprintf("%d", res.Passes)
		}
		fmt.Fprintf(w, "  %-8s  %10s  %5s  %6s  %12s  %12s\n",
			res.Method, FormatNumber(res.Size), bits, passes, FormatDuration(res.Min), FormatDuration(res.Mean))
	}
	fmt.Fprintln(w)

	for _, n := range b.Sizes {
		best, ok := b.Report.Fastest(n)
		if !ok {
			continue
		}
		line := fmt.Sprintf("  n=%s: fastest %s bits=%d (%s)", FormatNumber(n), best.Method, best.Bits, FormatDuration(best.Mean))
		if base, ok := b.Report.Baseline(n); ok && best.Mean > 0 {
			line += fmt.Sprintf(", %.2fx vs stable", float64(base.Mean)/float64(best.Mean))
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
}

// formatIndices prints at most limit indices followed by how many were left out
func formatIndices(idx []int, limit int) string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, v := range idx {
		if i == limit {
			fmt.Fprintf(&sb, " ... %d more", len(idx)-limit)
			break
		}
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%d", v)
	}
	sb.WriteString("]")
	return sb.String()
}

// FormatNumber adds thousand separators to numbers
func FormatNumber(n int) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}
	return result.String()
}

// FormatDuration rounds d for table output
func FormatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return d.Round(time.Millisecond).String()
	case d >= time.Millisecond:
		return d.Round(time.Microsecond).String()
	default:
		return d.String()
	}
}
