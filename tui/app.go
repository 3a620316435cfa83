package tui

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ChristianF88/rargsort/bench"
	"github.com/ChristianF88/rargsort/config"
	"github.com/ChristianF88/rargsort/output"
	"github.com/ChristianF88/rargsort/radix"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// SortMode selects the row order of the results table
type SortMode int

const (
	SortByRun SortMode = iota
	SortByMean
	SortByMin
	sortModeCount
)

func (m SortMode) String() string {
	switch m {
	case SortByMean:
		return "mean"
	case SortByMin:
		return "min"
	default:
		return "run order"
	}
}

// App represents the TUI application
type App struct {
	app          *tview.Application
	pages        *tview.Pages
	progressView *tview.TextView
	resultsView  *tview.Flex
	statusBar    *tview.TextView

	// Results panels
	summary        *tview.TextView
	table          *tview.Table
	diagnostics    *tview.TextView
	focusableItems []tview.Primitive
	currentFocus   int

	cfg *config.Config

	// Shared mutable state protected by mu (accessed from background goroutines)
	mu       sync.Mutex
	result   *output.JSONOutput
	sortMode SortMode

	benchComplete atomic.Bool
}

// NewApp creates a TUI that shows the benchmark configured in cfg
func NewApp(cfg *config.Config) *App {
	a := &App{
		app:   tview.NewApplication(),
		pages: tview.NewPages(),
		cfg:   cfg,
	}
	a.setupUI()
	return a
}

// SetResults displays a finished benchmark document
func (a *App) SetResults(result *output.JSONOutput) {
	if result == nil || result.Bench == nil || result.Bench.Report == nil {
		a.ShowError("Benchmark completed but returned no results")
		return
	}

	a.mu.Lock()
	a.result = result
	a.mu.Unlock()

	a.benchComplete.Store(true)

	a.app.QueueUpdateDraw(func() {
		a.displayResults()
		a.updateStatusBar()
		a.pages.SwitchToPage("results")
	})
}

// ShowError displays an error message in the TUI and stops the progress animation
func (a *App) ShowError(message string) {
	a.app.QueueUpdateDraw(func() {
		a.progressView.SetText(fmt.Sprintf("[red]Error:[white] %s\n\n[yellow]Press 'q' to quit[white]", message))
		a.statusBar.SetText("[red]Benchmark failed![white] | Press 'q' to quit")
		a.pages.SwitchToPage("progress")
	})
}

// setupUI initializes the user interface
func (a *App) setupUI() {
	a.progressView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false).
		SetWrap(false)
	a.progressView.SetBorder(true).SetTitle(" rargsort Benchmark Progress ").SetTitleAlign(tview.AlignCenter)

	a.resultsView = tview.NewFlex().SetDirection(tview.FlexRow)
	a.setupResultsView()

	a.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetText("[yellow]Starting benchmark...[white] | Press 'q' to quit")
	a.statusBar.SetBorder(false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.progressView, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	results := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.resultsView, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false)

	a.pages.AddPage("progress", main, true, true)
	a.pages.AddPage("results", results, true, false)

	a.app.SetInputCapture(a.handleKey)
	a.app.SetRoot(a.pages, true)
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case 'q', 'Q':
		a.app.Stop()
		return nil
	case 'r', 'R':
		if a.benchComplete.Load() {
			a.pages.SwitchToPage("results")
			a.updateStatusBar()
		}
		return nil
	case 'p', 'P':
		a.pages.SwitchToPage("progress")
		a.statusBar.SetText("[yellow]Progress view[white] | 'r' for results, 'q' to quit")
		return nil
	case 's', 'S':
		if a.benchComplete.Load() {
			a.mu.Lock()
			a.sortMode = (a.sortMode + 1) % sortModeCount
			a.mu.Unlock()
			a.displayResults()
			a.updateStatusBar()
		}
		return nil
	}

	frontPageName, _ := a.pages.GetFrontPage()
	if a.benchComplete.Load() && frontPageName == "results" {
		switch event.Key() {
		case tcell.KeyTab:
			a.nextFocus()
			return nil
		case tcell.KeyBacktab:
			a.prevFocus()
			return nil
		}
	}
	return event
}

// setupResultsView creates the results display layout
func (a *App) setupResultsView() {
	a.summary = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	a.summary.SetBorder(true).SetTitle(" Summary ").SetTitleAlign(tview.AlignLeft)

	a.table = tview.NewTable().
		SetBorders(false).
		SetFixed(1, 0).
		SetSelectable(true, false)
	a.table.SetBorder(true).SetTitle(" Timings ").SetTitleAlign(tview.AlignLeft)

	a.diagnostics = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	a.diagnostics.SetBorder(true).SetTitle(" Diagnostics ").SetTitleAlign(tview.AlignLeft)

	a.focusableItems = []tview.Primitive{a.table, a.diagnostics}
	a.currentFocus = 0
	a.updateFocusBorders()

	bottomRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(a.table, 0, 3, true).
		AddItem(a.diagnostics, 0, 1, false)

	a.resultsView.
		AddItem(a.summary, 9, 0, false).
		AddItem(bottomRow, 0, 1, true)
}

// Run starts the TUI application
func (a *App) Run() error {
	go a.animateProgress()
	return a.app.Run()
}

// animateProgress shows a progress animation until results arrive
func (a *App) animateProgress() {
	stages := []string{
		"[yellow]▶[white] Generating keys...",
		"[blue]▶[white] Timing sort.SliceStable...",
		"[cyan]▶[white] Timing radix argsort...",
		"[green]▶[white] Timing pooled sorter...",
		"[magenta]▶[white] Verifying permutations...",
	}

	stageIndex := 0
	dots := 0

	for !a.benchComplete.Load() {
		stage := stages[stageIndex%len(stages)]
		dotStr := strings.Repeat(".", dots%4)

		content := fmt.Sprintf(`
[white::b]rargsort Benchmark[white::-]

%s%s

%s
[dim]Press 'q' to quit[white]
`, stage, dotStr, configText(a.cfg))

		a.app.QueueUpdateDraw(func() {
			a.progressView.SetText(content)
		})

		time.Sleep(200 * time.Millisecond)
		dots++

		if dots%20 == 0 {
			stageIndex++
		}
	}
}

func (a *App) displayResults() {
	a.mu.Lock()
	result := a.result
	mode := a.sortMode
	a.mu.Unlock()

	if result == nil {
		return
	}
	a.summary.SetText(buildSummaryText(result))
	fillResultsTable(a.table, result.Bench.Report, mode)
	a.table.SetTitle(fmt.Sprintf(" Timings (sorted by %s) ", mode))
	a.diagnostics.SetText(buildDiagnosticsText(result))
}

// Navigation helper functions
func (a *App) nextFocus() {
	a.currentFocus = (a.currentFocus + 1) % len(a.focusableItems)
	a.updateFocusBorders()
	a.updateStatusBar()
}

func (a *App) prevFocus() {
	a.currentFocus = (a.currentFocus - 1 + len(a.focusableItems)) % len(a.focusableItems)
	a.updateFocusBorders()
	a.updateStatusBar()
}

func (a *App) updateFocusBorders() {
	for i, item := range a.focusableItems {
		box, ok := item.(interface {
			SetBorderColor(tcell.Color) *tview.Box
		})
		if !ok {
			continue
		}
		if i == a.currentFocus {
			box.SetBorderColor(tcell.ColorYellow)
			a.app.SetFocus(item)
		} else {
			box.SetBorderColor(tcell.ColorDefault)
		}
	}
}

func (a *App) updateStatusBar() {
	if !a.benchComplete.Load() {
		a.statusBar.SetText("[yellow]Benchmark in progress...[white] | 'q' to quit")
		return
	}

	panelNames := []string{"Timings", "Diagnostics"}
	a.mu.Lock()
	mode := a.sortMode
	a.mu.Unlock()
	a.statusBar.SetText(fmt.Sprintf("[green]Benchmark complete![white] | [yellow]%s[white] focused | sorted by %s | Tab/Shift+Tab: panels, 's': sort, 'p': progress, 'q': quit",
		panelNames[a.currentFocus], mode))
}

// configText describes the configured benchmark grid
func configText(cfg *config.Config) string {
	if cfg == nil || cfg.Bench == nil || cfg.Global == nil {
		return ""
	}
	return fmt.Sprintf(`[dim]Key type:[white] %s
[dim]Sizes:[white] %v
[dim]Digit widths:[white] %v
[dim]Repeats:[white] %d
`, cfg.Global.KeyType, cfg.Bench.Sizes, cfg.Bench.BitsList, cfg.Bench.Repeats)
}

func buildSummaryText(result *output.JSONOutput) string {
	report := result.Bench.Report

	var sb strings.Builder
	fmt.Fprintf(&sb, "[white::b]Key type:[white::-] %s   [white::b]Keys in:[white::-] [0, %d)   [white::b]Seed:[white::-] %d\n",
		report.KeyType, report.MaxValue, report.Seed)
	fmt.Fprintf(&sb, "[white::b]Total time:[white::-] %s   [white::b]Version:[white::-] %s\n\n",
		output.FormatDuration(report.Duration), result.Metadata.Version)

	for _, n := range result.Bench.Sizes {
		best, ok := report.Fastest(n)
		if !ok {
			continue
		}
		line := fmt.Sprintf("n=%s: [green]%s bits=%d[white] %s", output.FormatNumber(n), best.Method, best.Bits, output.FormatDuration(best.Mean))
		if base, ok := report.Baseline(n); ok && best.Mean > 0 {
			line += fmt.Sprintf(" ([yellow]%.2fx[white] vs stable)", float64(base.Mean)/float64(best.Mean))
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func buildDiagnosticsText(result *output.JSONOutput) string {
	if len(result.Warnings) == 0 && len(result.Errors) == 0 {
		return "[green]✅ No issues detected[white]"
	}

	var sb strings.Builder
	for _, w := range result.Warnings {
		fmt.Fprintf(&sb, "[yellow]•[white] %s\n", w.Message)
	}
	for _, e := range result.Errors {
		fmt.Fprintf(&sb, "[red]•[white] %s\n", e.Message)
	}
	return sb.String()
}

var tableHeaders = []string{"method", "size", "bits", "passes", "min", "mean", "verified"}

// fillResultsTable writes a header row and one row per result in the order
// selected by mode.
func fillResultsTable(table *tview.Table, report *bench.Report, mode SortMode) {
	table.Clear()
	for col, h := range tableHeaders {
		table.SetCell(0, col, tview.NewTableCell(h).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false).
			SetAlign(tview.AlignRight))
	}

	for row, i := range resultOrder(report, mode) {
		res := report.Results[i]
		bits, passes := "-", "-"
		if res.Method != bench.MethodStable {
			bits = fmt.Sprintf("%d", res.Bits)
			passes = fmt.Sprintf("%d", res.Passes)
		}
		verified := "[green]yes"
		if !res.Verified {
			verified = "[red]no"
		}
		cells := []string{
			string(res.Method),
			output.FormatNumber(res.Size),
			bits,
			passes,
			output.FormatDuration(res.Min),
			output.FormatDuration(res.Mean),
			verified,
		}
		for col, text := range cells {
			table.SetCell(row+1, col, tview.NewTableCell(text).SetAlign(tview.AlignRight))
		}
	}
}

// resultOrder returns the display order of report.Results. Timings are
// ordered with the radix argsort itself; ties keep run order.
func resultOrder(report *bench.Report, mode SortMode) []int {
	n := len(report.Results)
	if mode == SortByRun {
		return radix.Identity(n)
	}

	keys := make([]int64, n)
	for i, res := range report.Results {
		switch mode {
		case SortByMin:
			keys[i] = int64(res.Min)
		default:
			keys[i] = int64(res.Mean)
		}
	}
	order, err := radix.ArgsortSigned(keys, 8)
	if err != nil {
		return radix.Identity(n)
	}
	return order
}
