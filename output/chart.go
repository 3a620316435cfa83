package output

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ChristianF88/rargsort/bench"
	"github.com/ChristianF88/rargsort/radix"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// seriesKey identifies one line of the timing chart
type seriesKey struct {
	method bench.Method
	bits   int
}

func (k seriesKey) String() string {
	if k.method == bench.MethodStable {
		return "sort.SliceStable"
	}
	return fmt.Sprintf("%s bits=%d", k.method, k.bits)
}

// PlotBench writes an interactive HTML page with the mean time per input
// size for every method and digit width, plus the speedup of the fastest
// radix configuration over the stable baseline.
func PlotBench(report *bench.Report, filename string) error {
	page, err := benchPage(report)
	if err != nil {
		return err
	}

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create plot file %s: %w", filename, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("rendering benchmark plot: %w", err)
	}
	return nil
}

func benchPage(report *bench.Report) (*components.Page, error) {
	if report == nil || len(report.Results) == 0 {
		return nil, fmt.Errorf("no benchmark results to plot")
	}

	sizes := benchSizes(report)
	xAxis := make([]string, len(sizes))
	column := make(map[int]int, len(sizes))
	for i, n := range sizes {
		xAxis[i] = strconv.Itoa(n)
		column[n] = i
	}

	// Series keep first-seen order so the legend follows the run
	var order []seriesKey
	series := make(map[seriesKey][]opts.LineData)
	for _, res := range report.Results {
		key := seriesKey{method: res.Method, bits: res.Bits}
		data, ok := series[key]
		if !ok {
			order = append(order, key)
			data = make([]opts.LineData, len(sizes))
			for i := range data {
				data[i] = opts.LineData{Value: nil}
			}
		}
		data[column[res.Size]] = opts.LineData{
			Value: float64(res.Mean.Nanoseconds()) / 1e3,
			Name:  key.String(),
		}
		series[key] = data
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       "rargsort benchmark",
			Width:           "160vh",
			Height:          "60vh",
			Theme:           types.ThemeVintage,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Argsort mean time (%s keys in [0, %d))", report.KeyType, report.MaxValue),
			Subtitle: fmt.Sprintf("seed %d", report.Seed),
			Left:     "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "bottom",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "n",
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "mean (μs)",
			Type: "log",
		}),
	)
	line.SetXAxis(xAxis)
	for _, key := range order {
		line.AddSeries(key.String(), series[key])
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:           "160vh",
			Height:          "40vh",
			Theme:           types.ThemeVintage,
			BackgroundColor: "transparent",
		}),
		charts.WithTitleOpts(opts.Title{
			Title: "Speedup of the fastest radix configuration over sort.SliceStable",
			Left:  "center",
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Trigger: "item",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "n",
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "speedup (x)",
		}),
	)
	bar.SetXAxis(xAxis)
	bar.AddSeries("speedup", speedups(report, sizes))

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(line, bar)
	return page, nil
}

// benchSizes returns the distinct sizes of the report in ascending order so
// the x axis grows left to right whatever order the sizes were run in.
func benchSizes(report *bench.Report) []int {
	var sizes []int
	seen := make(map[int]bool)
	for _, res := range report.Results {
		if !seen[res.Size] {
			seen[res.Size] = true
			sizes = append(sizes, res.Size)
		}
	}
	radix.Sort(sizes)
	return sizes
}

func speedups(report *bench.Report, sizes []int) []opts.BarData {
	data := make([]opts.BarData, len(sizes))
	for i, n := range sizes {
		best, ok := report.Fastest(n)
		base, okBase := report.Baseline(n)
		if !ok || !okBase || best.Mean <= 0 {
			data[i] = opts.BarData{Value: 0}
			continue
		}
		data[i] = opts.BarData{
			Value: float64(base.Mean) / float64(best.Mean),
			Name:  seriesKey{method: best.Method, bits: best.Bits}.String(),
		}
	}
	return data
}
