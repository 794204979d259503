// Command ewmainfo prints smoothing characteristics of EWMA filter settings.
//
// Usage:
//
//	ewmainfo [flags] [tau ...]
//
// Each argument is a time constant in ticks. Without arguments a default
// set of time constants is printed.
//
// Examples:
//
//	ewmainfo 10 50
//	ewmainfo -rate 100 -alpha 0.03 0.25
//	ewmainfo -fixed 3/100 -amplitude 4096
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-ewma/dsp/filter/ewma"
	"github.com/cwbudde/algo-ewma/measure/response"
)

var defaultTaus = []float64{1, 2, 5, 10, 20, 50, 100}

var errBadRatio = errors.New("ratio must look like alpha/scale")

type row struct {
	label  string
	alpha  float64
	tau    float64
	result response.Result
}

func main() {
	rate := flag.Float64("rate", 1000, "tick rate in Hz used for the cutoff frequency")
	length := flag.Int("length", 4096, "number of ticks recorded per response")
	asAlpha := flag.Bool("alpha", false, "interpret arguments as per-tick weights instead of time constants")
	fixed := flag.String("fixed", "", "analyze a fixed-point filter with ratio alpha/scale, e.g. 3/100")
	amplitude := flag.Int64("amplitude", 1000, "integer step amplitude for -fixed")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ewmainfo [flags] [tau ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints step settle times and -3 dB cutoff of EWMA filters.\n")
		fmt.Fprintf(os.Stderr, "Without arguments, prints a default set of time constants.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  ewmainfo 10 50\n")
		fmt.Fprintf(os.Stderr, "  ewmainfo -rate 100 -alpha 0.03 0.25\n")
		fmt.Fprintf(os.Stderr, "  ewmainfo -fixed 3/100 -amplitude 4096\n")
	}
	flag.Parse()

	opts := []response.Option{
		response.WithSampleRate(*rate),
		response.WithLength(*length),
	}

	var (
		rows []row
		err  error
	)

	if *fixed != "" {
		rows, err = fixedRows(*fixed, *amplitude, opts)
	} else {
		rows, err = timeWeightedRows(flag.Args(), *asAlpha, opts)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if len(rows) == 0 {
		fmt.Fprintf(os.Stderr, "error: nothing to analyze\n")
		os.Exit(1)
	}

	printRows(rows, *rate)
}

func timeWeightedRows(args []string, asAlpha bool, opts []response.Option) ([]row, error) {
	values := defaultTaus
	if len(args) > 0 {
		values = nil
		for _, arg := range args {
			v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: skipping %q: %v\n", arg, err)
				continue
			}
			values = append(values, v)
		}
	}

	rows := make([]row, 0, len(values))
	for _, v := range values {
		f := ewma.NewTimeWeighted(v)
		label := fmt.Sprintf("tau=%g", v)
		if asAlpha {
			f.SetAlpha(v)
			label = fmt.Sprintf("alpha=%g", v)
		}

		res, err := response.Analyze(f.FilterTick, f.Reset, opts...)
		if err != nil {
			return nil, err
		}

		rows = append(rows, row{label: label, alpha: f.Alpha(), tau: f.Tau(), result: res})
	}

	return rows, nil
}

func fixedRows(ratio string, amplitude int64, opts []response.Option) ([]row, error) {
	alpha, scale, err := parseRatio(ratio)
	if err != nil {
		return nil, err
	}

	if amplitude <= 0 {
		return nil, fmt.Errorf("amplitude must be > 0: %d", amplitude)
	}

	f, err := ewma.NewFixedPoint(alpha, scale)
	if err != nil {
		return nil, err
	}

	amp := float64(amplitude)
	step := func(x float64) float64 {
		return float64(f.Filter(int64(math.Round(x*amp)))) / amp
	}

	res, err := response.Analyze(step, f.Reset, opts...)
	if err != nil {
		return nil, err
	}

	weight := float64(alpha) / float64(scale)

	return []row{{
		label:  fmt.Sprintf("fixed %d/%d @%d", alpha, scale, amplitude),
		alpha:  weight,
		tau:    ewma.NewTimeWeighted(0).SetAlpha(weight),
		result: res,
	}}, nil
}

func parseRatio(s string) (int64, uint, error) {
	num, den, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", errBadRatio, s)
	}

	alpha, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", errBadRatio, s, err)
	}

	scale, err := strconv.ParseUint(strings.TrimSpace(den), 10, 0)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", errBadRatio, s, err)
	}

	return alpha, uint(scale), nil
}

func formatTicks(n int) string {
	if n < 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

func formatHz(hz float64) string {
	if math.IsNaN(hz) {
		return "-"
	}
	return strconv.FormatFloat(hz, 'f', 4, 64)
}

func printRows(rows []row, rate float64) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(tw, "Filter\tAlpha\tTau [ticks]\tRise 63%%\tSettle 95%%\tSettle 99%%\tFinal\tCutoff [Hz @ %g]\n", rate); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}
	if _, err := fmt.Fprintf(tw, "------\t-----\t-----------\t--------\t----------\t----------\t-----\t---------\n"); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output header: %v\n", err)
		return
	}

	for _, r := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%.6f\t%.4f\t%s\t%s\t%s\t%.6f\t%s\n",
			r.label,
			r.alpha,
			r.tau,
			formatTicks(r.result.Rise63),
			formatTicks(r.result.Settle95),
			formatTicks(r.result.Settle99),
			r.result.StepFinal,
			formatHz(r.result.CutoffHz),
		); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "error: failed to write output row: %v\n", err)
			return
		}
	}
	if err := tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: failed to flush output: %v\n", err)
	}
}
