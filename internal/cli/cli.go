package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"mm1calc/internal/analysis"
	"mm1calc/internal/export"
	"mm1calc/internal/queue"
)

const rule = "======================================================================"

// unstableSummary is what the structured formats emit when no report exists.
type unstableSummary struct {
	Verdict     queue.Verdict `json:"verdict" yaml:"verdict"`
	ArrivalRate float64       `json:"arrival_rate" yaml:"arrival_rate"`
	ServiceRate float64       `json:"service_rate" yaml:"service_rate"`
	Error       string        `json:"error" yaml:"error"`
}

// Start runs one headless analysis and writes it to w in the given format.
// An unstable queue is reported and its error returned so the caller can
// exit non-zero.
func Start(cfg analysis.Config, format export.Format, outPrefix string, w io.Writer) error {
	report, err := analysis.Run(cfg)

	var unstable *queue.UnstableError
	if errors.As(err, &unstable) {
		printUnstable(w, cfg, format, unstable)
		return err
	}
	if err != nil {
		return err
	}

	switch format {
	case export.FormatJSON:
		err = export.WriteJSON(w, report)
	case export.FormatYAML:
		err = export.WriteYAML(w, report)
	default:
		printHeader(w, cfg)
		printSummary(w, report)
	}
	if err != nil {
		return err
	}

	return handleAutoReport(w, report, outPrefix, format)
}

func printHeader(w io.Writer, cfg analysis.Config) {
	fmt.Fprintf(w, "\n📐 M/M/1 QUEUE ANALYSIS\n")
	fmt.Fprintf(w, "%s\n", rule)
	fmt.Fprintf(w, "Arrival rate λ : %.4f per %s\n", cfg.ArrivalRate, cfg.TimeUnit)
	fmt.Fprintf(w, "Service time   : %.4f %s (%g %s per %s)\n",
		cfg.ServiceTime, plural(cfg.ServiceTimeUnit),
		cfg.UnitConversion, plural(cfg.ServiceTimeUnit), cfg.TimeUnit)
	fmt.Fprintf(w, "%s\n\n", rule)
}

func printUnstable(w io.Writer, cfg analysis.Config, format export.Format, e *queue.UnstableError) {
	summary := unstableSummary{
		Verdict:     e.Verdict(),
		ArrivalRate: e.ArrivalRate,
		ServiceRate: e.ServiceRate,
		Error:       e.Error(),
	}
	switch format {
	case export.FormatJSON:
		export.EncodeJSON(w, summary)
		return
	case export.FormatYAML:
		export.EncodeYAML(w, summary)
		return
	}

	printHeader(w, cfg)
	fmt.Fprintf(w, "λ = %.4f, μ = %.4f per %s\n", e.ArrivalRate, e.ServiceRate, cfg.TimeUnit)
	fmt.Fprintf(w, "Verdict        : %s\n\n", e.Verdict())
	fmt.Fprintf(w, "❌ Unstable system: λ ≥ μ. M/M/1 steady-state formulas require λ < μ.\n")
	fmt.Fprintf(w, "%s\n", rule)
}

func printSummary(w io.Writer, r *analysis.Report) {
	cfg := r.Config
	unit := plural(cfg.TimeUnit)
	svcUnit := plural(cfg.ServiceTimeUnit)

	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "⚠️  %s\n\n", warning)
	}

	fmt.Fprintf(w, "Service rate μ : %s per %s\n", formatRate(r.ServiceRate), cfg.TimeUnit)
	fmt.Fprintf(w, "Utilization ρ  : %.4f %s\n", r.Utilization.Rho, progressBar(r.Utilization.Rho, 20))
	fmt.Fprintf(w, "P0 (empty)     : %.4f\n", r.Utilization.P0)
	fmt.Fprintf(w, "Verdict        : %s\n", r.Verdict)

	fmt.Fprintf(w, "\n📊 PERFORMANCE MEASURES (averages)\n")
	fmt.Fprintf(w, "   %-26s %12s  %-10s %s\n", "Measure", "Value", "Units", "Value ("+svcUnit+")")
	fmt.Fprintf(w, "   %-26s %12.4f  %-10s %s\n", "Ls (avg. in system)", r.Measures.Ls, "customers", "—")
	fmt.Fprintf(w, "   %-26s %12.4f  %-10s %s\n", "Lq (avg. waiting)", r.Measures.Lq, "customers", "—")
	fmt.Fprintf(w, "   %-26s %12.4f  %-10s %.4f\n", "Ws (avg. time in system)", r.Measures.Ws, unit, r.WsService)
	fmt.Fprintf(w, "   %-26s %12.4f  %-10s %.4f\n", "Wq (avg. waiting time)", r.Measures.Wq, unit, r.WqService)

	fmt.Fprintf(w, "\n🎯 STATE PROBABILITIES\n")
	fmt.Fprintf(w, "   P(N = %d) = (1 − ρ) ρ^%d = %.6f\n\n", r.Exact.N, r.Exact.N, r.Exact.P)
	fmt.Fprintf(w, "   %5s  %10s  %10s\n", "n", "P(N = n)", "P(N ≤ n)")
	peak := r.Utilization.P0
	for _, e := range r.Table {
		pct := 0.0
		if peak > 0 {
			pct = e.P / peak
		}
		fmt.Fprintf(w, "   %5d  %10.6f  %10.6f  %s\n", e.N, e.P, e.Cumulative, progressBar(pct, 20))
	}

	if len(r.Quantiles) > 0 {
		fmt.Fprintf(w, "\n⏱️  TIME PERCENTILES (%s)\n", unit)
		fmt.Fprintf(w, "   %5s  %14s  %14s\n", "p", "in system", "in queue")
		for _, q := range r.Quantiles {
			fmt.Fprintf(w, "   %5.2f  %14.4f  %14.4f\n", q.P, q.Sojourn, q.Waiting)
		}
	}

	fmt.Fprintf(w, "\n📝 NOTES\n")
	fmt.Fprintf(w, "   - Assumes an M/M/1 queue in steady state: Poisson arrivals, exponential service, single server.\n")
	fmt.Fprintf(w, "   - Steady-state measures are valid only when λ < μ.\n")
	fmt.Fprintf(w, "   - μ is converted to per %s; times are reported in %s (and %s for convenience).\n",
		cfg.TimeUnit, unit, svcUnit)
	fmt.Fprintf(w, "%s\n", rule)
}

func progressBar(pct float64, width int) string {
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("-", width-filled) + "]"
}

func formatRate(mu queue.ServiceRate) string {
	if v, finite := mu.Value(); finite {
		return fmt.Sprintf("%.4f", v)
	}
	return mu.String()
}

func plural(unit string) string {
	if unit == "" || strings.HasSuffix(unit, "s") {
		return unit
	}
	return unit + "s"
}

func handleAutoReport(w io.Writer, r *analysis.Report, prefix string, format export.Format) error {
	if prefix == "" {
		return nil
	}
	if err := export.ExportAll(r, prefix); err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}
	// Keep structured stdout parseable.
	if format == export.FormatText {
		fmt.Fprintf(w, "\n💾 Reports saved to %s.{csv,json,yaml}\n", prefix)
	}
	return nil
}
