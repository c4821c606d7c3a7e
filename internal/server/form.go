package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"mm1calc/internal/analysis"
	"mm1calc/internal/queue"
)

type formPage struct {
	Config   analysis.Config
	Report   *analysis.Report
	Error    string
	Unstable *queue.UnstableError
}

// handleForm renders the input form. When the query carries arrival_rate the
// analysis is computed and rendered below it.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	page := formPage{Config: analysis.DefaultConfig()}

	if r.URL.Query().Has("arrival_rate") {
		cfg, err := configFromQuery(r.URL.Query())
		page.Config = cfg
		if err == nil {
			page.Report, err = s.analyze(cfg)
		}
		if err != nil {
			page.Error = err.Error()
			errors.As(err, &page.Unstable)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, page); err != nil {
		s.log.Error("render form", zap.Error(err))
	}
}

const formTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>M/M/1 Queue Calculator</title>
<style>
body { font-family: sans-serif; max-width: 52rem; margin: 2rem auto; color: #222; }
label { display: inline-block; width: 14rem; }
input { margin: .2rem 0; }
table { border-collapse: collapse; margin: 1rem 0; }
td, th { border: 1px solid #ccc; padding: .25rem .6rem; text-align: right; }
.error { color: #b00020; }
.warn { color: #a36200; }
</style>
</head>
<body>
<h1>M/M/1 Queue Calculator</h1>
<form method="get" action="/">
  <div><label>Arrival rate λ (per {{.Config.TimeUnit}})</label><input name="arrival_rate" value="{{.Config.ArrivalRate}}"></div>
  <div><label>Mean service time (in {{.Config.ServiceTimeUnit}}s)</label><input name="service_time" value="{{.Config.ServiceTime}}"></div>
  <div><label>{{.Config.ServiceTimeUnit}}s per {{.Config.TimeUnit}}</label><input name="unit_conversion" value="{{.Config.UnitConversion}}"></div>
  <div><label>Exact P(N = n), n</label><input name="n" value="{{.Config.N}}"></div>
  <div><label>Table up to n</label><input name="n_max" value="{{.Config.NMax}}"></div>
  <button type="submit">Compute</button>
</form>
{{if .Unstable}}
<h2>Stability check</h2>
<p>λ = {{printf "%.4f" .Unstable.ArrivalRate}}, μ = {{printf "%.4f" .Unstable.ServiceRate}}</p>
<p class="error">Unstable system: λ ≥ μ. Steady-state formulas do not apply.</p>
{{else if .Error}}
<p class="error">{{.Error}}</p>
{{end}}
{{with .Report}}
<h2>Results</h2>
{{range .Warnings}}<p class="warn">{{.}}</p>{{end}}
<table>
  <tr><th>Service rate μ</th><td>{{.ServiceRate}}</td></tr>
  <tr><th>Verdict</th><td>{{.Verdict}}</td></tr>
  <tr><th>Utilization ρ</th><td>{{printf "%.4f" .Utilization.Rho}}</td></tr>
  <tr><th>P0</th><td>{{printf "%.4f" .Utilization.P0}}</td></tr>
  <tr><th>Ls</th><td>{{printf "%.4f" .Measures.Ls}}</td></tr>
  <tr><th>Lq</th><td>{{printf "%.4f" .Measures.Lq}}</td></tr>
  <tr><th>Ws ({{.Config.TimeUnit}}s)</th><td>{{printf "%.4f" .Measures.Ws}}</td></tr>
  <tr><th>Wq ({{.Config.TimeUnit}}s)</th><td>{{printf "%.4f" .Measures.Wq}}</td></tr>
  <tr><th>Ws ({{.Config.ServiceTimeUnit}}s)</th><td>{{printf "%.4f" .WsService}}</td></tr>
  <tr><th>Wq ({{.Config.ServiceTimeUnit}}s)</th><td>{{printf "%.4f" .WqService}}</td></tr>
  <tr><th>P(N = {{.Exact.N}})</th><td>{{printf "%.6f" .Exact.P}}</td></tr>
</table>
<h3>Probability distribution</h3>
<table>
  <tr><th>n</th><th>P(N = n)</th><th>P(N ≤ n)</th></tr>
  {{range .Table}}<tr><td>{{.N}}</td><td>{{printf "%.6f" .P}}</td><td>{{printf "%.6f" .Cumulative}}</td></tr>
  {{end}}
</table>
{{if .Quantiles}}
<h3>Time percentiles ({{.Config.TimeUnit}}s)</h3>
<table>
  <tr><th>p</th><th>Time in system</th><th>Time in queue</th></tr>
  {{range .Quantiles}}<tr><td>{{printf "%.2f" .P}}</td><td>{{printf "%.4f" .Sojourn}}</td><td>{{printf "%.4f" .Waiting}}</td></tr>
  {{end}}
</table>
{{end}}
{{end}}
</body>
</html>
`
