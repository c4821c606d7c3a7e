package storage

import (
	"time"

	"mm1calc/internal/analysis"
	"mm1calc/internal/queue"
)

type HistoryItem struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Config    analysis.Config  `json:"config"`
	Summary   Summary          `json:"summary"`
	Report    *analysis.Report `json:"report,omitempty"`
}

// Summary is what the history table shows without unpacking the report.
type Summary struct {
	ServiceRate queue.ServiceRate `json:"service_rate"`
	Verdict     queue.Verdict     `json:"verdict"`
	Rho         float64           `json:"rho"`
	Ls          float64           `json:"ls"`
	Ws          float64           `json:"ws"`
}

// NewHistoryItem captures a finished analysis.
func NewHistoryItem(r *analysis.Report) HistoryItem {
	return HistoryItem{
		ID:        r.ID,
		Timestamp: r.Timestamp,
		Config:    r.Config,
		Summary: Summary{
			ServiceRate: r.ServiceRate,
			Verdict:     r.Verdict,
			Rho:         r.Utilization.Rho,
			Ls:          r.Measures.Ls,
			Ws:          r.Measures.Ws,
		},
		Report: r,
	}
}
