package renderer

import (
	loanvault "github.com/otsdesk/loanvault"
)

type aggregateView struct {
	Count       int
	Exposure    string
	Liability   string
	Savings     string
	GeneratedAt string
}

// AggregateMarkdown renders the totals of a freshly synced aggregate.
func AggregateMarkdown(view *loanvault.AggregateView) string {
	return renderTemplate("aggregate", "aggregate.md", nil, aggregateView{
		Count:       len(view.Loans),
		Exposure:    loanvault.INR(view.TotalExposure).String(),
		Liability:   loanvault.INR(view.TotalSettlementLiability).String(),
		Savings:     loanvault.INR(view.TotalSavings).String(),
		GeneratedAt: view.GeneratedAt.Format("2006-01-02 15:04:05"),
	})
}
