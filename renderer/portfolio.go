package renderer

import (
	loanvault "github.com/otsdesk/loanvault"
)

// portfolioRow is the view model for one active loan.
type portfolioRow struct {
	Provider    string
	Account     string
	Type        string
	Status      string
	Outstanding string
	EMI         string
	Offer       string
	Savings     string
	Tenure      int
}

type portfolioView struct {
	Rows            []portfolioRow
	Count           int
	TotalExposure   string
	TotalEMI        string
	TotalOffer      string
	TotalSavings    string
}

// PortfolioMarkdown renders the active loan set as a markdown table with
// per-loan settlement figures and the monthly EMI outflow total.
func PortfolioMarkdown(loans []*loanvault.LoanRecord) string {
	view := portfolioView{Count: len(loans)}
	var exposure, emi, offer, savings int64
	for _, l := range loans {
		view.Rows = append(view.Rows, portfolioRow{
			Provider:    l.Provider,
			Account:     l.Account(),
			Type:        string(l.LoanType),
			Status:      string(l.Status),
			Outstanding: loanvault.INR(l.Outstanding).String(),
			EMI:         loanvault.INR(l.EMI).String(),
			Offer:       loanvault.INR(l.SettlementOffer()).String(),
			Savings:     loanvault.INR(l.Savings()).String(),
			Tenure:      l.TenureRemainingMonths,
		})
		exposure += l.Outstanding
		emi += l.EMI
		offer += l.SettlementOffer()
		savings += l.Savings()
	}
	view.TotalExposure = loanvault.INR(exposure).String()
	view.TotalEMI = loanvault.INR(emi).String()
	view.TotalOffer = loanvault.INR(offer).String()
	view.TotalSavings = loanvault.INR(savings).String()

	return renderTemplate("portfolio", "portfolio.md", nil, view)
}
