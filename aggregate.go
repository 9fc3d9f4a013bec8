package loanvault

import (
	"log"
	"time"
)

// RBIOTSRule documents the provenance of the 70% settlement figure carried in
// the aggregate document.
const RBIOTSRule = "70% per DBOD.No.Leg.BC.252/09.07.005/2013-14"

// AggregateLoan is one loan's entry in the published aggregate, in the
// historical masters.json shape consumed by reporting tools.
type AggregateLoan struct {
	Provider     string
	Outstanding  int64
	EMI          int64
	TenureMonths int
	AccountRef   string
	StartDate    string
	Status       Status
	OTSAmount    int64 // recomputed 70% offer, never read back
	Savings      int64
}

// AggregateView is the single published portfolio summary. It is fully
// derivable from the active loan records at any time and is never mutated
// independently of that fold.
type AggregateView struct {
	Loans                    []AggregateLoan
	TotalExposure            int64
	TotalSettlementLiability int64
	TotalSavings             int64
	GeneratedAt              time.Time
}

// Aggregator recomputes portfolio-wide totals from the authoritative per-loan
// records and replaces the published masters.json wholesale. It treats the
// store as read-only input.
type Aggregator struct {
	Store *Store
}

// Sync enumerates every active loan folder, recomputes each loan's
// settlement offer and savings from its current outstanding principal, sums
// the totals, and atomically replaces the aggregate document. Archived loans
// are excluded by construction: the walk never enters archives/.
//
// Sync is a total rebuild, not an incremental update; with no intervening
// loan changes two calls produce identical totals.
func (g *Aggregator) Sync() (*AggregateView, error) {
	folders, err := g.Store.ActiveFolders()
	if err != nil {
		return nil, err
	}

	view := &AggregateView{GeneratedAt: time.Now()}
	for _, folder := range folders {
		r, err := g.Store.ReadFolder(folder)
		if err != nil {
			log.Printf("warning: skipping %q: %v", folder, err)
			continue
		}
		entry := AggregateLoan{
			Provider:     r.Provider,
			Outstanding:  r.Outstanding,
			EMI:          r.EMI,
			TenureMonths: r.TenureRemainingMonths,
			AccountRef:   r.Account(),
			StartDate:    r.StartDate,
			Status:       r.Status,
			OTSAmount:    r.SettlementOffer(),
			Savings:      r.Savings(),
		}
		view.Loans = append(view.Loans, entry)
		view.TotalExposure += entry.Outstanding
		view.TotalSettlementLiability += entry.OTSAmount
		view.TotalSavings += entry.Savings
	}

	data, err := EncodeAggregate(view)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(g.Store.MastersPath(), data); err != nil {
		return nil, err
	}
	return view, nil
}

// EncodeAggregate marshals the view to the masters.json wire shape, fields
// in a stable order.
func EncodeAggregate(view *AggregateView) ([]byte, error) {
	loans := make([]*jsonObjectWriter, 0, len(view.Loans))
	for _, l := range view.Loans {
		var w jsonObjectWriter
		w.Append("provider", l.Provider)
		w.Append("outstanding", l.Outstanding)
		w.Append("emi", l.EMI)
		w.Append("tenure_months", l.TenureMonths)
		w.Append("account_ref", l.AccountRef)
		w.Optional("start_date", l.StartDate)
		w.Append("status", l.Status)
		w.Append("ots_amount_70pct", l.OTSAmount)
		w.Append("savings", l.Savings)
		loans = append(loans, &w)
	}

	var w jsonObjectWriter
	w.Append("loans", loans)
	w.Append("total_exposure", view.TotalExposure)
	w.Append("total_ots_liability", view.TotalSettlementLiability)
	w.Append("total_savings", view.TotalSavings)
	w.Append("rbi_ots_rule", RBIOTSRule)
	w.Append("generated_at", view.GeneratedAt.Format(time.RFC3339))
	return w.Indented()
}
