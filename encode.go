package loanvault

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// EncodeLoanRecord marshals a record to the canonical loan.json form:
// indented, fields in a stable order, legacy key names preserved so older
// tooling keeps reading the files.
func EncodeLoanRecord(r *LoanRecord) ([]byte, error) {
	var w jsonObjectWriter
	w.Append("provider", r.Provider)
	w.Optional("product", r.Product)
	w.Append("account_number", r.AccountNumber)
	w.Append("account_ref", r.AccountRef)
	w.Optional("linked_account", r.LinkedAccount)
	w.Optional("borrower_name", r.BorrowerName)
	w.Append("outstanding_principal", r.Outstanding)
	w.Append("emi_amount", r.EMI)
	w.Append("tenure_remaining_months", r.TenureRemainingMonths)
	w.Optional("interest_rate", r.InterestRate)
	w.Append("loan_type", r.LoanType)
	w.Append("status", r.Status)
	w.Optional("start_date", r.StartDate)
	w.Optional("closure_date", r.ClosureDate)
	w.Optional("closed_at", r.ClosedAt)
	w.Optional("settlement_date", r.SettlementDate)
	w.Optional("end_date", r.EndDate)
	w.Optional("notes", r.Notes)
	w.Append("updated_at", r.UpdatedAt.Format(time.RFC3339))
	w.Optional("migrated_from", r.MigratedFrom)
	return w.Indented()
}

// Field aliases accumulated by years of ad-hoc tooling around the loan files.
// Decoding canonicalizes them in one place; every other component only ever
// sees the canonical LoanRecord shape.
var (
	pathsAccount     = []string{"$.account_number", "$.account_ref"}
	pathsOutstanding = []string{"$.outstanding_principal", "$.outstanding"}
	pathsEMI         = []string{"$.emi_amount", "$.emi"}
	pathsTenure      = []string{"$.tenure_remaining_months", "$.tenure_months"}
	pathsStatus      = []string{"$.status", "$.verification_status"}
)

// DecodeLoanRecord parses a loan.json or legacy meta.json document into the
// canonical record shape. Unknown or missing statuses are defaulted from the
// outstanding balance, with a warning, so a legacy record never gets dropped.
func DecodeLoanRecord(data []byte) (*LoanRecord, error) {
	var jobj any
	if err := json.Unmarshal(data, &jobj); err != nil {
		return nil, fmt.Errorf("could not parse loan record: %w", err)
	}

	r := &LoanRecord{
		Provider:              jString(jobj, "$.provider"),
		AccountNumber:         jString(jobj, pathsAccount...),
		AccountRef:            jString(jobj, "$.account_ref", "$.account_number"),
		LinkedAccount:         jString(jobj, "$.linked_account"),
		BorrowerName:          jString(jobj, "$.borrower_name"),
		Product:               jString(jobj, "$.product"),
		Outstanding:           jInt(jobj, pathsOutstanding...),
		EMI:                   jInt(jobj, pathsEMI...),
		TenureRemainingMonths: int(jInt(jobj, pathsTenure...)),
		InterestRate:          jFloat(jobj, "$.interest_rate"),
		StartDate:             jString(jobj, "$.start_date"),
		ClosureDate:           jString(jobj, "$.closure_date"),
		ClosedAt:              jString(jobj, "$.closed_at"),
		SettlementDate:        jString(jobj, "$.settlement_date"),
		EndDate:               jString(jobj, "$.end_date"),
		Notes:                 jString(jobj, "$.notes"),
		MigratedFrom:          jString(jobj, "$.migrated_from"),
	}

	rawStatus := jString(jobj, pathsStatus...)
	status, err := ParseStatus(rawStatus)
	if err != nil {
		status = DefaultStatus(r.Outstanding)
		if rawStatus != "" {
			log.Printf("warning: %v for %s/%s, defaulting to %s", err, r.Provider, r.Account(), status)
		}
	}
	r.Status = status

	rawType := jString(jobj, "$.loan_type")
	loanType, err := ParseLoanType(rawType)
	if err != nil {
		log.Printf("warning: %v for %s/%s, defaulting to %s", err, r.Provider, r.Account(), TypePersonal)
		loanType = TypePersonal
	}
	r.LoanType = loanType

	if ts := jString(jobj, "$.updated_at"); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			r.UpdatedAt = t
		}
	}
	return r, nil
}

// jString returns the first non-empty string value among the jsonpath
// expressions, or "".
func jString(jobj any, paths ...string) string {
	for _, path := range paths {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue
		}
		if s, ok := jval.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// jInt returns the first numeric value among the jsonpath expressions,
// truncated to whole units, or 0.
func jInt(jobj any, paths ...string) int64 {
	for _, path := range paths {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue
		}
		if f, ok := jval.(float64); ok {
			return int64(f)
		}
	}
	return 0
}

// jFloat returns the first numeric value among the jsonpath expressions, or 0.
// Legacy files stored some numbers as strings; those are ignored rather than
// guessed at.
func jFloat(jobj any, paths ...string) float64 {
	for _, path := range paths {
		jval, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue
		}
		if f, ok := jval.(float64); ok {
			return f
		}
	}
	return 0
}
