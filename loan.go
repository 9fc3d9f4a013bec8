// Package loanvault implements the storage core for a portfolio of debt
// instruments: a canonical per-loan folder store, a content-addressable
// duplicate index for uploaded documents, a yearly archive for settled loans,
// and an aggregator that republishes the portfolio summary from the per-loan
// records on disk.
package loanvault

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a loan. The set is closed: unknown values
// are rejected at the storage boundary.
type Status string

const (
	StatusClosed         Status = "CLOSED"
	StatusPartial        Status = "PARTIAL"
	StatusNewDisbursed   Status = "NEW_DISBURSED"
	StatusRunningPaidEMI Status = "RUNNING_PAID_EMI"
	StatusNegotiating    Status = "NEGOTIATING"
)

// Statuses lists all valid loan statuses.
var Statuses = []Status{StatusClosed, StatusPartial, StatusNewDisbursed, StatusRunningPaidEMI, StatusNegotiating}

// ParseStatus returns the Status for 's', or an error if it is not one of the
// closed set.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if Status(s) == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown loan status %q", s)
}

// DefaultStatus is the status assumed for a record that carries none (or an
// unrecognized one): running when money is still owed, closed otherwise.
func DefaultStatus(outstanding int64) Status {
	if outstanding > 0 {
		return StatusRunningPaidEMI
	}
	return StatusClosed
}

// LoanType is the product category of a loan.
type LoanType string

const (
	TypePersonal LoanType = "personal"
	TypeLAP      LoanType = "lap"
	TypeFlexi    LoanType = "flexi"
	TypeHome     LoanType = "home"
	TypeOD       LoanType = "od"
)

// LoanTypes lists all valid loan types.
var LoanTypes = []LoanType{TypePersonal, TypeLAP, TypeFlexi, TypeHome, TypeOD}

// ParseLoanType returns the LoanType for 's'. The empty string maps to
// personal, the historical default.
func ParseLoanType(s string) (LoanType, error) {
	if s == "" {
		return TypePersonal, nil
	}
	for _, lt := range LoanTypes {
		if LoanType(s) == lt {
			return lt, nil
		}
	}
	return "", fmt.Errorf("unknown loan type %q", s)
}

// LoanRecord is one settlement-eligible debt instrument. It is the canonical
// shape persisted as loan.json inside the loan's folder; the folder key is
// derived from Provider and AccountNumber.
//
// Amounts are whole currency units. SettlementOffer and Savings are always
// derived from Outstanding, never stored as independent truth.
type LoanRecord struct {
	Provider      string
	AccountNumber string
	AccountRef    string // legacy identifier, kept alongside AccountNumber
	LinkedAccount string
	BorrowerName  string
	Product       string

	Outstanding           int64 // outstanding principal, >= 0
	EMI                   int64
	TenureRemainingMonths int
	InterestRate          float64
	LoanType              LoanType
	Status                Status

	// Optional lifecycle dates, stored as ISO date strings. Archive-year
	// resolution reads them in this order.
	ClosureDate    string
	ClosedAt       string
	SettlementDate string
	EndDate        string

	StartDate string
	Notes     string

	UpdatedAt    time.Time
	MigratedFrom string // provenance of a legacy migration, if any
}

var settlementRate = decimal.RequireFromString("0.70")

// SettlementOffer is the 70% one-time-settlement amount, rounded to the
// nearest whole unit.
func (r *LoanRecord) SettlementOffer() int64 {
	return decimal.NewFromInt(r.Outstanding).Mul(settlementRate).Round(0).IntPart()
}

// Savings is what settling at the offer leaves on the table:
// Outstanding - SettlementOffer. The two always sum back to Outstanding.
func (r *LoanRecord) Savings() int64 {
	return r.Outstanding - r.SettlementOffer()
}

// Validate checks the record against the storage-boundary rules.
func (r *LoanRecord) Validate() error {
	if r.Provider == "" {
		return fmt.Errorf("loan record has no provider")
	}
	if r.AccountNumber == "" && r.AccountRef == "" {
		return fmt.Errorf("loan record has no account reference")
	}
	if r.Outstanding < 0 {
		return fmt.Errorf("outstanding principal must be >= 0, got %d", r.Outstanding)
	}
	if r.EMI < 0 {
		return fmt.Errorf("emi amount must be >= 0, got %d", r.EMI)
	}
	if r.TenureRemainingMonths < 0 {
		return fmt.Errorf("remaining tenure must be >= 0, got %d", r.TenureRemainingMonths)
	}
	if _, err := ParseStatus(string(r.Status)); err != nil {
		return err
	}
	if _, err := ParseLoanType(string(r.LoanType)); err != nil {
		return err
	}
	return nil
}

// Account returns the account identifier used for the folder key:
// AccountNumber when set, else the legacy AccountRef.
func (r *LoanRecord) Account() string {
	if r.AccountNumber != "" {
		return r.AccountNumber
	}
	return r.AccountRef
}
