package loanvault

import (
	"strings"
	"testing"
	"time"
)

func TestEncodeDecodeRoundtrip(t *testing.T) {
	r := &LoanRecord{
		Provider:              "HDFC Bank",
		AccountNumber:         "HDFC24LOAN1",
		AccountRef:            "HDFC24LOAN1",
		BorrowerName:          "A. Borrower",
		Outstanding:           2450000,
		EMI:                   52000,
		TenureRemainingMonths: 48,
		InterestRate:          14.5,
		LoanType:              TypePersonal,
		Status:                StatusRunningPaidEMI,
		StartDate:             "2024-03-01",
		UpdatedAt:             time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
	}

	data, err := EncodeLoanRecord(r)
	if err != nil {
		t.Fatal(err)
	}

	got, err := DecodeLoanRecord(data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Provider != r.Provider || got.AccountNumber != r.AccountNumber {
		t.Errorf("identity fields lost: %+v", got)
	}
	if got.Outstanding != r.Outstanding || got.EMI != r.EMI || got.TenureRemainingMonths != r.TenureRemainingMonths {
		t.Errorf("amounts lost: %+v", got)
	}
	if got.Status != r.Status || got.LoanType != r.LoanType {
		t.Errorf("status/type lost: got %s/%s", got.Status, got.LoanType)
	}
	if !got.UpdatedAt.Equal(r.UpdatedAt) {
		t.Errorf("updated_at lost: %v", got.UpdatedAt)
	}
}

func TestEncodeFieldOrder(t *testing.T) {
	r := &LoanRecord{
		Provider:      "HDFC Bank",
		AccountNumber: "A1",
		Outstanding:   100,
		LoanType:      TypePersonal,
		Status:        StatusRunningPaidEMI,
	}
	data, err := EncodeLoanRecord(r)
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	// stable order keeps files diffable
	if !(strings.Index(s, `"provider"`) < strings.Index(s, `"account_number"`) &&
		strings.Index(s, `"account_number"`) < strings.Index(s, `"outstanding_principal"`) &&
		strings.Index(s, `"outstanding_principal"`) < strings.Index(s, `"status"`)) {
		t.Errorf("unexpected field order:\n%s", s)
	}
	if !strings.HasSuffix(s, "}\n") {
		t.Error("encoded record should end with a newline")
	}
}

func TestDecodeLegacyAliases(t *testing.T) {
	legacy := []byte(`{
		"provider": "ICICI",
		"account_ref": "ICICI9988",
		"outstanding": 1894000,
		"emi": 41000,
		"tenure_months": 36,
		"verification_status": "NEGOTIATING"
	}`)

	r, err := DecodeLoanRecord(legacy)
	if err != nil {
		t.Fatal(err)
	}
	if r.Account() != "ICICI9988" {
		t.Errorf("Account() = %q", r.Account())
	}
	if r.Outstanding != 1894000 {
		t.Errorf("Outstanding = %d", r.Outstanding)
	}
	if r.EMI != 41000 {
		t.Errorf("EMI = %d", r.EMI)
	}
	if r.TenureRemainingMonths != 36 {
		t.Errorf("TenureRemainingMonths = %d", r.TenureRemainingMonths)
	}
	if r.Status != StatusNegotiating {
		t.Errorf("Status = %s", r.Status)
	}
	if r.LoanType != TypePersonal {
		t.Errorf("LoanType = %s", r.LoanType)
	}
}

func TestDecodeCanonicalWinsOverAlias(t *testing.T) {
	data := []byte(`{
		"provider": "ICICI",
		"account_number": "NEW1",
		"account_ref": "OLD1",
		"outstanding_principal": 500,
		"outstanding": 999,
		"status": "RUNNING_PAID_EMI"
	}`)
	r, err := DecodeLoanRecord(data)
	if err != nil {
		t.Fatal(err)
	}
	if r.Account() != "NEW1" {
		t.Errorf("Account() = %q, want NEW1", r.Account())
	}
	if r.Outstanding != 500 {
		t.Errorf("Outstanding = %d, want 500", r.Outstanding)
	}
}

func TestDecodeStatusDefaulting(t *testing.T) {
	// missing status on a loan still owing money
	r, err := DecodeLoanRecord([]byte(`{"provider":"X","account_ref":"A","outstanding":100}`))
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != StatusRunningPaidEMI {
		t.Errorf("Status = %s, want RUNNING_PAID_EMI", r.Status)
	}

	// missing status on a paid-off loan
	r, err = DecodeLoanRecord([]byte(`{"provider":"X","account_ref":"A","outstanding":0}`))
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != StatusClosed {
		t.Errorf("Status = %s, want CLOSED", r.Status)
	}

	// unrecognized status is defaulted, not fatal
	r, err = DecodeLoanRecord([]byte(`{"provider":"X","account_ref":"A","outstanding":100,"status":"WEIRD"}`))
	if err != nil {
		t.Fatal(err)
	}
	if r.Status != StatusRunningPaidEMI {
		t.Errorf("Status = %s, want RUNNING_PAID_EMI", r.Status)
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := DecodeLoanRecord([]byte("not json")); err == nil {
		t.Error("garbage input should fail")
	}
}
