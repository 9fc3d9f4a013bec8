package loanvault

import "testing"

func TestSettlementOffer(t *testing.T) {
	tests := []struct {
		outstanding int64
		offer       int64
		savings     int64
	}{
		{2450000, 1715000, 735000},
		{1894000, 1325800, 568200},
		{1000000, 700000, 300000},
		{1, 1, 0}, // 0.7 rounds to 1
		{10, 7, 3},
		{0, 0, 0},
	}
	for _, tt := range tests {
		r := &LoanRecord{Outstanding: tt.outstanding}
		if got := r.SettlementOffer(); got != tt.offer {
			t.Errorf("SettlementOffer(%d) = %d, want %d", tt.outstanding, got, tt.offer)
		}
		if got := r.Savings(); got != tt.savings {
			t.Errorf("Savings(%d) = %d, want %d", tt.outstanding, got, tt.savings)
		}
		// the split must always reconcile
		if r.SettlementOffer()+r.Savings() != tt.outstanding {
			t.Errorf("offer+savings != outstanding for %d", tt.outstanding)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, st := range Statuses {
		got, err := ParseStatus(string(st))
		if err != nil || got != st {
			t.Errorf("ParseStatus(%q) = %v, %v", st, got, err)
		}
	}
	for _, bad := range []string{"", "closed", "Closed", "SETTLED"} {
		if _, err := ParseStatus(bad); err == nil {
			t.Errorf("ParseStatus(%q) should fail", bad)
		}
	}
}

func TestDefaultStatus(t *testing.T) {
	if got := DefaultStatus(100); got != StatusRunningPaidEMI {
		t.Errorf("DefaultStatus(100) = %s", got)
	}
	if got := DefaultStatus(0); got != StatusClosed {
		t.Errorf("DefaultStatus(0) = %s", got)
	}
}

func TestParseLoanType(t *testing.T) {
	// the empty string is the historical default
	if got, err := ParseLoanType(""); err != nil || got != TypePersonal {
		t.Errorf("ParseLoanType(\"\") = %v, %v", got, err)
	}
	for _, lt := range LoanTypes {
		got, err := ParseLoanType(string(lt))
		if err != nil || got != lt {
			t.Errorf("ParseLoanType(%q) = %v, %v", lt, got, err)
		}
	}
	if _, err := ParseLoanType("car"); err == nil {
		t.Error("ParseLoanType(\"car\") should fail")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *LoanRecord {
		return &LoanRecord{
			Provider:      "HDFC Bank",
			AccountNumber: "HDFC24LOAN1",
			Outstanding:   2450000,
			LoanType:      TypePersonal,
			Status:        StatusRunningPaidEMI,
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	r := valid()
	r.Provider = ""
	if err := r.Validate(); err == nil {
		t.Error("missing provider should be rejected")
	}

	r = valid()
	r.AccountNumber = ""
	if err := r.Validate(); err == nil {
		t.Error("missing account should be rejected")
	}
	r.AccountRef = "REF1" // legacy ref alone is enough
	if err := r.Validate(); err != nil {
		t.Errorf("account_ref alone rejected: %v", err)
	}

	r = valid()
	r.Outstanding = -1
	if err := r.Validate(); err == nil {
		t.Error("negative outstanding should be rejected")
	}

	r = valid()
	r.Status = "SETTLED"
	if err := r.Validate(); err == nil {
		t.Error("unknown status should be rejected")
	}
}

func TestAccount(t *testing.T) {
	r := &LoanRecord{AccountNumber: "N1", AccountRef: "R1"}
	if got := r.Account(); got != "N1" {
		t.Errorf("Account() = %q, want N1", got)
	}
	r.AccountNumber = ""
	if got := r.Account(); got != "R1" {
		t.Errorf("Account() = %q, want R1", got)
	}
}
