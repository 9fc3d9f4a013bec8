package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	loanvault "github.com/otsdesk/loanvault"
)

type setCmd struct {
	provider string
	account  string

	outstanding int64
	emi         int64
	tenure      int
	rate        float64
	loanType    string
	status      string

	borrower   string
	product    string
	linked     string
	start      string
	closure    string
	closedAt   string
	settlement string
	end        string
	notes      string
}

func (*setCmd) Name() string     { return "set" }
func (*setCmd) Synopsis() string { return "create or update a loan record" }
func (*setCmd) Usage() string {
	return `lv set -provider <name> -account <number> [field flags]

  Upserts the loan identified by the (provider, account) pair. The folder key
  is derived by normalization, so "HDFC Bank" and "hdfc bank" address the same
  loan. On an existing loan only the flags you pass are changed; everything
  else keeps its stored value. A brand new loan with money still owed defaults
  to status RUNNING_PAID_EMI.

Usage Examples:
# Register a loan.
$ lv set -provider "HDFC Bank" -account HDFC24LOAN1 -outstanding 2450000 -emi 52000 -type personal

# Record a settlement without retyping the rest.
$ lv set -provider "HDFC Bank" -account HDFC24LOAN1 -outstanding 0 -status CLOSED -settlement 2026-03-15

`
}

func (c *setCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.provider, "provider", "", "Lender name (required).")
	f.StringVar(&c.account, "account", "", "Account or agreement number (required).")
	f.Int64Var(&c.outstanding, "outstanding", 0, "Outstanding principal in whole currency units.")
	f.Int64Var(&c.emi, "emi", 0, "Monthly installment in whole currency units.")
	f.IntVar(&c.tenure, "tenure", 0, "Remaining tenure in months.")
	f.Float64Var(&c.rate, "rate", 0, "Annual interest rate in percent.")
	f.StringVar(&c.loanType, "type", "", "Loan type: personal, lap, flexi, home or od.")
	f.StringVar(&c.status, "status", "", "Loan status: CLOSED, PARTIAL, NEW_DISBURSED, RUNNING_PAID_EMI or NEGOTIATING.")
	f.StringVar(&c.borrower, "borrower", "", "Borrower name.")
	f.StringVar(&c.product, "product", "", "Product label used by the lender.")
	f.StringVar(&c.linked, "linked", "", "Linked bank account for repayments.")
	f.StringVar(&c.start, "start", "", "Disbursement date (YYYY-MM-DD).")
	f.StringVar(&c.closure, "closure", "", "Closure date (YYYY-MM-DD).")
	f.StringVar(&c.closedAt, "closed", "", "Closed-at date (YYYY-MM-DD).")
	f.StringVar(&c.settlement, "settlement", "", "Settlement date (YYYY-MM-DD).")
	f.StringVar(&c.end, "end", "", "Contractual end date (YYYY-MM-DD).")
	f.StringVar(&c.notes, "notes", "", "Free-form notes.")
}

func (c *setCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.provider == "" || c.account == "" {
		fmt.Fprintln(os.Stderr, "-provider and -account are required")
		return subcommands.ExitUsageError
	}

	store := Store()
	record, err := store.Get(c.provider, c.account)
	created := false
	if errors.Is(err, loanvault.ErrNotFound) {
		record = &loanvault.LoanRecord{
			Provider:      c.provider,
			AccountNumber: loanvault.NormalizeAccount(c.account),
			LoanType:      loanvault.TypePersonal,
		}
		created = true
	} else if err != nil {
		return setupError(err)
	}

	// only flags the user actually passed touch the stored record
	var badFlag error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "outstanding":
			record.Outstanding = c.outstanding
		case "emi":
			record.EMI = c.emi
		case "tenure":
			record.TenureRemainingMonths = c.tenure
		case "rate":
			record.InterestRate = c.rate
		case "type":
			lt, err := loanvault.ParseLoanType(c.loanType)
			if err != nil {
				badFlag = err
				return
			}
			record.LoanType = lt
		case "status":
			st, err := loanvault.ParseStatus(c.status)
			if err != nil {
				badFlag = err
				return
			}
			record.Status = st
		case "borrower":
			record.BorrowerName = c.borrower
		case "product":
			record.Product = c.product
		case "linked":
			record.LinkedAccount = c.linked
		case "start":
			record.StartDate = c.start
		case "closure":
			record.ClosureDate = c.closure
		case "closed":
			record.ClosedAt = c.closedAt
		case "settlement":
			record.SettlementDate = c.settlement
		case "end":
			record.EndDate = c.end
		case "notes":
			record.Notes = c.notes
		}
	})
	if badFlag != nil {
		fmt.Fprintln(os.Stderr, badFlag)
		return subcommands.ExitUsageError
	}
	if record.Status == "" {
		record.Status = loanvault.DefaultStatus(record.Outstanding)
	}

	if err := store.Write(record); err != nil {
		return setupError(err)
	}

	verb := "updated"
	if created {
		verb = "created"
	}
	fmt.Printf("%s %s\n", verb, loanvault.FolderName(record.Provider, record.Account()))
	fmt.Printf("  outstanding %d, settlement offer %d, savings %d\n",
		record.Outstanding, record.SettlementOffer(), record.Savings())
	return subcommands.ExitSuccess
}
