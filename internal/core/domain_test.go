package core

import (
	"errors"
	"testing"
)

func validTxn() Transaction {
	return Transaction{
		Type:        Expense,
		Amount:      Money{Cents: 4000},
		Category:    "Food",
		Description: "groceries",
		Date:        NewDate(2024, 3, 5),
	}
}

func TestTransactionValidate(t *testing.T) {
	if err := validTxn().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Transaction)
		want   error
	}{
		{"bad type", func(tx *Transaction) { tx.Type = "transfer" }, ErrInvalidTxnType},
		{"zero amount", func(tx *Transaction) { tx.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(tx *Transaction) { tx.Amount = Money{Cents: -100} }, ErrInvalidAmount},
		{"empty category", func(tx *Transaction) { tx.Category = "  " }, ErrEmptyCategory},
		{"empty description", func(tx *Transaction) { tx.Description = "" }, ErrEmptyDescription},
		{"zero date", func(tx *Transaction) { tx.Date = Date{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tx := validTxn()
			tc.mutate(&tx)
			err := tx.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("%v should wrap ErrValidation", err)
			}
		})
	}
}

func TestAccountValidate(t *testing.T) {
	good := Account{Name: "Everyday Checking", Type: Checking, LastFour: "4821"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Account{
		{Name: "", Type: Checking},
		{Name: "X", Type: "brokerage"},
		{Name: "X", Type: Savings, LastFour: "12345"},
	}
	for i, a := range bads {
		if err := a.Validate(); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Category: "Food", Limit: Money{Cents: 10000}, Period: Monthly}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Budget{Category: "Food", Limit: Money{Cents: 1}, Period: "daily"}).Validate(); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatal("expected period error")
	}
	if err := (Budget{Category: "", Limit: Money{Cents: 1}, Period: Weekly}).Validate(); !errors.Is(err, ErrEmptyCategory) {
		t.Fatal("expected category error")
	}
}

func TestSignedCents(t *testing.T) {
	tx := validTxn()
	if got := tx.SignedCents(); got != -4000 {
		t.Fatalf("expense sign: got %d", got)
	}
	tx.Type = Income
	if got := tx.SignedCents(); got != 4000 {
		t.Fatalf("income sign: got %d", got)
	}
}

func TestAccountLinked(t *testing.T) {
	a := Account{}
	if a.Linked() {
		t.Fatal("unlinked account reported linked")
	}
	a.ProviderAccessToken = "access-sandbox-1"
	a.ProviderAccountID = "ext-1"
	if !a.Linked() {
		t.Fatal("linked account reported unlinked")
	}
}
