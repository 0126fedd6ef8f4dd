package core

import (
	"strings"
	"time"
)

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	Investment AccountType = "investment"
	CreditCard AccountType = "credit_card"

	Income  TxnType = "income"
	Expense TxnType = "expense"

	Weekly  BudgetPeriod = "weekly"
	Monthly BudgetPeriod = "monthly"
	Yearly  BudgetPeriod = "yearly"
)

type (
	AccountType  string
	TxnType      string
	BudgetPeriod string

	// Account is a financial account owned by exactly one user. Balance is
	// mutated only through the balance maintainer operations on the store:
	// signed deltas for manual entries, full overwrite on provider sync.
	Account struct {
		ID          string      `json:"id"`
		UserID      string      `json:"userId"`
		Name        string      `json:"name"`
		Type        AccountType `json:"type"`
		Balance     Money       `json:"balance"`
		Institution string      `json:"institution,omitempty"`
		LastFour    string      `json:"lastFour,omitempty"`

		// Provider linkage; empty for manually created accounts.
		ProviderAccessToken string `json:"-"`
		ProviderAccountID   string `json:"-"`

		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	// Transaction is a signed monetary event. Amount is always positive;
	// Type encodes the sign (income adds, expense subtracts).
	Transaction struct {
		ID          string    `json:"id"`
		UserID      string    `json:"userId"`
		AccountID   string    `json:"accountId"`
		Type        TxnType   `json:"type"`
		Amount      Money     `json:"amount"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Date        Date      `json:"date"`
		CreatedAt   time.Time `json:"createdAt"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}

	// Budget caps spending for one category over a rolling period. Spent is
	// never stored; it is recomputed from the ledger on every read.
	Budget struct {
		ID        string       `json:"id"`
		UserID    string       `json:"userId"`
		Category  string       `json:"category"`
		Limit     Money        `json:"limit"`
		Period    BudgetPeriod `json:"period"`
		CreatedAt time.Time    `json:"createdAt"`
		UpdatedAt time.Time    `json:"updatedAt"`
	}

	// BudgetWithSpent augments a budget with the live spent figure.
	BudgetWithSpent struct {
		Budget
		Spent Money `json:"spent"`
	}
)

func (t AccountType) Valid() bool {
	switch t {
	case Checking, Savings, Investment, CreditCard:
		return true
	}
	return false
}

func (t TxnType) Valid() bool {
	return t == Income || t == Expense
}

func (p BudgetPeriod) Valid() bool {
	switch p {
	case Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Linked reports whether the account carries provider credentials.
func (a Account) Linked() bool {
	return a.ProviderAccessToken != "" && a.ProviderAccountID != ""
}

func (a Account) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if !a.Type.Valid() {
		return ErrInvalidAcctType
	}
	if a.LastFour != "" && len(a.LastFour) != 4 {
		return ErrValidation
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidTxnType
	}
	if t.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.Limit.Cents <= 0 {
		return ErrInvalidAmount
	}
	if !b.Period.Valid() {
		return ErrInvalidPeriod
	}
	return nil
}

// SignedCents returns the ledger contribution of the transaction: positive
// for income, negative for expense, regardless of account type.
func (t Transaction) SignedCents() int64 {
	if t.Type == Expense {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}
