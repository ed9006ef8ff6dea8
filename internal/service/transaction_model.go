package service

import (
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/shopspring/decimal"
)

// TransactionInput is a manual entry. A zero SecondAmount asks for inference.
type TransactionInput struct {
	Date               time.Time
	Category           string
	FirstAmount        decimal.Decimal
	FirstCurrencyCode  string
	SecondAmount       decimal.Decimal
	SecondCurrencyCode string
	Comment            string
}

// TransactionUpdate carries the fields to change; unset fields are kept.
type TransactionUpdate struct {
	Date               omit.Val[time.Time]
	Category           omit.Val[string]
	FirstAmount        omit.Val[decimal.Decimal]
	FirstCurrencyCode  omit.Val[string]
	SecondAmount       omit.Val[decimal.Decimal]
	SecondCurrencyCode omit.Val[string]
	Comment            omit.Val[string]
}

// TransactionQuery narrows a listing. An empty Category or "All" lists every
// category.
type TransactionQuery struct {
	Category  string
	From      *time.Time
	To        *time.Time
	Ascending bool
}

// TransactionCursor identifies a position in a paginated result set
// and carries the limit and maxCreationTime so subsequent pages are consistent.
type TransactionCursor struct {
	Position        int
	Limit           int
	MaxCreationTime time.Time
}
