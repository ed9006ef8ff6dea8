// Package bankfeed fetches account statements from a Monobank-style personal
// API.
package bankfeed

// ExternalRecord is one statement item. Amounts are in minor units; Amount is
// in the account currency and OperationAmount in the currency identified by
// the ISO 4217 numeric CurrencyCode.
type ExternalRecord struct {
	ID              string `json:"id"`
	Time            int64  `json:"time"`
	Description     string `json:"description"`
	Amount          int64  `json:"amount"`
	OperationAmount int64  `json:"operationAmount"`
	CurrencyCode    int    `json:"currencyCode"`
	Balance         int64  `json:"balance"`
	// Category is the merchant category code, sent as "mcc" by Monobank.
	Category        int    `json:"mcc"`
}

// Statement is a decoded statement response. Items that could not be decoded
// are dropped and counted in Malformed.
type Statement struct {
	Records   []ExternalRecord
	Malformed int
}
