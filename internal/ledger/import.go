package ledger

import (
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

// importNamespace scopes the name-based ids of bank-imported transactions.
var importNamespace = uuid.Must(uuid.FromString("5b0c1e52-7a43-4f0b-9d6e-1f6a2b8c9e31"))

// ImportID derives the transaction id for an external record. The same
// external id always yields the same UUIDv5 (SHA-1 digest).
func ImportID(externalID string) uuid.UUID {
	return uuid.NewV5(importNamespace, externalID)
}

// FromMinorUnits converts a minor-unit integer (cents, kopecks) to a major
// unit amount.
func FromMinorUnits(v int64) decimal.Decimal {
	return decimal.New(v, -2)
}

// ImportCategory classifies an imported amount by sign: incoming funds are
// replenishments, everything else is filed under the ingestion source.
func ImportCategory(minorUnits int64) string {
	if minorUnits > 0 {
		return CategoryReplenishment
	}
	return CategoryIngested
}
