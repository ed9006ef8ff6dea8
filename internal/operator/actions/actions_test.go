package actions

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aarondl/opt/omit"
	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/budget-ledger/internal/bankfeed"
	"github.com/carson-networks/budget-ledger/internal/currency"
	"github.com/carson-networks/budget-ledger/internal/ledger"
	"github.com/carson-networks/budget-ledger/internal/storage"
	"github.com/carson-networks/budget-ledger/internal/storage/memory"
)

var catalog = currency.NewCatalog()

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(n int) time.Time {
	return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

// newLedger returns memory-backed storage with UAH/PLN settings and a Food
// and Electronics category.
func newLedger(t *testing.T) (*storage.Storage, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	s := storage.NewMemoryStorage(store)
	perform(t, s, &EnsureSettings{
		Catalog:  catalog,
		Defaults: ledger.Settings{BaseCurrency1: "UAH", BaseCurrency2: "PLN"},
	})
	perform(t, s, &SeedCategories{Defaults: []*ledger.Category{
		{Label: "Food", Color: "#111111"},
		{Label: "Electronics", Color: "#222222"},
	}})
	return s, store
}

// run mimics the operator: commit on success, roll back on error.
func run(s *storage.Storage, action IAction) error {
	ctx := context.Background()
	writer, err := s.Write(ctx)
	if err != nil {
		return err
	}
	if err = action.Perform(ctx, writer); err != nil {
		_ = writer.Rollback()
		return err
	}
	return writer.Commit()
}

func perform(t *testing.T, s *storage.Storage, action IAction) {
	t.Helper()
	require.NoError(t, run(s, action))
}

func allTransactions(t *testing.T, s *storage.Storage) []*ledger.Transaction {
	t.Helper()
	txs, err := s.Transactions.List(context.Background(), nil)
	require.NoError(t, err)
	return txs
}

func aggregator(t *testing.T, s *storage.Storage) *ledger.Aggregator {
	t.Helper()
	settings, err := s.Settings.Get(context.Background())
	require.NoError(t, err)
	return ledger.NewAggregator(ledger.NewCurrencyManager(settings.Base(), allTransactions(t, s)))
}

// -- CreateTransaction tests --

func TestCreateTransaction_SingleCurrencyWithoutRate(t *testing.T) {
	s, _ := newLedger(t)

	create := &CreateTransaction{Catalog: catalog, Category: "Food", FirstAmount: d("1000")}
	perform(t, s, create)

	assert.False(t, create.Inferred)
	assert.Equal(t, "UAH", create.Created.FirstCurrencyCode)
	assert.Equal(t, "PLN", create.Created.SecondCurrencyCode)
	assert.True(t, create.Created.SecondAmount.IsZero())
	assert.False(t, create.Created.Date.IsZero())

	agg := aggregator(t, s)
	txs := allTransactions(t, s)
	assert.True(t, agg.TotalExpenses(txs, "UAH").Equal(d("1000")))
	assert.True(t, agg.TotalExpenses(txs, "PLN").IsZero())
}

func TestCreateTransaction_InfersFromRecordedRate(t *testing.T) {
	s, _ := newLedger(t)

	perform(t, s, &CreateTransaction{
		Catalog: catalog, Date: day(0), Category: "Food",
		FirstAmount: d("100"), SecondAmount: d("25"), SecondCurrencyCode: "pln",
	})
	second := &CreateTransaction{Catalog: catalog, Date: day(1), Category: "Food", FirstAmount: d("200")}
	perform(t, s, second)

	assert.True(t, second.Inferred)
	assert.True(t, second.Created.SecondAmount.Equal(d("50")), spew.Sdump(second.Created))

	txs := allTransactions(t, s)
	assert.True(t, aggregator(t, s).TotalExpenses(txs, "PLN").Equal(d("75")))
}

func TestCreateTransaction_ExplicitPairStoredVerbatim(t *testing.T) {
	s, _ := newLedger(t)

	create := &CreateTransaction{
		Catalog: catalog, Category: "Food",
		FirstAmount: d("40"), FirstCurrencyCode: "USD",
		SecondAmount: d("37"), SecondCurrencyCode: "EUR",
	}
	perform(t, s, create)

	assert.Equal(t, "USD", create.Created.FirstCurrencyCode)
	assert.Equal(t, "EUR", create.Created.SecondCurrencyCode)
	assert.True(t, create.Created.SecondAmount.Equal(d("37")))
}

func TestCreateTransaction_Validation(t *testing.T) {
	s, _ := newLedger(t)

	tests := []struct {
		name   string
		action *CreateTransaction
		want   error
	}{
		{"unknown category", &CreateTransaction{Catalog: catalog, Category: "Yachts", FirstAmount: d("1")}, ledger.ErrUnknownCategory},
		{"blank category", &CreateTransaction{Catalog: catalog, Category: "  ", FirstAmount: d("1")}, ledger.ErrBlankCategory},
		{"filter label", &CreateTransaction{Catalog: catalog, Category: "All", FirstAmount: d("1")}, ledger.ErrUnknownCategory},
		{"unknown first currency", &CreateTransaction{Catalog: catalog, Category: "Food", FirstAmount: d("1"), FirstCurrencyCode: "XXX"}, ledger.ErrUnknownCurrency},
		{"second amount without currency", &CreateTransaction{Catalog: catalog, Category: "Food", FirstAmount: d("1"), SecondAmount: d("2")}, ledger.ErrMissingCurrency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, run(s, tt.action), tt.want)
		})
	}
	assert.Empty(t, allTransactions(t, s))
}

func TestCreateTransaction_ReservedLabelsAreAccepted(t *testing.T) {
	s, _ := newLedger(t)

	create := &CreateTransaction{Catalog: catalog, Category: "transfer-out", FirstAmount: d("5")}
	perform(t, s, create)
	assert.Equal(t, ledger.CategoryTransferOut, create.Created.Category)
}

// -- UpdateTransaction tests --

func TestUpdateTransaction_ReinfersAtOwnDate(t *testing.T) {
	s, _ := newLedger(t)

	perform(t, s, &CreateTransaction{Catalog: catalog, Date: day(0), Category: "Food", FirstAmount: d("100"), SecondAmount: d("25"), SecondCurrencyCode: "PLN"})
	perform(t, s, &CreateTransaction{Catalog: catalog, Date: day(30), Category: "Food", FirstAmount: d("100"), SecondAmount: d("20"), SecondCurrencyCode: "PLN"})
	target := &CreateTransaction{Catalog: catalog, Date: day(2), Category: "Food", FirstAmount: d("8")}
	perform(t, s, target)
	require.True(t, target.Created.SecondAmount.Equal(d("2")))

	update := &UpdateTransaction{
		Catalog:      catalog,
		ID:           target.Created.ID,
		FirstAmount:  omit.From(d("40")),
		SecondAmount: omit.From(decimal.Zero),
	}
	perform(t, s, update)

	// Nearest to day 2 is the day 0 rate of 4, not the latest rate of 5.
	assert.True(t, update.Inferred)
	assert.True(t, update.Updated.SecondAmount.Equal(d("10")), spew.Sdump(update.Updated))
	assert.Equal(t, day(2), update.Updated.Date)
}

func TestUpdateTransaction_ExcludesItselfAsRateSource(t *testing.T) {
	s, _ := newLedger(t)

	create := &CreateTransaction{Catalog: catalog, Date: day(0), Category: "Food", FirstAmount: d("100"), SecondAmount: d("25"), SecondCurrencyCode: "PLN"}
	perform(t, s, create)

	update := &UpdateTransaction{Catalog: catalog, ID: create.Created.ID, SecondAmount: omit.From(decimal.Zero)}
	perform(t, s, update)

	assert.False(t, update.Inferred)
	assert.True(t, update.Updated.SecondAmount.IsZero())
	assert.Equal(t, "PLN", update.Updated.SecondCurrencyCode)
}

func TestUpdateTransaction_OmittedFieldsKept(t *testing.T) {
	s, _ := newLedger(t)

	create := &CreateTransaction{Catalog: catalog, Date: day(0), Category: "Food", FirstAmount: d("100"), SecondAmount: d("25"), SecondCurrencyCode: "PLN", Comment: "lunch"}
	perform(t, s, create)

	update := &UpdateTransaction{Catalog: catalog, ID: create.Created.ID, Category: omit.From("Electronics")}
	perform(t, s, update)

	got, err := s.Transactions.FindByID(context.Background(), create.Created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Electronics", got.Category)
	assert.Equal(t, "lunch", got.Comment)
	assert.True(t, got.SecondAmount.Equal(d("25")))
}

func TestUpdateTransaction_FirstLegChangeReinfersSecond(t *testing.T) {
	s, _ := newLedger(t)

	perform(t, s, &CreateTransaction{Catalog: catalog, Date: day(0), Category: "Food", FirstAmount: d("100"), SecondAmount: d("25"), SecondCurrencyCode: "PLN"})
	target := &CreateTransaction{Catalog: catalog, Date: day(1), Category: "Food", FirstAmount: d("200")}
	perform(t, s, target)
	require.True(t, target.Created.SecondAmount.Equal(d("50")))

	update := &UpdateTransaction{Catalog: catalog, ID: target.Created.ID, FirstAmount: omit.From(d("400"))}
	perform(t, s, update)

	assert.True(t, update.Inferred)
	assert.True(t, update.Updated.SecondAmount.Equal(d("100")), spew.Sdump(update.Updated))

	explicit := &UpdateTransaction{
		Catalog: catalog, ID: target.Created.ID,
		FirstAmount: omit.From(d("300")), SecondAmount: omit.From(d("60")),
	}
	perform(t, s, explicit)

	assert.False(t, explicit.Inferred)
	assert.True(t, explicit.Updated.SecondAmount.Equal(d("60")))
}

func TestUpdateTransaction_NotFound(t *testing.T) {
	s, _ := newLedger(t)
	err := run(s, &UpdateTransaction{Catalog: catalog, ID: ledger.ImportID("missing")})
	assert.ErrorIs(t, err, ledger.ErrTransactionNotFound)
}

func TestDeleteTransaction(t *testing.T) {
	s, _ := newLedger(t)

	create := &CreateTransaction{Catalog: catalog, Category: "Food", FirstAmount: d("1")}
	perform(t, s, create)
	perform(t, s, &DeleteTransaction{ID: create.Created.ID})

	assert.Empty(t, allTransactions(t, s))
	assert.ErrorIs(t, run(s, &DeleteTransaction{ID: create.Created.ID}), ledger.ErrTransactionNotFound)
}

// -- ImportBankRecords tests --

func statement() []bankfeed.ExternalRecord {
	return []bankfeed.ExternalRecord{
		{ID: "a", Time: day(1).Unix(), Description: "Salary", Amount: 500000, OperationAmount: 500000, CurrencyCode: 980},
		{ID: "b", Time: day(2).Unix(), Description: "Coffee", Amount: -9500, OperationAmount: -2300, CurrencyCode: 985},
	}
}

func TestImportBankRecords_Idempotent(t *testing.T) {
	s, _ := newLedger(t)

	first := &ImportBankRecords{Catalog: catalog, Records: statement()}
	perform(t, s, first)
	assert.Equal(t, ImportResult{Imported: 2}, first.Result)

	again := &ImportBankRecords{Catalog: catalog, Records: statement()}
	perform(t, s, again)
	assert.Equal(t, ImportResult{Duplicates: 2}, again.Result)

	txs := allTransactions(t, s)
	require.Len(t, txs, 2)

	got, err := s.Transactions.FindByID(context.Background(), ledger.ImportID("b"))
	require.NoError(t, err)
	assert.Equal(t, ledger.CategoryIngested, got.Category)
	assert.True(t, got.FirstAmount.Equal(d("95")))
	assert.Equal(t, "UAH", got.FirstCurrencyCode)
	assert.Equal(t, "Coffee", got.Comment)
	// No recorded UAH/PLN rate: falls back to the operation amount.
	assert.True(t, got.SecondAmount.Equal(d("23")))
	assert.Equal(t, "PLN", got.SecondCurrencyCode)

	salary, err := s.Transactions.FindByID(context.Background(), ledger.ImportID("a"))
	require.NoError(t, err)
	assert.Equal(t, ledger.CategoryReplenishment, salary.Category)
	assert.Equal(t, "UAH", salary.SecondCurrencyCode)
}

func TestImportBankRecords_InfersNearestRate(t *testing.T) {
	s, _ := newLedger(t)
	perform(t, s, &CreateTransaction{Catalog: catalog, Date: day(0), Category: "Food", FirstAmount: d("100"), SecondAmount: d("25"), SecondCurrencyCode: "PLN"})
	perform(t, s, &CreateTransaction{Catalog: catalog, Date: day(60), Category: "Food", FirstAmount: d("100"), SecondAmount: d("20"), SecondCurrencyCode: "PLN"})

	imp := &ImportBankRecords{Catalog: catalog, Records: statement()[1:]}
	perform(t, s, imp)

	got, err := s.Transactions.FindByID(context.Background(), ledger.ImportID("b"))
	require.NoError(t, err)
	assert.True(t, got.SecondAmount.Equal(d("23.75")), spew.Sdump(got))
	assert.Equal(t, "PLN", got.SecondCurrencyCode)
}

func TestImportBankRecords_SkipsMalformedAndBatchDuplicates(t *testing.T) {
	s, _ := newLedger(t)

	records := append(statement(),
		bankfeed.ExternalRecord{ID: "", Time: day(3).Unix(), Amount: -100},
		bankfeed.ExternalRecord{ID: "c", Time: 0, Amount: -100},
		bankfeed.ExternalRecord{ID: "a", Time: day(1).Unix(), Amount: 500000},
		bankfeed.ExternalRecord{ID: "d", Time: day(4).Unix(), Amount: -100, OperationAmount: -100, CurrencyCode: 999},
	)
	imp := &ImportBankRecords{Catalog: catalog, Records: records}
	perform(t, s, imp)

	assert.Equal(t, ImportResult{Imported: 3, Duplicates: 1, Skipped: 2}, imp.Result)

	unknown, err := s.Transactions.FindByID(context.Background(), ledger.ImportID("d"))
	require.NoError(t, err)
	assert.Equal(t, "PLN", unknown.SecondCurrencyCode)
}

func TestImportBankRecords_StoredPairsCarryCurrency(t *testing.T) {
	s, _ := newLedger(t)
	perform(t, s, &ImportBankRecords{Catalog: catalog, Records: statement()})

	for _, tx := range allTransactions(t, s) {
		assert.True(t, tx.SecondAmount.IsZero() || tx.SecondCurrencyCode != "", spew.Sdump(tx))
	}
}

// -- category tests --

func TestAddCategory(t *testing.T) {
	s, _ := newLedger(t)

	add := &AddCategory{Label: "  Travel ", Color: ""}
	perform(t, s, add)
	assert.Equal(t, "Travel", add.Created.Label)
	assert.Equal(t, ledger.DefaultCategoryColor, add.Created.Color)
	assert.Equal(t, 2, add.Created.Position)

	assert.ErrorIs(t, run(s, &AddCategory{Label: "Travel"}), ledger.ErrDuplicateCategory)
	assert.ErrorIs(t, run(s, &AddCategory{Label: " "}), ledger.ErrBlankCategory)
	assert.ErrorIs(t, run(s, &AddCategory{Label: "other"}), ledger.ErrReservedCategory)
}

func TestRenameCategory_CascadesAndKeepsTotals(t *testing.T) {
	s, _ := newLedger(t)
	for _, amount := range []string{"10", "20", "30"} {
		perform(t, s, &CreateTransaction{Catalog: catalog, Category: "Food", FirstAmount: d(amount)})
	}
	before := aggregator(t, s).TotalExpenses(ledger.FilterByCategory(allTransactions(t, s), "Food"), "UAH")

	rename := &RenameCategory{OldLabel: "Food", NewLabel: "Groceries"}
	perform(t, s, rename)
	assert.Equal(t, int64(3), rename.Reassigned)
	assert.Equal(t, "#111111", rename.Renamed.Color)

	txs := allTransactions(t, s)
	after := aggregator(t, s).TotalExpenses(ledger.FilterByCategory(txs, "Groceries"), "UAH")
	assert.True(t, before.Equal(after))
	assert.Empty(t, ledger.FilterByCategory(txs, "Food"))

	_, err := s.Categories.FindByLabel(context.Background(), "Food")
	assert.ErrorIs(t, err, ledger.ErrCategoryNotFound)
}

func TestRenameCategory_Rejections(t *testing.T) {
	s, _ := newLedger(t)

	assert.ErrorIs(t, run(s, &RenameCategory{OldLabel: "Replenishment", NewLabel: "Income"}), ledger.ErrReservedCategory)
	assert.ErrorIs(t, run(s, &RenameCategory{OldLabel: "Food", NewLabel: "API"}), ledger.ErrReservedCategory)
	assert.ErrorIs(t, run(s, &RenameCategory{OldLabel: "Nope", NewLabel: "Other stuff"}), ledger.ErrCategoryNotFound)
	assert.ErrorIs(t, run(s, &RenameCategory{OldLabel: "Food", NewLabel: "Electronics"}), ledger.ErrDuplicateCategory)
}

func TestRenameCategory_AtomicOnCommitFailure(t *testing.T) {
	s, store := newLedger(t)
	perform(t, s, &CreateTransaction{Catalog: catalog, Category: "Food", FirstAmount: d("10")})

	store.FailNextCommit(errors.New("disk full"))
	assert.EqualError(t, run(s, &RenameCategory{OldLabel: "Food", NewLabel: "Groceries"}), "disk full")

	txs := allTransactions(t, s)
	require.Len(t, txs, 1)
	assert.Equal(t, "Food", txs[0].Category)
	_, err := s.Categories.FindByLabel(context.Background(), "Food")
	assert.NoError(t, err)
}

func TestDeleteCategory_ReassignsToOther(t *testing.T) {
	s, _ := newLedger(t)
	for _, amount := range []string{"100", "200", "300"} {
		perform(t, s, &CreateTransaction{Catalog: catalog, Category: "Electronics", FirstAmount: d(amount)})
	}
	perform(t, s, &CreateTransaction{Catalog: catalog, Category: "Other", FirstAmount: d("5")})

	otherBefore := aggregator(t, s).TotalExpenses(ledger.FilterByCategory(allTransactions(t, s), ledger.CategoryOther), "UAH")

	del := &DeleteCategory{Label: "Electronics"}
	perform(t, s, del)
	assert.Equal(t, int64(3), del.Reassigned)

	otherAfter := aggregator(t, s).TotalExpenses(ledger.FilterByCategory(allTransactions(t, s), ledger.CategoryOther), "UAH")
	assert.True(t, otherAfter.Sub(otherBefore).Equal(d("600")))

	_, err := s.Categories.FindByLabel(context.Background(), "Electronics")
	assert.ErrorIs(t, err, ledger.ErrCategoryNotFound)
	assert.ErrorIs(t, run(s, &DeleteCategory{Label: "Other"}), ledger.ErrReservedCategory)
}

func TestSeedCategories_OnlyWhenEmpty(t *testing.T) {
	s, _ := newLedger(t)
	seed := &SeedCategories{Defaults: []*ledger.Category{{Label: "Travel"}}}
	perform(t, s, seed)
	assert.Zero(t, seed.Seeded)
}

// -- settings tests --

func TestUpdateSettings(t *testing.T) {
	s, _ := newLedger(t)

	update := &UpdateSettings{Catalog: catalog, BaseCurrency2: omit.From("eur"), Budget: omit.From(d("3000"))}
	perform(t, s, update)
	assert.Equal(t, "UAH", update.Settings.BaseCurrency1)
	assert.Equal(t, "EUR", update.Settings.BaseCurrency2)
	assert.True(t, update.Settings.Budget.Equal(d("3000")))

	err := run(s, &UpdateSettings{Catalog: catalog, BaseCurrency2: omit.From("UAH")})
	assert.ErrorIs(t, err, ledger.ErrInvalidBaseCurrencies)
	err = run(s, &UpdateSettings{Catalog: catalog, BaseCurrency1: omit.From("XXX")})
	assert.ErrorIs(t, err, ledger.ErrInvalidBaseCurrencies)
}

func TestEnsureSettings_KeepsExisting(t *testing.T) {
	s, _ := newLedger(t)
	ensure := &EnsureSettings{Catalog: catalog, Defaults: ledger.Settings{BaseCurrency1: "USD", BaseCurrency2: "EUR"}}
	perform(t, s, ensure)
	assert.Equal(t, "UAH", ensure.Settings.BaseCurrency1)
}

func TestActionsWithoutSettings(t *testing.T) {
	s := storage.NewMemoryStorage(memory.NewStore())
	err := run(s, &CreateTransaction{Catalog: catalog, Category: "Other", FirstAmount: d("1")})
	assert.ErrorIs(t, err, ledger.ErrSettingsNotFound)
}
