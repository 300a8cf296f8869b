package mapping

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
)

func TestAccountMapping_ParentIsNullable(t *testing.T) {
	root := domain.Account{AccountID: "a1", Code: "2101", AccountType: domain.Liability}
	m := ToModelAccount(root)
	assert.Nil(t, m.ParentAccountID)
	assert.Equal(t, "", ToDomainAccount(m).ParentAccountID)

	child := domain.Account{AccountID: "a2", Code: "2101-EUR", ParentAccountID: "a1"}
	m = ToModelAccount(child)
	if assert.NotNil(t, m.ParentAccountID) {
		assert.Equal(t, "a1", *m.ParentAccountID)
	}
}

func TestJournalEntryMapping_ReferenceType(t *testing.T) {
	plain := domain.JournalEntry{EntryID: "e1", Status: domain.Posted, EntryDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)}
	m := ToModelJournalEntry(plain)
	assert.Nil(t, m.ReferenceType)
	assert.Equal(t, domain.ReferenceNone, ToDomainJournalEntry(m).ReferenceType)

	correction := plain
	correction.ReferenceType = domain.ReferenceCorrection
	m = ToModelJournalEntry(correction)
	if assert.NotNil(t, m.ReferenceType) {
		assert.Equal(t, "correction", *m.ReferenceType)
	}
	assert.True(t, ToDomainJournalEntry(m).IsCorrection())
}

func TestJournalLineMapping_KeepsForeignAmount(t *testing.T) {
	foreign := decimal.NewFromInt(100)
	rate := decimal.RequireFromString("10.85")
	line := domain.JournalLine{LineNumber: 1, AccountID: "a", DebitAmount: decimal.NewFromInt(1085), ForeignAmount: &foreign, ExchangeRate: &rate}

	back := ToDomainJournalLine(ToModelJournalLine(line))
	assert.True(t, back.IsMultiCurrency())
	assert.True(t, back.ForeignAmount.Equal(foreign))
}
