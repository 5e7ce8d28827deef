package models

import (
	"time"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/domain"
)

func (ms *ModelSuite) TestNewLedgerEntry() {
	policy := Policy{
		ID:                domain.GetUUID(),
		CarrierCode:       "c_atlas",
		ProductCode:       api.ProductCodeShipping,
		PremiumTotalCents: 62162,
	}
	now := time.Now().UTC()

	premium := NewLedgerEntry(policy, "ptnr_klarity", LedgerRecordTypePremium, now)
	ms.Equal(62162, premium.Amount)
	ms.Equal("ptnr_klarity", premium.PartnerCode)
	ms.Equal("c_atlas", premium.CarrierCode)
	ms.Equal(now, premium.DateSubmitted)
	ms.False(premium.DateEntered.Valid)

	refund := NewLedgerEntry(policy, "ptnr_klarity", LedgerRecordTypeRefund, now)
	ms.Equal(-62162, refund.Amount, "refunds must be negative")
}

func (ms *ModelSuite) TestLedgerEntries_FindBatch() {
	f := CreatePolicyFixtures(ms.DB, 1)
	policy := f.Policies[0]
	partnerCode := f.Partners[0].Code

	july := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	august := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	inJuly := NewLedgerEntry(policy, partnerCode, LedgerRecordTypePremium, july.AddDate(0, 0, 10))
	mustCreate(ms.DB, &inJuly)

	inAugust := NewLedgerEntry(policy, partnerCode, LedgerRecordTypeRefund, august.AddDate(0, 0, 2))
	mustCreate(ms.DB, &inAugust)

	var batch LedgerEntries
	ms.NoError(batch.FindBatch(ms.DB, july))
	ms.Len(batch, 1)
	ms.Equal(inJuly.ID, batch[0].ID)

	// exported entries drop out of the batch
	ms.NoError(batch.MarkEntered(ms.DB, time.Now().UTC()))

	var again LedgerEntries
	ms.NoError(again.FindBatch(ms.DB, july))
	ms.Len(again, 0)
}

func (ms *ModelSuite) TestLedgerEntries_ToCsv() {
	f := CreatePolicyFixtures(ms.DB, 1)
	policy := f.Policies[0]

	july := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	entry := NewLedgerEntry(policy, f.Partners[0].Code, LedgerRecordTypePremium, july.AddDate(0, 0, 5))
	mustCreate(ms.DB, &entry)

	var batch LedgerEntries
	ms.NoError(batch.FindBatch(ms.DB, july))

	got, err := batch.ToCsv(july)
	ms.NoError(err)
	ms.Contains(string(got), "202607-PREM")
	ms.Contains(string(got), policy.ID.String())
	ms.Contains(string(got), "c_atlas")

	var empty LedgerEntries
	_, err = empty.ToCsv(july)
	ms.Error(err, "an empty batch has no CSV rendering")
}
