package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gofrs/uuid"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/domain"
	"github.com/embedsure/embed-api/fin"
)

const (
	LedgerRecordTypePremium = "premium"
	LedgerRecordTypeRefund  = "refund"
)

type LedgerEntries []LedgerEntry

// LedgerEntry records one written-premium movement: a positive amount when a
// policy binds, a negative one when it is cancelled. Entries are exported in
// monthly batches; DateEntered marks an entry as already exported.
type LedgerEntry struct {
	ID uuid.UUID `db:"id"`

	PolicyID    uuid.UUID       `db:"policy_id"`
	PartnerCode string          `db:"partner_code"`
	CarrierCode string          `db:"carrier_code"`
	ProductCode api.ProductCode `db:"product_code"`
	RecordType  string          `db:"record_type"`

	Amount        int        `db:"amount"`
	DateSubmitted time.Time  `db:"date_submitted"`
	DateEntered   nulls.Time `db:"date_entered"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (le *LedgerEntry) Create(tx *pop.Connection) error {
	return create(tx, le)
}

// NewLedgerEntry builds the premium or refund entry for a policy.
func NewLedgerEntry(policy Policy, partnerCode, recordType string, now time.Time) LedgerEntry {
	amount := int(policy.PremiumTotalCents)
	if recordType == LedgerRecordTypeRefund {
		amount = -amount
	}
	return LedgerEntry{
		PolicyID:      policy.ID,
		PartnerCode:   partnerCode,
		CarrierCode:   policy.CarrierCode,
		ProductCode:   policy.ProductCode,
		RecordType:    recordType,
		Amount:        amount,
		DateSubmitted: now,
	}
}

// FindBatch loads the unexported entries submitted during the month starting
// at firstDay.
func (le *LedgerEntries) FindBatch(tx *pop.Connection, firstDay time.Time) error {
	lastDay := domain.EndOfMonth(firstDay)

	err := tx.Where("date_submitted BETWEEN ? and ?", firstDay, lastDay).
		Where("date_entered IS NULL").
		Order("date_submitted asc").
		All(le)

	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// ToCsv renders the batch in the carrier bordereau format.
func (le *LedgerEntries) ToCsv(batchDate time.Time) ([]byte, error) {
	if len(*le) == 0 {
		return nil, errors.New("no ledger entries, cannot convert to CSV")
	}

	batch := fin.NewBatch(domain.BeginningOfMonth(batchDate))
	for _, l := range *le {
		batch.AppendToBatch(fin.Transaction{
			CarrierCode: l.CarrierCode,
			PartnerCode: l.PartnerCode,
			PolicyID:    l.PolicyID.String(),
			ProductCode: string(l.ProductCode),
			Amount:      l.Amount,
			Date:        l.DateSubmitted,
			Description: fmt.Sprintf("%s %s", l.RecordType, l.ProductCode),
		})
	}

	return batch.BatchToCSV(), nil
}

func (le *LedgerEntries) ConvertToAPI() api.LedgerEntries {
	entries := make(api.LedgerEntries, len(*le))
	for i, l := range *le {
		entries[i] = api.LedgerEntry{
			ID:            l.ID,
			PolicyID:      l.PolicyID,
			PartnerID:     l.PartnerCode,
			CarrierID:     l.CarrierCode,
			ProductCode:   l.ProductCode,
			RecordType:    l.RecordType,
			Amount:        api.Currency(l.Amount),
			DateSubmitted: l.DateSubmitted,
			DateEntered:   convertTimeToAPI(l.DateEntered),
		}
	}
	return entries
}

// MarkEntered stamps the batch as exported.
func (le *LedgerEntries) MarkEntered(tx *pop.Connection, enteredAt time.Time) error {
	for i := range *le {
		(*le)[i].DateEntered = nulls.NewTime(enteredAt)
		if err := update(tx, &(*le)[i]); err != nil {
			return err
		}
	}
	return nil
}
