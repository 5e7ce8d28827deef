package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// swagger:model
type LedgerEntries []LedgerEntry

// LedgerEntry is one written-premium movement on the ledger
// swagger:model
type LedgerEntry struct {
	// unique ID
	//
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	// the policy the movement belongs to
	//
	// swagger:strfmt uuid4
	PolicyID uuid.UUID `json:"policy_id"`

	PartnerID string `json:"partner_id"`

	CarrierID string `json:"carrier_id"`

	ProductCode ProductCode `json:"product_code"`

	// "premium" or "refund"
	RecordType string `json:"record_type"`

	// movement amount in cents, negative for refunds
	Amount Currency `json:"amount"`

	// The date the movement was recorded
	//
	// swagger:strfmt date-time
	DateSubmitted time.Time `json:"date_submitted"`

	// The date the movement was exported, if it has been
	//
	// swagger:strfmt date-time
	DateEntered *time.Time `json:"date_entered,omitempty"`
}

// LedgerReconcileInput represents payload for marking a monthly batch as exported
// swagger:model
type LedgerReconcileInput struct {
	// batch month, "YYYY-MM"
	Month string `json:"month"`
}

// BatchApproveResponse is the confirmation of a ledger reconcile
// swagger:model
type BatchApproveResponse struct {
	NumberOfRecordsApproved int `json:"number_of_records_approved"`
}
