// Package fin renders monthly written-premium batches into the CSV bordereau
// format our carriers ingest.
package fin

import (
	"bytes"
	"fmt"
	"sort"
	"time"
)

const (
	headerRow = `"RECTYPE","BATCH","CARRIER","PARTNER","POLICY","PRODUCT","AMOUNT","DATE","DESC"` + "\n"

	transactionRowTemplate = `"2","%s","%s","%s","%s","%s",%s,%s,"%s"` + "\n"
	summaryRowTemplate     = `"1","%s","%s","","","",%s,,"%s"` + "\n"
)

type Transaction struct {
	CarrierCode string
	PartnerCode string
	PolicyID    string
	ProductCode string
	Amount      int
	Date        time.Time
	Description string
}

// Bordereau is one month's premium batch for all carriers.
type Bordereau struct {
	BatchLabel   string
	Transactions []Transaction
}

// NewBatch labels the bordereau for the batch month.
func NewBatch(month time.Time) *Bordereau {
	return &Bordereau{
		BatchLabel: month.Format("200601") + "-PREM",
	}
}

func (b *Bordereau) AppendToBatch(t Transaction) {
	b.Transactions = append(b.Transactions, t)
}

// BatchToCSV renders the batch: one summary row per carrier with its premium
// balance, followed by that carrier's transaction rows. Carriers appear in
// code order, transactions in append order within a carrier.
func (b *Bordereau) BatchToCSV() []byte {
	byCarrier := map[string][]Transaction{}
	for _, t := range b.Transactions {
		byCarrier[t.CarrierCode] = append(byCarrier[t.CarrierCode], t)
	}

	carriers := make([]string, 0, len(byCarrier))
	for code := range byCarrier {
		carriers = append(carriers, code)
	}
	sort.Strings(carriers)

	var buf bytes.Buffer
	buf.WriteString(headerRow)
	for _, code := range carriers {
		transactions := byCarrier[code]

		var balance int
		for _, t := range transactions {
			balance += t.Amount
		}
		buf.Write(b.summaryRow(code, balance))

		for _, t := range transactions {
			buf.Write(b.transactionRow(t))
		}
	}

	return buf.Bytes()
}

func (b *Bordereau) summaryRow(carrierCode string, balance int) []byte {
	str := fmt.Sprintf(summaryRowTemplate,
		b.BatchLabel,
		carrierCode,
		centsString(balance),
		fmt.Sprintf("%s written premium", carrierCode),
	)
	return []byte(str)
}

func (b *Bordereau) transactionRow(t Transaction) []byte {
	str := fmt.Sprintf(
		transactionRowTemplate,
		b.BatchLabel,
		t.CarrierCode,
		t.PartnerCode,
		t.PolicyID,
		t.ProductCode,
		centsString(t.Amount),
		t.Date.Format("20060102"),
		fmt.Sprintf("%.60s", t.Description), // carrier import truncates at 60 characters
	)
	return []byte(str)
}

func centsString(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}
