package actions

import (
	"net/http"
	"time"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/models"
)

func (as *ActionSuite) createLedgerFixtures() (models.Partner, models.LedgerEntries, time.Time) {
	f := models.CreatePolicyFixtures(as.DB, 2)
	partner := f.Partners[0]

	month := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	entries := make(models.LedgerEntries, len(f.Policies))
	for i, p := range f.Policies {
		entries[i] = models.NewLedgerEntry(p, partner.Code, models.LedgerRecordTypePremium, month.AddDate(0, 0, i))
		as.NoError(entries[i].Create(as.DB))
	}

	return partner, entries, month
}

func (as *ActionSuite) Test_LedgerList() {
	partner, entries, _ := as.createLedgerFixtures()

	res := as.authedJSON(partner, "/ledger/?month=2026-07").Get()
	as.Equal(http.StatusOK, res.Code)

	var got api.LedgerEntries
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Len(got, len(entries))
	as.Equal(entries[0].ID, got[0].ID)
	as.Equal(partner.Code, got[0].PartnerID)

	// missing month parameter is a user error
	res = as.authedJSON(partner, "/ledger/").Get()
	as.Equal(http.StatusBadRequest, res.Code)
}

func (as *ActionSuite) Test_LedgerList_Csv() {
	partner, entries, _ := as.createLedgerFixtures()

	req := as.authedJSON(partner, "/ledger/?month=2026-07")
	req.Headers["Accept"] = "text/csv"
	res := req.Get()

	as.Equal(http.StatusOK, res.Code)
	as.Equal("text/csv", res.Header().Get("Content-Type"))
	as.Contains(res.Header().Get("Content-Disposition"), "premium_2026-07.csv")

	body := res.Body.String()
	as.Contains(body, "202607-PREM")
	as.Contains(body, entries[0].PolicyID.String())

	// a month with no entries has no CSV
	req = as.authedJSON(partner, "/ledger/?month=2026-01")
	req.Headers["Accept"] = "text/csv"
	res = req.Get()
	as.Equal(http.StatusNoContent, res.Code)
}

func (as *ActionSuite) Test_LedgerReconcile() {
	partner, entries, _ := as.createLedgerFixtures()

	res := as.authedJSON(partner, "/ledger/").Post(api.LedgerReconcileInput{Month: "2026-07"})
	as.Equal(http.StatusOK, res.Code, "incorrect status code returned: %s", res.Body.String())

	var got api.BatchApproveResponse
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Equal(len(entries), got.NumberOfRecordsApproved)

	// the batch is now empty
	var remaining models.LedgerEntries
	as.NoError(remaining.FindBatch(as.DB, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)))
	as.Len(remaining, 0)

	// reconciling again approves nothing
	res = as.authedJSON(partner, "/ledger/").Post(api.LedgerReconcileInput{Month: "2026-07"})
	as.Equal(http.StatusOK, res.Code)
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Equal(0, got.NumberOfRecordsApproved)
}
