package actions

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gobuffalo/buffalo"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/domain"
	"github.com/embedsure/embed-api/models"
)

const ledgerMonthParam = "month"

// swagger:operation GET /ledger Ledger LedgerList
//
// LedgerList
//
// Return the unexported ledger entries for the month given by the `month`
// parameter ("YYYY-MM"). If `text/csv` is specified in the `Accept` header,
// the response is a carrier bordereau CSV.
//
// ---
//
//	parameters:
//	  - name: month
//	    in: query
//	    required: true
//	    description: batch month, "YYYY-MM"
//	responses:
//	  '200':
//	    description: the ledger entries requested
//	    schema:
//	      type: array
//	      items:
//	        "$ref": "#/definitions/LedgerEntry"
//
// produces:
//   - application/json
//   - text/csv
func ledgerList(c buffalo.Context) error {
	tx := models.Tx(c)

	month, err := ledgerMonthFromParams(c)
	if err != nil {
		return reportError(c, err)
	}

	var le models.LedgerEntries
	if err := le.FindBatch(tx, month); err != nil {
		return reportError(c, err)
	}

	if domain.IsStringInSlice("text/csv", c.Request().Header["Accept"]) {
		if len(le) == 0 {
			return c.Render(http.StatusNoContent, nil)
		}

		csvData, err := le.ToCsv(month)
		if err != nil {
			return reportError(c, err)
		}

		filename := fmt.Sprintf("premium_%s.csv", month.Format(domain.MonthFormat))
		return renderCsv(c, filename, csvData)
	}

	return renderOk(c, le.ConvertToAPI())
}

// swagger:operation POST /ledger Ledger LedgerReconcile
//
// LedgerReconcile
//
// Mark the month's ledger entries as exported. Call this only after the batch
// returned by LedgerList has been fully loaded into the carrier's records.
//
// ---
//
//	parameters:
//	  - name: ledger reconcile input
//	    in: body
//	    description: ledger reconcile input
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/LedgerReconcileInput"
//	responses:
//	  '200':
//	    description: batch approval confirmation details
//	    schema:
//	      "$ref": "#/definitions/BatchApproveResponse"
func ledgerReconcile(c buffalo.Context) error {
	var input api.LedgerReconcileInput
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	month, err := domain.ParseMonth(input.Month)
	if err != nil {
		return reportError(c, api.NewAppError(
			fmt.Errorf("month must be in YYYY-MM form, got %q", input.Month),
			api.ErrorValidation, api.CategoryUser))
	}

	tx := models.Tx(c)

	var le models.LedgerEntries
	if err := le.FindBatch(tx, month); err != nil {
		return reportError(c, err)
	}

	if err := le.MarkEntered(tx, time.Now().UTC()); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, api.BatchApproveResponse{NumberOfRecordsApproved: len(le)})
}

func ledgerMonthFromParams(c buffalo.Context) (time.Time, error) {
	month, err := domain.ParseMonth(c.Params().Get(ledgerMonthParam))
	if err != nil {
		return time.Time{}, api.NewAppError(
			fmt.Errorf("invalid %s parameter: %w", ledgerMonthParam, err),
			api.ErrorValidation, api.CategoryUser)
	}
	return month, nil
}

func renderCsv(c buffalo.Context, filename string, csvData []byte) error {
	response := c.Response()
	response.Header().Set("Content-Type", "text/csv")
	response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	if _, err := response.Write(csvData); err != nil {
		return err
	}

	return c.Render(http.StatusOK, nil)
}
