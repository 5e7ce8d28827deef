package actions

import (
	"errors"
	"time"

	"github.com/gobuffalo/buffalo"
	"github.com/gofrs/uuid"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/models"
)

// swagger:operation POST /quotes Quotes QuotesCreate
//
// QuotesCreate
//
// Run the underwriting pipeline for a product request and persist the
// resulting quote. A compliance block does not fail the request; the decision
// is recorded on the quote and enforced at bind time.
//
// ---
//
//	parameters:
//	  - name: quote input
//	    in: body
//	    description: quote request input
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/QuoteCreate"
//	responses:
//	  '200':
//	    description: the new quote
//	    schema:
//	      "$ref": "#/definitions/Quote"
func quotesCreate(c buffalo.Context) error {
	var input api.QuoteCreate
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	tx := models.Tx(c)
	partner := models.CurrentPartner(c)

	var carriers models.Carriers
	if err := carriers.All(tx); err != nil {
		return reportError(c, err)
	}

	result, err := underwritingConfig(carriers).Quote(input, partner.ConvertToAPI())
	if err != nil {
		return reportError(c, err)
	}

	quote := models.NewQuoteFromResult(partner, input, result, time.Now().UTC())
	if err := quote.Create(tx); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, quote.ConvertToAPI(tx))
}

// swagger:operation GET /quotes/{id} Quotes QuotesView
//
// QuotesView
//
// Return the quote with the given ID. Only the partner that requested the
// quote may view it.
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: quote ID
//	responses:
//	  '200':
//	    description: the requested quote
//	    schema:
//	      "$ref": "#/definitions/Quote"
func quotesView(c buffalo.Context) error {
	tx := models.Tx(c)

	quote, err := quoteFromParams(c)
	if err != nil {
		return reportError(c, err)
	}

	apiQuote := quote.ConvertToAPI(tx)
	if quote.Status == api.QuoteStatusQuoted && quote.IsExpired(time.Now().UTC()) {
		apiQuote.Status = api.QuoteStatusExpired
	}

	return renderOk(c, apiQuote)
}

// swagger:operation POST /quotes/{id}/bind Quotes QuotesBind
//
// QuotesBind
//
// Bind a quote into an active policy, exactly once. Compliance is
// re-evaluated with the full policyholder context; a block rejects the bind
// and leaves the quote unconsumed.
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: quote ID
//	  - name: bind input
//	    in: body
//	    description: policyholder attributes and effective date
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/PolicyBind"
//	responses:
//	  '200':
//	    description: the new policy
//	    schema:
//	      "$ref": "#/definitions/Policy"
func quotesBind(c buffalo.Context) error {
	var input api.PolicyBind
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	tx := models.Tx(c)

	quote, err := quoteFromParams(c)
	if err != nil {
		return reportError(c, err)
	}

	policy, err := models.BindQuote(tx, quote.ID, input, uwRules, time.Now().UTC())
	if err != nil {
		return reportError(c, err)
	}

	return renderOk(c, policy.ConvertToAPI(tx))
}

// quoteFromParams loads the quote named in the path and verifies it belongs
// to the requesting partner.
func quoteFromParams(c buffalo.Context) (models.Quote, error) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return models.Quote{}, api.NewAppError(err, api.ErrorMustBeAValidUUID, api.CategoryUser)
	}

	tx := models.Tx(c)

	var quote models.Quote
	if err := quote.FindByID(tx, id); err != nil {
		return models.Quote{}, err
	}

	partner := models.CurrentPartner(c)
	if quote.PartnerID != partner.ID {
		return models.Quote{}, api.NewAppError(
			errors.New("quote does not belong to the requesting partner"),
			api.ErrorNotAuthorized, api.CategoryForbidden)
	}

	return quote, nil
}
