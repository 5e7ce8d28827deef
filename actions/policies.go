package actions

import (
	"errors"

	"github.com/gobuffalo/buffalo"
	"github.com/gofrs/uuid"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/models"
)

// swagger:operation GET /policies Policies PoliciesList
//
// PoliciesList
//
// Return the requesting partner's policies, newest first.
//
// ---
//
//	responses:
//	  '200':
//	    description: the partner's policies
//	    schema:
//	      type: array
//	      items:
//	        "$ref": "#/definitions/Policy"
func policiesList(c buffalo.Context) error {
	tx := models.Tx(c)
	partner := models.CurrentPartner(c)

	var policies models.Policies
	if err := policies.AllForPartner(tx, partner.ID); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, policies.ConvertToAPI(tx))
}

// swagger:operation GET /policies/{id} Policies PoliciesView
//
// PoliciesView
//
// Return the policy with the given ID. Only the partner the policy was
// written through may view it.
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: policy ID
//	responses:
//	  '200':
//	    description: the requested policy
//	    schema:
//	      "$ref": "#/definitions/Policy"
func policiesView(c buffalo.Context) error {
	policy, err := policyFromParams(c)
	if err != nil {
		return reportError(c, err)
	}

	return renderOk(c, policy.ConvertToAPI(models.Tx(c)))
}

// swagger:operation POST /policies/{id}/cancel Policies PoliciesCancel
//
// PoliciesCancel
//
// Cancel an active policy. The written premium is refunded on the ledger and
// the carrier's capacity is restored.
//
// ---
//
//	parameters:
//	  - name: id
//	    in: path
//	    required: true
//	    description: policy ID
//	responses:
//	  '200':
//	    description: the cancelled policy
//	    schema:
//	      "$ref": "#/definitions/Policy"
func policiesCancel(c buffalo.Context) error {
	tx := models.Tx(c)

	policy, err := policyFromParams(c)
	if err != nil {
		return reportError(c, err)
	}

	if err := policy.Cancel(tx); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, policy.ConvertToAPI(tx))
}

func policyFromParams(c buffalo.Context) (models.Policy, error) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return models.Policy{}, api.NewAppError(err, api.ErrorMustBeAValidUUID, api.CategoryUser)
	}

	tx := models.Tx(c)

	var policy models.Policy
	if err := policy.FindByID(tx, id); err != nil {
		return models.Policy{}, err
	}

	partner := models.CurrentPartner(c)
	if policy.PartnerID != partner.ID {
		return models.Policy{}, api.NewAppError(
			errors.New("policy does not belong to the requesting partner"),
			api.ErrorNotAuthorized, api.CategoryForbidden)
	}

	return policy, nil
}
