package actions

import (
	"fmt"
	"net/http"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/models"
)

func (as *ActionSuite) Test_PoliciesList() {
	f := models.CreatePolicyFixtures(as.DB, 2)
	owner := f.Partners[0]
	other := models.CreatePartnerFixtures(as.DB, 1).Partners[0]

	res := as.authedJSON(owner, "/policies/").Get()
	as.Equal(http.StatusOK, res.Code)

	var got api.Policies
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Len(got, 2)

	// partners only see their own policies
	res = as.authedJSON(other, "/policies/").Get()
	as.Equal(http.StatusOK, res.Code)
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Len(got, 0)
}

func (as *ActionSuite) Test_PoliciesView() {
	f := models.CreatePolicyFixtures(as.DB, 1)
	owner := f.Partners[0]
	policy := f.Policies[0]

	other := models.CreatePartnerFixtures(as.DB, 1).Partners[0]

	res := as.authedJSON(owner, fmt.Sprintf("/policies/%s", policy.ID)).Get()
	as.Equal(http.StatusOK, res.Code)

	var got api.Policy
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Equal(policy.ID, got.ID)
	as.Equal(owner.Code, got.PartnerID)
	as.Equal(api.PolicyStatusActive, got.Status)
	as.Equal("Test Holder 0", got.Policyholder.Name)

	// another partner's policies read as not found
	res = as.authedJSON(other, fmt.Sprintf("/policies/%s", policy.ID)).Get()
	as.Equal(http.StatusNotFound, res.Code)
}

func (as *ActionSuite) Test_PoliciesCancel() {
	f := models.CreatePolicyFixtures(as.DB, 1)
	partner := f.Partners[0]
	policy := f.Policies[0]

	var before models.Carrier
	as.NoError(before.FindByCode(as.DB, policy.CarrierCode))

	res := as.authedJSON(partner, fmt.Sprintf("/policies/%s/cancel", policy.ID)).Post(nil)
	as.Equal(http.StatusOK, res.Code, "incorrect status code returned: %s", res.Body.String())

	var got api.Policy
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Equal(api.PolicyStatusCancelled, got.Status)

	// premium returned to the carrier
	var after models.Carrier
	as.NoError(after.FindByCode(as.DB, policy.CarrierCode))
	as.Equal(before.CapacityCents+policy.PremiumTotalCents, after.CapacityCents)

	// a second cancel is rejected
	res = as.authedJSON(partner, fmt.Sprintf("/policies/%s/cancel", policy.ID)).Post(nil)
	as.Equal(http.StatusBadRequest, res.Code)
	as.verifyResponseData([]string{string(api.ErrorPolicyStatus)}, res.Body.String(), "double cancel")
}
