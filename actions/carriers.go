package actions

import (
	"github.com/gobuffalo/buffalo"

	"github.com/embedsure/embed-api/models"
)

// swagger:operation GET /carriers Carriers CarriersList
//
// CarriersList
//
// Return the carrier appetite and remaining capacity table.
//
// ---
//
//	responses:
//	  '200':
//	    description: all carriers
//	    schema:
//	      type: array
//	      items:
//	        "$ref": "#/definitions/Carrier"
func carriersList(c buffalo.Context) error {
	var carriers models.Carriers
	if err := carriers.All(models.Tx(c)); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, carriers.ConvertToAPI())
}
