package models

import (
	"testing"

	"github.com/embedsure/embed-api/api"
)

func (ms *ModelSuite) TestPartner_FindByToken() {
	partner := CreatePartnerFixtures(ms.DB, 1).Partners[0]

	inactive := Partner{
		Code:      "ptnr_" + randStr(8),
		Name:      "Dormant Partner",
		Token:     randStr(32),
		Active:    false,
		Products:  "shipping",
		MarkupPct: 0.05,
	}
	mustCreate(ms.DB, &inactive)

	tests := []struct {
		name    string
		token   string
		want    Partner
		wantErr *api.AppError
	}{
		{
			name:  "active partner",
			token: partner.Token,
			want:  partner,
		},
		{
			name:    "inactive partner is not authenticated",
			token:   inactive.Token,
			wantErr: &api.AppError{Key: api.ErrorPartnerNotFound, Category: api.CategoryUser},
		},
		{
			name:    "unknown token",
			token:   "not-a-token",
			wantErr: &api.AppError{Key: api.ErrorPartnerNotFound, Category: api.CategoryUser},
		},
	}

	for _, tt := range tests {
		ms.T().Run(tt.name, func(t *testing.T) {
			var got Partner
			err := got.FindByToken(ms.DB, tt.token)

			if tt.wantErr != nil {
				ms.EqualAppError(*tt.wantErr, err)
				return
			}
			ms.NoError(err)
			ms.Equal(tt.want.ID, got.ID)
		})
	}
}

func (ms *ModelSuite) TestPartner_AllowsProduct() {
	partner := Partner{Products: "shipping, ppi"}

	ms.True(partner.AllowsProduct(api.ProductCodeShipping))
	ms.True(partner.AllowsProduct(api.ProductCodePPI))

	shippingOnly := Partner{Products: "shipping"}
	ms.True(shippingOnly.AllowsProduct(api.ProductCodeShipping))
	ms.False(shippingOnly.AllowsProduct(api.ProductCodePPI))

	none := Partner{}
	ms.False(none.AllowsProduct(api.ProductCodeShipping))
}

func (ms *ModelSuite) TestPartner_ConvertToAPI() {
	partner := Partner{
		Code:      "ptnr_klarity",
		Name:      "Klarity Checkout",
		Products:  "shipping,ppi",
		MarkupPct: 0.08,
	}

	got := partner.ConvertToAPI()

	ms.Equal("ptnr_klarity", got.ID, "api ID must be the partner code, not the row id")
	ms.Equal("Klarity Checkout", got.Name)
	ms.Equal([]api.ProductCode{api.ProductCodeShipping, api.ProductCodePPI}, got.Products)
	ms.Equal(0.08, got.MarkupPct)
}
