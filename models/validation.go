package models

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gobuffalo/validate/v3"

	"github.com/embedsure/embed-api/api"
)

// Model validation tool
var mValidate *validator.Validate

var fieldValidators = map[string]func(validator.FieldLevel) bool{
	"productCode":  validateProductCode,
	"riskBand":     validateRiskBand,
	"quoteStatus":  validateQuoteStatus,
	"policyStatus": validatePolicyStatus,
}

func validateModel(m interface{}) *validate.Errors {
	vErrs := validate.NewErrors()

	if err := mValidate.Struct(m); err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			vErrs.Add(err.StructNamespace(), err.Error())
		}
	}
	return vErrs
}

// flattenPopErrors - pop validation errors are complex structures, this flattens them to a simple string
func flattenPopErrors(popErrs *validate.Errors) string {
	var msgs []string
	for key, val := range popErrs.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", key, strings.Join(val, ", ")))
	}
	msg := strings.Join(msgs, " |")
	return msg
}

var validProductCodes = map[api.ProductCode]struct{}{
	api.ProductCodeShipping: {},
	api.ProductCodePPI:      {},
}

var validRiskBands = map[api.RiskBand]struct{}{
	api.RiskBandA: {},
	api.RiskBandB: {},
	api.RiskBandC: {},
	api.RiskBandD: {},
	api.RiskBandE: {},
}

var validQuoteStatuses = map[api.QuoteStatus]struct{}{
	api.QuoteStatusQuoted:  {},
	api.QuoteStatusExpired: {},
	api.QuoteStatusBound:   {},
}

var validPolicyStatuses = map[api.PolicyStatus]struct{}{
	api.PolicyStatusActive:    {},
	api.PolicyStatusCancelled: {},
}

func validateProductCode(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.ProductCode); ok {
		_, valid := validProductCodes[value]
		return valid
	}
	return false
}

func validateRiskBand(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.RiskBand); ok {
		_, valid := validRiskBands[value]
		return valid
	}
	return false
}

func validateQuoteStatus(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.QuoteStatus); ok {
		_, valid := validQuoteStatuses[value]
		return valid
	}
	return false
}

func validatePolicyStatus(field validator.FieldLevel) bool {
	if value, ok := field.Field().Interface().(api.PolicyStatus); ok {
		_, valid := validPolicyStatuses[value]
		return valid
	}
	return false
}

func quoteStructLevelValidation(sl validator.StructLevel) {
	quote, ok := sl.Current().Interface().(Quote)
	if !ok {
		panic("quoteStructLevelValidation registered to the wrong struct type")
	}

	switch quote.ProductCode {
	case api.ProductCodeShipping:
		if !quote.DeclaredValue.Valid || quote.ItemCategory.String == "" {
			sl.ReportError(quote.DeclaredValue, "DeclaredValue", "DeclaredValue",
				"shipping quotes require declared value and item category", "")
		}
	case api.ProductCodePPI:
		if !quote.OrderValue.Valid || quote.TermMonths.Int == 0 {
			sl.ReportError(quote.OrderValue, "OrderValue", "OrderValue",
				"ppi quotes require order value and term", "")
		}
	}

	if quote.TotalPremiumCents < quote.BasePremiumCents {
		sl.ReportError(quote.TotalPremiumCents, "TotalPremiumCents", "TotalPremiumCents",
			"total premium cannot be less than base premium", "")
	}
}

func policyStructLevelValidation(sl validator.StructLevel) {
	policy, ok := sl.Current().Interface().(Policy)
	if !ok {
		panic("policyStructLevelValidation registered to the wrong struct type")
	}

	if policy.PremiumTotalCents < 0 {
		sl.ReportError(policy.PremiumTotalCents, "PremiumTotalCents", "PremiumTotalCents",
			"premium cannot be negative", "")
	}
}
