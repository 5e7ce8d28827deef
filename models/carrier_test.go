package models

import (
	"github.com/embedsure/embed-api/api"
)

func (ms *ModelSuite) TestCarrier_ConsumeCapacity() {
	carrier := CreateCarrierFixtures(ms.DB).Carriers[0]

	ms.NoError(carrier.ConsumeCapacity(ms.DB, 62162))
	ms.Equal(api.Currency(50_000_000-62162), carrier.CapacityCents)

	var fromDB Carrier
	ms.NoError(fromDB.FindByCode(ms.DB, carrier.Code))
	ms.Equal(carrier.CapacityCents, fromDB.CapacityCents, "capacity change was not persisted")

	err := fromDB.ConsumeCapacity(ms.DB, fromDB.CapacityCents+1)
	ms.EqualAppError(api.AppError{Key: api.ErrorCarrierCapacity, Category: api.CategoryUnprocessable}, err)

	// an exact-capacity premium still qualifies
	ms.NoError(fromDB.ConsumeCapacity(ms.DB, fromDB.CapacityCents))
	ms.Equal(api.Currency(0), fromDB.CapacityCents)
}

func (ms *ModelSuite) TestCarrier_RestoreCapacity() {
	carrier := CreateCarrierFixtures(ms.DB).Carriers[1]

	ms.NoError(carrier.ConsumeCapacity(ms.DB, 10_000))
	ms.NoError(carrier.RestoreCapacity(ms.DB, 10_000))
	ms.Equal(api.Currency(20_000_000), carrier.CapacityCents)
}

func (ms *ModelSuite) TestCarrier_FindByCode() {
	CreateCarrierFixtures(ms.DB)

	var carrier Carrier
	ms.NoError(carrier.FindByCode(ms.DB, "c_cascade"))
	ms.Equal("Cascade Assurance", carrier.Name)

	err := carrier.FindByCode(ms.DB, "c_nowhere")
	ms.EqualAppError(api.AppError{Key: api.ErrorCarrierNotFound, Category: api.CategoryUser}, err)
}

func (ms *ModelSuite) TestCarriers_RoutingSnapshot() {
	carriers := CreateCarrierFixtures(ms.DB).Carriers

	snapshot := carriers.RoutingSnapshot()
	ms.Len(snapshot, 3)

	atlas := snapshot[0]
	ms.Equal("c_atlas", atlas.ID)
	ms.Equal([]api.ProductCode{api.ProductCodeShipping, api.ProductCodePPI}, atlas.Products)
	ms.Nil(atlas.States, "empty state list must stay empty, meaning all states")
	ms.Equal([]string{"jewelry_high_value"}, atlas.ExcludedCategories)
	ms.Equal(api.Currency(50_000_000), atlas.CapacityCents)
	ms.Equal(0.58, atlas.CostRatio)

	borealis := snapshot[1]
	ms.Equal([]string{"CA", "WA", "OR", "NV", "AZ"}, borealis.States)
}
