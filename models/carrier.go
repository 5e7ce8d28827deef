package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/underwriting"
)

type Carriers []Carrier

// Carrier holds one carrier's appetite and remaining capacity. Capacity is
// only consumed when a quote is bound, never at quote time.
type Carrier struct {
	ID   uuid.UUID `db:"id"`
	Code string    `db:"code" validate:"required"`
	Name string    `db:"name" validate:"required"`

	// comma-separated list of products the carrier writes
	Products string `db:"products" validate:"required"`

	// comma-separated list of states; empty means all states
	States string `db:"states"`

	// comma-separated list of excluded shipping item categories
	ExcludedCategories string `db:"excluded_categories"`

	CapacityCents api.Currency `db:"capacity_cents" validate:"gte=0"`

	// expected claims cost as a fraction of premium
	CostRatio float64 `db:"cost_ratio" validate:"gt=0,lt=1"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" method.
func (c *Carrier) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(c), nil
}

func (c *Carrier) Create(tx *pop.Connection) error {
	return create(tx, c)
}

func (c *Carrier) Update(tx *pop.Connection) error {
	return update(tx, c)
}

func (c *Carrier) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, c, id)
}

func (c *Carrier) FindByCode(tx *pop.Connection, code string) error {
	err := tx.Where("code = ?", code).First(c)
	return appErrorFromDB(err, api.ErrorCarrierNotFound)
}

func (c *Carriers) All(tx *pop.Connection) error {
	err := tx.Order("code asc").All(c)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// ConsumeCapacity reduces the carrier's remaining capacity by the premium of
// a newly bound policy. The row is locked by the caller before the carrier is
// loaded, so the check-and-decrement is race-free.
func (c *Carrier) ConsumeCapacity(tx *pop.Connection, premium api.Currency) error {
	if premium > c.CapacityCents {
		return api.NewAppError(
			fmt.Errorf("carrier %s capacity %s cannot cover premium %s", c.Code, c.CapacityCents, premium),
			api.ErrorCarrierCapacity, api.CategoryUnprocessable)
	}
	c.CapacityCents -= premium
	return update(tx, c)
}

// RestoreCapacity returns a cancelled policy's premium to the carrier.
func (c *Carrier) RestoreCapacity(tx *pop.Connection, premium api.Currency) error {
	c.CapacityCents += premium
	return update(tx, c)
}

// FindByCodeForUpdate loads the carrier row with a row lock, serializing
// concurrent capacity changes.
func (c *Carrier) FindByCodeForUpdate(tx *pop.Connection, code string) error {
	err := tx.RawQuery("SELECT * FROM carriers WHERE code = ? FOR UPDATE", code).First(c)
	return appErrorFromDB(err, api.ErrorCarrierNotFound)
}

func (c *Carrier) productCodes() []api.ProductCode {
	parts := splitList(c.Products)
	codes := make([]api.ProductCode, len(parts))
	for i, s := range parts {
		codes[i] = api.ProductCode(s)
	}
	return codes
}

// RoutingSnapshot converts the carrier table to the router's immutable view.
func (cs *Carriers) RoutingSnapshot() []underwriting.Carrier {
	snapshot := make([]underwriting.Carrier, len(*cs))
	for i, c := range *cs {
		snapshot[i] = underwriting.Carrier{
			ID:                 c.Code,
			Name:               c.Name,
			Products:           c.productCodes(),
			States:             splitList(c.States),
			ExcludedCategories: splitList(c.ExcludedCategories),
			CapacityCents:      c.CapacityCents,
			CostRatio:          c.CostRatio,
		}
	}
	return snapshot
}

func (cs *Carriers) ConvertToAPI() api.Carriers {
	carriers := make(api.Carriers, len(*cs))
	for i, c := range *cs {
		carriers[i] = c.ConvertToAPI()
	}
	return carriers
}

func (c *Carrier) ConvertToAPI() api.Carrier {
	return api.Carrier{
		ID:                 c.Code,
		Name:               c.Name,
		Products:           c.productCodes(),
		States:             splitList(c.States),
		ExcludedCategories: splitList(c.ExcludedCategories),
		CapacityCents:      c.CapacityCents,
		CostRatio:          c.CostRatio,
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
