package models

import (
	"strings"
	"time"

	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/embedsure/embed-api/api"
)

type Partners []Partner

// Partner is an embedded distribution partner allowed to request quotes.
type Partner struct {
	ID     uuid.UUID `db:"id"`
	Code   string    `db:"code" validate:"required"`
	Name   string    `db:"name" validate:"required"`
	Token  string    `db:"token" validate:"required"`
	Active bool      `db:"active"`

	// comma-separated list of allowed product codes
	Products string `db:"products" validate:"required"`

	// partner markup as a decimal fraction, 0 <= p < 1
	MarkupPct float64 `db:"markup_pct" validate:"gte=0,lt=1"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" method.
func (p *Partner) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(p), nil
}

func (p *Partner) Create(tx *pop.Connection) error {
	return create(tx, p)
}

func (p *Partner) Update(tx *pop.Connection) error {
	return update(tx, p)
}

func (p *Partner) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, p, id)
}

func (p *Partner) FindByCode(tx *pop.Connection, code string) error {
	err := tx.Where("code = ?", code).First(p)
	return appErrorFromDB(err, api.ErrorPartnerNotFound)
}

// FindByToken looks up an active partner by its bearer token.
func (p *Partner) FindByToken(tx *pop.Connection, token string) error {
	err := tx.Where("token = ? AND active = true", token).First(p)
	return appErrorFromDB(err, api.ErrorPartnerNotFound)
}

// ProductCodes parses the stored product list.
func (p *Partner) ProductCodes() []api.ProductCode {
	if p.Products == "" {
		return nil
	}
	parts := strings.Split(p.Products, ",")
	codes := make([]api.ProductCode, len(parts))
	for i, s := range parts {
		codes[i] = api.ProductCode(strings.TrimSpace(s))
	}
	return codes
}

// AllowsProduct reports whether the partner may quote the given product.
func (p *Partner) AllowsProduct(code api.ProductCode) bool {
	for _, c := range p.ProductCodes() {
		if c == code {
			return true
		}
	}
	return false
}

// ConvertToAPI returns the partner's underwriting terms.
func (p *Partner) ConvertToAPI() api.Partner {
	return api.Partner{
		ID:        p.Code,
		Name:      p.Name,
		Products:  p.ProductCodes(),
		MarkupPct: p.MarkupPct,
	}
}
