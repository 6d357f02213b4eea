// Package hardware provides the hardware parts catalog: records, the read and
// write services, and the value types they share.
package hardware

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxRating is the highest rating a record can carry.
const MaxRating = 5

// Type is the category of a hardware part.
type Type string

const (
	TypeGraphicsCard Type = "GRAPHICS_CARD"
	TypeProcessor    Type = "PROCESSOR"
	TypeMotherboard  Type = "MOTHERBOARD"
	TypeRAM          Type = "RAM"
	TypeSSD          Type = "SSD"
	TypeHDD          Type = "HDD"
	TypePowerSupply  Type = "POWER_SUPPLY"
	TypeCase         Type = "CASE"
	TypeCooler       Type = "COOLER"
	TypeFan          Type = "FAN"
)

// Types lists every known category.
var Types = []Type{
	TypeGraphicsCard, TypeProcessor, TypeMotherboard, TypeRAM, TypeSSD,
	TypeHDD, TypePowerSupply, TypeCase, TypeCooler, TypeFan,
}

// IsValid reports whether t is one of the known categories.
func (t Type) IsValid() bool {
	switch t {
	case TypeGraphicsCard, TypeProcessor, TypeMotherboard, TypeRAM, TypeSSD,
		TypeHDD, TypePowerSupply, TypeCase, TypeCooler, TypeFan:
		return true
	}
	return false
}

// Record is a catalogued hardware part.
// ID, Version, Created and Updated are owned by the store.
type Record struct {
	ID           int64           `db:"id" json:"id"`
	Version      int             `db:"version" json:"version"`
	Name         string          `db:"name" json:"name"`
	Manufacturer string          `db:"manufacturer" json:"manufacturer"`
	Type         Type            `db:"type" json:"type"`
	Price        decimal.Decimal `db:"price" json:"price"`
	Rating       int             `db:"rating" json:"rating"`
	InStock      bool            `db:"in_stock" json:"inStock"`
	Tags         []string        `db:"tags" json:"tags"`
	Created      time.Time       `db:"created_at" json:"created"`
	Updated      time.Time       `db:"updated_at" json:"updated"`

	// Images is only populated when explicitly requested.
	Images []Image `db:"images" json:"images,omitempty"`
}

// Image is an illustration owned by exactly one Record.
type Image struct {
	ID          int64  `db:"id" json:"id"`
	Caption     string `db:"caption" json:"caption"`
	ContentType string `db:"content_type" json:"contentType"`
	HardwareID  int64  `db:"hardware_id" json:"-"`
}

// normalize substitutes an empty collection for absent tags.
func (r *Record) normalize() {
	if r.Tags == nil {
		r.Tags = []string{}
	}
}

// merge copies the caller-mutable fields of src onto r.
// Identity, version, timestamps and images are left untouched.
func (r *Record) merge(src *Record) {
	r.Name = src.Name
	r.Manufacturer = src.Manufacturer
	r.Type = src.Type
	r.Price = src.Price
	r.Rating = src.Rating
	r.InStock = src.InStock
	r.Tags = src.Tags
}
