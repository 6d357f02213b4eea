package dto

import (
	"github.com/shopspring/decimal"

	"hwcatalog/internal/domain/hardware"
)

// HardwareRequest is the body of POST and PUT /hardware.
type HardwareRequest struct {
	Name         string           `json:"name" binding:"required,min=1,max=100"`
	Manufacturer string           `json:"manufacturer" binding:"required,min=1,max=30"`
	Type         string           `json:"type" binding:"required,hwtype"`
	Price        *decimal.Decimal `json:"price" binding:"required,nonnegative"`
	Rating       int              `json:"rating" binding:"required,min=1,max=5"`
	InStock      bool             `json:"inStock"`
	Tags         []string         `json:"tags" binding:"omitempty,unique,dive,min=1"`
	Images       []ImageRequest   `json:"images" binding:"omitempty,dive"`
}

// ImageRequest describes an image created together with its record.
type ImageRequest struct {
	Caption     string `json:"caption" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"required,max=100"`
}

// ToRecord converts the request into a domain record.
func (r HardwareRequest) ToRecord() *hardware.Record {
	rec := &hardware.Record{
		Name:         r.Name,
		Manufacturer: r.Manufacturer,
		Type:         hardware.Type(r.Type),
		Rating:       r.Rating,
		InStock:      r.InStock,
		Tags:         r.Tags,
	}
	if r.Price != nil {
		rec.Price = *r.Price
	}
	for _, img := range r.Images {
		rec.Images = append(rec.Images, hardware.Image{
			Caption:     img.Caption,
			ContentType: img.ContentType,
		})
	}
	return rec
}
