package main

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/shopspring/decimal"

	"hwcatalog/internal/domain/hardware"
	"hwcatalog/internal/infrastructure/http/v1/dto"
)

type seedImage struct {
	Caption     string `koanf:"caption"`
	ContentType string `koanf:"contenttype"`
}

type seedPart struct {
	Name         string      `koanf:"name"`
	Manufacturer string      `koanf:"manufacturer"`
	Type         string      `koanf:"type"`
	Price        string      `koanf:"price"`
	Rating       int         `koanf:"rating"`
	InStock      bool        `koanf:"instock"`
	Tags         []string    `koanf:"tags"`
	Images       []seedImage `koanf:"images"`
}

// loadParts reads path and validates every part with the API rules.
func loadParts(path string) ([]*hardware.Record, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, err
	}

	var parts []seedPart
	if err := k.Unmarshal("parts", &parts); err != nil {
		return nil, fmt.Errorf("error unmarshalling parts: %w", err)
	}

	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	records := make([]*hardware.Record, 0, len(parts))
	for i, p := range parts {
		req, err := p.request()
		if err != nil {
			return nil, fmt.Errorf("part %d (%s): %w", i, p.Name, err)
		}
		if err := binding.Validator.ValidateStruct(req); err != nil {
			return nil, fmt.Errorf("part %d (%s): %w", i, p.Name, err)
		}
		records = append(records, req.ToRecord())
	}
	return records, nil
}

func (p seedPart) request() (dto.HardwareRequest, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return dto.HardwareRequest{}, fmt.Errorf("invalid price %q: %w", p.Price, err)
	}

	req := dto.HardwareRequest{
		Name:         p.Name,
		Manufacturer: p.Manufacturer,
		Type:         p.Type,
		Price:        &price,
		Rating:       p.Rating,
		InStock:      p.InStock,
		Tags:         p.Tags,
	}
	for _, img := range p.Images {
		req.Images = append(req.Images, dto.ImageRequest{Caption: img.Caption, ContentType: img.ContentType})
	}
	return req, nil
}
