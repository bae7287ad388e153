package model

import (
	"fmt"

	"github.com/google/uuid"
)

// StoreType is a closed enumeration of the store formats on the Polish market.
type StoreType string

const (
	StoreTypeDiscount    StoreType = "discount"
	StoreTypeConvenience StoreType = "convenience"
	StoreTypeHypermarket StoreType = "hypermarket"
	StoreTypeSupermarket StoreType = "supermarket"
)

// Validate implements the Enum contract used by the `enum` validator tag.
func (t StoreType) Validate() error {
	switch t {
	case StoreTypeDiscount, StoreTypeConvenience, StoreTypeHypermarket, StoreTypeSupermarket:
		return nil
	default:
		return fmt.Errorf("unknown store type: %s", t)
	}
}

type Store struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Type    StoreType `json:"type"`
	LogoURL string    `json:"logo_url"`
}

// StoreLocation is a physical branch of a store. Coordinates are WGS-84
// decimal degrees.
type StoreLocation struct {
	ID         uuid.UUID `json:"id"`
	StoreID    uuid.UUID `json:"store_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
}
