package wps

import (
	"fmt"
	"time"

	"github.com/benmeehan/locate/pkg/location"
)

// StreetAddress is the reverse geocoded address attached to a Location.
type StreetAddress = location.StreetAddress

// Location is the result of a successful query.
type Location struct {
	Latitude      float64 // Degrees
	Longitude     float64 // Degrees
	HPE           float64 // Horizontal position error, meters
	StreetAddress *StreetAddress
	Source        location.Source
	APCount       int
	Timestamp     time.Time
}

func fromFix(fix location.Location) *Location {
	return &Location{
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
		HPE:       fix.Accuracy,
		Source:    fix.Source,
		APCount:   fix.APCount,
		Timestamp: fix.Timestamp,
	}
}

// StreetAddressLookup controls whether a query also reverse geocodes its result.
type StreetAddressLookup int

const (
	NoStreetAddressLookup StreetAddressLookup = iota
	LimitedStreetAddressLookup
	FullStreetAddressLookup
)

// ParseStreetAddressLookup parses "none", "limited" or "full". The empty string means none.
func ParseStreetAddressLookup(s string) (StreetAddressLookup, error) {
	switch s {
	case "", "none":
		return NoStreetAddressLookup, nil
	case "limited":
		return LimitedStreetAddressLookup, nil
	case "full":
		return FullStreetAddressLookup, nil
	default:
		return NoStreetAddressLookup, fmt.Errorf("invalid street address lookup %q: want none, limited or full", s)
	}
}

func (l StreetAddressLookup) detail() location.AddressDetail {
	if l == LimitedStreetAddressLookup {
		return location.AddressLimited
	}
	return location.AddressFull
}
