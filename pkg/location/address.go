package location

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"
)

// GeocodingAPIClient is the subset of the Google Maps client used for reverse geocoding.
type GeocodingAPIClient interface {
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// GoogleAddressResolver resolves coordinates to a street address with the Google Geocoding API.
type GoogleAddressResolver struct {
	client GeocodingAPIClient
	logger zerolog.Logger
}

// NewGoogleAddressResolver creates a new GoogleAddressResolver.
func NewGoogleAddressResolver(client GeocodingAPIClient, logger zerolog.Logger) *GoogleAddressResolver {
	return &GoogleAddressResolver{client: client, logger: logger}
}

// ResolveAddress returns the best street address for the coordinates. With AddressLimited only
// the city, region and country are kept.
func (r *GoogleAddressResolver) ResolveAddress(
	ctx context.Context,
	lat, lng float64,
	detail AddressDetail,
) (*StreetAddress, error) {
	r.logger.Debug().Float64("lat", lat).Float64("lng", lng).Msg("Reverse geocoding")

	results, err := r.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	})
	if err != nil {
		return nil, classifyMapsError(err)
	}
	if len(results) == 0 {
		return nil, ErrNoFix
	}

	addr := addressFromResult(results[0])
	if detail == AddressLimited {
		addr.StreetNumber = ""
		addr.Route = ""
		addr.PostalCode = ""
		addr.Formatted = joinNonEmpty(addr.City, addr.Region, addr.Country)
	}
	return addr, nil
}

func addressFromResult(result maps.GeocodingResult) *StreetAddress {
	addr := &StreetAddress{Formatted: result.FormattedAddress}
	for _, component := range result.AddressComponents {
		for _, typ := range component.Types {
			switch typ {
			case "street_number":
				addr.StreetNumber = component.LongName
			case "route":
				addr.Route = component.LongName
			case "locality", "postal_town":
				if addr.City == "" {
					addr.City = component.LongName
				}
			case "administrative_area_level_1":
				addr.Region = component.LongName
			case "postal_code":
				addr.PostalCode = component.LongName
			case "country":
				addr.Country = component.LongName
				addr.CountryCode = component.ShortName
			}
		}
	}
	return addr
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
