package location

import "context"

// Provider interface defines the methods for location providers
type Provider interface {
	GetLocation(ctx context.Context) (Location, error)
	Close() error
}

// AddressDetail selects how much of a street address is resolved.
type AddressDetail int

const (
	AddressFull AddressDetail = iota
	AddressLimited
)

// AddressResolver turns coordinates into a street address.
type AddressResolver interface {
	ResolveAddress(ctx context.Context, lat, lng float64, detail AddressDetail) (*StreetAddress, error)
}
