package mocks

import (
	"context"

	"github.com/benmeehan/locate/pkg/location"
	"github.com/stretchr/testify/mock"
	"googlemaps.github.io/maps"
)

// MockProvider is a mock implementation of the location.Provider interface
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetLocation(ctx context.Context) (location.Location, error) {
	args := m.Called(ctx)
	return args.Get(0).(location.Location), args.Error(1)
}

func (m *MockProvider) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockAddressResolver is a mock implementation of the location.AddressResolver interface
type MockAddressResolver struct {
	mock.Mock
}

func (m *MockAddressResolver) ResolveAddress(
	ctx context.Context,
	lat, lng float64,
	detail location.AddressDetail,
) (*location.StreetAddress, error) {
	args := m.Called(ctx, lat, lng, detail)
	if addr := args.Get(0); addr != nil {
		return addr.(*location.StreetAddress), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockScanner is a mock implementation of the location.Scanner interface
type MockScanner struct {
	mock.Mock
}

func (m *MockScanner) WiFiAccessPoints(ctx context.Context) ([]maps.WiFiAccessPoint, error) {
	args := m.Called(ctx)
	if aps := args.Get(0); aps != nil {
		return aps.([]maps.WiFiAccessPoint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockScanner) CellTowers(ctx context.Context) ([]maps.CellTower, error) {
	args := m.Called(ctx)
	if towers := args.Get(0); towers != nil {
		return towers.([]maps.CellTower), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockGeolocationAPIClient is a mock implementation of the location.GeolocationAPIClient interface
type MockGeolocationAPIClient struct {
	mock.Mock
}

func (m *MockGeolocationAPIClient) Geolocate(ctx context.Context, r *maps.GeolocationRequest) (*maps.GeolocationResult, error) {
	args := m.Called(ctx, r)
	if res := args.Get(0); res != nil {
		return res.(*maps.GeolocationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockGeocodingAPIClient is a mock implementation of the location.GeocodingAPIClient interface
type MockGeocodingAPIClient struct {
	mock.Mock
}

func (m *MockGeocodingAPIClient) ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
	args := m.Called(ctx, r)
	if res := args.Get(0); res != nil {
		return res.([]maps.GeocodingResult), args.Error(1)
	}
	return nil, args.Error(1)
}
