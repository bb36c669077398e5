package mocks

import (
	"context"

	"github.com/benmeehan/locate/pkg/wps"
	"github.com/stretchr/testify/mock"
)

// MockBackend is a mock implementation of the wps.Backend interface
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Probe(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockBackend) NeedsKey() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockBackend) Providers(key string) (*wps.Providers, error) {
	args := m.Called(key)
	if p := args.Get(0); p != nil {
		return p.(*wps.Providers), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockClient is a mock of the positioning client used by the quickstart and watch services
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Load(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockClient) SetKey(key string) {
	m.Called(key)
}

func (m *MockClient) Location(ctx context.Context, lookup wps.StreetAddressLookup) (*wps.Location, error) {
	args := m.Called(ctx, lookup)
	if loc := args.Get(0); loc != nil {
		return loc.(*wps.Location), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClient) IPLocation(ctx context.Context, lookup wps.StreetAddressLookup) (*wps.Location, error) {
	args := m.Called(ctx, lookup)
	if loc := args.Get(0); loc != nil {
		return loc.(*wps.Location), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClient) Unload() {
	m.Called()
}
