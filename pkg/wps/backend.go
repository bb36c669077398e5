package wps

import (
	"context"
	"fmt"

	"github.com/benmeehan/locate/pkg/file"
	"github.com/benmeehan/locate/pkg/location"
	"github.com/rs/zerolog"
)

// Engine selects the positioning backend.
type Engine string

const (
	EngineWiFi Engine = "wifi"
	EngineGPS  Engine = "gps"
)

// Providers are the per-key objects a query delegates to. IP and Address may be nil
// when the backend cannot offer them.
type Providers struct {
	Location location.Provider
	IP       location.Provider
	Address  location.AddressResolver
}

// Close closes every provider and returns the first error.
func (p *Providers) Close() error {
	var firstErr error
	for _, provider := range []location.Provider{p.Location, p.IP} {
		if provider == nil {
			continue
		}
		if err := provider.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Backend probes the host at load time and builds providers once a key is known.
type Backend interface {
	Probe(ctx context.Context) error
	NeedsKey() bool
	Providers(key string) (*Providers, error)
}

// wifiBackend scans WiFi and cell radios and resolves them with Google's Geolocation API.
type wifiBackend struct {
	scanner *location.CommandScanner
	logger  zerolog.Logger
}

func newWiFiBackend(modemIndex int, logger zerolog.Logger) *wifiBackend {
	return &wifiBackend{
		scanner: location.NewCommandScanner(modemIndex, logger),
		logger:  logger,
	}
}

func (b *wifiBackend) Probe(_ context.Context) error {
	if !b.scanner.Available() {
		return fmt.Errorf("%w: neither nmcli nor mmcli is installed", location.ErrScannerNotFound)
	}
	return nil
}

func (b *wifiBackend) NeedsKey() bool {
	return true
}

func (b *wifiBackend) Providers(key string) (*Providers, error) {
	client, err := location.NewMapsClient(key)
	if err != nil {
		return nil, err
	}
	return &Providers{
		Location: location.NewGoogleGeolocationProvider(client, b.scanner, b.logger),
		IP:       location.NewIPGeolocationProvider(client, b.logger),
		Address:  location.NewGoogleAddressResolver(client, b.logger),
	}, nil
}

// gpsBackend reads fixes from a serial GPS receiver. The key, when set, enables IP
// fallback and street address lookup.
type gpsBackend struct {
	port     string
	baudRate int
	fileOps  file.FileOperations
	logger   zerolog.Logger
}

func (b *gpsBackend) Probe(_ context.Context) error {
	exists, err := b.fileOps.IsFileExists(b.port)
	if err != nil {
		return fmt.Errorf("failed to check GPS device %s: %w", b.port, err)
	}
	if !exists {
		return fmt.Errorf("%w: GPS device %s not present", location.ErrScannerNotFound, b.port)
	}
	return nil
}

func (b *gpsBackend) NeedsKey() bool {
	return false
}

func (b *gpsBackend) Providers(key string) (*Providers, error) {
	providers := &Providers{
		Location: location.NewDeviceSensorProvider(b.port, b.baudRate, b.logger),
	}
	if key == "" {
		return providers, nil
	}

	client, err := location.NewMapsClient(key)
	if err != nil {
		return nil, err
	}
	providers.IP = location.NewIPGeolocationProvider(client, b.logger)
	providers.Address = location.NewGoogleAddressResolver(client, b.logger)
	return providers, nil
}
