package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benmeehan/locate/internal/utils"
	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"
)

// GeolocationAPIClient is the subset of the Google Maps client used for geolocation.
type GeolocationAPIClient interface {
	Geolocate(ctx context.Context, r *maps.GeolocationRequest) (*maps.GeolocationResult, error)
}

// NewMapsClient creates a Google Maps API client for the given key.
func NewMapsClient(apiKey string) (*maps.Client, error) {
	if apiKey == "" {
		return nil, ErrUnauthorized
	}
	c, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}
	return c, nil
}

// GoogleGeolocationProvider uses the Google Maps API to get location data
// from nearby WiFi access points and cell towers.
type GoogleGeolocationProvider struct {
	client  GeolocationAPIClient // Maps API client for making geolocation requests
	scanner Scanner              // Source of radio observations
	logger  zerolog.Logger
}

// NewGoogleGeolocationProvider creates a new GoogleGeolocationProvider instance.
func NewGoogleGeolocationProvider(client GeolocationAPIClient, scanner Scanner, logger zerolog.Logger) *GoogleGeolocationProvider {
	return &GoogleGeolocationProvider{
		client:  client,
		scanner: scanner,
		logger:  logger,
	}
}

// GetLocation scans the radios concurrently and resolves the observations with the Geolocation API.
func (g *GoogleGeolocationProvider) GetLocation(ctx context.Context) (Location, error) {
	var (
		wifiAPs    []maps.WiFiAccessPoint
		cellTowers []maps.CellTower
		wifiErr    error
		cellErr    error
	)

	pool := utils.NewWorkerPool(2)
	pool.Submit(func() error {
		wifiAPs, wifiErr = g.scanner.WiFiAccessPoints(ctx)
		return wifiErr
	})
	pool.Submit(func() error {
		cellTowers, cellErr = g.scanner.CellTowers(ctx)
		return cellErr
	})
	if err := pool.Shutdown(); err != nil {
		g.logger.Debug().Err(err).Msg("Radio scan reported errors")
	}

	if err := ctx.Err(); err != nil {
		return Location{}, contextError(err)
	}

	if len(wifiAPs) == 0 && len(cellTowers) == 0 {
		switch {
		case errors.Is(wifiErr, ErrScannerNotFound) && errors.Is(cellErr, ErrScannerNotFound):
			return Location{}, ErrScannerNotFound
		case errors.Is(wifiErr, ErrWiFiNotAvailable):
			return Location{}, ErrWiFiNotAvailable
		default:
			return Location{}, ErrNoWiFiInRange
		}
	}

	req := &maps.GeolocationRequest{
		ConsiderIP:       false,
		WiFiAccessPoints: wifiAPs,
		CellTowers:       cellTowers,
	}

	g.logger.Debug().
		Int("access_points", len(wifiAPs)).
		Int("cell_towers", len(cellTowers)).
		Msg("Sending geolocation request")

	resp, err := g.client.Geolocate(ctx, req)
	if err != nil {
		return Location{}, classifyMapsError(err)
	}

	return Location{
		Latitude:  resp.Location.Lat,
		Longitude: resp.Location.Lng,
		Accuracy:  resp.Accuracy,
		Source:    SourceWiFi,
		APCount:   len(wifiAPs),
		Timestamp: time.Now(),
	}, nil
}

// Close releases nothing; the Maps client holds no persistent connections of its own.
func (g *GoogleGeolocationProvider) Close() error {
	return nil
}

// IPGeolocationProvider asks the Geolocation API for a coarse fix based on the caller's IP address.
type IPGeolocationProvider struct {
	client GeolocationAPIClient
	logger zerolog.Logger
}

// NewIPGeolocationProvider creates a new IPGeolocationProvider instance.
func NewIPGeolocationProvider(client GeolocationAPIClient, logger zerolog.Logger) *IPGeolocationProvider {
	return &IPGeolocationProvider{client: client, logger: logger}
}

// GetLocation retrieves an IP-based location.
func (p *IPGeolocationProvider) GetLocation(ctx context.Context) (Location, error) {
	p.logger.Debug().Msg("Sending IP geolocation request")

	resp, err := p.client.Geolocate(ctx, &maps.GeolocationRequest{ConsiderIP: true})
	if err != nil {
		return Location{}, classifyMapsError(err)
	}

	return Location{
		Latitude:  resp.Location.Lat,
		Longitude: resp.Location.Lng,
		Accuracy:  resp.Accuracy,
		Source:    SourceIP,
		Timestamp: time.Now(),
	}, nil
}

func (p *IPGeolocationProvider) Close() error {
	return nil
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}
