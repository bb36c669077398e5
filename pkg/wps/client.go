package wps

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benmeehan/locate/pkg/file"
	"github.com/benmeehan/locate/pkg/location"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single query when the config leaves it unset.
const DefaultTimeout = 10 * time.Second

// Config selects and tunes the backend behind a Client.
type Config struct {
	Engine        Engine
	Timeout       time.Duration
	ModemIndex    int
	GPSDevicePort string
	GPSBaudRate   int
}

// Client follows a load, set key, query, unload lifecycle. All methods are safe
// for concurrent use; queries are serialized.
type Client struct {
	backend Backend
	timeout time.Duration
	logger  zerolog.Logger

	mu        sync.Mutex
	loaded    bool
	key       string
	providers *Providers
}

// NewClient creates a Client for the engine named in cfg.
func NewClient(cfg Config, fileOps file.FileOperations, logger zerolog.Logger) (*Client, error) {
	var backend Backend
	switch cfg.Engine {
	case EngineWiFi, "":
		backend = newWiFiBackend(cfg.ModemIndex, logger)
	case EngineGPS:
		backend = &gpsBackend{
			port:     cfg.GPSDevicePort,
			baudRate: cfg.GPSBaudRate,
			fileOps:  fileOps,
			logger:   logger,
		}
	default:
		return nil, fmt.Errorf("unsupported engine: %s", cfg.Engine)
	}
	return NewClientWithBackend(backend, cfg.Timeout, logger), nil
}

// NewClientWithBackend creates a Client around a custom backend.
func NewClientWithBackend(backend Backend, timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		backend: backend,
		timeout: timeout,
		logger:  logger,
	}
}

// Load probes the backend and marks the client ready. Loading an already loaded client is a no-op.
func (c *Client) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return nil
	}
	if err := c.backend.Probe(ctx); err != nil {
		c.logger.Error().Err(err).Msg("Failed to load positioning backend")
		return newError("load", err)
	}

	c.loaded = true
	c.logger.Debug().Msg("Positioning backend loaded")
	return nil
}

// SetKey sets the API key. Providers built for a previous key are released.
func (c *Client) SetKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key == c.key {
		return
	}
	c.closeProviders()
	c.key = key
}

// Location determines the current location from the backend's primary provider.
func (c *Client) Location(ctx context.Context, lookup StreetAddressLookup) (*Location, error) {
	return c.query(ctx, "location", lookup, func(p *Providers) location.Provider { return p.Location })
}

// IPLocation determines a coarse location from the caller's IP address.
func (c *Client) IPLocation(ctx context.Context, lookup StreetAddressLookup) (*Location, error) {
	return c.query(ctx, "ip location", lookup, func(p *Providers) location.Provider { return p.IP })
}

// Unload releases all providers. It is safe to call on a client that never loaded.
func (c *Client) Unload() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeProviders()
	if c.loaded {
		c.logger.Debug().Msg("Positioning backend unloaded")
	}
	c.loaded = false
}

func (c *Client) query(
	ctx context.Context,
	op string,
	lookup StreetAddressLookup,
	pick func(*Providers) location.Provider,
) (*Location, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		return nil, newError(op, ErrNotLoaded)
	}

	providers, err := c.ensureProviders()
	if err != nil {
		return nil, newError(op, err)
	}
	provider := pick(providers)
	if provider == nil {
		return nil, newError(op, fmt.Errorf("%w: %s requires an API key", location.ErrUnauthorized, op))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	fix, err := provider.GetLocation(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Str("op", op).Msg("Positioning request failed")
		return nil, newError(op, err)
	}

	loc := fromFix(fix)
	if lookup != NoStreetAddressLookup {
		c.resolveAddress(ctx, providers.Address, loc, lookup)
	}

	c.logger.Info().
		Str("source", string(loc.Source)).
		Float64("lat", loc.Latitude).
		Float64("lng", loc.Longitude).
		Float64("hpe", loc.HPE).
		Msg("Location determined")
	return loc, nil
}

// resolveAddress attaches a street address to loc. A failed lookup keeps the fix.
func (c *Client) resolveAddress(
	ctx context.Context,
	resolver location.AddressResolver,
	loc *Location,
	lookup StreetAddressLookup,
) {
	if resolver == nil {
		c.logger.Warn().Msg("Street address lookup requested but no resolver is configured")
		return
	}
	addr, err := resolver.ResolveAddress(ctx, loc.Latitude, loc.Longitude, lookup.detail())
	if err != nil {
		c.logger.Warn().Err(err).Msg("Street address lookup failed")
		return
	}
	loc.StreetAddress = addr
}

func (c *Client) ensureProviders() (*Providers, error) {
	if c.providers != nil {
		return c.providers, nil
	}
	if c.backend.NeedsKey() && c.key == "" {
		return nil, fmt.Errorf("%w: no API key set", location.ErrUnauthorized)
	}

	providers, err := c.backend.Providers(c.key)
	if err != nil {
		return nil, err
	}
	c.providers = providers
	return providers, nil
}

func (c *Client) closeProviders() {
	if c.providers == nil {
		return
	}
	if err := c.providers.Close(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to close location providers")
	}
	c.providers = nil
}
