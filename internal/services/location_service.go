package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benmeehan/locate/internal/metrics"
	"github.com/benmeehan/locate/internal/models"
	"github.com/benmeehan/locate/pkg/identity"
	"github.com/benmeehan/locate/pkg/mqtt"
	"github.com/benmeehan/locate/pkg/wps"
	"github.com/rs/zerolog"
)

// Locator is the query side of the positioning client.
type Locator interface {
	Location(ctx context.Context, lookup wps.StreetAddressLookup) (*wps.Location, error)
}

// LocationService periodically determines the device location and publishes it to an MQTT broker.
type LocationService struct {
	// Configuration fields
	topic        string
	interval     time.Duration
	qos          int
	lookup       wps.StreetAddressLookup
	agentVersion string

	// Dependencies
	deviceInfo identity.DeviceInfoInterface
	mqttClient mqtt.MQTTClient
	locator    Locator
	metrics    *metrics.Metrics
	logger     zerolog.Logger

	// Internal state management
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewLocationService creates a new LocationService instance with the provided configuration.
func NewLocationService(
	topic string,
	interval time.Duration,
	qos int,
	lookup wps.StreetAddressLookup,
	agentVersion string,
	deviceInfo identity.DeviceInfoInterface,
	mqttClient mqtt.MQTTClient,
	locator Locator,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *LocationService {
	return &LocationService{
		topic:        topic,
		interval:     interval,
		qos:          qos,
		lookup:       lookup,
		agentVersion: agentVersion,
		deviceInfo:   deviceInfo,
		mqttClient:   mqttClient,
		locator:      locator,
		metrics:      metrics,
		logger:       logger,
	}
}

// Start publishes one location right away and then one per interval until Stop.
func (l *LocationService) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ctx != nil {
		l.logger.Warn().Msg("LocationService is already running")
		return errors.New("location service is already running")
	}
	if l.interval <= 0 {
		return fmt.Errorf("location service interval must be positive, got %s", l.interval)
	}

	l.ctx, l.cancel = context.WithCancel(context.Background())

	l.wg.Add(1)
	go func(ctx context.Context) {
		defer l.wg.Done()
		l.runPublishLoop(ctx)
	}(l.ctx)

	l.logger.Info().
		Str("topic", l.topic).
		Dur("interval", l.interval).
		Int("qos", l.qos).
		Msg("LocationService started")
	return nil
}

// Stop gracefully stops the LocationService, ensuring the publishing goroutine has exited.
func (l *LocationService) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ctx == nil {
		l.logger.Warn().Msg("LocationService is not running")
		return errors.New("location service is not running")
	}

	l.cancel()
	l.wg.Wait()

	l.ctx = nil
	l.cancel = nil

	l.logger.Info().Msg("LocationService stopped")
	return nil
}

func (l *LocationService) runPublishLoop(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		if err := l.publishCurrentLocation(ctx); err != nil && ctx.Err() == nil {
			l.logger.Error().Err(err).Msg("Failed to publish current location")
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			l.logger.Info().Msg("LocationService is stopping")
			return
		}
	}
}

// publishCurrentLocation fetches the current location and publishes it to the MQTT broker.
func (l *LocationService) publishCurrentLocation(ctx context.Context) error {
	start := time.Now()
	loc, err := l.locator.Location(ctx, l.lookup)
	l.metrics.RequestSeconds.Observe(time.Since(start).Seconds())
	l.metrics.Requests.WithLabelValues(wps.CodeOf(err).String()).Inc()
	if err != nil {
		return fmt.Errorf("failed to get location: %w", err)
	}
	l.metrics.LastHPE.Set(loc.HPE)

	locationMessage := models.Location{
		DeviceID:     l.deviceInfo.GetDeviceID(),
		AgentVersion: l.agentVersion,
		Timestamp:    loc.Timestamp,
		Latitude:     loc.Latitude,
		Longitude:    loc.Longitude,
		HPE:          loc.HPE,
		Source:       string(loc.Source),
	}
	if locationMessage.Timestamp.IsZero() {
		locationMessage.Timestamp = time.Now()
	}
	if loc.StreetAddress != nil {
		locationMessage.StreetAddress = loc.StreetAddress.Formatted
	}

	payload, err := json.Marshal(locationMessage)
	if err != nil {
		return fmt.Errorf("failed to serialize location message: %w", err)
	}

	token := l.mqttClient.Publish(l.topic, byte(l.qos), false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		l.metrics.PublishErrors.Inc()
		return fmt.Errorf("failed to publish location message to %s: %w", l.topic, err)
	}

	l.logger.Debug().
		Interface("message", locationMessage).
		Str("topic", l.topic).
		Msg("Location published successfully")
	return nil
}
