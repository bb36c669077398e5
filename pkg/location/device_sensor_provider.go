package location

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/adrianmo/go-nmea"
	"github.com/rs/zerolog"
	"github.com/tarm/serial"
)

// uere is the user equivalent range error in meters used to turn HDOP into an error radius.
const uere = 5.0

// portOpener opens the serial device the GPS receiver is attached to.
type portOpener func(name string, baudRate int) (io.ReadCloser, error)

// DeviceSensorProvider is responsible for retrieving location data from a GPS device connected via serial port.
type DeviceSensorProvider struct {
	port     string // Serial port to which the GPS device is connected
	baudRate int    // Baud rate for the serial communication
	logger   zerolog.Logger
	open     portOpener
}

// NewDeviceSensorProvider creates a new instance of DeviceSensorProvider with the specified port and baud rate.
func NewDeviceSensorProvider(port string, baudRate int, logger zerolog.Logger) *DeviceSensorProvider {
	return &DeviceSensorProvider{
		port:     port,
		baudRate: baudRate,
		logger:   logger,
		open: func(name string, baudRate int) (io.ReadCloser, error) {
			return serial.OpenPort(&serial.Config{Name: name, Baud: baudRate})
		},
	}
}

// GetLocation reads NMEA sentences until a GGA sentence with a valid fix arrives or ctx is done.
func (d *DeviceSensorProvider) GetLocation(ctx context.Context) (Location, error) {
	port, err := d.open(d.port, d.baudRate)
	if err != nil {
		return Location{}, fmt.Errorf("%w: failed to open %s: %w", ErrScannerNotFound, d.port, err)
	}

	// Closing the port is the only way to unblock a pending read.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		port.Close()
	}()

	return d.readFix(ctx, port)
}

// readFix scans r line by line for the first usable GGA fix.
func (d *DeviceSensorProvider) readFix(ctx context.Context, r io.Reader) (Location, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			// Partial sentences are common right after the port is opened.
			d.logger.Debug().Err(err).Str("sentence", line).Msg("Skipping unparsable NMEA sentence")
			continue
		}

		gga, ok := sentence.(nmea.GGA)
		if !ok || gga.FixQuality == nmea.Invalid {
			continue
		}

		return Location{
			Latitude:  gga.Latitude,
			Longitude: gga.Longitude,
			Accuracy:  gga.HDOP * uere,
			Source:    SourceGPS,
			Timestamp: time.Now(),
		}, nil
	}

	if err := ctx.Err(); err != nil {
		return Location{}, fmt.Errorf("%w: %w", ErrNoFix, err)
	}
	if err := scanner.Err(); err != nil {
		return Location{}, fmt.Errorf("failed to read GPS data: %w", err)
	}
	return Location{}, ErrNoFix
}

// Close is a no-op; the serial port is opened and closed per request.
func (d *DeviceSensorProvider) Close() error {
	return nil
}
