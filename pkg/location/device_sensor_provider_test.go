package location

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validGGA   = "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47"
	invalidGGA = "$GPGGA,123519,,,,,0,00,,,M,,M,,*6B"
	sampleRMC  = "$GPRMC,123519,A,4807.038,N,01131.000,E,022.4,084.4,230394,003.1,W*6A"
)

func TestDeviceSensorProvider_ReadFix(t *testing.T) {
	provider := NewDeviceSensorProvider("/dev/null", 9600, zerolog.Nop())
	input := strings.Join([]string{
		"GGA,123519,4807", // partial sentence from the middle of a stream
		"$GPGGA,garbage*00",
		sampleRMC,
		invalidGGA,
		validGGA,
	}, "\r\n")

	loc, err := provider.readFix(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	assert.InDelta(t, 48.1173, loc.Latitude, 1e-6)
	assert.InDelta(t, 11.516667, loc.Longitude, 1e-6)
	assert.InDelta(t, 4.5, loc.Accuracy, 1e-9)
	assert.Equal(t, SourceGPS, loc.Source)
	assert.False(t, loc.Timestamp.IsZero())
}

func TestDeviceSensorProvider_ReadFix_NoFix(t *testing.T) {
	provider := NewDeviceSensorProvider("/dev/null", 9600, zerolog.Nop())

	_, err := provider.readFix(context.Background(), strings.NewReader(invalidGGA+"\n"+sampleRMC+"\n"))
	assert.ErrorIs(t, err, ErrNoFix)
}

func TestDeviceSensorProvider_ReadFix_ContextDone(t *testing.T) {
	provider := NewDeviceSensorProvider("/dev/null", 9600, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.readFix(ctx, strings.NewReader(invalidGGA+"\n"))
	assert.ErrorIs(t, err, ErrNoFix)
	assert.ErrorIs(t, err, context.Canceled)
}

type closeTracker struct {
	io.Reader
	closed chan struct{}
}

func (c *closeTracker) Close() error {
	close(c.closed)
	return nil
}

func TestDeviceSensorProvider_GetLocation(t *testing.T) {
	provider := NewDeviceSensorProvider("/dev/ttyUSB0", 4800, zerolog.Nop())
	port := &closeTracker{Reader: strings.NewReader(validGGA + "\r\n"), closed: make(chan struct{})}
	provider.open = func(name string, baudRate int) (io.ReadCloser, error) {
		assert.Equal(t, "/dev/ttyUSB0", name)
		assert.Equal(t, 4800, baudRate)
		return port, nil
	}

	loc, err := provider.GetLocation(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 48.1173, loc.Latitude, 1e-6)

	// The port is closed once the read returns.
	<-port.closed
}

func TestDeviceSensorProvider_GetLocation_OpenFails(t *testing.T) {
	provider := NewDeviceSensorProvider("/dev/ttyUSB9", 9600, zerolog.Nop())
	provider.open = func(string, int) (io.ReadCloser, error) {
		return nil, errors.New("no such file or directory")
	}

	_, err := provider.GetLocation(context.Background())
	assert.ErrorIs(t, err, ErrScannerNotFound)
	assert.NoError(t, provider.Close())
}
