package location

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func TestParseNmcliOutput(t *testing.T) {
	output := "AA\\:BB\\:CC\\:DD\\:EE\\:FF:70\n" +
		"11\\:22\\:33\\:44\\:55\\:66:100\n" +
		"not-a-mac:40\n" +
		"77\\:88\\:99\\:AA\\:BB\\:CC:weak\n" +
		"\n"

	aps, err := parseNmcliOutput(output)
	require.NoError(t, err)
	require.Len(t, aps, 2)

	assert.Equal(t, "AA:BB:CC:DD:EE:FF", aps[0].MACAddress)
	assert.Equal(t, -65.0, aps[0].SignalStrength)
	assert.Equal(t, "11:22:33:44:55:66", aps[1].MACAddress)
	assert.Equal(t, -50.0, aps[1].SignalStrength)
}

func TestParseNmcliOutput_Empty(t *testing.T) {
	aps, err := parseNmcliOutput("")
	require.NoError(t, err)
	assert.Empty(t, aps)
}

func TestSignalToDBm(t *testing.T) {
	assert.Equal(t, -100.0, signalToDBm(-5))
	assert.Equal(t, -100.0, signalToDBm(0))
	assert.Equal(t, -75.0, signalToDBm(50))
	assert.Equal(t, -50.0, signalToDBm(100))
	assert.Equal(t, -50.0, signalToDBm(150))
}

func TestIsValidMAC(t *testing.T) {
	tests := []struct {
		mac   string
		valid bool
	}{
		{"00:14:22:01:23:45", true},
		{"ff:ff:ff:ff:ff:ff", true},
		{"00:14:22:01:23", false},
		{"00:14:22:01:23:4", false},
		{"00:14:22:01:23:zz", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mac, func(t *testing.T) {
			assert.Equal(t, tt.valid, isValidMAC(tt.mac))
		})
	}
}

func TestParseMmcliOutput(t *testing.T) {
	output := `modem.generic.state                       : registered
modem.3gpp.operator-code                  : 310260
modem.location.3gpp.lac                   : 00A1
modem.location.3gpp.cid                   : 01A2B3C4
`

	tower, err := parseMmcliOutput(output)
	require.NoError(t, err)
	assert.Equal(t, 310, tower.MobileCountryCode)
	assert.Equal(t, 260, tower.MobileNetworkCode)
	assert.Equal(t, 0xA1, tower.LocationAreaCode)
	assert.Equal(t, 0x01A2B3C4, tower.CellID)
}

func TestParseMmcliOutput_SeparateCodes(t *testing.T) {
	output := `modem.3gpp.mcc : 262
modem.3gpp.mnc : 1
modem.3gpp.lac : FFFE
modem.3gpp.cid : 1F
`

	tower, err := parseMmcliOutput(output)
	require.NoError(t, err)
	assert.Equal(t, 262, tower.MobileCountryCode)
	assert.Equal(t, 1, tower.MobileNetworkCode)
	assert.Equal(t, 0xFFFE, tower.LocationAreaCode)
	assert.Equal(t, 0x1F, tower.CellID)
}

func TestParseMmcliOutput_Incomplete(t *testing.T) {
	_, err := parseMmcliOutput("modem.3gpp.lac : 00A1\n")
	assert.EqualError(t, err, "incomplete cell tower data")
}

func TestHasWirelessInterface(t *testing.T) {
	assert.True(t, hasWirelessInterface([]string{"lo", "wlan0"}))
	assert.True(t, hasWirelessInterface([]string{"wlp2s0"}))
	assert.True(t, hasWirelessInterface([]string{"ath0"}))
	assert.False(t, hasWirelessInterface([]string{"lo", "eth0", "docker0"}))
	assert.False(t, hasWirelessInterface([]string{"raw0", "ra-bridge"}))
	assert.False(t, hasWirelessInterface(nil))
}

func newTestScanner(installed ...string) *CommandScanner {
	s := NewCommandScanner(0, zerolog.Nop())
	s.lookPath = func(file string) (string, error) {
		for _, name := range installed {
			if name == file {
				return "/usr/bin/" + file, nil
			}
		}
		return "", errors.New("executable file not found in $PATH")
	}
	s.interfaces = func() ([]string, error) {
		return []string{"lo", "wlan0"}, nil
	}
	return s
}

func TestCommandScanner_Available(t *testing.T) {
	assert.False(t, newTestScanner().Available())
	assert.True(t, newTestScanner("nmcli").Available())
	assert.True(t, newTestScanner("mmcli").Available())
}

func TestCommandScanner_WiFiAccessPoints(t *testing.T) {
	s := newTestScanner("nmcli")
	var gotArgs []string
	s.run = func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return []byte("AA\\:BB\\:CC\\:DD\\:EE\\:FF:80\n"), nil
	}

	aps, err := s.WiFiAccessPoints(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []maps.WiFiAccessPoint{{MACAddress: "AA:BB:CC:DD:EE:FF", SignalStrength: -60}}, aps)
	assert.Equal(t, []string{"nmcli", "-t", "-f", "BSSID,SIGNAL", "dev", "wifi", "list"}, gotArgs)
}

func TestCommandScanner_WiFiAccessPoints_NoTool(t *testing.T) {
	s := newTestScanner("mmcli")

	_, err := s.WiFiAccessPoints(context.Background())
	assert.ErrorIs(t, err, ErrScannerNotFound)
}

func TestCommandScanner_WiFiAccessPoints_NoWirelessInterface(t *testing.T) {
	s := newTestScanner("nmcli")
	s.interfaces = func() ([]string, error) {
		return []string{"lo", "eth0"}, nil
	}

	_, err := s.WiFiAccessPoints(context.Background())
	assert.ErrorIs(t, err, ErrWiFiNotAvailable)
}

func TestCommandScanner_CellTowers(t *testing.T) {
	s := NewCommandScanner(2, zerolog.Nop())
	s.lookPath = func(file string) (string, error) { return "/usr/bin/" + file, nil }
	var gotArgs []string
	s.run = func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return []byte("modem.3gpp.operator-code : 26201\nmodem.3gpp.lac : 10\nmodem.3gpp.cid : 20\n"), nil
	}

	towers, err := s.CellTowers(context.Background())
	require.NoError(t, err)
	require.Len(t, towers, 1)
	assert.Equal(t, 262, towers[0].MobileCountryCode)
	assert.Equal(t, 1, towers[0].MobileNetworkCode)
	assert.Equal(t, 16, towers[0].LocationAreaCode)
	assert.Equal(t, 32, towers[0].CellID)
	assert.Equal(t, []string{"mmcli", "-m", "2", "--output-keyvalue"}, gotArgs)
}

func TestCommandScanner_CellTowers_CommandFails(t *testing.T) {
	s := newTestScanner("mmcli")
	s.run = func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}

	_, err := s.CellTowers(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrScannerNotFound)
}
