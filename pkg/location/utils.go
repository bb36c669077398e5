package location

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	psnet "github.com/shirou/gopsutil/net"
	"googlemaps.github.io/maps"
)

// Scanner collects the radio observations submitted to the geolocation service.
type Scanner interface {
	WiFiAccessPoints(ctx context.Context) ([]maps.WiFiAccessPoint, error)
	CellTowers(ctx context.Context) ([]maps.CellTower, error)
}

// commandRunner executes an external tool and returns its stdout.
type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// CommandScanner scans radios with NetworkManager (nmcli) and ModemManager (mmcli).
type CommandScanner struct {
	modemIndex int
	logger     zerolog.Logger

	lookPath   func(file string) (string, error)
	run        commandRunner
	interfaces func() ([]string, error)
}

// NewCommandScanner creates a scanner that queries the modem with the given index for cell data.
func NewCommandScanner(modemIndex int, logger zerolog.Logger) *CommandScanner {
	return &CommandScanner{
		modemIndex: modemIndex,
		logger:     logger,
		lookPath:   exec.LookPath,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
		interfaces: interfaceNames,
	}
}

// Available reports whether at least one of the scanning tools is installed.
func (s *CommandScanner) Available() bool {
	_, nmcliErr := s.lookPath("nmcli")
	_, mmcliErr := s.lookPath("mmcli")
	return nmcliErr == nil || mmcliErr == nil
}

// WiFiAccessPoints retrieves nearby WiFi access points using nmcli.
func (s *CommandScanner) WiFiAccessPoints(ctx context.Context) ([]maps.WiFiAccessPoint, error) {
	if _, err := s.lookPath("nmcli"); err != nil {
		return nil, fmt.Errorf("%w: nmcli: %w", ErrScannerNotFound, err)
	}

	names, err := s.interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list network interfaces: %w", err)
	}
	if !hasWirelessInterface(names) {
		return nil, ErrWiFiNotAvailable
	}

	output, err := s.run(ctx, "nmcli", "-t", "-f", "BSSID,SIGNAL", "dev", "wifi", "list")
	if err != nil {
		return nil, fmt.Errorf("failed to run nmcli: %w", err)
	}

	aps, err := parseNmcliOutput(string(output))
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("access_points", len(aps)).Msg("WiFi scan completed")
	return aps, nil
}

// CellTowers retrieves the serving cell tower using mmcli for the configured modem index.
func (s *CommandScanner) CellTowers(ctx context.Context) ([]maps.CellTower, error) {
	if _, err := s.lookPath("mmcli"); err != nil {
		return nil, fmt.Errorf("%w: mmcli: %w", ErrScannerNotFound, err)
	}

	output, err := s.run(ctx, "mmcli", "-m", strconv.Itoa(s.modemIndex), "--output-keyvalue")
	if err != nil {
		return nil, fmt.Errorf("failed to run mmcli for modem %d: %w", s.modemIndex, err)
	}

	tower, err := parseMmcliOutput(string(output))
	if err != nil {
		return nil, err
	}
	return []maps.CellTower{tower}, nil
}

// parseNmcliOutput parses terse nmcli output. nmcli escapes the colons inside a BSSID as "\:",
// so the signal field is whatever follows the last unescaped colon.
func parseNmcliOutput(output string) ([]maps.WiFiAccessPoint, error) {
	var wifiAPs []maps.WiFiAccessPoint
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		sep := lastUnescapedColon(line)
		if sep < 0 {
			continue
		}
		macAddress := strings.ReplaceAll(line[:sep], `\:`, ":")
		if !isValidMAC(macAddress) {
			continue
		}
		signal, err := strconv.Atoi(strings.TrimSpace(line[sep+1:]))
		if err != nil {
			continue
		}
		wifiAPs = append(wifiAPs, maps.WiFiAccessPoint{
			MACAddress:     macAddress,
			SignalStrength: signalToDBm(signal),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan nmcli output: %w", err)
	}
	return wifiAPs, nil
}

func lastUnescapedColon(line string) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i] == ':' && (i == 0 || line[i-1] != '\\') {
			return i
		}
	}
	return -1
}

// signalToDBm converts nmcli's 0-100 signal quality to an approximate RSSI.
func signalToDBm(quality int) float64 {
	if quality < 0 {
		quality = 0
	}
	if quality > 100 {
		quality = 100
	}
	return float64(quality)/2 - 100
}

// parseMmcliOutput extracts the serving cell from mmcli key-value output.
func parseMmcliOutput(output string) (maps.CellTower, error) {
	var cellTower maps.CellTower
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		key, value, found := strings.Cut(scanner.Text(), ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "modem.3gpp.mcc":
			if mcc, err := strconv.Atoi(value); err == nil {
				cellTower.MobileCountryCode = mcc
			}
		case "modem.3gpp.mnc":
			if mnc, err := strconv.Atoi(value); err == nil {
				cellTower.MobileNetworkCode = mnc
			}
		case "modem.3gpp.operator-code":
			// Five or six digits: MCC followed by MNC.
			if len(value) >= 5 {
				mcc, mccErr := strconv.Atoi(value[:3])
				mnc, mncErr := strconv.Atoi(value[3:])
				if mccErr == nil && mncErr == nil {
					cellTower.MobileCountryCode = mcc
					cellTower.MobileNetworkCode = mnc
				}
			}
		case "modem.3gpp.lac", "modem.location.3gpp.lac":
			if lac, err := strconv.ParseInt(value, 16, 32); err == nil {
				cellTower.LocationAreaCode = int(lac)
			}
		case "modem.3gpp.cid", "modem.location.3gpp.cid":
			if cid, err := strconv.ParseInt(value, 16, 64); err == nil {
				cellTower.CellID = int(cid)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return maps.CellTower{}, fmt.Errorf("failed to scan mmcli output: %w", err)
	}

	if cellTower.MobileCountryCode == 0 || cellTower.MobileNetworkCode == 0 {
		return maps.CellTower{}, errors.New("incomplete cell tower data")
	}
	return cellTower, nil
}

// isValidMAC checks if the MAC address is in a valid format (e.g., "00:14:22:01:23:45").
func isValidMAC(mac string) bool {
	parts := strings.Split(mac, ":")
	if len(parts) != 6 {
		return false
	}
	for _, part := range parts {
		if len(part) != 2 {
			return false
		}
		if _, err := strconv.ParseUint(part, 16, 8); err != nil {
			return false
		}
	}
	return true
}

func interfaceNames() ([]string, error) {
	stats, err := psnet.Interfaces()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(stats))
	for _, stat := range stats {
		names = append(names, stat.Name)
	}
	return names, nil
}

// hasWirelessInterface uses the Linux naming conventions for wireless devices.
func hasWirelessInterface(names []string) bool {
	for _, name := range names {
		if strings.HasPrefix(name, "wl") || strings.HasPrefix(name, "ath") {
			return true
		}
	}
	return false
}
