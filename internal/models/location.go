package models

import (
	"time"
)

// Location represents a geographical location with associated metadata
type Location struct {
	DeviceID      string    `json:"device_id"`
	AgentVersion  string    `json:"agent_version"`
	Timestamp     time.Time `json:"timestamp"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	HPE           float64   `json:"hpe"`
	Source        string    `json:"source"`
	StreetAddress string    `json:"street_address,omitempty"`
}
