package location

import "time"

// Source identifies which provider produced a location fix.
type Source string

const (
	SourceWiFi Source = "wifi"
	SourceIP   Source = "ip"
	SourceGPS  Source = "gps"
)

// Location represents the geographical coordinates of a device
type Location struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64 // Horizontal position error in meters
	Source    Source
	APCount   int // Number of Wi-Fi access points submitted with the request
	Timestamp time.Time
}

// StreetAddress is the result of a reverse geocoding lookup.
type StreetAddress struct {
	StreetNumber string
	Route        string
	City         string
	Region       string
	PostalCode   string
	Country      string
	CountryCode  string
	Formatted    string
}
