package wps

import (
	"context"
	"errors"
	"fmt"

	"github.com/benmeehan/locate/pkg/location"
)

// Code is the numeric status of a client operation. OK is the only success value.
type Code int

const (
	OK                         Code = 0
	ScannerNotFound            Code = 1
	WiFiNotAvailable           Code = 2
	NoWiFiInRange              Code = 3
	Unauthorized               Code = 4
	ServerUnavailable          Code = 5
	LocationCannotBeDetermined Code = 6
	Timeout                    Code = 10
	NotLoaded                  Code = 97
	Failure                    Code = 99
)

var codeNames = map[Code]string{
	OK:                         "ok",
	ScannerNotFound:            "scanner not found",
	WiFiNotAvailable:           "wifi not available",
	NoWiFiInRange:              "no wifi in range",
	Unauthorized:               "unauthorized",
	ServerUnavailable:          "server unavailable",
	LocationCannotBeDetermined: "location cannot be determined",
	Timeout:                    "timeout",
	NotLoaded:                  "not loaded",
	Failure:                    "error",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// ErrNotLoaded is returned by queries issued before Load or after Unload.
var ErrNotLoaded = errors.New("client is not loaded")

// codeTable is checked in order; the first matching sentinel decides the code.
var codeTable = []struct {
	err  error
	code Code
}{
	{ErrNotLoaded, NotLoaded},
	{location.ErrScannerNotFound, ScannerNotFound},
	{location.ErrWiFiNotAvailable, WiFiNotAvailable},
	{location.ErrNoWiFiInRange, NoWiFiInRange},
	{location.ErrUnauthorized, Unauthorized},
	{location.ErrServerUnavailable, ServerUnavailable},
	{location.ErrNoFix, LocationCannotBeDetermined},
	{location.ErrTimeout, Timeout},
	{context.DeadlineExceeded, Timeout},
}

// Error is the error type returned by every Client operation.
type Error struct {
	Op   string
	Code Code
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("wps %s failed (%d): %v", e.Op, int(e.Code), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the status code carried by err. A nil error is OK and an
// unclassified error is Failure.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}

	var wpsErr *Error
	if errors.As(err, &wpsErr) {
		return wpsErr.Code
	}

	for _, entry := range codeTable {
		if errors.Is(err, entry.err) {
			return entry.code
		}
	}
	return Failure
}

func newError(op string, err error) error {
	var wpsErr *Error
	if errors.As(err, &wpsErr) {
		return err
	}
	return &Error{Op: op, Code: CodeOf(err), Err: err}
}
