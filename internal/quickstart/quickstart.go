// Package quickstart runs the load, set key, locate, print, unload sequence
// against a positioning client.
package quickstart

import (
	"context"
	"fmt"
	"io"

	"github.com/benmeehan/locate/pkg/wps"
)

// API is the positioning client lifecycle used by Run.
type API interface {
	Load(ctx context.Context) error
	SetKey(key string)
	Location(ctx context.Context, lookup wps.StreetAddressLookup) (*wps.Location, error)
	IPLocation(ctx context.Context, lookup wps.StreetAddressLookup) (*wps.Location, error)
	Unload()
}

// Options configure a single Run.
type Options struct {
	Key        string
	Lookup     wps.StreetAddressLookup
	IPFallback bool
}

// Run performs one location query and returns the process exit code.
//
// A load failure is reported with its code and returned as the exit code; nothing else runs.
// Once loaded, the client is always unloaded and a failed query still exits 0.
func Run(ctx context.Context, api API, opts Options, stdout, stderr io.Writer) int {
	if err := api.Load(ctx); err != nil {
		code := wps.CodeOf(err)
		fmt.Fprintf(stderr, "WPS_load failed (%d)\n", int(code))
		return int(code)
	}
	defer api.Unload()

	api.SetKey(opts.Key)

	loc, err := api.Location(ctx, opts.Lookup)
	if err == nil {
		printLocation(stdout, loc)
		return 0
	}
	fmt.Fprintf(stderr, "WPS_location failed (%d)\n", int(wps.CodeOf(err)))

	if opts.IPFallback {
		loc, err = api.IPLocation(ctx, opts.Lookup)
		if err != nil {
			fmt.Fprintf(stderr, "WPS_ip_location failed (%d)\n", int(wps.CodeOf(err)))
			return 0
		}
		printLocation(stdout, loc)
	}
	return 0
}

func printLocation(w io.Writer, loc *wps.Location) {
	fmt.Fprintf(w, "%.6f, %.6f +/-%.1fm\n", loc.Latitude, loc.Longitude, loc.HPE)
	if loc.StreetAddress != nil && loc.StreetAddress.Formatted != "" {
		fmt.Fprintln(w, loc.StreetAddress.Formatted)
	}
}
