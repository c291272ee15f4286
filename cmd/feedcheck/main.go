// Command feedcheck decodes a USGS GeoJSON feed and prints how its events
// fall into intensity tiers. It reads a local file or fetches a URL, so it
// can be used to sanity-check fixtures and the live feed alike.
//
// Usage:
//
//	go run ./cmd/feedcheck -file internal/adapter/usgs/testdata/all_day.geojson
//	go run ./cmd/feedcheck -url https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/all_day.geojson
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/quake-map-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map-service/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	file := flag.String("file", "", "path to a GeoJSON feed file")
	url := flag.String("url", "", "URL of a GeoJSON feed")
	asJSON := flag.Bool("json", false, "print the summary as JSON")
	timeout := flag.Duration("timeout", 30*time.Second, "fetch timeout for -url")
	flag.Parse()

	if (*file == "") == (*url == "") {
		flag.Usage()
		return fmt.Errorf("exactly one of -file or -url is required")
	}

	var (
		res usgs.DecodeResult
		err error
	)
	if *file != "" {
		res, err = decodeFile(*file)
	} else {
		res, err = fetch(*url, *timeout)
	}
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(domain.Summarize(res.Events))
	}
	printReport(os.Stdout, res)
	return nil
}

func decodeFile(path string) (usgs.DecodeResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return usgs.DecodeResult{}, fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return usgs.Decode(f)
}

func fetch(url string, timeout time.Duration) (usgs.DecodeResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return usgs.NewClient(url, timeout, slog.Default()).Fetch(ctx)
}

func printReport(w io.Writer, res usgs.DecodeResult) {
	summary := domain.Summarize(res.Events)

	if res.Title != "" {
		fmt.Fprintf(w, "%s\n", res.Title)
	}
	fmt.Fprintf(w, "events:  %d (skipped %d)\n", summary.Total, res.Skipped)
	for _, tier := range domain.AllTiers {
		attrs := tier.Attributes()
		fmt.Fprintf(w, "  %-7s %4d  %s\n", tier, summary.Counts.Get(tier), attrs.Label)
	}

	if len(summary.Notable) == 0 {
		return
	}
	fmt.Fprintf(w, "notable:\n")
	for _, e := range summary.Notable {
		fmt.Fprintf(w, "  M%.1f  %s  %s\n", e.Magnitude, e.OccurredAt.UTC().Format(time.RFC3339), e.Place)
	}
}
