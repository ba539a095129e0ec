// Package main appends synthetic records to a sensor log so the query
// service can be exercised without hardware.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chrissnell/sensorlog/internal/log"
	"github.com/chrissnell/sensorlog/internal/readings"
	"github.com/chrissnell/sensorlog/internal/simulator"
)

func main() {
	out := flag.String("out", "data.txt", "Sensor log file to append to")
	interval := flag.Duration("interval", 5*time.Second, "Time between live readings")
	backfillDays := flag.Int("backfill-days", 0, "Write this many days of history before going live")
	backfillStep := flag.Duration("backfill-step", 10*time.Minute, "Spacing of backfilled readings")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Random seed")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	flag.Parse()

	if err := log.Init(log.Options{Debug: *debug}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	f, err := os.OpenFile(*out, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatalf("could not open %s: %v", *out, err)
	}
	defer f.Close()

	emu := simulator.NewEmulator(*seed)
	clock := readings.SystemClock{}

	if *backfillDays > 0 {
		now := clock.Now()
		from := now.AddDate(0, 0, -*backfillDays).Truncate(time.Hour)
		n, err := simulator.Backfill(f, emu, from, now, *backfillStep)
		if err != nil {
			log.Fatalf("backfill failed: %v", err)
		}
		log.Infow("backfilled sensor log", "records", n, "from", from.Format(time.RFC3339))
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	log.Infow("simulator running", "out", *out, "interval", interval.String())
	if err := simulator.Run(ctx, f, emu, clock, *interval, log.GetSugaredLogger().Named("simulator")); err != nil {
		log.Errorf("simulator stopped: %v", err)
		os.Exit(1)
	}
}
