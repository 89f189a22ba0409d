package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	frames "github.com/ChristopherRabotin/GMAT-sub018"
	kitlog "github.com/go-kit/kit/log"
	"github.com/soniakeys/meeus/v3/julian"
)

// chgframe converts a state, or a file of states, between two configured coordinate systems.

const defaultUnset = "~~unset~~"

var (
	confPath, fromName, toName string
	epochStr, stateStr         string
	batch, output, metricsAddr string
	force, verbose             bool
)

func init() {
	flag.StringVar(&confPath, "config", "", "directory or file of conf.toml (defaults to $FRAMES_CONFIG)")
	flag.StringVar(&fromName, "from", defaultUnset, "source coordinate system")
	flag.StringVar(&toName, "to", defaultUnset, "target coordinate system")
	flag.StringVar(&epochStr, "epoch", "", "epoch as RFC3339 UTC, JDE (> 2400000) or A.1 MJD")
	flag.StringVar(&stateStr, "state", "", "state as x,y,z,vx,vy,vz in km and km/s")
	flag.StringVar(&batch, "batch", "", "CSV file of epoch,x,y,z,vx,vy,vz records (A.1 MJD)")
	flag.StringVar(&output, "out", "", "output CSV file for batch mode (defaults to stdout)")
	flag.StringVar(&metricsAddr, "metrics", "", "serve Prometheus metrics on this address, e.g. :9090")
	flag.BoolVar(&force, "force", false, "bypass the rotation caches")
	flag.BoolVar(&verbose, "verbose", false, "log each coordinate system initialization")
}

func main() {
	flag.Parse()
	if fromName == defaultUnset || toName == defaultUnset {
		log.Fatal("both -from and -to are required")
	}
	conf, err := frames.LoadConfig(confPath)
	if err != nil {
		log.Fatalf("could not load configuration: %s", err)
	}
	logger := kitlog.NewNopLogger()
	if verbose {
		logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	}
	solar, err := conf.SolarSystem()
	if err != nil {
		log.Fatalf("could not build the solar system: %s", err)
	}
	systems, err := conf.CoordinateSystems(solar, logger)
	if err != nil {
		log.Fatalf("could not build the coordinate systems: %s", err)
	}
	from, ok := systems[strings.ToLower(fromName)]
	if !ok {
		log.Fatalf("unknown coordinate system `%s`", fromName)
	}
	to, ok := systems[strings.ToLower(toName)]
	if !ok {
		log.Fatalf("unknown coordinate system `%s`", toName)
	}
	if metricsAddr != "" {
		http.Handle("/metrics", frames.MetricsHandler())
		go func() {
			log.Println(http.ListenAndServe(metricsAddr, nil))
		}()
	}
	conv := frames.NewCoordinateConverter()
	conv.SetLogger(logger)

	if batch != "" {
		runBatch(conv, from, to)
		return
	}
	epoch, err := parseEpoch(frames.NewTimeConverter(conf.EOP), epochStr)
	if err != nil {
		log.Fatalf("invalid epoch `%s`: %s", epochStr, err)
	}
	state, err := parseState(stateStr)
	if err != nil {
		log.Fatalf("invalid state `%s`: %s", stateStr, err)
	}
	out, err := conv.ConvertWithForce(epoch, state, from, to, force)
	if err != nil {
		log.Fatalf("conversion failed: %s", err)
	}
	fmt.Printf("%s -> %s @ %f A.1\n%s\n", from, to, epoch, out)
}

func runBatch(conv *frames.CoordinateConverter, from, to *frames.CoordinateSystem) {
	f, err := os.Open(batch)
	if err != nil {
		log.Fatalf("could not open %s: %s", batch, err)
	}
	defer f.Close()
	records, err := frames.ReadStates(f)
	if err != nil {
		log.Fatalf("%s: %s", batch, err)
	}
	w := os.Stdout
	if output != "" {
		if w, err = os.Create(output); err != nil {
			log.Fatalf("could not create %s: %s", output, err)
		}
		defer w.Close()
	}
	converted := make(chan frames.StateRecord)
	done := make(chan error)
	go func() {
		done <- frames.StreamStates(w, to.Name, converted)
	}()
	for _, rec := range records {
		out, err := conv.ConvertWithForce(rec.Epoch, rec.State, from, to, force)
		if err != nil {
			close(converted)
			<-done
			log.Fatalf("record @ %f: %s", rec.Epoch, err)
		}
		converted <- frames.StateRecord{Epoch: rec.Epoch, State: out}
	}
	close(converted)
	if err := <-done; err != nil {
		log.Fatalf("could not write states: %s", err)
	}
}

// parseEpoch reads an RFC3339 UTC time, a JDE or an A.1 modified Julian date.
func parseEpoch(tc *frames.TimeConverter, s string) (float64, error) {
	if s == "" {
		return frames.J2000Epoch, nil
	}
	if val, err := strconv.ParseFloat(s, 64); err == nil {
		if val > 2400000 {
			return tc.EpochFromTime(julian.JDToTime(val))
		}
		return val, nil
	}
	dt, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, err
	}
	return tc.EpochFromTime(dt.UTC())
}

func parseState(s string) (state frames.State6, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return state, fmt.Errorf("expected six comma separated values, got %d", len(parts))
	}
	for i, p := range parts {
		if state[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64); err != nil {
			return state, err
		}
	}
	return state, nil
}
