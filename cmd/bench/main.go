// Command bench drives first-touch, steady-state and teardown load against a
// ThreadLocal and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"runtime"
	"sync/atomic"
	"time"

	pmet "github.com/IvanBrykalov/threadlocal/metrics/prom"
	"github.com/IvanBrykalov/threadlocal/threadlocal"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	// ---- Flags ----
	var (
		registry = flag.String("registry", "locked", "teardown registry: locked | lockfree")
		waves    = flag.Int("waves", 10, "number of goroutine waves; each wave first-touches the container")
		workers  = flag.Int("workers", 4*runtime.GOMAXPROCS(0), "goroutines per wave")
		duration = flag.Duration("duration", 200*time.Millisecond, "steady-state Get loop per wave")
		payload  = flag.Int("payload", 4096, "bytes allocated per goroutine copy")
		verbose  = flag.Bool("v", false, "debug logging")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", "", "serve Prometheus metrics at addr (e.g. :8080); empty = disabled")
	)
	flag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "threadlocal", "bench", nil)
	if *metricsAddr != "" {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Printf("metrics: serving at %s", *metricsAddr)
			log.Println(http.ListenAndServe(*metricsAddr, nil))
		}()
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// ---- Build container ----
	var dropped atomic.Int64
	opt := threadlocal.Options[[]byte]{
		Metrics: metrics,
		Logger:  logger,
		Drop:    func([]byte) { dropped.Add(1) },
	}
	switch *registry {
	case "locked":
		opt.Registry = threadlocal.RegistryLocked
	case "lockfree":
		opt.Registry = threadlocal.RegistryLockFree
	default:
		log.Fatalf("unknown registry: %q (use locked or lockfree)", *registry)
	}
	size := *payload
	if size < 1 {
		size = 1
	}
	tl, err := threadlocal.New(func() []byte { return make([]byte, size) }, opt)
	if err != nil {
		log.Fatalf("threadlocal: %v", err)
	}

	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	// Goroutines of every wave exit before the next starts, so their copies
	// accumulate in the container until Close.
	var gets atomic.Uint64
	start := time.Now()
	for w := 0; w < *waves; w++ {
		ctx, cancel := context.WithTimeout(context.Background(), *duration)
		g, ctx := errgroup.WithContext(ctx)
		for i := 0; i < workersN; i++ {
			g.Go(func() error {
				for ctx.Err() == nil {
					b := *tl.Get()
					b[0]++
					gets.Add(1)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			log.Fatalf("wave %d: %v", w, err)
		}
		cancel()
	}
	elapsed := time.Since(start)
	cells := tl.Len()

	closeStart := time.Now()
	if err := tl.Close(); err != nil {
		log.Fatalf("close: %v", err)
	}
	closeTook := time.Since(closeStart)

	// ---- Report ----
	n := gets.Load()
	fmt.Printf("registry=%s waves=%d workers=%d payload=%dB dur=%v\n",
		*registry, *waves, workersN, size, elapsed)
	fmt.Printf("gets=%d (%.0f gets/s)\n", n, float64(n)/elapsed.Seconds())
	fmt.Printf("cells=%d dropped=%d close=%v\n", cells, dropped.Load(), closeTook)
	if int64(cells) != dropped.Load() {
		log.Fatalf("leak: %d cells registered, %d dropped", cells, dropped.Load())
	}
}
