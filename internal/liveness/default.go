package liveness

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	config "github.com/spf13/viper"
)

func init() {
	config.SetDefault("liveness_port", ":8080")
}

type Liveness interface {
	Start(ctx context.Context, wg *sync.WaitGroup)
}

type defaultLiveness struct {
	mux *http.ServeMux
}

func ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Start serves the k8s liveness probe on /ping/ and prometheus on /metrics
// until ctx is done.
func (dl defaultLiveness) Start(ctx context.Context, wg *sync.WaitGroup) {
	srv := http.Server{
		Addr:              config.GetString("liveness_port"),
		Handler:           dl.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	wg.Add(2)

	go func(ctx context.Context) {
		defer wg.Done()
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Errorf("liveness: cannot shutdown server %s", err)
			return
		}
	}(ctx)

	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("liveness: ListenAndServe: %v", err)
		}
	}()
}

func NewDefaultLiveness() Liveness {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping/", ping)
	mux.Handle("/metrics", promhttp.Handler())
	return defaultLiveness{mux: mux}
}
