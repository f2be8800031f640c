package observability

import (
	"context"
	"net"
	"net/http"

	"github.com/tphakala/perfreport/internal/errors"
	"github.com/tphakala/perfreport/internal/logger"
	metricspkg "github.com/tphakala/perfreport/internal/observability/metrics"
)

// Endpoint serves /metrics for a Metrics instance.
type Endpoint struct {
	listenAddress string
	metrics       *Metrics
}

// NewEndpoint creates an endpoint listening on addr. The server is not
// started until Run is called.
func NewEndpoint(addr string, metrics *Metrics) *Endpoint {
	return &Endpoint{
		listenAddress: addr,
		metrics:       metrics,
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (e *Endpoint) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", e.listenAddress)
	if err != nil {
		return err
	}
	return e.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts the server down
// gracefully. It always closes ln.
func (e *Endpoint) Serve(ctx context.Context, ln net.Listener) error {
	log := getLogger()

	mux := http.NewServeMux()
	e.metrics.RegisterHandlers(mux)

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: metricspkg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Metrics endpoint starting", logger.String("address", ln.Addr().String()))
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Stopping metrics server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), metricspkg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", logger.Error(err))
		return err
	}
	<-errCh
	return nil
}
