package metrics

import (
	"net"
	"net/http"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Serve exposes the recorder's registry on addr at /metrics. The listener is
// bound before returning so address errors surface to the caller.
func Serve(addr string, r *Recorder, log logrus.FieldLogger) (*http.Server, error) {
	if r == nil {
		return nil, errors.New("metrics recorder is nil")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen on %s", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.Registry(), promhttp.HandlerOpts{}))
	server := &http.Server{Addr: ln.Addr().String(), Handler: mux}

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server stopped")
		}
	}()

	log.WithField("addr", server.Addr).Info("Metrics server listening")
	return server, nil
}
