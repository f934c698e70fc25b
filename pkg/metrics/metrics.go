package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operations counts domain operation outcomes, labelled by operation name
// and outcome (ok, invalid_argument, not_found, illegal_state, error).
var Operations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pos_operations_total",
		Help: "Domain operations by outcome.",
	},
	[]string{"operation", "outcome"},
)

func init() {
	prometheus.MustRegister(Operations)
}

func Handler() http.Handler {
	return promhttp.Handler()
}
