package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	Logins = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "catalog", Name: "logins_total", Help: "Number of completed Google logins."},
	)
	ItemWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "item_writes_total", Help: "Number of item mutations by operation."},
		[]string{"op"},
	)
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "catalog", Name: "api_requests_total", Help: "Number of JSON API requests by route."},
		[]string{"route"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(Logins)
	reg.MustRegister(ItemWrites)
	reg.MustRegister(APIRequests)
}
