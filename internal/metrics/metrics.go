package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}

var (
	// Uploads counts model save attempts by outcome (stored, invalid_type, error).
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partforge_model_uploads_total",
		Help: "Model file save attempts by outcome.",
	}, []string{"outcome"})

	// Resolutions counts file resolution attempts by the matcher tier that
	// produced the hit ("none" when the cascade is exhausted).
	Resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partforge_model_resolutions_total",
		Help: "Model file resolution attempts by winning matcher tier.",
	}, []string{"tier"})

	// Notifications counts order notification deliveries by outcome.
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "partforge_order_notifications_total",
		Help: "Order notification deliveries by outcome.",
	}, []string{"outcome"})
)
