package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EnrollmentsCreated counts persisted camp registrations
	EnrollmentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "camphub_enrollments_created_total",
		Help: "Number of camp enrollments persisted.",
	})

	// FeedMutations counts optimistic feed operations by kind
	FeedMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "camphub_feed_mutations_total",
		Help: "Number of community feed mutations applied, by operation.",
	}, []string{"op"})
)
