package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LessonsBooked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tutorapp_lessons_booked_total",
		Help: "Lessons created through booking or group creation.",
	})

	GroupJoins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutorapp_group_joins_total",
		Help: "Group join attempts by outcome.",
	}, []string{"result"})

	Settlements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutorapp_settlements_total",
		Help: "Ledger-affecting settlements by kind.",
	}, []string{"kind"})

	SweepFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tutorapp_sweep_failures_total",
		Help: "Items that failed inside a periodic sweep batch.",
	}, []string{"sweep"})
)
