package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Booking metrics
	AppointmentsCreated  prometheus.Counter
	BookingConflicts     prometheus.Counter
	StatusTransitions    *prometheus.CounterVec
	SlotsComputed        prometheus.Histogram
	AvailabilityRequests *prometheus.CounterVec

	// Outbox metrics
	OutboxEventsProcessed   prometheus.Counter
	OutboxEventsFailed      prometheus.Counter
	OutboxProcessingLatency prometheus.Histogram

	// Reminder metrics
	RemindersSent   prometheus.Counter
	RemindersFailed prometheus.Counter

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		AppointmentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_created_total",
			Help:      "Total number of appointments created",
		}),
		BookingConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Total number of bookings rejected because the slot was taken",
		}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_status_transitions_total",
			Help:      "Appointment status transitions by target status",
		}, []string{"status"}),
		SlotsComputed: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "availability_slots_computed",
			Help:      "Number of free slots returned per availability query",
			Buckets:   []float64{0, 5, 10, 20, 40, 80, 160},
		}),
		AvailabilityRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_requests_total",
			Help:      "Total number of availability queries",
		}, []string{"status"}),

		OutboxEventsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_processed_total",
			Help:      "Total number of successfully processed outbox events",
		}),
		OutboxEventsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_events_failed_total",
			Help:      "Total number of failed outbox events",
		}),
		OutboxProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outbox_processing_duration_seconds",
			Help:      "Time spent processing outbox events",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),

		RemindersSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Total number of appointment reminder emails sent",
		}),
		RemindersFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_failed_total",
			Help:      "Total number of reminder emails that failed to send",
		}),

		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
	}
}
