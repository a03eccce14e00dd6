package metrics

// Nil-safe increment helpers so services can run without a registry in tests.

func (m *Metrics) IncAppointmentsCreated() {
	if m == nil {
		return
	}
	m.AppointmentsCreated.Inc()
}

func (m *Metrics) IncBookingConflicts() {
	if m == nil {
		return
	}
	m.BookingConflicts.Inc()
}

func (m *Metrics) IncStatusTransition(status string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveSlotsComputed(n int) {
	if m == nil {
		return
	}
	m.SlotsComputed.Observe(float64(n))
}

func (m *Metrics) IncAvailabilityRequests(status string) {
	if m == nil {
		return
	}
	m.AvailabilityRequests.WithLabelValues(status).Inc()
}

func (m *Metrics) IncOutboxProcessed() {
	if m == nil {
		return
	}
	m.OutboxEventsProcessed.Inc()
}

func (m *Metrics) IncOutboxFailed() {
	if m == nil {
		return
	}
	m.OutboxEventsFailed.Inc()
}

func (m *Metrics) ObserveOutboxLatency(seconds float64) {
	if m == nil {
		return
	}
	m.OutboxProcessingLatency.Observe(seconds)
}

func (m *Metrics) IncRemindersSent() {
	if m == nil {
		return
	}
	m.RemindersSent.Inc()
}

func (m *Metrics) IncRemindersFailed() {
	if m == nil {
		return
	}
	m.RemindersFailed.Inc()
}
