package http

import dto "github.com/prometheus/client_model/go"

func TransitionCount(m *Metrics, action, outcome string) float64 {
	var out dto.Metric
	if err := m.transitions.WithLabelValues(action, outcome).Write(&out); err != nil {
		return -1
	}
	return out.GetCounter().GetValue()
}
