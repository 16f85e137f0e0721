package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func findMetric(t *testing.T, name string, labels map[string]string) *dto.Metric {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := true
			for key, want := range labels {
				found := false
				for _, pair := range metric.GetLabel() {
					if pair.GetName() == key && pair.GetValue() == want {
						found = true
						break
					}
				}
				if !found {
					matched = false
					break
				}
			}
			if matched {
				return metric
			}
		}
	}
	return nil
}

func TestRecordSignupCountsAndSizesRoster(t *testing.T) {
	RecordSignup("Metrics Test Club", 3)
	RecordSignup("Metrics Test Club", 4)

	counter := findMetric(t, "roster_service_roster_signups_total", map[string]string{"activity": "Metrics Test Club"})
	require.NotNil(t, counter)
	require.Equal(t, float64(2), counter.GetCounter().GetValue())

	gauge := findMetric(t, "roster_service_roster_participants", map[string]string{"activity": "Metrics Test Club"})
	require.NotNil(t, gauge)
	require.Equal(t, float64(4), gauge.GetGauge().GetValue())
}

func TestRecordUnregisterUpdatesGauge(t *testing.T) {
	SetRosterSize("Metrics Unregister Club", 2)
	RecordUnregister("Metrics Unregister Club", 1)

	counter := findMetric(t, "roster_service_roster_unregisters_total", map[string]string{"activity": "Metrics Unregister Club"})
	require.NotNil(t, counter)
	require.Equal(t, float64(1), counter.GetCounter().GetValue())

	gauge := findMetric(t, "roster_service_roster_participants", map[string]string{"activity": "Metrics Unregister Club"})
	require.NotNil(t, gauge)
	require.Equal(t, float64(1), gauge.GetGauge().GetValue())
}

func TestRecordRejectionLabels(t *testing.T) {
	RecordRejection("signup", "already_signed_up")

	counter := findMetric(t, "roster_service_roster_rejections_total", map[string]string{
		"operation": "signup",
		"reason":    "already_signed_up",
	})
	require.NotNil(t, counter)
	require.GreaterOrEqual(t, counter.GetCounter().GetValue(), float64(1))
}
