package telemetry

import (
	"context"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// HistogramValue is the JSON form of a histogram data point.
type HistogramValue struct {
	Count uint64  `json:"count"`
	Sum   float64 `json:"sum"`
}

// Snapshot collects the reader and flattens every instrument into
// name -> value. Counters become their summed int64 value, histograms a
// HistogramValue.
func Snapshot(ctx context.Context, reader sdkmetric.Reader) (map[string]any, error) {
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}

	out := make(map[string]any)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				var total int64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				out[m.Name] = total
			case metricdata.Sum[float64]:
				var total float64
				for _, dp := range data.DataPoints {
					total += dp.Value
				}
				out[m.Name] = total
			case metricdata.Histogram[float64]:
				var hv HistogramValue
				for _, dp := range data.DataPoints {
					hv.Count += dp.Count
					hv.Sum += dp.Sum
				}
				out[m.Name] = hv
			}
		}
	}
	return out, nil
}
