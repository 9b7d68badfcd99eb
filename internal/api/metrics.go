package api

import (
	"log/slog"
	"net/http"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"
)

// metrics serves GET /metrics in the Prometheus text exposition format.
// The gauges mirror the current run's leaderboard totals so an external
// Prometheus can chart room engagement without touching the JSON API.
func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	families := []*dto.MetricFamily{
		gauge("roompulse_runs", "Number of engine runs retained in memory.",
			float64(h.store.Count())),
	}
	if e, ok := h.store.Current(); ok {
		lb := e.Result.Leaderboard
		families = append(families,
			gauge("roompulse_tracked_users", "Users with at least one presence window.",
				float64(lb.TotalUsers)),
			gauge("roompulse_present_users", "Users in the latest presence snapshot.",
				float64(len(lb.CurrentlyPresent))),
			gauge("roompulse_pomodoros_total", "Work timers detected over the whole log.",
				float64(lb.TotalPomodoros)),
			gauge("roompulse_work_minutes_total", "Sum of per-user work minutes over the whole log.",
				lb.TotalWorkMinutes),
		)
	}

	format := expfmt.NewFormat(expfmt.TypeTextPlain)
	w.Header().Set("Content-Type", string(format))
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			slog.Error("api: encode metric family", "family", mf.GetName(), "err", err)
			return
		}
	}
}

// gauge builds a single-sample gauge family.
func gauge(name, help string, value float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{
			{Gauge: &dto.Gauge{Value: proto.Float64(value)}},
		},
	}
}
