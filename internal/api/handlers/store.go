package handlers

import (
	"net/http"
	"sort"
	"storefront-delivery-service/internal/api/dto"
	"storefront-delivery-service/internal/schedule"
	"time"
)

// StoreHandler exposes the monitor's view of the opening hours.
type StoreHandler struct {
	Monitor *schedule.Monitor
	Now     func() time.Time
}

func (h *StoreHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *StoreHandler) Status(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	snap := h.Monitor.Snapshot()
	st := h.Monitor.Status(h.now())

	res := dto.StoreStatusResponse{
		IsOpen:     st.IsOpen,
		Message:    st.Message,
		SubMessage: st.SubMessage,
		Day:        schedule.SpanishDayName(st.Day),
		OpensAt:    st.OpensAt,
		ClosesAt:   st.ClosesAt,
		Fallback:   snap.Fallback,
		Stale:      snap.Stale,
	}
	if !snap.FetchedAt.IsZero() {
		fetched := snap.FetchedAt
		res.FetchedAt = &fetched
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *StoreHandler) Hours(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	snap := h.Monitor.Snapshot()

	days := make([]dto.DayHoursResponse, 0, len(snap.Week))
	for _, d := range snap.Week {
		days = append(days, dto.DayHoursResponse{
			Weekday: int(d.Day),
			Day:     schedule.SpanishDayName(d.Day),
			Open:    d.Open.String(),
			Close:   d.Close.String(),
			Display: schedule.FormatClock(d.Open) + " - " + schedule.FormatClock(d.Close),
			IsOpen:  d.IsOpenDay,
		})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Weekday < days[j].Weekday })

	writeJSON(w, r, http.StatusOK, dto.StoreHoursResponse{
		Timezone: h.Monitor.Location().String(),
		Fallback: snap.Fallback,
		Days:     days,
	})
}
