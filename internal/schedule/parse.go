package schedule

import (
	"encoding/json"
	"math"
	"regexp"
	"storefront-delivery-service/internal/domain"
	"storefront-delivery-service/internal/textnorm"
	"strconv"
	"strings"
	"time"
)

var (
	decimalHourRe = regexp.MustCompile(`^\d{1,2}\.\d+$`)
	clockRe       = regexp.MustCompile(`^(\d{1,2})(?::(\d{1,2}))?$`)
)

// ParseTimeOfDay normalizes a sheet cell into a time of day.
//
// Numbers and decimal strings ("22.5", "22,5") are fractional hours. Strings
// shaped H or H:MM are read as a clock. Anything else is 00:00.
func ParseTimeOfDay(v any) domain.TimeOfDay {
	switch t := v.(type) {
	case float64:
		return fromHours(t)
	case float32:
		return fromHours(float64(t))
	case int:
		return fromHours(float64(t))
	case int64:
		return fromHours(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return domain.TimeOfDay{}
		}
		return fromHours(f)
	case string:
		return parseClock(t)
	default:
		return domain.TimeOfDay{}
	}
}

func parseClock(raw string) domain.TimeOfDay {
	s := strings.Replace(strings.TrimSpace(raw), ",", ".", 1)

	if decimalHourRe.MatchString(s) {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.TimeOfDay{}
		}
		return fromHours(f)
	}

	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return domain.TimeOfDay{}
	}

	hh, _ := strconv.Atoi(m[1])
	mm := 0
	if m[2] != "" {
		mm, _ = strconv.Atoi(m[2])
	}
	if mm > 59 {
		return domain.TimeOfDay{}
	}

	return domain.TimeOfDay{Hour: hh % 24, Minute: mm}
}

func fromHours(f float64) domain.TimeOfDay {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return domain.TimeOfDay{}
	}

	whole := math.Floor(f)
	hh := int(math.Mod(whole, 24))
	mm := int(math.Round((f - whole) * 60))
	if mm == 60 {
		mm = 0
		hh = (hh + 1) % 24
	}

	return domain.TimeOfDay{Hour: hh, Minute: mm}
}

// ParseOpenState accepts true, "true" in any case, "1" and 1 as open.
// Everything else, including a missing value, is closed.
func ParseOpenState(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "1"
	case float64:
		return t == 1
	case int:
		return t == 1
	case int64:
		return t == 1
	case json.Number:
		return t.String() == "1"
	default:
		return false
	}
}

var weekdayNames = map[string]time.Weekday{
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sun":       time.Sunday,
	"mon":       time.Monday,
	"tue":       time.Tuesday,
	"wed":       time.Wednesday,
	"thu":       time.Thursday,
	"fri":       time.Friday,
	"sat":       time.Saturday,
}

// ParseWeekday reads Spanish or English weekday names, ignoring case and accents.
func ParseWeekday(s string) (time.Weekday, bool) {
	wd, ok := weekdayNames[textnorm.Fold(s)]
	return wd, ok
}

var spanishDays = [...]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

// SpanishDayName is the storefront's label for wd.
func SpanishDayName(wd time.Weekday) string { return spanishDays[wd] }

var (
	dayKeys   = []string{"dia", "day"}
	openKeys  = []string{"apertura", "open"}
	closeKeys = []string{"cierre", "close"}
	stateKeys = []string{"estado", "state"}
)

// NormalizeRows converts loosely typed schedule rows into a Week.
// Rows with an unknown weekday, or repeating a weekday already seen, are
// skipped and their labels returned.
func NormalizeRows(rows []map[string]any) (domain.Week, []string) {
	week := make(domain.Week, 0, 7)
	seen := make(map[time.Weekday]struct{}, 7)
	var skipped []string

	for _, row := range rows {
		folded := make(map[string]any, len(row))
		for k, v := range row {
			folded[textnorm.Fold(k)] = v
		}

		label := stringValue(lookup(folded, dayKeys))
		wd, ok := ParseWeekday(label)
		if !ok {
			skipped = append(skipped, label)
			continue
		}
		if _, dup := seen[wd]; dup {
			skipped = append(skipped, label)
			continue
		}
		seen[wd] = struct{}{}

		week = append(week, domain.DaySchedule{
			Day:       wd,
			Open:      ParseTimeOfDay(lookup(folded, openKeys)),
			Close:     ParseTimeOfDay(lookup(folded, closeKeys)),
			IsOpenDay: ParseOpenState(lookup(folded, stateKeys)),
		})
	}

	return week, skipped
}

func lookup(row map[string]any, aliases []string) any {
	for _, a := range aliases {
		if v, ok := row[a]; ok {
			return v
		}
	}
	return nil
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
