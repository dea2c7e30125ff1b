package schedule

import (
	"storefront-delivery-service/internal/domain"
	"testing"
	"time"
)

var bogota = time.FixedZone("America/Bogota", -5*60*60)

func clock(h, m int) domain.TimeOfDay { return domain.TimeOfDay{Hour: h, Minute: m} }

// 2026-03-09 is a Monday.
func on(day, hour, minute int) time.Time {
	return time.Date(2026, 3, day, hour, minute, 0, 0, bogota)
}

func testWeek() domain.Week {
	return domain.Week{
		{Day: time.Monday, Open: clock(11, 0), Close: clock(22, 0), IsOpenDay: false},
		{Day: time.Tuesday, Open: clock(11, 0), Close: clock(22, 0), IsOpenDay: true},
		{Day: time.Wednesday, Open: clock(11, 0), Close: clock(22, 0), IsOpenDay: true},
		{Day: time.Thursday, Open: clock(11, 0), Close: clock(22, 0), IsOpenDay: true},
		{Day: time.Friday, Open: clock(11, 0), Close: clock(0, 0), IsOpenDay: true},
		{Day: time.Saturday, Open: clock(11, 0), Close: clock(0, 0), IsOpenDay: true},
		{Day: time.Sunday, Open: clock(12, 0), Close: clock(20, 0), IsOpenDay: true},
	}
}

func TestEvaluate(t *testing.T) {
	msgs := EnglishMessages()

	cases := []struct {
		name    string
		now     time.Time
		open    bool
		message string
		sub     string
	}{
		{"open with hours left", on(10, 20, 45), true, "The store is open!", "Closes in 1 hour(s) 15 minute(s)"},
		{"opening minute is open", on(10, 11, 0), true, "The store is open!", "Closes in 11 hour(s) 0 minute(s)"},
		{"closing minute is open", on(10, 22, 0), true, "The store is open!", "Closes soon."},
		{"under a minute left", time.Date(2026, 3, 10, 21, 59, 30, 0, bogota), true, "The store is open!", "Closes soon."},
		{"overnight window before midnight", on(13, 23, 30), true, "The store is open!", "Closes in 30 minute(s)"},
		{"overnight last minute", on(13, 23, 59), true, "The store is open!", "Closes in 1 minute(s)"},
		{"overnight close instant uses the new day", on(14, 0, 0), false, "The store is closed.", "Opens at 11:00 AM"},
		{"after midnight uses the new day", on(14, 0, 30), false, "The store is closed.", "Opens at 11:00 AM"},
		{"before opening today", on(10, 9, 15), false, "The store is closed.", "Opens at 11:00 AM"},
		{"after closing opens tomorrow", on(10, 22, 30), false, "The store is closed.", "Opens tomorrow at 11:00 AM"},
		{"skips closed days", on(15, 21, 0), false, "The store is closed.", "Opens at 11:00 AM"},
		{"closed day", on(9, 12, 0), false, "The store is closed today.", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(testWeek(), tc.now, bogota, msgs)

			if got.IsOpen != tc.open {
				t.Fatalf("IsOpen = %v, want %v", got.IsOpen, tc.open)
			}
			if got.Message != tc.message {
				t.Fatalf("Message = %q, want %q", got.Message, tc.message)
			}
			if got.SubMessage != tc.sub {
				t.Fatalf("SubMessage = %q, want %q", got.SubMessage, tc.sub)
			}
		})
	}
}

func TestEvaluateOvernightClosesAtNextMidnight(t *testing.T) {
	got := Evaluate(testWeek(), on(13, 23, 30), bogota, EnglishMessages())

	if got.ClosesAt == nil {
		t.Fatalf("expected ClosesAt to be set")
	}
	want := on(14, 0, 0)
	if !got.ClosesAt.Equal(want) {
		t.Fatalf("ClosesAt = %v, want %v", got.ClosesAt, want)
	}
}

func TestEvaluateOpensAtSkipsClosedDays(t *testing.T) {
	got := Evaluate(testWeek(), on(15, 21, 0), bogota, EnglishMessages())

	if got.OpensAt == nil {
		t.Fatalf("expected OpensAt to be set")
	}
	want := on(17, 11, 0) // Tuesday
	if !got.OpensAt.Equal(want) {
		t.Fatalf("OpensAt = %v, want %v", got.OpensAt, want)
	}
}

func TestEvaluateConvertsToStoreTimezone(t *testing.T) {
	// 04:30 UTC Saturday is 23:30 Friday in Bogota.
	now := time.Date(2026, 3, 14, 4, 30, 0, 0, time.UTC)

	got := Evaluate(testWeek(), now, bogota, EnglishMessages())

	if !got.IsOpen {
		t.Fatalf("expected store open, got %+v", got)
	}
	if got.Day != time.Friday {
		t.Fatalf("Day = %v, want Friday", got.Day)
	}
}

func TestEvaluateSingleOpenDayWrapsAWeek(t *testing.T) {
	week := domain.Week{{Day: time.Tuesday, Open: clock(11, 0), Close: clock(22, 0), IsOpenDay: true}}

	got := Evaluate(week, on(10, 23, 0), bogota, EnglishMessages())

	if got.SubMessage != "Opens at 11:00 AM" {
		t.Fatalf("SubMessage = %q", got.SubMessage)
	}
	if want := on(17, 11, 0); got.OpensAt == nil || !got.OpensAt.Equal(want) {
		t.Fatalf("OpensAt = %v, want %v", got.OpensAt, want)
	}
}

func TestNextOpeningWithoutOpenDays(t *testing.T) {
	week := testWeek()
	for i := range week {
		week[i].IsOpenDay = false
	}

	sub, opensAt := nextOpening(week, on(10, 23, 0), bogota, EnglishMessages())

	if sub != "Opens soon." || opensAt != nil {
		t.Fatalf("got %q, %v", sub, opensAt)
	}
}

func TestNextOpeningTomorrow(t *testing.T) {
	sub, opensAt := nextOpening(testWeek(), on(10, 23, 0), bogota, EnglishMessages())

	if sub != "Opens tomorrow at 11:00 AM" {
		t.Fatalf("sub = %q", sub)
	}
	if want := on(11, 11, 0); opensAt == nil || !opensAt.Equal(want) {
		t.Fatalf("opensAt = %v, want %v", opensAt, want)
	}
}

func TestEvaluateMissingDayIsClosed(t *testing.T) {
	week := domain.Week{{Day: time.Tuesday, Open: clock(11, 0), Close: clock(22, 0), IsOpenDay: true}}

	got := Evaluate(week, on(11, 12, 0), bogota, EnglishMessages())

	if got.IsOpen || got.Message != "The store is closed today." {
		t.Fatalf("unexpected status: %+v", got)
	}
}

func TestEvaluateSpanishMessages(t *testing.T) {
	got := Evaluate(testWeek(), on(10, 22, 30), bogota, MessagesFor("es-CO"))

	if got.Message != "La tienda está cerrada." {
		t.Fatalf("Message = %q", got.Message)
	}
	if got.SubMessage != "Abre mañana a las 11:00 AM" {
		t.Fatalf("SubMessage = %q", got.SubMessage)
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[domain.TimeOfDay]string{
		clock(0, 0):   "12:00 AM",
		clock(9, 5):   "09:05 AM",
		clock(12, 0):  "12:00 PM",
		clock(13, 30): "01:30 PM",
		clock(23, 59): "11:59 PM",
	}

	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	if err != nil || loc.String() != DefaultTimezone {
		t.Fatalf("LoadLocation(\"\") = %v, %v", loc, err)
	}
	if _, off := time.Date(2026, 7, 1, 12, 0, 0, 0, loc).Zone(); off != -5*60*60 {
		t.Fatalf("offset = %d, want UTC-5", off)
	}

	if _, err := LoadLocation("Europe/Madird"); err == nil {
		t.Fatalf("expected error for an unknown zone")
	}
}
