package repositories

import (
	"context"
	"os"
	"path/filepath"
	"storefront-delivery-service/internal/domain"
	"testing"
	"time"
)

func TestReadStoreHoursJSONSeedFile(t *testing.T) {
	week, err := ReadStoreHoursJSON("../../../data/seeds/store_hours.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week))
	}

	mon, _ := week.Day(time.Monday)
	if mon.IsOpenDay {
		t.Fatalf("monday should be closed: %+v", mon)
	}

	fri, _ := week.Day(time.Friday)
	if !fri.IsOpenDay || !fri.Overnight() || fri.Close != (domain.TimeOfDay{}) {
		t.Fatalf("friday should close at midnight: %+v", fri)
	}

	sun, _ := week.Day(time.Sunday)
	if sun.Open != (domain.TimeOfDay{Hour: 12}) || sun.Close != (domain.TimeOfDay{Hour: 20}) {
		t.Fatalf("unexpected sunday: %+v", sun)
	}
}

func TestReadStoreHoursJSONRejectsUnknownDays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hours.json")
	body := `[{"dia":"Lunes","apertura":9,"cierre":17,"estado":true},{"dia":"Festivo","apertura":9,"cierre":12,"estado":true}]`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	if _, err := ReadStoreHoursJSON(path); err == nil {
		t.Fatalf("expected error for unknown weekday")
	}
}

func TestFromMinutes(t *testing.T) {
	if got := fromMinutes(22*60 + 30); got != (domain.TimeOfDay{Hour: 22, Minute: 30}) {
		t.Fatalf("fromMinutes = %+v", got)
	}
}

func TestNilDBErrors(t *testing.T) {
	ctx := context.Background()

	if err := InitSchema(ctx, nil); err == nil {
		t.Fatalf("InitSchema: expected error")
	}
	if _, err := SeedStoreHoursFromJSON(ctx, nil, "x.json"); err == nil {
		t.Fatalf("SeedStoreHoursFromJSON: expected error")
	}
	if _, err := NewPostgresScheduleSource(nil).FetchWeek(ctx); err == nil {
		t.Fatalf("FetchWeek: expected error")
	}
	if err := NewPostgresOrderRepository(nil).SaveOrder(ctx, &domain.Order{ID: "x"}); err == nil {
		t.Fatalf("SaveOrder: expected error")
	}
}
