package schedule

import (
	"fmt"
	"storefront-delivery-service/internal/domain"
	"strings"
)

// Messages holds the user-facing texts of a StoreStatus.
type Messages struct {
	Open          string
	Closed        string
	ClosedToday   string
	ClosesIn      func(hours, minutes int) string
	ClosesSoon    string
	OpensAt       func(clock string) string
	OpensTomorrow func(clock string) string
	OpensSoon     string
}

func EnglishMessages() Messages {
	return Messages{
		Open:        "The store is open!",
		Closed:      "The store is closed.",
		ClosedToday: "The store is closed today.",
		ClosesIn: func(h, m int) string {
			if h > 0 {
				return fmt.Sprintf("Closes in %d hour(s) %d minute(s)", h, m)
			}
			return fmt.Sprintf("Closes in %d minute(s)", m)
		},
		ClosesSoon:    "Closes soon.",
		OpensAt:       func(clock string) string { return "Opens at " + clock },
		OpensTomorrow: func(clock string) string { return "Opens tomorrow at " + clock },
		OpensSoon:     "Opens soon.",
	}
}

func SpanishMessages() Messages {
	return Messages{
		Open:        "¡La tienda está abierta!",
		Closed:      "La tienda está cerrada.",
		ClosedToday: "Hoy la tienda está cerrada.",
		ClosesIn: func(h, m int) string {
			if h > 0 {
				return fmt.Sprintf("Cierra en %d hora(s) %d minuto(s)", h, m)
			}
			return fmt.Sprintf("Cierra en %d minuto(s)", m)
		},
		ClosesSoon:    "Cierra pronto.",
		OpensAt:       func(clock string) string { return "Abre a las " + clock },
		OpensTomorrow: func(clock string) string { return "Abre mañana a las " + clock },
		OpensSoon:     "Abre pronto.",
	}
}

// MessagesFor picks a message set by locale tag ("es", "es-CO", "en", ...).
func MessagesFor(locale string) Messages {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(locale)), "es") {
		return SpanishMessages()
	}
	return EnglishMessages()
}

// FormatClock renders t on a 12-hour clock: "09:05 PM", "12:00 AM".
func FormatClock(t domain.TimeOfDay) string {
	suffix := "AM"
	if t.Hour >= 12 {
		suffix = "PM"
	}
	h := t.Hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h, t.Minute, suffix)
}
