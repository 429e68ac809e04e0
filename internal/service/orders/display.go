package orders

import (
	"fmt"
	"time"

	"storefront/internal/domain"
)

var statusLabels = map[domain.OrderStatus]string{
	domain.OrderStatusPending:    "En attente",
	domain.OrderStatusProcessing: "En cours de traitement",
	domain.OrderStatusShipped:    "Expédiée",
	domain.OrderStatusDelivered:  "Livrée",
	domain.OrderStatusCancelled:  "Annulée",
}

var statusColors = map[domain.OrderStatus]string{
	domain.OrderStatusPending:    "#f39c12",
	domain.OrderStatusProcessing: "#3498db",
	domain.OrderStatusShipped:    "#9b59b6",
	domain.OrderStatusDelivered:  "#2ecc71",
	domain.OrderStatusCancelled:  "#e74c3c",
}

const unknownStatusColor = "#95a5a6"

// StatusLabel is the user-facing name of a status; unknown statuses are shown as-is.
func StatusLabel(s domain.OrderStatus) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// StatusColor is the badge colour of a status.
func StatusColor(s domain.OrderStatus) string {
	if c, ok := statusColors[s]; ok {
		return c
	}
	return unknownStatusColor
}

// ShortRef is the last six characters of an order id.
func ShortRef(id string) string {
	r := []rune(id)
	if len(r) <= 6 {
		return id
	}
	return string(r[len(r)-6:])
}

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// FormatDate renders a date the way the storefront displays it, e.g. "15 octobre 2026".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), frenchMonths[t.Month()-1], t.Year())
}
