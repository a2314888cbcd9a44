// Package events publishes withdrawal lifecycle events to a message broker.
package events

import (
	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/models"
)

// EventType names an event after its action, e.g. withdrawal.Approve.
func EventType(evt models.LifecycleEvent) string {
	return "withdrawal." + string(evt.Action)
}
