package services

import "github.com/google/uuid"

// Notifier pushes committed changes to clients watching a tournament.
// *brackets.Hub implements it.
type Notifier interface {
	Publish(tournamentID uuid.UUID, eventType string, payload interface{})
}

type nopNotifier struct{}

func (nopNotifier) Publish(uuid.UUID, string, interface{}) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
