package events

var PreferencesUpdatedTopic = "PreferencesUpdatedEvent"

// PreferencesUpdated is published after a user's preference record changes.
// Subscribers drop derived state for the user; nothing is regenerated until
// the next freshness check.
type PreferencesUpdated struct {
	UserID string
}
