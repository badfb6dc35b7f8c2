package services

import (
	"context"

	"github.com/asaskevich/EventBus"
	"github.com/jobmaze/recommender/internal/entities"
	"github.com/jobmaze/recommender/internal/events"
)

type preferenceWriteRepository interface {
	Upsert(ctx context.Context, preferences entities.Preferences) error
}

// PreferencesService applies preference edits and announces them, so derived
// state for the user gets dropped.
type PreferencesService struct {
	bus         EventBus.Bus
	preferences preferenceWriteRepository
}

func NewPreferencesService(bus EventBus.Bus, preferences preferenceWriteRepository) *PreferencesService {
	return &PreferencesService{bus: bus, preferences: preferences}
}

// Update overwrites the user's preference record and publishes the
// invalidation event.
func (s *PreferencesService) Update(ctx context.Context, preferences entities.Preferences) error {

	if err := s.preferences.Upsert(ctx, preferences); err != nil {
		return err
	}

	s.bus.Publish(events.PreferencesUpdatedTopic, events.PreferencesUpdated{UserID: preferences.UserID})
	return nil
}
