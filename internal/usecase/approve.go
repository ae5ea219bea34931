package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lectio/internal/domain"
	"lectio/internal/moderation"
	"lectio/internal/ports"
)

// Moderator carries out moderation actions against stored meditations.
type Moderator struct {
	repo   ports.Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewModerator constructs the moderation workflow.
func NewModerator(repo ports.Repository, logger *slog.Logger) *Moderator {
	return &Moderator{repo: repo, logger: logger, now: time.Now}
}

// Approve transitions the meditation to APPROVED on behalf of actor and
// persists the result. Approval stamps are written once, on the first
// approval only.
func (m *Moderator) Approve(ctx context.Context, id int64, actor string) (domain.GospelMeditation, error) {
	med, found, err := m.repo.GetMeditation(ctx, id)
	if err != nil {
		return domain.GospelMeditation{}, fmt.Errorf("load meditation %d: %w", id, err)
	}
	if !found {
		return domain.GospelMeditation{}, fmt.Errorf("meditation %d does not exist", id)
	}

	if err := moderation.Approve(&med, actor, m.now().UTC()); err != nil {
		return domain.GospelMeditation{}, err
	}

	if err := m.repo.SaveMeditation(ctx, med); err != nil {
		return domain.GospelMeditation{}, fmt.Errorf("save meditation %d: %w", id, err)
	}

	m.logger.Info("approved meditation", "id", id, "actor", actor)
	return med, nil
}
