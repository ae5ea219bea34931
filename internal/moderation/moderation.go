// Package moderation governs the lifecycle of a meditation from draft to
// publication. Transitions are validated against a closed table; entering
// APPROVED stamps the audit fields exactly once.
package moderation

import (
	"fmt"
	"time"

	"lectio/internal/domain"
)

// Transition moves the meditation to a new status after validating the move.
func Transition(med *domain.GospelMeditation, to domain.MeditationStatus) error {
	if med.Status == to {
		return nil
	}
	if !isAllowedTransition(med.Status, to) {
		return fmt.Errorf("disallowed transition: %s -> %s", med.Status, to)
	}
	med.Status = to
	return nil
}

func isAllowedTransition(from, to domain.MeditationStatus) bool {
	switch from {
	case domain.StatusDraft:
		return to == domain.StatusApproved || to == domain.StatusRejected
	case domain.StatusApproved:
		return to == domain.StatusPublished
	default:
		return false
	}
}

// Approve moves a draft to APPROVED and stamps the acting identity and time.
// The stamps are set-if-absent: re-approving or re-saving an already approved
// record leaves the first approval's audit trail untouched.
func Approve(med *domain.GospelMeditation, actor string, now time.Time) error {
	if err := Transition(med, domain.StatusApproved); err != nil {
		return err
	}
	if med.ApprovedBy == "" {
		med.ApprovedBy = actor
	}
	if med.ApprovedAt == nil {
		stamped := now
		med.ApprovedAt = &stamped
	}
	return nil
}
