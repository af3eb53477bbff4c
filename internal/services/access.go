package services

import (
	"github.com/nnypa/endorsement_service/internal/apperr"
	"github.com/nnypa/endorsement_service/internal/domain"
	"github.com/nnypa/endorsement_service/internal/repository"
)

// AccessGate answers who may see or act on what. Every privileged service
// method consults it directly against the grant table; nothing caches the
// answer as authority.
type AccessGate struct {
	grantRepo repository.AdminGrantRepository
}

func NewAccessGate(grantRepo repository.AdminGrantRepository) *AccessGate {
	return &AccessGate{grantRepo: grantRepo}
}

func (g *AccessGate) IsAdmin(userID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	ok, err := g.grantRepo.HasGrant(userID)
	if err != nil {
		return false, apperr.Storage("admin grant lookup", err)
	}
	return ok, nil
}

// RequireAdmin fails with ErrForbidden unless the actor holds a grant.
func (g *AccessGate) RequireAdmin(userID uint) error {
	if userID == 0 {
		return apperr.Unauthenticated("no acting identity")
	}
	ok, err := g.IsAdmin(userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Forbidden("admin grant required")
	}
	return nil
}

// CanView is true for the application's owner and for any grant holder.
func (g *AccessGate) CanView(actorID uint, app *domain.EndorsementApplication) (bool, error) {
	if actorID == 0 || app == nil {
		return false, nil
	}
	if app.UserID == actorID {
		return true, nil
	}
	return g.IsAdmin(actorID)
}

// CanMutateStatus is true only for grant holders. Owners never review
// their own applications.
func (g *AccessGate) CanMutateStatus(actorID uint, app *domain.EndorsementApplication) (bool, error) {
	if actorID == 0 || app == nil {
		return false, nil
	}
	return g.IsAdmin(actorID)
}
