package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/repository"
	"github.com/alexanderramin/critpath/internal/scheduler"
	"github.com/alexanderramin/critpath/internal/site"
)

// resolveSite looks ref up as an id, then as a name.
func resolveSite(ctx context.Context, sites repository.SiteRepo, ref string) (*domain.Site, error) {
	s, err := sites.GetByID(ctx, ref)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, domain.ErrLookup) {
		return nil, err
	}
	s, err = sites.GetByName(ctx, ref)
	if errors.Is(err, domain.ErrLookup) {
		return nil, &domain.LookupError{Kind: "site", ID: ref}
	}
	return s, err
}

// upgrade adds milestones introduced by a newer catalog. data is returned
// unchanged when the catalog version already matches.
func upgrade(engine *scheduler.Engine, data *domain.CriticalPathData) (*domain.CriticalPathData, []string) {
	if !site.NeedsReconcile(engine.Catalog(), data) {
		return data, nil
	}
	out, res := site.Reconcile(engine, data)
	return out, res.Added
}

func errorKind(err error) string {
	if errors.Is(err, repository.ErrVersionConflict) {
		return "conflict"
	}
	return domain.ErrorKind(err)
}
