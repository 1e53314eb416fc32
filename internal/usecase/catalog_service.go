package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/pitchmetrics/internal/domain/event"
)

// CatalogService lists the teams, players and matches present in the event
// log so API consumers can discover valid scope keys.
type CatalogService struct {
	repo event.Repository
}

func NewCatalogService(repo event.Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ListTeams(ctx context.Context) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.ListTeams")
	defer span.End()

	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	return ds.Teams(), nil
}

func (s *CatalogService) ListPlayers(ctx context.Context) ([]string, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.ListPlayers")
	defer span.End()

	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	return ds.Players(), nil
}

func (s *CatalogService) ListMatches(ctx context.Context) ([]event.MatchRef, error) {
	ctx, span := startUsecaseSpan(ctx, "CatalogService.ListMatches")
	defer span.End()

	ds, err := s.dataset(ctx)
	if err != nil {
		return nil, err
	}

	return ds.Matches(), nil
}

func (s *CatalogService) dataset(ctx context.Context) (event.Dataset, error) {
	rows, err := s.repo.ListEvents(ctx)
	if err != nil {
		return event.Dataset{}, fmt.Errorf("list events: %w", err)
	}

	return event.NewDataset(rows), nil
}
