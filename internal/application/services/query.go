package services

import (
	"context"
	"errors"

	"github.com/DanielPopoola/ficmart-confirmer/internal/application"
	"github.com/DanielPopoola/ficmart-confirmer/internal/domain"
)

type QueryService struct {
	repo application.RequestRepository
}

func NewQueryService(repo application.RequestRepository) *QueryService {
	return &QueryService{
		repo: repo,
	}
}

func (s *QueryService) FindByID(ctx context.Context, id string) (*domain.PendingRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return nil, application.NewNotFoundError(err)
		}
		return nil, application.NewInternalError(err)
	}
	return req, nil
}

// FindActiveByResource returns the request currently holding the resource, if any.
func (s *QueryService) FindActiveByResource(ctx context.Context, kind domain.Kind, resourceID string) (*domain.PendingRequest, error) {
	req, err := s.repo.FindActiveByResource(ctx, kind, resourceID)
	if err != nil {
		if errors.Is(err, domain.ErrRequestNotFound) {
			return nil, application.NewNotFoundError(err)
		}
		return nil, application.NewInternalError(err)
	}
	return req, nil
}
