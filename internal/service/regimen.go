package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/medcourse-bot/internal/domain/entities"
	"github.com/aliskhannn/medcourse-bot/internal/infra/postgres/repository"
)

// RegimenService handles creation, editing and lookup of medication courses.
type RegimenService struct {
	repo   RegimenRepository
	logger *zap.Logger
}

// NewRegimenService creates a new RegimenService.
func NewRegimenService(repo RegimenRepository, logger *zap.Logger) *RegimenService {
	return &RegimenService{repo: repo, logger: logger}
}

// Create validates a fully filled draft and stores it.
func (s *RegimenService) Create(ctx context.Context, reg *entities.Regimen) (uuid.UUID, error) {
	if err := reg.Validate(); err != nil {
		return uuid.Nil, err
	}

	id, err := s.repo.Insert(ctx, reg)
	if err != nil {
		// The draft ID is fixed when the form starts, so a repeated submit hits the same row.
		if errors.Is(err, repository.ErrRegimenExists) {
			return reg.ID, nil
		}
		return uuid.Nil, storeErr("insert regimen", err)
	}

	s.logger.Info("regimen created",
		zap.Int64("owner_id", reg.OwnerID),
		zap.String("regimen_id", id.String()),
	)

	return id, nil
}

// UpdateField parses raw for a single field and writes it. The stored record
// is left untouched when the value is rejected or the regimen is not owned by ownerID.
func (s *RegimenService) UpdateField(
	ctx context.Context,
	ownerID int64,
	id uuid.UUID,
	field entities.RegimenField,
	raw string,
) (*entities.Regimen, error) {
	value, err := entities.ParseField(field, raw)
	if err != nil {
		return nil, err
	}

	var updated *entities.Regimen
	err = s.repo.UpdateFields(ctx, id, func(reg *entities.Regimen) error {
		if reg.OwnerID != ownerID {
			return ErrRegimenNotFound
		}
		reg.Set(field, value)
		updated = reg
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrRegimenNotFound) {
			return nil, ErrRegimenNotFound
		}
		return nil, storeErr("update regimen", err)
	}

	s.logger.Info("regimen updated",
		zap.Int64("owner_id", ownerID),
		zap.String("regimen_id", id.String()),
		zap.String("field", string(field)),
	)

	return updated, nil
}

// Delete removes a regimen owned by ownerID.
func (s *RegimenService) Delete(ctx context.Context, ownerID int64, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, ErrRegimenNotFound) {
			return ErrRegimenNotFound
		}
		return storeErr("delete regimen", err)
	}
	return nil
}

// List returns all regimens of the owner.
func (s *RegimenService) List(ctx context.Context, ownerID int64) ([]*entities.Regimen, error) {
	regimens, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeErr("list regimens", err)
	}
	return regimens, nil
}

// Get returns one regimen if it belongs to ownerID.
func (s *RegimenService) Get(ctx context.Context, ownerID int64, id uuid.UUID) (*entities.Regimen, error) {
	reg, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrRegimenNotFound) {
			return nil, ErrRegimenNotFound
		}
		return nil, storeErr("get regimen", err)
	}
	if reg.OwnerID != ownerID {
		return nil, ErrRegimenNotFound
	}
	return reg, nil
}
