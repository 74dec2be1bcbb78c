package service

import (
	"context"
	"fmt"
	"stock-screener/internal/dto"
	"stock-screener/internal/model"
	"stock-screener/internal/repository"
	"stock-screener/pkg/logger"
	"strings"
)

type PresetService interface {
	List(ctx context.Context) ([]dto.Preset, error)
	Get(ctx context.Context, id uint) (*dto.Preset, error)
	Create(ctx context.Context, req dto.UpsertPresetRequest) (*dto.Preset, error)
	Update(ctx context.Context, id uint, req dto.UpsertPresetRequest) (*dto.Preset, error)
	Delete(ctx context.Context, id uint) error
}

type presetService struct {
	log        *logger.Logger
	presetRepo repository.PresetRepository
}

func NewPresetService(log *logger.Logger, presetRepo repository.PresetRepository) PresetService {
	return &presetService{
		log:        log,
		presetRepo: presetRepo,
	}
}

func (s *presetService) List(ctx context.Context) ([]dto.Preset, error) {
	presets, err := s.presetRepo.List(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to list presets", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}

	out := make([]dto.Preset, 0, len(presets))
	for i := range presets {
		p, err := presets[i].ToDTO()
		if err != nil {
			s.log.WarnContext(ctx, "Skipping preset with unreadable criteria", logger.ErrorField(err))
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *presetService) Get(ctx context.Context, id uint) (*dto.Preset, error) {
	preset, err := s.presetRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out, err := preset.ToDTO()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *presetService) Create(ctx context.Context, req dto.UpsertPresetRequest) (*dto.Preset, error) {
	preset := &model.Preset{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := preset.SetCriteria(req.Criteria); err != nil {
		return nil, err
	}
	if err := s.presetRepo.Create(ctx, preset); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Preset created", logger.UintField("preset_id", preset.ID), logger.StringField("name", preset.Name))
	out, err := preset.ToDTO()
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *presetService) Update(ctx context.Context, id uint, req dto.UpsertPresetRequest) (*dto.Preset, error) {
	preset := &model.Preset{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := preset.SetCriteria(req.Criteria); err != nil {
		return nil, err
	}
	if err := s.presetRepo.Update(ctx, preset); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *presetService) Delete(ctx context.Context, id uint) error {
	if err := s.presetRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "Preset deleted", logger.UintField("preset_id", id))
	return nil
}
