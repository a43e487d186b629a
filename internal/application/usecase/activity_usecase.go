package usecase

import (
	"context"

	"github.com/primegestor/primegestor-api/internal/application/dto"
	"github.com/primegestor/primegestor-api/internal/domain/repository"
)

// ActivityLogUseCase lectura del registro de auditoría.
type ActivityLogUseCase struct {
	repo repository.ActivityLogRepository
}

// NewActivityLogUseCase construye el caso de uso.
func NewActivityLogUseCase(repo repository.ActivityLogRepository) *ActivityLogUseCase {
	return &ActivityLogUseCase{repo: repo}
}

// List devuelve las entradas más recientes primero.
func (uc *ActivityLogUseCase) List(ctx context.Context, limit, offset int) (*dto.ActivityLogListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ActivityLogResponse, 0, len(list))
	for _, l := range list {
		items = append(items, dto.FromActivityLog(l))
	}
	return &dto.ActivityLogListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}
