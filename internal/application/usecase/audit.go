package usecase

import "github.com/primegestor/primegestor-api/internal/domain/entity"

// Auditor recibe entradas de auditoría sin bloquear.
type Auditor interface {
	Record(entry *entity.ActivityLog)
}

type nopAuditor struct{}

func (nopAuditor) Record(*entity.ActivityLog) {}
