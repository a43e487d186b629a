package inventory

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/primegestor/primegestor-api/internal/domain/entity"
)

// recordAudit encola la entrada después del commit. Un fallo al serializar solo se loguea.
func (d Deps) recordAudit(userID, action, entityType, entityID, entityName string, details map[string]any) {
	raw, err := json.Marshal(details)
	if err != nil {
		d.Log.Warn().Err(err).Str("entity_id", entityID).Msg("auditoría: no se pudo serializar el detalle")
		raw = nil
	}
	d.Audit.Record(&entity.ActivityLog{
		ID:         uuid.New().String(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    raw,
		CreatedAt:  d.Now(),
	})
}
