package common

import (
	"log"
	"sbs/src/models"
	"sbs/src/types"

	"gorm.io/gorm"
)

// AppendAuditLog writes one append-only audit row inside the caller's
// transaction. Bulk operations get a single summarizing row, not one per
// date.
func AppendAuditLog(tx *gorm.DB, action string, actorId *uint, payload types.JSONB) error {
	entry := models.AvailabilityAuditLog{
		Action:  action,
		ActorID: actorId,
		Payload: payload,
	}
	if err := tx.Create(&entry).Error; err != nil {
		log.Printf("[Audit] Error appending %s: %s\n", action, err.Error())
		return err
	}
	return nil
}
