package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/studyslot/studyslot-api/internal/models"
)

// auditWriter is satisfied by the user repository, which owns the audit_logs
// table.
type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// writeAudit records a state change, logging but never failing the request
// when the write does not land.
func writeAudit(ctx context.Context, w auditWriter, logger *zap.Logger, actorID, action, resource, resourceID string, payload []byte) {
	if w == nil {
		return
	}
	log := &models.AuditLog{
		Action:     action,
		Resource:   resource,
		ResourceID: &resourceID,
		NewValues:  payload,
	}
	if actorID != "" {
		log.UserID = &actorID
	}
	if err := w.CreateAuditLog(ctx, log); err != nil && logger != nil {
		logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}
