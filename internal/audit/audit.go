// Package audit writes security events to the audit_logs table.
// Recording is fire-and-forget: a failed write is logged and swallowed so
// it can never fail the operation being audited.
package audit

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pramara/internal/auth"
	"pramara/internal/models"
)

type Recorder struct {
	DB *gorm.DB
	Lg *zap.SugaredLogger
}

func NewRecorder(db *gorm.DB, lg *zap.SugaredLogger) *Recorder {
	return &Recorder{DB: db, Lg: lg}
}

func (r *Recorder) Record(ctx context.Context, e auth.AuditEvent) {
	row := models.AuditLog{
		Action:    e.Action,
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		Meta:      models.FromMap(e.Meta),
		IP:        e.IP,
		UserAgent: e.UserAgent,
	}
	if e.ActorID != "" {
		actor := e.ActorID
		row.ActorID = &actor
	}
	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		r.Lg.Warnw("audit write failed", "action", e.Action, "error", err)
	}
}
