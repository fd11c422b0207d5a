// Package audit records contact book mutations as structured log entries.
package audit

import (
	"go.uber.org/zap"

	"rhystmorgan/contactbook/internal/models"
)

// ContactAuditor writes one entry per contact action to the audit logger.
// A nil *ContactAuditor is valid and records nothing.
type ContactAuditor struct {
	logger *zap.Logger
}

func NewContactAuditor(logger *zap.Logger) *ContactAuditor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactAuditor{logger: logger.Named("audit")}
}

// LogContactAction logs a contact-related action
func (a *ContactAuditor) LogContactAction(action AuditAction, contactID int64, fields ...zap.Field) {
	if a == nil {
		return
	}
	a.logger.Info("contact "+string(action),
		append([]zap.Field{
			zap.String("action", string(action)),
			zap.Int64("contact_id", contactID),
		}, fields...)...,
	)
}

// LogContactChange logs the fields that differ between before and after.
// Nothing is written when the update changed nothing.
func (a *ContactAuditor) LogContactChange(before, after models.Contact) {
	if a == nil {
		return
	}
	changes := Diff(before, after)
	if len(changes) == 0 {
		return
	}
	a.LogContactAction(AuditActionUpdate, after.ID, zap.Any("changes", changes))
}

// Diff lists the changed fields by their JSON name.
func Diff(before, after models.Contact) map[string]Change {
	changes := make(map[string]Change)
	if before.Name != after.Name {
		changes["name"] = Change{OldValue: before.Name, NewValue: after.Name}
	}
	if before.Phone != after.Phone {
		changes["phone"] = Change{OldValue: before.Phone, NewValue: after.Phone}
	}
	if before.Email != after.Email {
		changes["email"] = Change{OldValue: before.Email, NewValue: after.Email}
	}
	return changes
}
