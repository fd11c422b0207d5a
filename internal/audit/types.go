package audit

// AuditAction represents the type of action performed on a contact
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionLoad   AuditAction = "load"
)

// Change represents a change in a contact field
type Change struct {
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}
