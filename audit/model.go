// audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	Timestamp     time.Time       `json:"timestamp"`
	UserID        string          `json:"user_id"`
	Action        string          `json:"action"` // e.g. "station.created", "module_permission.updated"
	EntityType    string          `json:"entity_type"`
	EntityID      string          `json:"entity_id"`
	ChangeDetails json.RawMessage `json:"change_details,omitempty"`
}
