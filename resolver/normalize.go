// resolver/normalize.go
package resolver

import (
	"encoding/json"
	"strings"

	"github.com/stationgate/api/model"
)

// roleAliases collapses every role spelling seen in historical profile data
// onto the canonical set. The canonical names map to themselves so that
// normalization is idempotent.
var roleAliases = map[string]model.CanonicalRole{
	"admin":         model.RoleAdmin,
	"administrator": model.RoleAdmin,
	"superadmin":    model.RoleAdmin,
	"manager":       model.RoleManager,
	"management":    model.RoleManager,
	"supervisor":    model.RoleManager,
	"employee":      model.RoleEmployee,
	"staff":         model.RoleEmployee,
	"worker":        model.RoleEmployee,
	"guest":         model.RoleGuest,
	"viewer":        model.RoleGuest,
}

// NormalizeRole maps a raw role string onto a canonical role. Unknown or
// empty roles degrade to guest.
func NormalizeRole(role string) model.CanonicalRole {
	if canonical, ok := roleAliases[strings.ToLower(strings.TrimSpace(role))]; ok {
		return canonical
	}
	return model.RoleGuest
}

// Normalize decodes a raw access profile into its canonical form. It accepts
// every permission payload shape that exists in production data (string
// slice, JSON-encoded array, loosely typed []interface{}) and never returns
// an error: anything unparseable degrades to an empty permission list.
func Normalize(role string, permissions interface{}, stationAccess []string) model.NormalizedAccessContext {
	normalized := model.NormalizedAccessContext{
		Role:          NormalizeRole(role),
		Permissions:   normalizePermissions(permissions),
		StationAccess: []string{},
	}
	if len(stationAccess) > 0 {
		normalized.StationAccess = append(normalized.StationAccess, stationAccess...)
	}
	return normalized
}

// NormalizeContext is Normalize over an already-bundled raw context.
func NormalizeContext(raw model.UserAccessContext) model.NormalizedAccessContext {
	return Normalize(raw.Role, raw.Permissions, raw.StationAccess)
}

func normalizePermissions(payload interface{}) []string {
	switch v := payload.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, 0, len(v))
		return append(out, v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, entry := range v {
			if s, ok := entry.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return parsePermissionJSON([]byte(v))
	case json.RawMessage:
		return parsePermissionJSON(v)
	case []byte:
		return parsePermissionJSON(v)
	default:
		return []string{}
	}
}

// parsePermissionJSON decodes a legacy JSON-encoded permission blob. A parse
// failure or a non-array result means no extra permissions.
func parsePermissionJSON(blob []byte) []string {
	trimmed := strings.TrimSpace(string(blob))
	if trimmed == "" {
		return []string{}
	}
	var parsed []interface{}
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return []string{}
	}
	out := make([]string, 0, len(parsed))
	for _, entry := range parsed {
		if s, ok := entry.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
