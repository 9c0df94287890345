// model/access.go
package model

// CanonicalRole is the normalized, closed set of role values used internally
// regardless of how source data spells them.
type CanonicalRole string

const (
	RoleAdmin    CanonicalRole = "admin"
	RoleManager  CanonicalRole = "manager"
	RoleEmployee CanonicalRole = "employee"
	RoleGuest    CanonicalRole = "guest"
)

// Action is a CRUD capability consumers gate their affordances on.
type Action string

const (
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionView   Action = "view"
)

// KnownActions lists every action in a stable order.
var KnownActions = []Action{ActionCreate, ActionEdit, ActionDelete, ActionView}

// ParseAction maps a wire string onto an Action, reporting whether it is one
// of the known four.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionCreate, ActionEdit, ActionDelete, ActionView:
		return Action(s), true
	}
	return "", false
}

// UserAccessContext is the raw identity projection handed to us by whatever
// authenticated the user. Permissions arrive in several historical shapes
// (JSON-encoded string, string array, or missing entirely), so the field is
// left untyped and decoded by the resolver on every read. Never mutated in
// place.
type UserAccessContext struct {
	Role          string      `json:"role"`
	Permissions   interface{} `json:"permissions"`
	StationAccess []string    `json:"station_access"`
}

// NormalizedAccessContext is the canonical form every raw context collapses
// to: a canonical role and well-formed (possibly empty) string lists.
type NormalizedAccessContext struct {
	Role          CanonicalRole `json:"role"`
	Permissions   []string      `json:"permissions"`
	StationAccess []string      `json:"station_access"`
}

// HasPermission reports membership in the normalized permission set.
func (n NormalizedAccessContext) HasPermission(key string) bool {
	for _, p := range n.Permissions {
		if p == key {
			return true
		}
	}
	return false
}

// HasStationAccess reports a verbatim station-name entry in the legacy
// station access list.
func (n NormalizedAccessContext) HasStationAccess(name string) bool {
	for _, s := range n.StationAccess {
		if s == name {
			return true
		}
	}
	return false
}

// ActionSet holds the per-action booleans for one module at a point in time.
type ActionSet struct {
	CanCreate bool `json:"can_create"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
	CanView   bool `json:"can_view"`
}

// Allows returns the boolean for a single action.
func (a ActionSet) Allows(action Action) bool {
	switch action {
	case ActionCreate:
		return a.CanCreate
	case ActionEdit:
		return a.CanEdit
	case ActionDelete:
		return a.CanDelete
	case ActionView:
		return a.CanView
	default:
		return false
	}
}

// AllowAll is the fail-open default used when the module registry is
// disabled or empty.
func AllowAll() ActionSet {
	return ActionSet{CanCreate: true, CanEdit: true, CanDelete: true, CanView: true}
}

// CapabilityProjection is the derived, per-request answer: which stations the
// caller may see and what they may do in a module. It is recomputed from its
// inputs on every read and never stored.
type CapabilityProjection struct {
	StationNames         []string  `json:"station_names"`
	CanSelectAllStations bool      `json:"can_select_all_stations"`
	Actions              ActionSet `json:"actions"`
}
