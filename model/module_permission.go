// model/module_permission.go
package model

import "time"

// ModulePermission is the per-module CRUD toggle record administrators edit
// at runtime. Module keys are unique. When the registry itself is disabled or
// has never been initialized, consumers fall back to permissive defaults; a
// missing row in a populated registry is treated as all-denied.
type ModulePermission struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	ModuleKey   string    `json:"module_key" gorm:"uniqueIndex;size:64;not null"`
	DisplayName string    `json:"display_name" gorm:"size:128"`
	CanCreate   bool      `json:"can_create"`
	CanEdit     bool      `json:"can_edit"`
	CanDelete   bool      `json:"can_delete"`
	CanView     bool      `json:"can_view"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`

	// Updating marks a row with an optimistic local change whose backend
	// write has not settled yet. Never persisted.
	Updating bool `json:"updating,omitempty" gorm:"-"`
}

// Flag returns the value of a single CRUD flag.
func (mp ModulePermission) Flag(action Action) bool {
	switch action {
	case ActionCreate:
		return mp.CanCreate
	case ActionEdit:
		return mp.CanEdit
	case ActionDelete:
		return mp.CanDelete
	case ActionView:
		return mp.CanView
	default:
		return false
	}
}

// SetFlagValue sets a single CRUD flag in place.
func (mp *ModulePermission) SetFlagValue(action Action, value bool) {
	switch action {
	case ActionCreate:
		mp.CanCreate = value
	case ActionEdit:
		mp.CanEdit = value
	case ActionDelete:
		mp.CanDelete = value
	case ActionView:
		mp.CanView = value
	}
}
