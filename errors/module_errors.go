// errors/module_errors.go
package errors

import "errors"

var (
	ErrModulePermissionNotFound = errors.New("module permission not found")
	ErrModulePermissionConflict = errors.New("module permission already exists")
	ErrInvalidModuleData        = errors.New("invalid module permission data")
	ErrModuleRegistryInit       = errors.New("module registry initialization failed")
	ErrUnknownAction            = errors.New("unknown module action")
)
