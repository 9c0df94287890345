// errors/station_errors.go
package errors

import "errors"

var (
	ErrStationNotFound    = errors.New("station not found")
	ErrStationConflict    = errors.New("station name already in use")
	ErrInvalidStationData = errors.New("invalid station data")
	ErrDatabaseOperation  = errors.New("database operation failed")
	ErrInternalServer     = errors.New("internal server error")
	ErrUnauthorized       = errors.New("unauthorized")
)
