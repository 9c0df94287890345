// util/validation_util.go

package util

import (
	"fmt"
	"strings"

	"github.com/stationgate/api/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateStation(station model.Station) error {
	if strings.TrimSpace(station.Name) == "" {
		return fmt.Errorf("station name cannot be empty")
	}
	if station.Name == model.AllStationsValue {
		return fmt.Errorf("station name %q is reserved for the aggregate option", model.AllStationsValue)
	}
	if len(station.Name) > 128 {
		return fmt.Errorf("station name cannot exceed 128 characters")
	}
	// Add more validation rules as needed
	return nil
}

func (v *ValidationUtil) ValidateModulePermission(row model.ModulePermission) error {
	if strings.TrimSpace(row.ModuleKey) == "" {
		return fmt.Errorf("module key cannot be empty")
	}
	if strings.ToLower(row.ModuleKey) != row.ModuleKey {
		return fmt.Errorf("module key must be lowercase")
	}
	// Add more validation rules as needed
	return nil
}
