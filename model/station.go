// model/station.go
package model

import "time"

// Station is a scoped business unit that most other portal records are
// filtered by. Names are unique within the directory; the ID is immutable
// after creation.
type Station struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:128;not null"`
	Label     string    `json:"label,omitempty" gorm:"size:128"`
	Color     string    `json:"color,omitempty" gorm:"size:32"` // hex or named display color
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// AllStationsValue is the synthetic "aggregate" option value offered to
// users who may select across every station.
const AllStationsValue = "all"

// AllStationsLabel is the display label for the aggregate option.
const AllStationsLabel = "All Stations"

// StationOption is the UI-facing projection of a station, plus the synthetic
// aggregate option when the caller is eligible for it.
type StationOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// OptionForStation builds the selector option for a single station.
func OptionForStation(st Station) StationOption {
	label := st.Label
	if label == "" {
		label = st.Name
	}
	return StationOption{
		Value: st.Name,
		Label: label,
		Color: st.Color,
	}
}

// AggregateOption is the option representing "all stations".
func AggregateOption() StationOption {
	return StationOption{
		Value: AllStationsValue,
		Label: AllStationsLabel,
	}
}
