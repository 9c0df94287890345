// resolver/project.go
package resolver

import (
	"strings"
	"unicode"

	"github.com/stationgate/api/model"
)

// AllStationsPermission grants aggregate selection to roles that would not
// otherwise have it.
const AllStationsPermission = "view_all_stations"

// PermissionKeyForStation derives the permission key historically written for
// a station: the name lower-cased, non-alphanumeric runes stripped, prefixed
// with "view_". "North Wing" -> "view_northwing".
func PermissionKeyForStation(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return "view_" + b.String()
}

// CanSelectAllStations reports aggregate-selection eligibility: admins and
// managers always, anyone else only through the explicit permission.
func CanSelectAllStations(ctx model.NormalizedAccessContext) bool {
	if ctx.Role == model.RoleAdmin || ctx.Role == model.RoleManager {
		return true
	}
	return ctx.HasPermission(AllStationsPermission)
}

// AccessibleStations filters the directory down to the stations the caller
// may see, preserving directory order. A station is accessible through either
// of two independently-evolved data shapes: a derived view_<key> permission,
// or a verbatim entry in the legacy station access list. Both must stay
// honored; production profiles exist in each shape.
func AccessibleStations(ctx model.NormalizedAccessContext, directory []model.Station) []model.Station {
	if CanSelectAllStations(ctx) {
		out := make([]model.Station, len(directory))
		copy(out, directory)
		return out
	}

	out := make([]model.Station, 0, len(directory))
	for _, st := range directory {
		if ctx.HasPermission(PermissionKeyForStation(st.Name)) || ctx.HasStationAccess(st.Name) {
			out = append(out, st)
		}
	}
	return out
}

// AccessibleStationNames is AccessibleStations reduced to names.
func AccessibleStationNames(ctx model.NormalizedAccessContext, directory []model.Station) []string {
	stations := AccessibleStations(ctx, directory)
	names := make([]string, len(stations))
	for i, st := range stations {
		names[i] = st.Name
	}
	return names
}

// StationOptions builds the selector options for the caller. The aggregate
// option, when requested and the caller is eligible, is always first.
func StationOptions(ctx model.NormalizedAccessContext, directory []model.Station, includeAggregate bool) []model.StationOption {
	accessible := AccessibleStations(ctx, directory)
	options := make([]model.StationOption, 0, len(accessible)+1)
	if includeAggregate && CanSelectAllStations(ctx) {
		options = append(options, model.AggregateOption())
	}
	for _, st := range accessible {
		options = append(options, model.OptionForStation(st))
	}
	return options
}

// ActionAllowances resolves the per-action booleans for one module from the
// registry rows. A disabled or empty registry fails open; a missing row in a
// populated registry fails closed.
func ActionAllowances(moduleKey string, rows []model.ModulePermission, registryEnabled bool) model.ActionSet {
	if !registryEnabled || len(rows) == 0 {
		return model.AllowAll()
	}
	for _, row := range rows {
		if row.ModuleKey == moduleKey {
			return model.ActionSet{
				CanCreate: row.CanCreate,
				CanEdit:   row.CanEdit,
				CanDelete: row.CanDelete,
				CanView:   row.CanView,
			}
		}
	}
	return model.ActionSet{}
}

// Project combines a normalized context, the station directory and the module
// registry into the full capability projection. Pure: the answer is a
// function of its inputs at a point in time and is never cached on its own.
func Project(ctx model.NormalizedAccessContext, directory []model.Station, moduleKey string, rows []model.ModulePermission, registryEnabled bool) model.CapabilityProjection {
	return model.CapabilityProjection{
		StationNames:         AccessibleStationNames(ctx, directory),
		CanSelectAllStations: CanSelectAllStations(ctx),
		Actions:              ActionAllowances(moduleKey, rows, registryEnabled),
	}
}
