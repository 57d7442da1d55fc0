package analyzer

import "changelog-lint/internal/models"

// IsBreaking reports whether event can break running service instances
// during a rolling deployment. all must hold every event extracted from
// every input file: the NOT NULL rule checks whether the constrained table
// is created anywhere in the same run, regardless of change-set order.
func IsBreaking(event models.ChangeEvent, all []models.ChangeEvent) bool {
	switch event.Kind {
	case models.TableCreated:
		return false
	case models.TableDropped, models.ColumnDropped:
		return true
	case models.NotNullAdded:
		for _, other := range all {
			if other.Kind == models.TableCreated && other.Table == event.Table {
				return false
			}
		}
		return true
	}
	return false
}
