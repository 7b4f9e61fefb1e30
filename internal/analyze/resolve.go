package analyze

import "strings"

// ResolveColumn finds the column to group by.
//
// An exact match wins. Otherwise the first column, scanning in order, that
// ends with requested or contains it is returned; no scoring is applied, so
// "id" on [incident_id, id_alt] resolves to incident_id.
func ResolveColumn(columns []string, requested string) (string, error) {
	for _, c := range columns {
		if c == requested {
			return c, nil
		}
	}
	for _, c := range columns {
		if strings.HasSuffix(c, requested) || strings.Contains(c, requested) {
			return c, nil
		}
	}
	return "", newFieldNotFound(requested, columns)
}
