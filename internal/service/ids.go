package service

import "strconv"

// parseID parses a numeric path parameter. Unparseable ids are handled
// by callers as "not found" so the raw value can be echoed back.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
