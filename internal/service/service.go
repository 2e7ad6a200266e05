package service

const (
	defaultLimit = 20
	maxLimit     = 100
)

// clampLimit keeps client-supplied page sizes within sane bounds.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func clampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
