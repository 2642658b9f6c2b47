package utils

// ContainsString reports whether value occurs in slice.
func ContainsString(slice []string, value string) bool {
	for _, s := range slice {
		if s == value {
			return true
		}
	}
	return false
}
