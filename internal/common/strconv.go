package common

// ParseBool reports whether the value spells an affirmative flag.
func ParseBool(value string) bool {
	switch value {
	case "1", "t", "true", "True", "TRUE", "yes", "on":
		return true
	default:
		return false
	}
}
