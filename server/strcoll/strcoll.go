package strcoll

// Nth returns the nth element of slice, or "" and false if slice is too short.
func Nth(nth int, slice []string) (string, bool) {
	if nth >= 0 && len(slice) > nth {
		return slice[nth], true
	}
	return "", false
}

// Rest returns the elements of slice from nth on, never nil.
func Rest(nth int, slice []string) []string {
	if nth >= 0 && len(slice) > nth {
		return slice[nth:]
	}
	return make([]string, 0)
}

