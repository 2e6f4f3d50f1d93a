package unidiff

// PrefixLength returns the number of marker columns at the start of each raw line.
func PrefixLength(isCombined bool) int {
	if isCombined {
		return 2
	}
	return 1
}

// DeconstructLine splits raw line content into its marker prefix and body. Content shorter than the prefix yields all of it as the prefix and an empty body.
func DeconstructLine(content string, isCombined bool) (prefix string, body string) {
	n := PrefixLength(isCombined)
	if len(content) <= n {
		return content, ""
	}
	return content[:n], content[n:]
}
