package respond

import "strconv"

// formatUint renders n as decimal ASCII with no leading zeros or sign, for
// the automatic Content-Length header.
func formatUint(n uint64) string {
	return strconv.FormatUint(n, 10)
}
