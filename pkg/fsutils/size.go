package fsutils

import "strconv"

var sizeUnits = []string{"KB", "MB", "GB", "TB"}

// GetSizeShortText returns a human readable size string, rounded to the nearest unit.
func GetSizeShortText(size int64) string {
	const unit = 1024
	if size < unit {
		return strconv.FormatInt(size, 10) + "B"
	}
	last := len(sizeUnits) - 1
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit && exp < last; n /= unit {
		div *= unit
		exp++
	}
	val := (size + div/2) / div
	if val >= unit && exp < last {
		val /= unit
		exp++
	}
	return strconv.FormatInt(val, 10) + sizeUnits[exp]
}

// EntrySizeText is the size column of a listing: blank for directories.
func EntrySizeText(isDir bool, size int64) string {
	if isDir {
		return ""
	}
	return GetSizeShortText(size)
}
