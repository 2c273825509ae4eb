package logsearch

// daysPerYear is the spread assumed by estimate. Leap years put December
// 31st at size, which recordStart clamps.
const daysPerYear = 365

// estimate guesses where key's records begin, assuming a year of logs
// spread evenly by day. It only decides where the search starts; a bad
// guess costs probes, never correctness.
func estimate(data []byte, key DateKey) int64 {
	size := int64(len(data))
	if key.IsZero() || size == 0 {
		return 0
	}
	day := int64(key.YearDay())
	pos := size/daysPerYear*day + size%daysPerYear*day/daysPerYear
	if pos > size {
		pos = size
	}
	for pos > 0 && data[pos-1] != '\n' {
		pos--
	}
	return pos
}
