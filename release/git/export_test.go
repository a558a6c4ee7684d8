package git

// ParseLogForTest exposes parseLog for testing.
var ParseLogForTest = parseLog
