package gitlab

// ConvertMRForTest exposes convertMR for testing.
var ConvertMRForTest = convertMR
