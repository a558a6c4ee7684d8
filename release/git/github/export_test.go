package github

// ConvertPRForTest exposes convertPR for testing.
var ConvertPRForTest = convertPR
