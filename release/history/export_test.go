package history

// MaxCandidatesForTest exposes the candidate cap for testing.
const MaxCandidatesForTest = maxCandidates
