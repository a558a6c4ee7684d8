package cutter

// CandidateBranchForTest exposes candidateBranch for testing.
var CandidateBranchForTest = candidateBranch
