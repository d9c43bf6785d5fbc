package domain

// Recommendation pairs a product with a human-readable justification.
// Explanation is always populated; when the generative service cannot
// produce one a templated fallback is used instead.
type Recommendation struct {
	Product     Product `json:"product"`
	Explanation string  `json:"explanation"`
}

// HistoryItem is the slice of a user's history handed to the explanation
// client for prompt construction.
type HistoryItem struct {
	Category string `json:"category"`
	Action   string `json:"action"`
}
