package dto

// ClaimResponse represents a single claim view. Views are maps because they
// carry derived fields such as the outstanding balance and days in AR.
type ClaimResponse struct {
	Data map[string]any `json:"data"`
}

// ListClaimsResponse represents a collection of claim views.
type ListClaimsResponse struct {
	Data []map[string]any `json:"data"`
}

// HistoryResponse represents a claim's status history.
type HistoryResponse struct {
	Data []map[string]any `json:"data"`
}

// DenialResponse represents a single denial view.
type DenialResponse struct {
	Data map[string]any `json:"data"`
}

// ListDenialsResponse represents a collection of denial views.
type ListDenialsResponse struct {
	Data []map[string]any `json:"data"`
}
