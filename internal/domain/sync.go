package domain

// SyncResult is the outcome of one sync attempt for one integration.
// It is transient and never persisted.
type SyncResult struct {
	IntegrationID string `json:"integration_id"`
	Count         int    `json:"count"`
	Error         string `json:"error,omitempty"`
}

// BatchResult aggregates the per-integration results of a scheduled batch
// run. Success reflects whether the batch itself ran; individual entries
// carry their own errors.
type BatchResult struct {
	Success      bool         `json:"success"`
	Integrations int          `json:"integrations"`
	Orders       int          `json:"orders"`
	Results      []SyncResult `json:"results"`
}
