package matchmaking

// Proposal is a request to play someone.
type Proposal struct {
	// Date is the scheduled start in RFC 3339.
	Date   string `json:"date"`
	To     string `json:"to"`
	Sport  string `json:"sport"`
	League string `json:"league,omitempty"`
	Round  *int   `json:"round,omitempty"`
}
