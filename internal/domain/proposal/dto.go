package proposal

type ExecutionResponse struct {
	ProposalID string `json:"proposal_id"`
	Type       string `json:"type"`
	Source     string `json:"source"`
	Processed  int    `json:"processed"`
	Failed     int    `json:"failed"`
}
