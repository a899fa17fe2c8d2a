package providers

// CompletionResponse is the raw completion handed back by a classification
// upstream. Response is the model text the verdict parser consumes; the
// surrounding fields are kept for logging and audit.
type CompletionResponse struct {
	ID       string `json:"id"`
	Model    string `json:"model"`
	Response string `json:"response"`
	Usage    Usage  `json:"usage"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
