package model

// Channel is the resolved target of an analysis request. Read-only after
// resolution.
type Channel struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Handle    string `json:"handle,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}
