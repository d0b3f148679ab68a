package models

// Quote is one entry from the external random-quote feed shown on the
// landing page.
type Quote struct {
	ID     int    `json:"id"`
	Author string `json:"author"`
	Quote  string `json:"quote"`
}
