package models

// Chapter is a named section boundary within a video. Time is in whole seconds.
type Chapter struct {
	Title string `json:"title"`
	Time  int    `json:"time"`
}
