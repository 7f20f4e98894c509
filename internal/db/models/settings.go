package models

// SummarizerSettings are the runtime knobs of the summarization dispatcher.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type SummarizerSettings struct {
	Model             string  `json:"model"`
	MaxTokens         int     `json:"max_tokens"`
	Temperature       float64 `json:"temperature"`
	PreferredProvider string  `json:"preferred_provider"`
	ChapterAwareness  bool    `json:"enable_chapter_awareness"`
	MetadataInclusion bool    `json:"enable_metadata_inclusion"`
	ClickableChapters bool    `json:"enable_clickable_chapters"`
}

// ImportSettings control which steps run when a video is imported.
type ImportSettings struct {
	TranscriptExtraction bool `json:"enable_transcript_extraction"`
	AutoSummary          bool `json:"enable_auto_summary"`
	ChapterExtraction    bool `json:"enable_chapter_extraction"`
}
