package models

import "time"

// LowTextThreshold is the character count below which a page is flagged as
// likely under-extracted (image-only slides, scanned figures).
const LowTextThreshold = 200

// Document is the extraction result for one uploaded lecture file.
// It is produced once per upload and is not modified afterwards.
type Document struct {
	FullText     string `json:"full_text"`
	Pages        []Page `json:"pages"`
	LowTextPages []int  `json:"low_text_pages"`
	TablesTotal  int    `json:"tables_total"`
}

// Page holds the per-page extraction metadata. Index is 1-based.
type Page struct {
	Index          int      `json:"index"`
	Text           string   `json:"text"`
	CharCount      int      `json:"char_count"`
	WordCount      int      `json:"word_count"`
	LowText        bool     `json:"low_text"`
	TablesMarkdown []string `json:"tables_markdown"`
}

// Job status values written to Firestore while a lecture is processed.
const (
	JobStatusReceived   = "RECEIVED"
	JobStatusExtracting = "EXTRACTING"
	JobStatusGenerating = "GENERATING"
	JobStatusComplete   = "COMPLETE"
	JobStatusFailed     = "FAILED"
)

// Job represents the Firestore record of one lecture processing run.
type Job struct {
	OriginalFilename string    `firestore:"originalFilename,omitempty"`
	SourceURI        string    `firestore:"sourceUri,omitempty"`
	Audience         string    `firestore:"audience,omitempty"`
	Purpose          string    `firestore:"purpose,omitempty"`
	Status           string    `firestore:"status,omitempty"`
	ErrorDetails     string    `firestore:"errorDetails,omitempty"`
	PageCount        int       `firestore:"pageCount,omitempty"`
	ExecutionID      string    `firestore:"executionId,omitempty"` // For traceability
	CreatedAt        time.Time `firestore:"createdAt,omitempty"`
}
