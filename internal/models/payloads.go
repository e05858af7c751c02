package models

// These structs define the JSON payloads returned by the upload function and
// written by the event function.

// Audience values accepted by the upload endpoint.
const (
	AudienceNovice       = "novice"
	AudienceIntermediate = "intermediate"
)

// Purpose values accepted by the upload endpoint.
const (
	PurposeUnderstanding = "understanding"
	PurposeExam          = "exam"
)

// LectureRequest is the validated input of one upload.
type LectureRequest struct {
	Filename    string
	ContentType string
	LocalPath   string
	Audience    string
	Purpose     string
	Mode        string
	ExecutionID string
	// SourceURI is set when the file already lives in GCS.
	SourceURI string
}

// Meta describes the extracted document.
type Meta struct {
	PageCount    int   `json:"pageCount"`
	LowTextPages []int `json:"lowTextPages"`
	TablesTotal  int   `json:"tablesTotal"`
}

// Counts reports the sizes of the generated lists.
type Counts struct {
	Terms           int `json:"terms"`
	Questions       int `json:"questions"`
	SummarySections int `json:"summarySections"`
}

// LectureResponse is the flattened response of the upload endpoint.
// Terms duplicates Glossary for older clients.
type LectureResponse struct {
	Meta      Meta            `json:"meta"`
	Summary   Summary         `json:"summary"`
	Glossary  []GlossaryEntry `json:"glossary"`
	Terms     []GlossaryEntry `json:"terms"`
	Questions []QuestionItem  `json:"questions"`
	Counts    Counts          `json:"counts"`
}

// NewLectureResponse flattens a document and a pipeline result.
func NewLectureResponse(doc *Document, res *PipelineResult) *LectureResponse {
	lowText := doc.LowTextPages
	if lowText == nil {
		lowText = []int{}
	}
	return &LectureResponse{
		Meta: Meta{
			PageCount:    len(doc.Pages),
			LowTextPages: lowText,
			TablesTotal:  doc.TablesTotal,
		},
		Summary:   res.Summary,
		Glossary:  res.Glossary,
		Terms:     res.Glossary,
		Questions: res.Questions,
		Counts: Counts{
			Terms:           len(res.Glossary),
			Questions:       len(res.Questions),
			SummarySections: len(res.Summary.Sections),
		},
	}
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Message string `json:"message"`
	Project string `json:"project"`
}
