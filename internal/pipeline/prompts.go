package pipeline

// --- Summary stage prompts ---
const chunkPromptTemplate = `You are a teaching assistant for lecture materials. Summarise the key concepts, definitions, conclusions and caveats of the text below in about 6 bullets.
audience=%s, purpose=%s. Do not over-compress; remove duplicates. Answer in the language of the text.

[Chunk %d/%d]
%s`

const summarySchema = `{"high_level":"...","sections":[{"title":"...","bullets":["...","..."]}]}`

const summaryPromptTemplate = `Role: teaching assistant writing the final lecture summary. Sources: text extracted by OCR plus the original file (PDF/PPT).
Task: return a high-level summary and per-section bullets as JSON only.
audience=%s, purpose=%s.
Schema: ` + summarySchema + `

[Evidence bullets]
%s`

const summarySimplePromptTemplate = `Briefly summarise the lecture text below and output a single JSON object only.
Schema: ` + summarySchema + `
Output JSON only.

[Text]
%s`

// --- Glossary stage prompts ---
const glossaryPromptTemplate = `Role: teaching assistant building a glossary. Using the summary and the original file, output only a JSON array of the 10 to 15 most important terms.
Element keys: term, definition, importance (one of "high", "medium", "low").
audience=%s, purpose=%s.

[Summary]
%s

[Body excerpt]
%s`

const glossarySimplePromptTemplate = `From the summary below, output only a JSON array of 10 to 15 key terms.
Every element must contain all of the keys {"term":"...","definition":"...","importance":"..."}.

[Summary]
%s`

// --- Questions stage prompts ---
const questionSchema = `- mcq: {"type":"mcq","stem":"...","choices":["A","B","C","D"],"answer":"...","rationale":"...","difficulty":"easy|medium|hard"}
- short: {"type":"short","stem":"...","answer":"...","rationale":"...","difficulty":"easy|medium|hard"}`

const questionsPromptTemplate = `Role: teaching assistant writing quiz items. Using the summary and the original file, output exactly 10 items as a JSON array only.
- 6 mcq items and 4 short items
` + questionSchema + `
audience=%s, purpose=%s. Nothing but JSON.

[Summary]
%s

[Body excerpt]
%s`

const questionsSimplePromptTemplate = `Based on the summary below, output exactly 10 items as a JSON array only: 6 mcq and 4 short.
` + questionSchema + `
Output JSON only.

[Summary]
%s`
