// Package insight produces canned advisory content for the Zoe assistant until a live model is wired in.
package insight

import (
	"strings"
	"unicode/utf8"
)

// MaxChunkLen is the largest chunk, in characters, built by merging consecutive paragraphs.
const MaxChunkLen = 400

// ApplicationStatus is a step of the application lifecycle in the managed schema.
type ApplicationStatus string

const (
	StatusDraft     ApplicationStatus = "draft"
	StatusSubmitted ApplicationStatus = "submitted"
	StatusScreening ApplicationStatus = "screening"
	StatusOffer     ApplicationStatus = "offer"
	StatusVisa      ApplicationStatus = "visa"
	StatusEnrolled  ApplicationStatus = "enrolled"
	StatusWithdrawn ApplicationStatus = "withdrawn"
	StatusDeferred  ApplicationStatus = "deferred"
)

type (
	Request struct {
		Context string `json:"context" validate:"max=2000"`
	}

	Insight struct {
		Context string   `json:"context"`
		Content string   `json:"content"`
		Chunks  []string `json:"chunks"`
	}
)

const applicationsTemplate = `## Application pipeline overview

Your pipeline is moving steadily. Most applications are between **submitted** and **screening**, which is typical for this point of the intake cycle.

### What to focus on
- Follow up on applications that have been in screening for more than two weeks.
- Make sure every draft has its transcripts and personal statement attached before submission.
- Prioritise students with conditional offers: outstanding documents are the most common reason offers lapse.

### Next steps
Review the applications awaiting documents and send reminders today. Students who receive a reminder within 48 hours are far more likely to complete their file before the deadline.`

const visaTemplate = `## Visa readiness

Several students have moved from **offer** to **visa** stage. This is where delays most often happen, so early preparation matters.

### Checklist
- Confirm each student has their acceptance letter and proof of funds.
- Check passport validity: most embassies require at least six months beyond the intended stay.
- Book biometrics appointments as early as possible during peak season.

### Tip
Share the country-specific visa guide with each student and ask them to confirm their appointment date so you can track progress in the dashboard.`

const defaultTemplate = `## Hello, I'm Zoe

I can help you understand your applications, upcoming deadlines and the next best actions for your students.

### Things you can ask me
- "How is my application pipeline looking?"
- "Which students need help with their visa?"
- "What should I prioritise this week?"

### Getting started
Open any application to see its current stage, or ask me a question about your pipeline and I will summarise what needs your attention.`

// Generate picks the template matching ctx and splits it into display chunks.
func Generate(ctx string) Insight {
	content := templateFor(ctx)
	return Insight{Context: ctx, Content: content, Chunks: Chunk(content, MaxChunkLen)}
}

func templateFor(ctx string) string {
	lower := strings.ToLower(ctx)
	switch {
	case strings.Contains(lower, "visa"):
		return visaTemplate
	case strings.Contains(lower, "application") || containsStatus(lower):
		return applicationsTemplate
	default:
		return defaultTemplate
	}
}

func containsStatus(s string) bool {
	for _, st := range []ApplicationStatus{StatusSubmitted, StatusScreening, StatusOffer} {
		if strings.Contains(s, string(st)) {
			return true
		}
	}
	return false
}

// Chunk splits text into paragraphs and merges consecutive ones while the result stays within max characters.
// A single paragraph longer than max becomes its own chunk.
func Chunk(text string, max int) []string {
	chunks := make([]string, 0)
	var current string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		if current == "" {
			current = p
			continue
		}
		if utf8.RuneCountInString(current)+2+utf8.RuneCountInString(p) <= max {
			current += "\n\n" + p
			continue
		}
		chunks = append(chunks, current)
		current = p
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}
