// Package lead derives placeholder qualification scores for prospective students.
// Scores are a deterministic function of the lead's own fields; they carry no external signal.
package lead

import (
	"math"
	"strings"
)

type Level string

const (
	LevelHot  Level = "hot"
	LevelWarm Level = "warm"
	LevelCold Level = "cold"
)

type (
	Lead struct {
		Name    string `json:"name" validate:"required,notblank,singleline,max=200"`
		Email   string `json:"email" validate:"required,email,max=255"`
		Country string `json:"country" validate:"max=100"`
		Program string `json:"program" validate:"max=200"`
		Source  string `json:"source" validate:"max=100"`
	}

	Qualification struct {
		Engagement    int   `json:"engagementScore"`
		Fit           int   `json:"fitScore"`
		Intent        int   `json:"intentScore"`
		Readiness     int   `json:"readinessScore"`
		PriorityScore int   `json:"priorityScore"`
		PriorityLevel Level `json:"priorityLevel"`
	}

	wave struct{ freq, phase float64 }
)

var (
	engagementWave = wave{freq: 0.013, phase: 0.0}
	fitWave        = wave{freq: 0.021, phase: 1.3}
	intentWave     = wave{freq: 0.034, phase: 2.1}
	readinessWave  = wave{freq: 0.055, phase: 3.7}
)

// Fingerprint is the sum of the code points of the lower-cased, pipe-joined fields.
func Fingerprint(l Lead) int {
	s := strings.ToLower(strings.Join([]string{l.Name, l.Email, l.Country, l.Program, l.Source}, "|"))
	var sum int
	for _, r := range s {
		sum += int(r)
	}
	return sum
}

// Qualify scores l. Identical leads always get identical scores.
func Qualify(l Lead) Qualification {
	fp := float64(Fingerprint(l))
	q := Qualification{
		Engagement: engagementWave.score(fp),
		Fit:        fitWave.score(fp),
		Intent:     intentWave.score(fp),
		Readiness:  readinessWave.score(fp),
	}
	priority := 0.30*float64(q.Engagement) + 0.30*float64(q.Fit) + 0.25*float64(q.Intent) + 0.15*float64(q.Readiness)
	q.PriorityScore = clamp(int(math.Round(priority)))
	q.PriorityLevel = levelFor(q.PriorityScore)
	return q
}

func (w wave) score(fp float64) int {
	return clamp(int(math.Round(50 + 50*math.Sin(fp*w.freq+w.phase))))
}

func levelFor(score int) Level {
	switch {
	case score >= 75:
		return LevelHot
	case score >= 50:
		return LevelWarm
	default:
		return LevelCold
	}
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func (l *Lead) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = strings.TrimSpace(l.Email)
	l.Country = strings.TrimSpace(l.Country)
	l.Program = strings.TrimSpace(l.Program)
	l.Source = strings.TrimSpace(l.Source)
}
