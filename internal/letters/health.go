package letters

import (
	"fmt"
	"math/rand"
)

// HealthSnapshot is one synthetic reading of the marine-health index used as
// letter material.
type HealthSnapshot struct {
	Index         float64  `json:"index"`
	Region        string   `json:"region"`
	Coordinates   string   `json:"coordinates"`
	Severity      string   `json:"severity"`
	Urgency       string   `json:"urgency"`
	RecentChanges string   `json:"recent_changes"`
	KeyIssues     []string `json:"key_issues"`
}

const (
	baseIndex      = 78.4
	indexVariation = 5.0
)

// issuePool is the fixed set of observations a snapshot samples from.
var issuePool = []string{
	"microplastic contamination increasing by 12%",
	"coral bleaching events in 34% of monitored reefs",
	"fish population decline in commercial zones",
	"coastal water quality improvements in urban areas",
	"successful marine protected area expansions",
	"renewable energy adoption in shipping industry",
}

// NewHealthSnapshot produces a synthetic reading: the base index plus a
// uniform variation, clamped to [0,100], with three issues sampled from the
// pool.
func NewHealthSnapshot(rng *rand.Rand) HealthSnapshot {
	variation := (rng.Float64()*2 - 1) * indexVariation
	index := baseIndex + variation
	if index < 0 {
		index = 0
	}
	if index > 100 {
		index = 100
	}

	severity, urgency := SeverityBand(index)

	perm := rng.Perm(len(issuePool))
	issues := make([]string, 3)
	for i := 0; i < 3; i++ {
		issues[i] = issuePool[perm[i]]
	}

	return HealthSnapshot{
		Index:         index,
		Region:        "Bay of Bengal",
		Coordinates:   "21.0000° N, 90.0000° E",
		Severity:      severity,
		Urgency:       urgency,
		RecentChanges: fmt.Sprintf("Index changed by %+.1f points in the last 30 days", variation),
		KeyIssues:     issues,
	}
}

// SeverityBand maps an index value to its severity label and urgency line.
// Band boundaries sit at 80, 60, 40, and 20.
func SeverityBand(index float64) (severity, urgency string) {
	switch {
	case index >= 80:
		return "Excellent", "CONTINUE EXCELLENT PRACTICES"
	case index >= 60:
		return "Good", "MAINTAIN CURRENT EFFORTS"
	case index >= 40:
		return "Fair", "IMPROVEMENT NEEDED"
	case index >= 20:
		return "Poor", "URGENT ACTION REQUIRED"
	default:
		return "Critical", "IMMEDIATE INTERVENTION"
	}
}
