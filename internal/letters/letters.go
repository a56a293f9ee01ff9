package letters

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidelabs/oceanvoice/internal/genai"
)

// SystemPrompt is the system message for the letter-writing model.
const SystemPrompt = "You are an expert marine conservation advocate and professional letter writer."

// DefaultPace is the delay between letters, easing off the generation API.
const DefaultPace = time.Second

// Report is the artifact of one letters run, persisted alongside the letter
// files as daily_report_{date}.json.
type Report struct {
	GeneratedDate string                         `json:"generated_date"`
	Snapshot      HealthSnapshot                 `json:"snapshot"`
	Letters       map[string]string              `json:"letters"`
	Organizations map[string]OrganizationProfile `json:"organizations"`
}

// Generator produces one advocacy letter per organization profile and writes
// the letters plus a daily report to the output directory.
type Generator struct {
	gen       genai.Generator
	profiles  []OrganizationProfile
	outputDir string
	pace      time.Duration
	logger    *slog.Logger
	now       func() time.Time
	rng       *rand.Rand
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithPace sets the delay between letters.
func WithPace(pace time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.pace = pace
	}
}

// WithClock overrides the timestamp source. Used by tests.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.now = now
	}
}

// WithRand overrides the randomness source. Used by tests.
func WithRand(rng *rand.Rand) GeneratorOption {
	return func(g *Generator) {
		g.rng = rng
	}
}

// NewGenerator creates a letters generator writing into outputDir.
func NewGenerator(gen genai.Generator, profiles []OrganizationProfile, outputDir string, logger *slog.Logger, opts ...GeneratorOption) (*Generator, error) {
	if len(profiles) == 0 {
		return nil, fmt.Errorf("at least one organization profile is required")
	}
	for i := range profiles {
		if err := profiles[i].Validate(); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	g := &Generator{
		gen:       gen,
		profiles:  profiles,
		outputDir: outputDir,
		pace:      DefaultPace,
		logger:    logger.With("component", "letters"),
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Run takes one health snapshot, generates a letter per organization, writes
// each to its own file, and saves the daily report. A generation failure for
// any organization substitutes the deterministic fallback letter and is
// reported on the log; only file I/O errors abort the run.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	snapshot := NewHealthSnapshot(g.rng)
	g.logger.Info("marine health snapshot taken",
		"index", fmt.Sprintf("%.1f", snapshot.Index),
		"severity", snapshot.Severity,
		"urgency", snapshot.Urgency,
	)

	report := &Report{
		GeneratedDate: g.now().Format(time.RFC3339),
		Snapshot:      snapshot,
		Letters:       make(map[string]string, len(g.profiles)),
		Organizations: make(map[string]OrganizationProfile, len(g.profiles)),
	}

	for i, org := range g.profiles {
		g.logger.Info("generating letter", "organization", org.Name)

		body, err := g.gen.Generate(ctx, LetterPrompt(org, snapshot))
		if err != nil {
			g.logger.Error("letter generation failed, using fallback template",
				"organization", org.Name, "error", err)
			body = FallbackLetter(org, snapshot)
		}

		letter := fmt.Sprintf("Date: %s\n\n%s", g.now().Format("January 2, 2006"), body)
		report.Letters[org.Key] = letter
		report.Organizations[org.Key] = org

		filename := filepath.Join(g.outputDir,
			fmt.Sprintf("letter_%s_%s.txt", org.Key, g.now().Format("20060102_150405")))
		if err := os.WriteFile(filename, []byte(letter), 0o644); err != nil {
			return nil, fmt.Errorf("writing letter file: %w", err)
		}
		g.logger.Info("letter saved", "organization", org.Name, "file", filename)

		if g.pace > 0 && i < len(g.profiles)-1 {
			select {
			case <-time.After(g.pace):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if err := g.saveReport(report); err != nil {
		return nil, err
	}
	return report, nil
}

// saveReport writes the daily report JSON next to the letters.
func (g *Generator) saveReport(report *Report) error {
	filename := filepath.Join(g.outputDir,
		fmt.Sprintf("daily_report_%s.json", g.now().Format("2006-01-02")))

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding daily report: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing daily report: %w", err)
	}

	g.logger.Info("daily report saved", "file", filename)
	return nil
}

// LetterPrompt builds the advocacy-letter prompt for one organization.
func LetterPrompt(org OrganizationProfile, snapshot HealthSnapshot) string {
	return fmt.Sprintf(`Write a professional advocacy letter for marine conservation from %s to %s.
Don't use any personal names or positions. After "Sincerely yours," just write SARgonauts and their email address.

CURRENT MARINE HEALTH DATA:
- SARgonauts Index: %.1f/100
- Status: %s
- Region: %s (%s)
- Urgency Level: %s
- Recent Changes: %s
- Key Issues: %s

ORGANIZATION PROFILE:
- Name: %s
- Target Audience: %s
- Tone: %s
- Focus Areas: %s
- Main Call to Action: %s
- Contact: %s

Make it compelling, data-driven, professional, 400-600 words. Respond with only the letter text, no preamble or word count.`,
		org.Name, org.TargetAudience,
		snapshot.Index, snapshot.Severity, snapshot.Region, snapshot.Coordinates,
		snapshot.Urgency, snapshot.RecentChanges, strings.Join(snapshot.KeyIssues, ", "),
		org.Name, org.TargetAudience, org.Tone, strings.Join(org.FocusAreas, ", "),
		org.CallToAction, org.ContactInfo)
}

// FallbackLetter is the deterministic letter used when the generation
// service fails.
func FallbackLetter(org OrganizationProfile, snapshot HealthSnapshot) string {
	var issues strings.Builder
	for _, issue := range snapshot.KeyIssues {
		issues.WriteString("• ")
		issues.WriteString(titleCase(issue))
		issues.WriteString("\n")
	}

	var actions strings.Builder
	actionNotes := []string{
		"Implement enhanced monitoring systems",
		"Increase resource allocation",
		"Establish new partnerships",
	}
	for i := 0; i < 3 && i < len(org.FocusAreas); i++ {
		actions.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, titleCase(org.FocusAreas[i]), actionNotes[i]))
	}

	return fmt.Sprintf(`%s
Marine Conservation Advocacy Division

Dear %s,

Subject: Urgent Action Required - Marine Health Status Update for %s

Our latest marine health assessment reveals a SARgonauts Index of %.1f/100 for the %s region, indicating %s conditions.

KEY ISSUES:
%s
RECOMMENDED IMMEDIATE ACTIONS:
%s
We urge you to %s within the next 30 days.

Sincerely yours,
SARgonauts
%s`,
		org.Name,
		org.TargetAudience,
		snapshot.Region,
		snapshot.Index, snapshot.Region, strings.ToLower(snapshot.Severity),
		issues.String(),
		actions.String(),
		org.CallToAction,
		org.ContactInfo)
}

// titleCase uppercases the first letter of every word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 && r[0] >= 'a' && r[0] <= 'z' {
			r[0] = r[0] - 'a' + 'A'
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
