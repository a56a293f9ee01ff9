// Package letters generates longer-form advocacy letters for marine
// conservation audience segments from synthetic marine-health metrics.
package letters

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OrganizationProfile describes one audience segment. Profiles are static
// configuration, never mutated at runtime.
type OrganizationProfile struct {
	Key            string   `yaml:"key" json:"key"`
	Name           string   `yaml:"name" json:"name"`
	TargetAudience string   `yaml:"target_audience" json:"target_audience"`
	Tone           string   `yaml:"tone" json:"tone"`
	FocusAreas     []string `yaml:"focus_areas" json:"focus_areas"`
	CallToAction   string   `yaml:"call_to_action" json:"call_to_action"`
	ContactInfo    string   `yaml:"contact_info" json:"contact_info"`
}

// Validate checks that the profile carries everything the prompt and the
// fallback template need.
func (p *OrganizationProfile) Validate() error {
	if p.Key == "" {
		return fmt.Errorf("organization profile missing key")
	}
	if p.Name == "" {
		return fmt.Errorf("organization %s: missing name", p.Key)
	}
	if p.TargetAudience == "" {
		return fmt.Errorf("organization %s: missing target audience", p.Key)
	}
	if len(p.FocusAreas) < 3 {
		return fmt.Errorf("organization %s: at least 3 focus areas required", p.Key)
	}
	if p.CallToAction == "" {
		return fmt.Errorf("organization %s: missing call to action", p.Key)
	}
	return nil
}

// DefaultProfiles returns the compiled-in audience segments.
func DefaultProfiles() []OrganizationProfile {
	return []OrganizationProfile{
		{
			Key:            "policy_makers",
			Name:           "Ocean Policy Institute",
			TargetAudience: "Government Officials, Policy Makers, Environmental Agencies",
			Tone:           "formal, evidence-based, diplomatic",
			FocusAreas:     []string{"policy reform", "international cooperation", "regulatory frameworks", "funding allocation"},
			CallToAction:   "implement stronger marine protection policies and increase funding",
			ContactInfo:    "dheunsac@gmail.com",
		},
		{
			Key:            "industry_leaders",
			Name:           "Sustainable Marine Industries Coalition",
			TargetAudience: "Corporate Leaders, Manufacturing, Shipping, Energy Companies",
			Tone:           "business-focused, solution-oriented, collaborative",
			FocusAreas:     []string{"sustainable practices", "green technology", "corporate responsibility", "economic benefits"},
			CallToAction:   "adopt sustainable practices and invest in clean marine technologies",
			ContactInfo:    "dheunsac@gmail.com",
		},
		{
			Key:            "communities",
			Name:           "Coastal Communities Alliance",
			TargetAudience: "Local Communities, Volunteers, Community Leaders, Residents",
			Tone:           "passionate, community-focused, inspiring",
			FocusAreas:     []string{"grassroots action", "local impact", "community engagement", "educational programs"},
			CallToAction:   "join local conservation efforts and engage in community marine protection",
			ContactInfo:    "dheunsac@gmail.com",
		},
	}
}

// LoadProfiles reads organization profiles from a YAML file. A missing file
// falls back to the compiled-in defaults; a present but invalid file is a
// configuration error.
func LoadProfiles(path string) ([]OrganizationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultProfiles(), nil
		}
		return nil, fmt.Errorf("reading profiles file: %w", err)
	}

	var doc struct {
		Organizations []OrganizationProfile `yaml:"organizations"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing profiles file: %w", err)
	}
	if len(doc.Organizations) == 0 {
		return nil, fmt.Errorf("profiles file %s defines no organizations", path)
	}

	for i := range doc.Organizations {
		if err := doc.Organizations[i].Validate(); err != nil {
			return nil, err
		}
	}
	return doc.Organizations, nil
}
