package adforge

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// CampaignBrief holds the product facts gathered once per run.
type CampaignBrief struct {
	ProductName string `json:"product_name"`
	Description string `json:"description"`
	Audience    string `json:"audience"`
	Tone        string `json:"tone"`
}

// Validate returns an error naming every empty field.
func (b CampaignBrief) Validate() error {
	var missing []string
	if strings.TrimSpace(b.ProductName) == "" {
		missing = append(missing, "product name")
	}
	if strings.TrimSpace(b.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(b.Audience) == "" {
		missing = append(missing, "audience")
	}
	if strings.TrimSpace(b.Tone) == "" {
		missing = append(missing, "tone")
	}
	if len(missing) > 0 {
		return fmt.Errorf("campaign brief is missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Research is free-text market analysis. It is only ever passed back to the
// model as context.
type Research struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

// Script is the spoken ad copy with bracketed stage directions. Revision
// counts generation steps: 0 means the script was never generated.
type Script struct {
	Text     string `json:"text"`
	Revision int    `json:"revision"`

	// Feedback is the note that produced this revision, if any.
	Feedback string `json:"feedback,omitempty"`
}

var stageDirection = regexp.MustCompile(`\[[^\[\]]+\]`)

// Cues returns the bracketed stage directions in the script.
func (s *Script) Cues() []string {
	if s == nil {
		return nil
	}
	return stageDirection.FindAllString(s.Text, -1)
}

// Generated reports whether the script came out of at least one generation
// step.
func (s *Script) Generated() bool {
	return s != nil && s.Revision > 0 && strings.TrimSpace(s.Text) != ""
}

// ErrScriptNotGenerated is returned when rendering is attempted on a script
// that never passed through generation.
var ErrScriptNotGenerated = errors.New("script has not been generated")
