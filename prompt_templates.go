package adforge

import (
	"bytes"
	"fmt"
	"text/template"
)

var (
	researchPromptTemplate *template.Template
	copyPromptTemplate     *template.Template
)

func init() {
	var err error
	researchPromptTemplate, err = parseTemplate("research_prompt", researchPromptText)
	if err != nil {
		panic(err)
	}
	copyPromptTemplate, err = parseTemplate("copy_prompt", copyPromptText)
	if err != nil {
		panic(err)
	}
}

func executeTemplate(tmpl *template.Template, input any) (string, error) {
	var buffer bytes.Buffer
	if err := tmpl.Execute(&buffer, input); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buffer.String(), nil
}

func parseTemplate(name string, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return nil, err
	}
	return tmpl, nil
}

// ResearchPrompt renders the market research prompt for a brief.
func ResearchPrompt(brief CampaignBrief) (string, error) {
	return executeTemplate(researchPromptTemplate, brief)
}

type copyPromptData struct {
	Brief    CampaignBrief
	Research string
	Feedback string
}

// CopyPrompt renders the ad script prompt. Feedback is appended as an
// improvement request when non-empty.
func CopyPrompt(brief CampaignBrief, research Research, feedback string) (string, error) {
	return executeTemplate(copyPromptTemplate, copyPromptData{
		Brief:    brief,
		Research: research.Text,
		Feedback: feedback,
	})
}

var researchPromptText = `You are a marketing research expert. Analyze the product below and provide market research insights that a copywriter can build an ad on.

Product: {{ .ProductName }}
Description: {{ .Description }}
Target Audience: {{ .Audience }}

Cover:
1. The key pain points of the target audience
2. How competitors position similar products
3. Emotional and persuasive angles for this product
4. Recommendations for market positioning

Structure the response so it can feed directly into ad copy generation.
`

var copyPromptText = `You are a professional copywriter who writes short-form video ads for AI avatar (UGC-style) video generation. Write a 15-30 second ad script from the information below.

Product: {{ .Brief.ProductName }}
Description: {{ .Brief.Description }}
Target Audience: {{ .Brief.Audience }}
Tone: {{ .Brief.Tone }}

Market Research Insights:
{{ .Research }}
{{- if .Feedback }}

User Feedback for Improvement: {{ .Feedback }}
{{- end }}

Requirements:
- 15-30 seconds when spoken aloud
- One presenter speaking directly to camera, no multi-character scenes
- Short, clear sentences that sound natural when spoken, with natural pauses
- Scene directions and visual cues in square brackets, e.g. [Close-up: presenter smiles]
- Structure: Hook, Problem, Solution, Call-to-action
- Match the tone: {{ .Brief.Tone }}
- Address the pain points from the research
- Punchy, memorable and conversational

Example format:
[Scene: Presenter looking into the camera, confident]
"Tired of [problem]? So was I, until I found [product]..."

[Visual cue: product close-up]
"Here's why it changed everything..."

[Call to action]
"Get yours today and start [benefit]!"

Return only the script.
`
