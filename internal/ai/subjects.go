package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/leadpilot/leadpilot/pkg/models"
)

const subjectSystemPrompt = `You write cold outreach email subject lines.
Respond with exactly one subject line and nothing else: no quotes,
no numbering, no commentary. Keep it under 60 characters.`

// GenerateSubject proposes a subject line for the lead, conditioned on
// subjects that converted historically.
func (c *Client) GenerateSubject(ctx context.Context, businessType string, lead models.Lead, winners []string) (string, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Business type: %s\n", businessType)
	if lead.Name != "" {
		fmt.Fprintf(&prompt, "Lead name: %s\n", lead.Name)
	}
	prompt.WriteString("\nSubject lines that converted before:\n")
	for _, w := range winners {
		fmt.Fprintf(&prompt, "- %s\n", w)
	}
	prompt.WriteString("\nWrite one new subject line in the same style.")

	resp, err := c.complete(ctx, subjectSystemPrompt, prompt.String())
	if err != nil {
		return "", err
	}

	subject := firstLine(stripFences(resp))
	if subject == "" {
		return "", fmt.Errorf("empty subject from generator")
	}
	return subject, nil
}

// firstLine returns the first non-empty line, trimmed of quotes.
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.Trim(strings.TrimSpace(line), `"'`)
		if line != "" {
			return line
		}
	}
	return ""
}
