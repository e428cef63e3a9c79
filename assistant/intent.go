// Package assistant turns chat messages into site actions and replies.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"ai_site_pipeline/contract"
	"ai_site_pipeline/provider"
	"ai_site_pipeline/site"
)

// IntentParser 把用户输入解析成 Command。
type IntentParser struct {
	llm provider.LLMClient
	log logrus.FieldLogger
}

func NewIntentParser(llm provider.LLMClient, logger logrus.FieldLogger) (*IntentParser, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &IntentParser{llm: llm, log: logger.WithField("component", "intent_parser")}, nil
}

// Parse has no degrade path: a reply that is not a valid Command is returned as an error.
func (p *IntentParser) Parse(ctx context.Context, utterance string, snapshot site.Site) (site.Command, error) {
	raw, err := p.llm.Complete(ctx, BuildIntentPrompt(utterance, snapshot))
	if err != nil {
		return site.Command{}, err
	}
	var cmd site.Command
	if err := contract.Decode(raw, &cmd); err != nil {
		return site.Command{}, fmt.Errorf("parse intent: %w", err)
	}
	p.log.WithFields(logrus.Fields{
		"intent":     cmd.Intent,
		"entity":     cmd.Entity,
		"confidence": cmd.Confidence,
	}).Debug("intent parsed")
	return cmd, nil
}

func BuildIntentPrompt(utterance string, snapshot site.Site) provider.Prompt {
	types := strings.Join(snapshot.SectionTypes(), ", ")
	user := fmt.Sprintf(`Analyze this user request for a website editor and extract the intent.

Current site context:
- Name: %s
- Sections: %s

User message: "%s"

Return ONLY a JSON object:
{
  "intent": "add|modify|delete|change|improve|question",
  "entity": "section|theme|content|layout|seo",
  "details": {
    "sectionType": "hero|features|etc (if applicable)",
    "property": "color|text|etc (if applicable)",
    "value": "new value (if applicable)"
  },
  "confidence": 0.0-1.0
}

Examples:
- "Add a pricing section" -> intent: add, entity: section, details: {sectionType: "pricing"}
- "Change the primary color to blue" -> intent: change, entity: theme, details: {property: "primary", value: "blue"}
- "Make the hero text more engaging" -> intent: improve, entity: content, details: {sectionType: "hero"}`,
		snapshot.Name, types, utterance)
	return provider.Prompt{
		Task: provider.TaskIntent,
		User: user,
		Args: map[string]string{
			"utterance": utterance,
			"siteName":  snapshot.Name,
			"sections":  types,
		},
	}
}
