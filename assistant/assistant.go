package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ai_site_pipeline/generator"
	"ai_site_pipeline/provider"
	"ai_site_pipeline/site"
)

const (
	fallbackConfirmation = "I'll make that change for you."
	needMoreInformation  = "I understand, but I need more information to help with that. Can you be more specific?"
)

// Preferences are optional hints about the site owner.
type Preferences struct {
	Style    string `json:"style"`
	Industry string `json:"industry"`
}

// ContextUpdate replaces the non-nil fields of the assistant context.
type ContextUpdate struct {
	Site        *site.Site
	Preferences *Preferences
}

// Assistant 持有一次编辑会话的上下文和对话历史。
// It is not safe for concurrent use; callers serialize ProcessMessage per instance.
type Assistant struct {
	llm     provider.LLMClient
	intents *IntentParser
	synth   *Synthesizer
	log     logrus.FieldLogger

	site    site.Site
	prefs   *Preferences
	history []site.ConversationTurn

	now func() time.Time
}

// New wires an assistant over llm for the given site snapshot.
func New(llm provider.LLMClient, snapshot site.Site, logger logrus.FieldLogger) (*Assistant, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	intents, err := NewIntentParser(llm, logger)
	if err != nil {
		return nil, err
	}
	content, err := generator.NewContentGenerator(llm, logger)
	if err != nil {
		return nil, err
	}
	improver, err := generator.NewContentImprover(llm, logger)
	if err != nil {
		return nil, err
	}
	synth, err := NewSynthesizer(content, improver, logger)
	if err != nil {
		return nil, err
	}
	return &Assistant{
		llm:     llm,
		intents: intents,
		synth:   synth,
		log:     logger.WithField("component", "assistant"),
		site:    snapshot.Clone(),
		now:     time.Now,
	}, nil
}

// ProcessMessage parses text, synthesizes at most one action and returns the assistant turn.
// On success exactly one user turn and one assistant turn are appended, in that order.
// On error history is left untouched.
func (a *Assistant) ProcessMessage(ctx context.Context, text string) (site.ConversationTurn, error) {
	userTurn := site.ConversationTurn{
		ID:        uuid.NewString(),
		Role:      site.RoleUser,
		Content:   text,
		Timestamp: a.now(),
	}

	cmd, err := a.intents.Parse(ctx, text, a.site)
	if err != nil {
		return site.ConversationTurn{}, err
	}

	var (
		reply  string
		action *site.Action
	)
	if cmd.Actionable() {
		action, err = a.synth.Build(ctx, cmd, a.site)
		if err != nil {
			return site.ConversationTurn{}, err
		}
		reply = confirmation(cmd, action)
	} else {
		reply, err = a.answer(ctx, text)
		if err != nil {
			return site.ConversationTurn{}, fmt.Errorf("answer question: %w", err)
		}
	}

	turn := site.ConversationTurn{
		ID:        uuid.NewString(),
		Role:      site.RoleAssistant,
		Content:   reply,
		Timestamp: a.now(),
		Action:    action,
	}
	a.history = append(a.history, userTurn, turn)

	fields := logrus.Fields{"intent": cmd.Intent, "entity": cmd.Entity, "confidence": cmd.Confidence}
	if action != nil {
		fields["action"] = action.Type
	}
	a.log.WithFields(fields).Info("message processed")
	return turn, nil
}

func (a *Assistant) answer(ctx context.Context, question string) (string, error) {
	user := fmt.Sprintf(`You are a helpful website builder assistant. Answer this question:

User: %s

Context: The user is editing a website called "%s".`, question, a.site.Name)
	if a.prefs != nil && (a.prefs.Style != "" || a.prefs.Industry != "") {
		user += fmt.Sprintf("\nThe owner prefers a %s style for the %s industry.", a.prefs.Style, a.prefs.Industry)
	}
	user += "\n\nProvide a helpful, concise response."
	return a.llm.Complete(ctx, provider.Prompt{
		Task: provider.TaskAnswer,
		User: user,
		Args: map[string]string{"utterance": question, "siteName": a.site.Name},
	})
}

func confirmation(cmd site.Command, action *site.Action) string {
	if action == nil {
		return needMoreInformation
	}
	d := cmd.Details
	switch data := action.Data.(type) {
	case site.AddSectionData:
		return fmt.Sprintf("I'll add a %s section to your site.", data.Type)
	case site.ThemeChangeData:
		return fmt.Sprintf("I'll change the %s color to %s.", data.Property, d.String("value"))
	case site.ModifySectionData:
		return fmt.Sprintf("I'll update the %s section.", data.SectionType)
	case site.DeleteSectionData:
		return fmt.Sprintf("I'll remove the %s section.", data.SectionType)
	case site.UpdateContentData:
		return fmt.Sprintf("I'll improve the content in the %s section.", d.String("sectionType"))
	}
	return fallbackConfirmation
}

// UpdateContext replaces the site snapshot and/or preferences.
func (a *Assistant) UpdateContext(u ContextUpdate) {
	if u.Site != nil {
		a.site = u.Site.Clone()
	}
	if u.Preferences != nil {
		p := *u.Preferences
		a.prefs = &p
	}
}

func (a *Assistant) ResetConversation() {
	a.history = nil
}

// History returns a copy of the conversation so far.
func (a *Assistant) History() []site.ConversationTurn {
	out := make([]site.ConversationTurn, len(a.history))
	copy(out, a.history)
	return out
}

// Site returns a copy of the snapshot the assistant reasons over.
func (a *Assistant) Site() site.Site {
	return a.site.Clone()
}
