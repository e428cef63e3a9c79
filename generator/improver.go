package generator

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

// ContentImprover rewrites text toward a goal and scores the result.
type ContentImprover struct {
	llm provider.LLMClient
	log logrus.FieldLogger
}

func NewContentImprover(llm provider.LLMClient, logger logrus.FieldLogger) (*ContentImprover, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ContentImprover{llm: llm, log: logger.WithField("component", "content_improver")}, nil
}

type improvementPayload struct {
	ImprovedContent string               `json:"improvedContent"`
	Changes         []site.ContentChange `json:"changes"`
}

func (p *improvementPayload) Validate() error {
	if strings.TrimSpace(p.ImprovedContent) == "" {
		return errors.New("improvedContent is empty")
	}
	return nil
}

// Improve degrades to the raw provider text with no changes when the reply is not the contract.
func (im *ContentImprover) Improve(ctx context.Context, req ImprovementRequest) (ImprovementResult, error) {
	if req.ImprovementType == "" {
		req.ImprovementType = ImproveEngagement
	}
	raw, err := im.llm.Complete(ctx, BuildImprovementPrompt(req))
	if err != nil {
		return ImprovementResult{}, err
	}
	var p improvementPayload
	if err := contract.Decode(raw, &p); err != nil {
		im.log.WithField("improvement_type", req.ImprovementType).WithError(err).Warn("improvement response not JSON, using raw text")
		p = improvementPayload{ImprovedContent: raw}
	}
	if p.Changes == nil {
		p.Changes = []site.ContentChange{}
	}
	return ImprovementResult{
		ImprovedContent: p.ImprovedContent,
		Changes:         p.Changes,
		Metrics:         ScoreText(p.ImprovedContent),
		Baseline:        ScoreText(req.OriginalContent),
	}, nil
}

// GenerateVariations returns count rewrites of text. count <= 0 means 3.
func (im *ContentImprover) GenerateVariations(ctx context.Context, text string, count int, tone string) ([]string, error) {
	if count <= 0 {
		count = 3
	}
	raw, err := im.llm.Complete(ctx, BuildVariationsPrompt(text, count, tone))
	if err != nil {
		return nil, err
	}
	var out []string
	if err := contract.Decode(raw, &out); err != nil {
		return nil, fmt.Errorf("variations: %w", err)
	}
	return out, nil
}

type textPayload struct {
	Text string `json:"text"`
}

func (p *textPayload) Validate() error {
	if strings.TrimSpace(p.Text) == "" {
		return errors.New("text is empty")
	}
	return nil
}

// OptimizeForSEO rewrites text around keyword. targetLength <= 0 leaves length unconstrained.
func (im *ContentImprover) OptimizeForSEO(ctx context.Context, text, keyword string, targetLength int) (string, error) {
	raw, err := im.llm.Complete(ctx, BuildSEOOptimizePrompt(text, keyword, targetLength))
	if err != nil {
		return "", err
	}
	var p textPayload
	if err := contract.Decode(raw, &p); err != nil {
		return "", fmt.Errorf("seo optimize: %w", err)
	}
	return strings.TrimSpace(p.Text), nil
}

type metaPayload struct {
	MetaDescription string `json:"metaDescription"`
}

func (p *metaPayload) Validate() error {
	if strings.TrimSpace(p.MetaDescription) == "" {
		return errors.New("metaDescription is empty")
	}
	return nil
}

func (im *ContentImprover) GenerateMetaDescription(ctx context.Context, pageContent, keyword string) (string, error) {
	raw, err := im.llm.Complete(ctx, BuildMetaDescriptionPrompt(pageContent, keyword))
	if err != nil {
		return "", err
	}
	var p metaPayload
	if err := contract.Decode(raw, &p); err != nil {
		return "", fmt.Errorf("meta description: %w", err)
	}
	return collapseWhitespace(p.MetaDescription, 0), nil
}
