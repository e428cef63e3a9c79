// Package generator produces and rewrites site text with a provider, and scores it.
package generator

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"ai_site_pipeline/contract"
	"ai_site_pipeline/provider"
	"ai_site_pipeline/site"
)

// batchLimit bounds concurrent provider calls in GenerateBatch.
const batchLimit = 4

// ContentGenerator writes section content from business context.
type ContentGenerator struct {
	llm provider.LLMClient
	log logrus.FieldLogger
}

func NewContentGenerator(llm provider.LLMClient, logger logrus.FieldLogger) (*ContentGenerator, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ContentGenerator{llm: llm, log: logger.WithField("component", "content_generator")}, nil
}

// Generate never fails on malformed provider output: the raw text becomes bodyText.
func (g *ContentGenerator) Generate(ctx context.Context, req ContentRequest) (site.Content, error) {
	req = normalizeContentRequest(req)
	raw, err := g.llm.Complete(ctx, BuildContentPrompt(req))
	if err != nil {
		return site.Content{}, err
	}
	var c site.Content
	if err := contract.Decode(raw, &c); err != nil {
		g.log.WithField("section_type", req.SectionType).WithError(err).Warn("content response not JSON, using raw text")
		return degradedContent(raw), nil
	}
	return finalizeContent(c), nil
}

// GenerateBatch generates each request concurrently; results keep request order.
func (g *ContentGenerator) GenerateBatch(ctx context.Context, reqs []ContentRequest) ([]site.Content, error) {
	out := make([]site.Content, len(reqs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(batchLimit)
	for i, req := range reqs {
		eg.Go(func() error {
			c, err := g.Generate(ctx, req)
			if err != nil {
				return err
			}
			out[i] = c
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeContentRequest(req ContentRequest) ContentRequest {
	req.SectionType = strings.ToLower(strings.TrimSpace(req.SectionType))
	if req.Tone == "" {
		req.Tone = ToneProfessional
	}
	if _, ok := lengthGuides[req.Length]; !ok {
		req.Length = LengthMedium
	}
	return req
}
