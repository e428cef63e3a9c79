package provider

import (
	"context"

	"github.com/sirupsen/logrus"
)

// FallbackClient answers from Mock whenever Primary fails.
// There is no retry and no backoff, so live and mock paths behave the same for callers.
type FallbackClient struct {
	Primary LLMClient
	Mock    LLMClient
	Name    string
	log     logrus.FieldLogger
}

func NewFallbackClient(name string, primary LLMClient, logger logrus.FieldLogger) *FallbackClient {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FallbackClient{
		Primary: primary,
		Mock:    MockLLM{},
		Name:    name,
		log:     logger.WithField("component", "provider"),
	}
}

func (f *FallbackClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	if f.Primary == nil {
		return f.Mock.Complete(ctx, prompt)
	}
	f.log.WithFields(logrus.Fields{"provider": f.Name, "task": prompt.Task, "prompt_len": len(prompt.User)}).Debug("calling provider")
	out, err := f.Primary.Complete(ctx, prompt)
	if err == nil {
		return out, nil
	}
	// a cancelled caller gets its own error back, not a canned answer
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	f.log.WithFields(logrus.Fields{"provider": f.Name, "task": prompt.Task}).WithError(err).Warn("provider call failed, using mock response")
	return f.Mock.Complete(ctx, prompt)
}
