package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/model/analysis"
	"github.com/wathbahs/muraji/pkg/domain/model/audit"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
)

// AnalyzeRequirement runs a one-shot analysis for a single requirement
func (u *UseCases) AnalyzeRequirement(ctx context.Context, req audit.Requirement, userPrompt string, contextFiles []audit.ContextFile) (*analysis.Content, error) {
	if u.analyzer == nil {
		return nil, goerr.Wrap(errs.ErrLLMNotConfigured, "cannot analyze requirement")
	}
	return u.analyzer.AnalyzeOne(ctx, req, userPrompt, contextFiles)
}

// AnalyzeRequirements runs a batch of independent analyses with bounded
// concurrency, preserving input order. Per-item failures are reported in the
// results, never as an error.
func (u *UseCases) AnalyzeRequirements(ctx context.Context, reqs []audit.Requirement, userPrompt string, contextFiles []audit.ContextFile) ([]analysis.Result, error) {
	if u.analyzer == nil {
		return nil, goerr.Wrap(errs.ErrLLMNotConfigured, "cannot analyze requirements")
	}
	return u.analyzer.AnalyzeMany(ctx, reqs, userPrompt, contextFiles), nil
}
