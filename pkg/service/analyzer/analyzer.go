package analyzer

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/interfaces"
	"github.com/wathbahs/muraji/pkg/domain/model/analysis"
	"github.com/wathbahs/muraji/pkg/domain/model/audit"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
	"github.com/wathbahs/muraji/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

//go:embed prompt/requirement_analyzer.md
var defaultTemplate string

var baseTemplate = template.Must(template.New("requirement_analyzer").Parse(defaultTemplate))

// defaultConcurrency bounds in-flight model calls per batch. Items run in
// fixed-size waves: the next wave starts only after the previous one fully
// completes, which keeps the call pattern well under upstream rate limits.
const defaultConcurrency = 3

type Service struct {
	llm         interfaces.LanguageModel
	tmpl        *template.Template
	concurrency int
}

type Option func(*Service)

// WithTemplate replaces the embedded analyzer prompt template
func WithTemplate(tmpl *template.Template) Option {
	return func(s *Service) {
		s.tmpl = tmpl
	}
}

// WithConcurrency overrides the per-wave call limit
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func New(llm interfaces.LanguageModel, opts ...Option) *Service {
	s := &Service{
		llm:         llm,
		tmpl:        baseTemplate,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type promptInput struct {
	Requirement string
	UserPrompt  string
}

func (x *Service) buildPrompt(req audit.Requirement, userPrompt string, contextFiles []audit.ContextFile) (string, error) {
	raw, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal requirement")
	}

	if userPrompt == "" {
		userPrompt = "No additional context provided."
	}

	var buf bytes.Buffer
	if err := x.tmpl.Execute(&buf, promptInput{
		Requirement: string(raw),
		UserPrompt:  userPrompt,
	}); err != nil {
		return "", goerr.Wrap(err, "failed to render analyzer prompt")
	}

	if len(contextFiles) > 0 {
		buf.WriteString("\n\nReference files provided by the auditor:\n")
		for _, f := range contextFiles {
			fmt.Fprintf(&buf, "\n--- %s ---\n%s\n", f.Name, f.Content)
		}
	}

	return buf.String(), nil
}

// AnalyzeOne runs a single one-shot analysis call. No session, no history.
func (x *Service) AnalyzeOne(ctx context.Context, req audit.Requirement, userPrompt string, contextFiles []audit.ContextFile) (*analysis.Content, error) {
	prompt, err := x.buildPrompt(req, userPrompt, contextFiles)
	if err != nil {
		return nil, err
	}

	reply, err := x.llm.GenerateOnce(ctx, prompt)
	if err != nil {
		return nil, goerr.Wrap(err, "model call failed",
			goerr.V("ref_id", req.RefID),
			goerr.T(errs.TagLLMError))
	}

	return ExtractContent(reply)
}

// AnalyzeMany fans out independent analysis calls with bounded concurrency,
// preserving input order. A failing item yields empty default content with
// success=false and its error message; siblings are unaffected.
func (x *Service) AnalyzeMany(ctx context.Context, reqs []audit.Requirement, userPrompt string, contextFiles []audit.ContextFile) []analysis.Result {
	logger := logging.From(ctx)
	results := make([]analysis.Result, len(reqs))

	for base := 0; base < len(reqs); base += x.concurrency {
		end := base + x.concurrency
		if end > len(reqs) {
			end = len(reqs)
		}

		var eg errgroup.Group
		for i := base; i < end; i++ {
			idx := i
			eg.Go(func() error {
				req := reqs[idx]
				logger.Debug("analyzing requirement",
					"index", idx+1,
					"total", len(reqs),
					"ref_id", req.RefID)

				content, err := x.AnalyzeOne(ctx, req, userPrompt, contextFiles)
				if err != nil {
					logger.Warn("requirement analysis failed",
						"ref_id", req.RefID,
						logging.ErrAttr(err))
					results[idx] = analysis.Result{
						Requirement: req,
						Analysis:    analysis.Empty(),
						Success:     false,
						Error:       errMessage(err),
					}
					return nil
				}

				results[idx] = analysis.Result{
					Requirement: req,
					Analysis:    *content,
					Success:     true,
				}
				return nil
			})
		}
		// Wave barrier: eg.Go never returns an error, Wait is for joining only
		_ = eg.Wait()
	}

	return results
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	// Keep the first line only; goerr messages can carry long value dumps
	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return msg
}
