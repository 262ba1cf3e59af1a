package analyzer_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/wathbahs/muraji/pkg/domain/interfaces"
	"github.com/wathbahs/muraji/pkg/domain/model/audit"
	"github.com/wathbahs/muraji/pkg/service/analyzer"
)

type mockModel struct {
	mu       sync.Mutex
	calls    []string
	inFlight int
	maxSeen  int
	reply    func(prompt string) (string, error)
}

func (x *mockModel) GenerateOnce(ctx context.Context, prompt string) (string, error) {
	x.mu.Lock()
	x.calls = append(x.calls, prompt)
	x.inFlight++
	if x.inFlight > x.maxSeen {
		x.maxSeen = x.inFlight
	}
	x.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	x.mu.Lock()
	x.inFlight--
	x.mu.Unlock()

	return x.reply(prompt)
}

func (x *mockModel) CreateCache(ctx context.Context, instruction string, ttl time.Duration) (string, error) {
	return "", errors.New("not implemented")
}

func (x *mockModel) DeleteCache(ctx context.Context, name string) error {
	return nil
}

func (x *mockModel) StartChat(ctx context.Context, cfg interfaces.ChatConfig, history []interfaces.HistoryTurn) (interfaces.Conversation, error) {
	return nil, errors.New("not implemented")
}

func requirement(refID string) audit.Requirement {
	return audit.Requirement{
		FrameworkURN:  "urn:framework:iso27001",
		FrameworkName: "ISO 27001",
		NodeURN:       "urn:node:" + refID,
		RefID:         refID,
		Name:          "Requirement " + refID,
		Description:   "Description of " + refID,
	}
}

const validReply = `{"typical_evidence":[{"title":"Evidence"}],"questions":["Q"],"suggestions":["S"]}`

func TestAnalyzeOne(t *testing.T) {
	model := &mockModel{reply: func(string) (string, error) { return validReply, nil }}
	svc := analyzer.New(model)

	content := gt.R1(svc.AnalyzeOne(context.Background(), requirement("A.5.1"), "focus on policy", nil)).NoError(t)
	gt.A(t, content.TypicalEvidence).Length(1)

	gt.A(t, model.calls).Length(1)
	gt.S(t, model.calls[0]).Contains("A.5.1")
	gt.S(t, model.calls[0]).Contains("focus on policy")
}

func TestAnalyzeOneDefaultPrompt(t *testing.T) {
	model := &mockModel{reply: func(string) (string, error) { return validReply, nil }}
	svc := analyzer.New(model)

	gt.R1(svc.AnalyzeOne(context.Background(), requirement("A.5.1"), "", nil)).NoError(t)
	gt.S(t, model.calls[0]).Contains("No additional context provided.")
}

func TestAnalyzeOneContextFiles(t *testing.T) {
	model := &mockModel{reply: func(string) (string, error) { return validReply, nil }}
	svc := analyzer.New(model)

	files := []audit.ContextFile{{Name: "policy.txt", Content: "All access is reviewed quarterly."}}
	gt.R1(svc.AnalyzeOne(context.Background(), requirement("A.5.1"), "", files)).NoError(t)
	gt.S(t, model.calls[0]).Contains("policy.txt")
	gt.S(t, model.calls[0]).Contains("All access is reviewed quarterly.")
}

func TestAnalyzeManyFailureIsolation(t *testing.T) {
	model := &mockModel{reply: func(prompt string) (string, error) {
		if strings.Contains(prompt, "A.5.2") {
			return "", errors.New("quota exceeded")
		}
		return validReply, nil
	}}
	svc := analyzer.New(model)

	reqs := []audit.Requirement{requirement("A.5.1"), requirement("A.5.2"), requirement("A.5.3")}
	results := svc.AnalyzeMany(context.Background(), reqs, "", nil)

	gt.A(t, results).Length(3)
	gt.True(t, results[0].Success)
	gt.True(t, !results[1].Success)
	gt.True(t, results[2].Success)

	// Failed item keeps its position, its requirement, and empty-list defaults
	gt.Equal(t, results[1].Requirement.RefID, "A.5.2")
	gt.S(t, results[1].Error).Contains("quota exceeded")
	gt.NotNil(t, results[1].Analysis.TypicalEvidence)
	gt.A(t, results[1].Analysis.TypicalEvidence).Length(0)
	gt.A(t, results[1].Analysis.Questions).Length(0)
}

func TestAnalyzeManyUnparsableReply(t *testing.T) {
	model := &mockModel{reply: func(string) (string, error) { return "no json here", nil }}
	svc := analyzer.New(model)

	results := svc.AnalyzeMany(context.Background(), []audit.Requirement{requirement("A.1")}, "", nil)
	gt.A(t, results).Length(1)
	gt.True(t, !results[0].Success)
	gt.NotNil(t, results[0].Analysis.Suggestions)
}

func TestAnalyzeManyBoundedConcurrency(t *testing.T) {
	model := &mockModel{reply: func(string) (string, error) { return validReply, nil }}
	svc := analyzer.New(model, analyzer.WithConcurrency(2))

	reqs := make([]audit.Requirement, 7)
	for i := range reqs {
		reqs[i] = requirement("R." + string(rune('A'+i)))
	}
	results := svc.AnalyzeMany(context.Background(), reqs, "", nil)

	gt.A(t, results).Length(7)
	for i, r := range results {
		gt.True(t, r.Success)
		gt.Equal(t, r.Requirement.RefID, reqs[i].RefID)
	}
	gt.True(t, model.maxSeen <= 2)
}

func TestAnalyzeManyEmptyInput(t *testing.T) {
	model := &mockModel{reply: func(string) (string, error) { return validReply, nil }}
	svc := analyzer.New(model)

	results := svc.AnalyzeMany(context.Background(), nil, "", nil)
	gt.A(t, results).Length(0)
	gt.A(t, model.calls).Length(0)
}
