package analyzer

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/wathbahs/muraji/pkg/domain/model/analysis"
	"github.com/wathbahs/muraji/pkg/domain/model/errs"
)

var (
	fencedBlockRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)```")
	jsonObjectRe  = regexp.MustCompile(`\{[\s\S]*\}`)

	evidenceFieldRe  = regexp.MustCompile(`"typical_evidence"\s*:\s*\[([\s\S]*?)\]`)
	questionsFieldRe = regexp.MustCompile(`"questions"\s*:\s*\[([\s\S]*?)\]`)
)

// ExtractContent pulls the structured analysis out of a model reply. The
// model is told to emit bare JSON but often wraps it in a fenced code block
// or leading prose, so extraction is layered: strip a fence, else locate the
// first top-level object, then parse; when parsing fails, field-level regex
// recovery of typical_evidence and questions runs before giving up.
func ExtractContent(reply string) (*analysis.Content, error) {
	jsonStr := strings.TrimSpace(reply)

	if m := fencedBlockRe.FindStringSubmatch(reply); m != nil {
		jsonStr = strings.TrimSpace(m[1])
	}

	if !strings.HasPrefix(jsonStr, "{") {
		if m := jsonObjectRe.FindString(jsonStr); m != "" {
			jsonStr = m
		}
	}

	var content analysis.Content
	if err := json.Unmarshal([]byte(jsonStr), &content); err == nil {
		content.Normalize()
		return &content, nil
	}

	if partial := extractPartial(jsonStr); partial != nil {
		return partial, nil
	}

	return nil, goerr.New("model reply is not a valid analysis object",
		goerr.V("reply_head", head(reply, 200)),
		goerr.T(errs.TagInvalidLLMResponse))
}

// extractPartial salvages list fields from a truncated or malformed object.
// Suggestions are not recovered; they default to empty.
func extractPartial(jsonStr string) *analysis.Content {
	evidenceMatch := evidenceFieldRe.FindStringSubmatch(jsonStr)
	questionsMatch := questionsFieldRe.FindStringSubmatch(jsonStr)
	if evidenceMatch == nil && questionsMatch == nil {
		return nil
	}

	content := analysis.Empty()
	recovered := false

	if evidenceMatch != nil {
		var items []analysis.EvidenceItem
		if err := json.Unmarshal([]byte("["+evidenceMatch[1]+"]"), &items); err == nil {
			content.TypicalEvidence = items
			recovered = true
		}
	}
	if questionsMatch != nil {
		var items []string
		if err := json.Unmarshal([]byte("["+questionsMatch[1]+"]"), &items); err == nil {
			content.Questions = items
			recovered = true
		}
	}

	if !recovered {
		return nil
	}
	content.Normalize()
	return &content
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
