package compose

import (
	"fmt"
	"strings"

	"github.com/wathbahs/muraji/pkg/domain/model/audit"
)

// MaxInlineFileChars bounds each inline file's contribution to the grounding
// instruction. The provider rejects oversized contexts, so overflow is cut
// off and marked in the rendered text.
const MaxInlineFileChars = 8000

const truncationMarker = "\n\n[... content truncated ...]"

const basePersona = `You are an experienced compliance audit assistant. You help auditors assess
framework requirements, identify typical evidence, and prepare audit interviews.
Answer precisely and practically, citing the relevant requirement reference
codes where applicable. When you are unsure, say so rather than inventing
evidence.`

const defaultInstruction = basePersona + `

No audit context was provided for this conversation. Ask the user which
framework requirements they want to discuss before giving detailed guidance.`

// DefaultInstruction is the baseline used for sessions created without any
// grounding context (the degraded send-to-unknown-session path).
func DefaultInstruction() string {
	return defaultInstruction
}

// Build renders the grounding instruction for a session. It is pure and
// deterministic: the same context always yields byte-identical output.
// Absent fields simply omit their section.
func Build(gctx audit.GroundingContext) string {
	var b strings.Builder
	b.WriteString(basePersona)

	if len(gctx.Requirements) > 0 {
		b.WriteString("\n\n## Selected framework requirements\n")
		writeRequirements(&b, gctx.Requirements)
	}

	if len(gctx.FileResources) > 0 {
		b.WriteString("\n\n## Reference documents\n")
		b.WriteString("The following documents are indexed in the document store. Ground your answers in them when relevant.\n")
		for _, f := range gctx.FileResources {
			name := f.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Fprintf(&b, "- %s (store: %s, document: %s)\n", name, f.StoreID, f.DocumentID)
		}
	}

	if len(gctx.ContextFiles) > 0 {
		b.WriteString("\n\n## Uploaded files\n")
		for _, f := range gctx.ContextFiles {
			fmt.Fprintf(&b, "\n### %s\n", f.Name)
			b.WriteString(truncate(f.Content))
			b.WriteString("\n")
		}
	}

	if gctx.Query != "" {
		b.WriteString("\n\n## Initial question\n")
		b.WriteString("Address the following question directly in your first reply:\n")
		b.WriteString(gctx.Query)
	}

	return b.String()
}

// writeRequirements groups requirements by framework name, keeping the
// insertion order of each framework's first occurrence and the relative order
// of requirements within a framework.
func writeRequirements(b *strings.Builder, reqs []audit.Requirement) {
	var order []string
	grouped := map[string][]audit.Requirement{}
	for _, r := range reqs {
		fw := r.FrameworkName
		if fw == "" {
			fw = "(unspecified framework)"
		}
		if _, ok := grouped[fw]; !ok {
			order = append(order, fw)
		}
		grouped[fw] = append(grouped[fw], r)
	}

	for _, fw := range order {
		fmt.Fprintf(b, "\n### %s\n", fw)
		for i, r := range grouped[fw] {
			desc := r.Description
			if desc == "" {
				desc = r.Name
			}
			if r.RefID != "" {
				fmt.Fprintf(b, "%d. [%s] %s\n", i+1, r.RefID, desc)
			} else {
				fmt.Fprintf(b, "%d. %s\n", i+1, desc)
			}
		}
	}
}

func truncate(content string) string {
	if len(content) <= MaxInlineFileChars {
		return content
	}
	return content[:MaxInlineFileChars] + truncationMarker
}
