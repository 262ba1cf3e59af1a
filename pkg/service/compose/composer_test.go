package compose_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/wathbahs/muraji/pkg/domain/model/audit"
	"github.com/wathbahs/muraji/pkg/service/compose"
)

func TestBuildDeterminism(t *testing.T) {
	gctx := audit.GroundingContext{
		Requirements: []audit.Requirement{
			{FrameworkName: "ISO 27001", RefID: "A.5.1", Description: "Policies for information security"},
		},
		ContextFiles: []audit.ContextFile{
			{Name: "policy.txt", Content: "All access must be reviewed quarterly."},
		},
		Query: "What evidence should I collect?",
	}

	first := compose.Build(gctx)
	second := compose.Build(gctx)
	gt.Equal(t, first, second)
}

func TestBuildEmptyContext(t *testing.T) {
	out := compose.Build(audit.GroundingContext{})

	gt.S(t, out).NotContains("## Selected framework requirements")
	gt.S(t, out).NotContains("## Reference documents")
	gt.S(t, out).NotContains("## Uploaded files")
	gt.S(t, out).NotContains("## Initial question")
	gt.True(t, len(out) > 0)
}

func TestBuildGroupsByFramework(t *testing.T) {
	gctx := audit.GroundingContext{
		Requirements: []audit.Requirement{
			{FrameworkName: "ISO", RefID: "A1", Description: "first iso"},
			{FrameworkName: "NIST", RefID: "B2", Description: "first nist"},
			{FrameworkName: "ISO", RefID: "A2", Description: "second iso"},
		},
	}

	out := compose.Build(gctx)

	isoIdx := strings.Index(out, "### ISO")
	nistIdx := strings.Index(out, "### NIST")
	gt.True(t, isoIdx >= 0)
	gt.True(t, nistIdx >= 0)
	// ISO appeared first in the input, so its section comes first
	gt.True(t, isoIdx < nistIdx)

	// A1 and A2 stay grouped inside the ISO section, never interleaved with B2
	isoSection := out[isoIdx:nistIdx]
	gt.S(t, isoSection).Contains("[A1] first iso")
	gt.S(t, isoSection).Contains("[A2] second iso")
	gt.S(t, isoSection).NotContains("B2")
	gt.True(t, strings.Index(isoSection, "[A1]") < strings.Index(isoSection, "[A2]"))

	nistSection := out[nistIdx:]
	gt.S(t, nistSection).Contains("[B2] first nist")
}

func TestBuildTruncatesInlineFiles(t *testing.T) {
	big := strings.Repeat("x", 9000)
	small := strings.Repeat("y", 100)

	out := compose.Build(audit.GroundingContext{
		ContextFiles: []audit.ContextFile{
			{Name: "big.txt", Content: big},
			{Name: "small.txt", Content: small},
		},
	})

	// The oversized file is cut at the cap and marked
	gt.S(t, out).Contains(strings.Repeat("x", compose.MaxInlineFileChars))
	gt.S(t, out).NotContains(strings.Repeat("x", compose.MaxInlineFileChars+1))
	gt.S(t, out).Contains("[... content truncated ...]")

	// The small file appears in full; its section carries no marker
	gt.S(t, out).Contains(small)
	smallIdx := strings.Index(out, "### small.txt")
	gt.S(t, out[smallIdx:]).NotContains("truncated")
}

func TestBuildQueryAppendedVerbatim(t *testing.T) {
	query := "Explain clause 9.2 internal audit expectations, please."
	out := compose.Build(audit.GroundingContext{Query: query})

	gt.S(t, out).Contains(query)
	gt.S(t, out).Contains("## Initial question")
}

func TestBuildFileResources(t *testing.T) {
	out := compose.Build(audit.GroundingContext{
		FileResources: []audit.FileResource{
			{StoreID: "store-1", DocumentID: "doc-9", Name: "evidence.pdf"},
		},
	})

	gt.S(t, out).Contains("evidence.pdf")
	gt.S(t, out).Contains("store-1")
	gt.S(t, out).Contains("doc-9")
}
