package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/wathbahs/muraji/pkg/cli/config"
	"github.com/wathbahs/muraji/pkg/domain/model/audit"
	"github.com/wathbahs/muraji/pkg/service/analyzer"
	"github.com/wathbahs/muraji/pkg/utils/logging"
)

// cmdAnalyze runs a batch analysis from the command line: reads a JSON array
// of requirements, fans out the model calls, and prints the results as JSON.
func cmdAnalyze() *cli.Command {
	var (
		input      string
		userPrompt string
		geminiCfg  config.Gemini
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "input",
				Aliases:     []string{"i"},
				Usage:       "Path to a JSON file with an array of requirements ('-' for stdin)",
				Value:       "-",
				Destination: &input,
			},
			&cli.StringFlag{
				Name:        "prompt",
				Aliases:     []string{"p"},
				Usage:       "Additional context passed to every analysis",
				Sources:     cli.EnvVars("MURAJI_ANALYZE_PROMPT"),
				Destination: &userPrompt,
			},
		},
		geminiCfg.Flags(),
	)

	return &cli.Command{
		Name:  "analyze",
		Usage: "Analyze framework requirements without a session",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var raw []byte
			var err error
			if input == "-" {
				raw, err = io.ReadAll(os.Stdin)
			} else {
				raw, err = os.ReadFile(input)
			}
			if err != nil {
				return goerr.Wrap(err, "failed to read requirements", goerr.V("input", input))
			}

			var reqs []audit.Requirement
			if err := json.Unmarshal(raw, &reqs); err != nil {
				return goerr.Wrap(err, "requirements must be a JSON array")
			}
			if len(reqs) == 0 {
				return goerr.New("no requirements to analyze")
			}

			llm, err := geminiCfg.Configure(ctx)
			if err != nil {
				return err
			}

			results := analyzer.New(llm).AnalyzeMany(ctx, reqs, userPrompt, nil)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(results); err != nil {
				return goerr.Wrap(err, "failed to print results")
			}

			failed := 0
			for _, r := range results {
				if !r.Success {
					failed++
				}
			}
			if failed > 0 {
				logging.From(ctx).Warn("some requirements failed to analyze",
					"failed", failed, "total", len(results))
			}
			return nil
		},
	}
}
