package manifest

import (
	"context"

	"github.com/alantheprice/vibecode/pkg/llm"
	"github.com/alantheprice/vibecode/pkg/utils"
)

// DefaultAttempts is the number of parse attempts, first response included.
const DefaultAttempts = 3

// CorrectiveInstruction is appended to the conversation after an unparseable response.
const CorrectiveInstruction = "Your last response could not be parsed as JSON. " +
	"Return ONLY the JSON manifest for the files, no explanations, no markdown, no extra text. " +
	`Format: {"files": [{"filename": "main.py", "content": "..."}]}`

// Result is the outcome of Parser.Parse.
type Result struct {
	Files []File
	// Corrections are the corrective user turns sent, one per retry. They are
	// the only turns the retries add to the conversation.
	Corrections []llm.Message
	// Attempts counts decode attempts made.
	Attempts int
	// LastErr is the final decode or model failure when Files is empty.
	LastErr error
}

// OK reports whether files were recovered.
func (r Result) OK() bool {
	return len(r.Files) > 0
}

// Parser decodes responses and reprompts the model when decoding fails.
type Parser struct {
	client      llm.Client
	model       string
	maxAttempts int
	budget      llm.Budget
	logger      *utils.Logger
}

// NewParser creates a parser. Non-positive maxAttempts selects DefaultAttempts.
func NewParser(client llm.Client, model string, maxAttempts int, budget llm.Budget, logger *utils.Logger) *Parser {
	if maxAttempts <= 0 {
		maxAttempts = DefaultAttempts
	}
	return &Parser{client: client, model: model, maxAttempts: maxAttempts, budget: budget, logger: logger}
}

// MaxAttempts returns the configured attempt count.
func (p *Parser) MaxAttempts() int {
	return p.maxAttempts
}

// Parse decodes raw, reprompting with the full conversation on failure.
// history is not modified; the added turns are returned in the result.
// Every failure, model errors included, reduces to an empty result.
func (p *Parser) Parse(ctx context.Context, raw, task string, history []llm.Message) Result {
	conv := llm.Clone(history)
	var res Result

	for res.Attempts < p.maxAttempts {
		res.Attempts++
		files, err := Decode(raw)
		if err == nil {
			res.Files = files
			res.LastErr = nil
			p.logger.Logf("Parsed %d files from model response (attempt %d)", len(files), res.Attempts)
			return res
		}
		res.LastErr = err
		p.logger.Logf("Failed to parse model response as JSON (attempt %d/%d): %v", res.Attempts, p.maxAttempts, err)

		if res.Attempts >= p.maxAttempts {
			break
		}
		if ctx.Err() != nil {
			res.LastErr = ctx.Err()
			break
		}

		correction := llm.Message{Role: llm.RoleUser, Content: CorrectiveInstruction}
		conv = append(conv, correction)
		res.Corrections = append(res.Corrections, correction)

		raw, err = p.client.Complete(ctx, p.model, conv, p.budget.MaxTokens(p.model, task, conv))
		if err != nil {
			p.logger.Logf("Model call failed during parse retry: %v", err)
			res.LastErr = err
			break
		}
	}

	p.logger.Logf("Failed to parse response after %d attempts", res.Attempts)
	return res
}
