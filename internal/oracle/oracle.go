// Package oracle asks a Gemini model for AI play decisions: whether to buy a
// tile, whether to accept a trade, and flavor chat lines. Every call has a
// deterministic local fallback, so the game keeps moving when the model is
// unreachable, slow, or returns garbage.
package oracle

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/buy_decision.txt
var buyDecisionPrompt string

//go:embed prompts/trade_decision.txt
var tradeDecisionPrompt string

//go:embed prompts/chat_message.txt
var chatMessagePrompt string

// Personality shapes the prompt for one AI seat.
type Personality struct {
	Style       string  // play style described to the model
	Temperature float32 // sampling temperature for this seat
}

// Personalities keys the prompt style by AI player name. Unknown names get
// the "balanced" entry.
var Personalities = map[string]Personality{
	"Robo":     {Style: "aggressive investor who buys everything promising and trades hard", Temperature: 0.9},
	"Byte":     {Style: "cautious accountant who hoards cash and only buys clear bargains", Temperature: 0.4},
	"Chip":     {Style: "chaotic gambler who makes flashy, unpredictable moves", Temperature: 1.2},
	"balanced": {Style: "pragmatic player balancing cash reserves against property value", Temperature: 0.7},
}

func personalityFor(name string) Personality {
	if p, ok := Personalities[name]; ok {
		return p
	}
	return Personalities["balanced"]
}

// Oracle wraps one Gemini model session.
type Oracle struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// New connects to Gemini. An empty API key returns (nil, nil): callers treat
// a nil Oracle as "fallbacks only".
func New(ctx context.Context, apiKey, modelName string) (*Oracle, error) {
	if apiKey == "" {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("oracle: connect: %w", err)
	}
	return &Oracle{client: client, model: client.GenerativeModel(modelName)}, nil
}

// Close releases the underlying client.
func (o *Oracle) Close() {
	if o != nil && o.client != nil {
		o.client.Close()
	}
}

// BuyRequest describes a buy-or-pass decision point.
type BuyRequest struct {
	PlayerName string
	TileName   string
	TileGroup  string
	Price      int
	Cash       int
	OwnedNames []string
}

// BuyDecision is the model's (or fallback's) verdict.
type BuyDecision struct {
	ShouldBuy bool   `yaml:"shouldBuy"`
	Reasoning string `yaml:"reasoning"`
}

// TradeRequest describes an incoming trade the AI must accept or decline.
type TradeRequest struct {
	PlayerName    string
	InitiatorName string
	WantedTile    string
	WantedPrice   int
	OfferedTile   string // empty for cash-only offers
	OfferedCash   int
	Cash          int
}

// TradeDecision is the model's verdict on a trade.
type TradeDecision struct {
	ShouldTrade bool   `yaml:"shouldTrade"`
	OfferAmount int    `yaml:"offerAmount"`
	Reasoning   string `yaml:"reasoning"`
}

// DecideBuy asks the model for a buy verdict. On any failure it returns
// FallbackBuy and a non-nil error describing what went wrong.
func (o *Oracle) DecideBuy(ctx context.Context, req BuyRequest) (BuyDecision, error) {
	fallback := BuyDecision{ShouldBuy: FallbackBuy(req.Cash, req.Price), Reasoning: "local heuristic"}
	if o == nil {
		return fallback, nil
	}

	text, err := o.generate(ctx, buyDecisionPrompt, personalityFor(req.PlayerName), req)
	if err != nil {
		return fallback, err
	}
	var d BuyDecision
	if err := yaml.Unmarshal([]byte(text), &d); err != nil {
		return fallback, fmt.Errorf("oracle: parse buy decision: %w (output %q)", err, text)
	}
	return d, nil
}

// DecideTrade asks the model whether to accept an incoming trade. The
// fallback declines; OfferAmount is clamped to the player's cash.
func (o *Oracle) DecideTrade(ctx context.Context, req TradeRequest) (TradeDecision, error) {
	fallback := TradeDecision{ShouldTrade: false, Reasoning: "local heuristic"}
	if o == nil {
		return fallback, nil
	}

	text, err := o.generate(ctx, tradeDecisionPrompt, personalityFor(req.PlayerName), req)
	if err != nil {
		return fallback, err
	}
	var d TradeDecision
	if err := yaml.Unmarshal([]byte(text), &d); err != nil {
		return fallback, fmt.Errorf("oracle: parse trade decision: %w (output %q)", err, text)
	}
	if d.OfferAmount > req.Cash {
		d.OfferAmount = req.Cash
	}
	if d.OfferAmount < 0 {
		d.OfferAmount = 0
	}
	return d, nil
}

// ChatRequest asks for a short in-character table-talk line.
type ChatRequest struct {
	PlayerName string
	Situation  string // one-line description of what just happened
}

// ChatLine returns a flavor line, or an empty string on failure (the caller
// then falls back to its canned lines).
func (o *Oracle) ChatLine(ctx context.Context, req ChatRequest) (string, error) {
	if o == nil {
		return "", nil
	}
	text, err := o.generate(ctx, chatMessagePrompt, personalityFor(req.PlayerName), req)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(strings.Trim(text, `"`))
	return truncateLine(line, 120), nil
}

// truncateLine caps a chat line at limit runes, never splitting a rune.
func truncateLine(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

// FallbackBuy is the documented local heuristic: buy when the purchase still
// leaves a $50 cushion.
func FallbackBuy(cash, price int) bool {
	return cash >= price+50
}

// renderPrompt fills a prompt template with the seat's personality and the
// request data.
func renderPrompt(promptText string, p Personality, data any) (string, error) {
	tmpl, err := template.New("prompt").Parse(promptText)
	if err != nil {
		return "", fmt.Errorf("oracle: parse template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct {
		Style string
		Data  any
	}{Style: p.Style, Data: data}); err != nil {
		return "", fmt.Errorf("oracle: render prompt: %w", err)
	}
	return buf.String(), nil
}

// generate renders the prompt template, calls the model, and strips the
// markdown code fences models like to wrap structured output in.
func (o *Oracle) generate(ctx context.Context, promptText string, p Personality, data any) (string, error) {
	prompt, err := renderPrompt(promptText, p, data)
	if err != nil {
		return "", err
	}

	o.model.SetTemperature(p.Temperature)
	resp, err := o.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("oracle: generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("oracle: empty response")
	}
	part, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("oracle: unexpected part type %T", resp.Candidates[0].Content.Parts[0])
	}

	return CleanFences(string(part)), nil
}

// CleanFences strips a surrounding markdown code fence, if present.
func CleanFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```yaml")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// LogFallback notes that a decision came from the local heuristic.
func LogFallback(kind string, err error) {
	if err != nil {
		logrus.Warnf("oracle: %s fell back to the local heuristic: %v", kind, err)
	}
}
