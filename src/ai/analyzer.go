package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/OneOfOne/xxhash"
)

const analysisSystemPrompt = `You are a DAO governance analyst. Given a proposal you score its
quality from 0 to 100, classify its risk as Low, Medium or High, summarize it
in two sentences and list up to five concrete recommendations. Reply with a
single JSON object: {"score":int,"riskLevel":string,"summary":string,"recommendations":[string]}.`

// Analysis is the structured verdict for a proposal.
type Analysis struct {
	Score           int      `json:"score"`
	RiskLevel       string   `json:"riskLevel"`
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
	Unavailable     bool     `json:"unavailable,omitempty"`
}

// Fallback is returned whenever the provider fails or times out.
func Fallback() Analysis {
	return Analysis{
		RiskLevel:   "Medium",
		Summary:     "analysis unavailable",
		Unavailable: true,
	}
}

// Analyzer runs proposal analyses through an AI client, caching results by a
// hash of the proposal text.
type Analyzer struct {
	client  Client
	timeout time.Duration

	mu    sync.RWMutex
	cache map[uint64]Analysis
}

func NewAnalyzer(client Client, timeout time.Duration) *Analyzer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Analyzer{
		client:  client,
		timeout: timeout,
		cache:   make(map[uint64]Analysis),
	}
}

// AnalyzeProposal returns the structured analysis for a proposal, or the
// fallback verdict with a non-nil error when the provider cannot answer.
func (a *Analyzer) AnalyzeProposal(ctx context.Context, title, description, funding string) (Analysis, error) {
	key := cacheKey(title, description, funding)

	a.mu.RLock()
	if cached, ok := a.cache[key]; ok {
		a.mu.RUnlock()
		return cached, nil
	}
	a.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	input := fmt.Sprintf("Title: %s\n\nDescription:\n%s\n\nFunding requested: %s", title, description, funding)
	raw, err := a.client.Respond(ctx, input, Options{SystemPrompt: analysisSystemPrompt})
	if err != nil {
		return Fallback(), fmt.Errorf("analyze proposal: %w", err)
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return Fallback(), fmt.Errorf("analyze proposal: %w", err)
	}

	a.mu.Lock()
	a.cache[key] = analysis
	a.mu.Unlock()
	return analysis, nil
}

func cacheKey(parts ...string) uint64 {
	h := xxhash.New64()
	for _, p := range parts {
		_, _ = h.WriteString(p)
		_, _ = h.WriteString("\x00")
	}
	return h.Sum64()
}

// parseAnalysis tolerates replies that wrap the JSON object in prose or code
// fences.
func parseAnalysis(raw string) (Analysis, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return Analysis{}, fmt.Errorf("no JSON object in reply")
	}
	var out Analysis
	if err := json.Unmarshal([]byte(raw[start:end+1]), &out); err != nil {
		return Analysis{}, err
	}
	if out.Score < 0 || out.Score > 100 {
		return Analysis{}, fmt.Errorf("score %d out of range", out.Score)
	}
	return out, nil
}
