package main

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Pipeline runs the fixed Analyst, Miner, Editor sequence over a transcript.
// Stage configurations are rebuilt for every call so no state leaks between
// requests.
type Pipeline struct {
	client ChatCompleter
	config *Config
	tools  []Tool
}

// NewPipeline wires the generative client and the miner's toolset.
func NewPipeline(client ChatCompleter, config *Config, tools []Tool) *Pipeline {
	return &Pipeline{client: client, config: config, tools: tools}
}

// Summarize turns a flattened transcript into the final Markdown summary.
// The analyst and the miner both read the raw transcript; the editor reads
// only their combined output. Any stage failure aborts the remaining stages.
func (p *Pipeline) Summarize(ctx context.Context, transcript string) (string, error) {
	agents := p.config.Settings.Agents

	log.Printf("  → Analyzing transcript...")
	analystConfig := analystStage(agents.Analyst)
	analystConfig.SystemPrompt = p.config.GetAnalystPrompt()
	analysis, err := NewAgent(analystConfig, p.client).Run(ctx, transcript)
	if err != nil {
		return "", fmt.Errorf("analyst stage: %w", err)
	}

	log.Printf("  → Mining insights...")
	minerConfig := minerStage(agents.Miner, p.tools)
	minerConfig.SystemPrompt = p.config.GetMinerPrompt()
	insights, err := NewAgent(minerConfig, p.client).Run(ctx, transcript)
	if err != nil {
		return "", fmt.Errorf("miner stage: %w", err)
	}

	log.Printf("  → Compiling summary...")
	editorConfig := editorStage(agents.Editor)
	editorConfig.SystemPrompt = p.config.GetEditorPrompt()
	summary, err := NewAgent(editorConfig, p.client).Run(ctx, composeEditorInput(analysis, insights))
	if err != nil {
		return "", fmt.Errorf("editor stage: %w", err)
	}
	if strings.TrimSpace(summary) == "" {
		return "", fmt.Errorf("editor stage: empty summary")
	}

	log.Printf("✓ Summary generated (%d chars)", len(summary))
	return summary, nil
}
