package main

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func pipelineConfig() *Config {
	settings := &Settings{}
	settings.Agents.Analyst = AgentSettings{Model: "analyst-model", MaxTokens: 100, Temperature: 0.3}
	settings.Agents.Miner = AgentSettings{Model: "miner-model", MaxTokens: 200, Temperature: 0.4}
	settings.Agents.Editor = AgentSettings{Model: "editor-model", MaxTokens: 300, Temperature: 0.2}
	return &Config{Settings: settings}
}

func TestPipelineSummarize(t *testing.T) {
	completer := &fakeCompleter{responses: []*ChatResponse{
		textResponse("analyst findings"),
		textResponse("miner nuggets"),
		textResponse("# TL;DR\nfinal summary"),
	}}
	tool := &fakeTool{name: "web_search", result: "r"}
	pipeline := NewPipeline(completer, pipelineConfig(), []Tool{tool})

	summary, err := pipeline.Summarize(context.Background(), "the raw transcript")
	if err != nil {
		t.Fatalf("Summarize() unexpected error: %v", err)
	}
	if summary != "# TL;DR\nfinal summary" {
		t.Errorf("Summarize() = %q, want editor output", summary)
	}

	if len(completer.requests) != 3 {
		t.Fatalf("Expected 3 chat completions, got %d", len(completer.requests))
	}

	analyst := completer.requests[0]
	if analyst.Model != "analyst-model" {
		t.Errorf("analyst model = %q, want analyst-model", analyst.Model)
	}
	if !strings.Contains(analyst.Messages[0].Content, "Transcript Analyst") {
		t.Errorf("analyst system prompt = %q", analyst.Messages[0].Content)
	}
	if analyst.Messages[1].Content != "the raw transcript" {
		t.Errorf("analyst input = %q, want raw transcript", analyst.Messages[1].Content)
	}
	if len(analyst.Tools) != 0 {
		t.Errorf("analyst should have no tools, got %d", len(analyst.Tools))
	}

	miner := completer.requests[1]
	if miner.Model != "miner-model" {
		t.Errorf("miner model = %q, want miner-model", miner.Model)
	}
	if !strings.Contains(miner.Messages[0].Content, "Insight Miner") {
		t.Errorf("miner system prompt = %q", miner.Messages[0].Content)
	}
	if miner.Messages[1].Content != "the raw transcript" {
		t.Errorf("miner input = %q, want the raw transcript, not analyst output", miner.Messages[1].Content)
	}
	if len(miner.Tools) != 1 || miner.Tools[0].Function.Name != "web_search" {
		t.Errorf("miner tools = %+v, want web_search", miner.Tools)
	}

	editor := completer.requests[2]
	if editor.Model != "editor-model" {
		t.Errorf("editor model = %q, want editor-model", editor.Model)
	}
	if !strings.Contains(editor.Messages[0].Content, "Lead Editor") {
		t.Errorf("editor system prompt = %q", editor.Messages[0].Content)
	}
	input := editor.Messages[1].Content
	if !strings.Contains(input, "analyst findings") {
		t.Errorf("editor input missing analyst output:\n%s", input)
	}
	if !strings.Contains(input, "miner nuggets") {
		t.Errorf("editor input missing miner output:\n%s", input)
	}
	if !strings.Contains(input, compileInstruction) {
		t.Errorf("editor input missing compile instruction:\n%s", input)
	}
	if strings.Contains(input, "the raw transcript") {
		t.Errorf("editor input should not contain the raw transcript:\n%s", input)
	}
}

func TestPipelineAbortsOnAnalystFailure(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("model offline"), errOnCall: 1}
	pipeline := NewPipeline(completer, pipelineConfig(), nil)

	_, err := pipeline.Summarize(context.Background(), "transcript")
	if err == nil || !strings.Contains(err.Error(), "analyst stage") {
		t.Errorf("Summarize() error = %v, want analyst stage failure", err)
	}
	if len(completer.requests) != 1 {
		t.Errorf("Expected pipeline to stop after 1 call, got %d", len(completer.requests))
	}
}

func TestPipelineAbortsOnMinerFailure(t *testing.T) {
	completer := &fakeCompleter{
		responses: []*ChatResponse{textResponse("analyst findings")},
		err:       errors.New("model offline"),
		errOnCall: 2,
	}
	pipeline := NewPipeline(completer, pipelineConfig(), nil)

	_, err := pipeline.Summarize(context.Background(), "transcript")
	if err == nil || !strings.Contains(err.Error(), "miner stage") {
		t.Errorf("Summarize() error = %v, want miner stage failure", err)
	}
	if len(completer.requests) != 2 {
		t.Errorf("Expected pipeline to stop after 2 calls, got %d", len(completer.requests))
	}
}

func TestPipelineAbortsOnEditorFailure(t *testing.T) {
	completer := &fakeCompleter{
		responses: []*ChatResponse{textResponse("analyst findings"), textResponse("miner nuggets")},
		err:       errors.New("model offline"),
		errOnCall: 3,
	}
	pipeline := NewPipeline(completer, pipelineConfig(), nil)

	_, err := pipeline.Summarize(context.Background(), "transcript")
	if err == nil || !strings.Contains(err.Error(), "editor stage") {
		t.Errorf("Summarize() error = %v, want editor stage failure", err)
	}
}

func TestPipelineRejectsEmptySummary(t *testing.T) {
	completer := &fakeCompleter{responses: []*ChatResponse{
		textResponse("analyst findings"),
		textResponse("miner nuggets"),
		textResponse("   "),
	}}
	pipeline := NewPipeline(completer, pipelineConfig(), nil)

	_, err := pipeline.Summarize(context.Background(), "transcript")
	if err == nil || !strings.Contains(err.Error(), "empty summary") {
		t.Errorf("Summarize() error = %v, want empty summary rejection", err)
	}
}

func TestStageConfigs(t *testing.T) {
	settings := AgentSettings{Model: "m", MaxTokens: 42, Temperature: 0.7}

	analyst := analystStage(settings)
	if analyst.Name != "Transcript Analyst" || analyst.Model != "m" || analyst.MaxTokens != 42 {
		t.Errorf("analystStage() = %+v", analyst)
	}
	if len(analyst.Instructions) != 3 || len(analyst.Tools) != 0 {
		t.Errorf("analystStage() instructions/tools = %d/%d, want 3/0", len(analyst.Instructions), len(analyst.Tools))
	}

	tool := &fakeTool{name: "web_search"}
	miner := minerStage(settings, []Tool{tool})
	if miner.Name != "Insight Miner" || len(miner.Tools) != 1 {
		t.Errorf("minerStage() = %+v", miner)
	}

	editor := editorStage(settings)
	if editor.Name != "Lead Editor" || len(editor.Instructions) != 6 {
		t.Errorf("editorStage() = %+v", editor)
	}
	joined := strings.Join(editor.Instructions, " ")
	for _, want := range []string{"TL;DR", "Detailed Breakdown", "Key Takeaways"} {
		if !strings.Contains(joined, want) {
			t.Errorf("editor instructions missing %q", want)
		}
	}
}

func TestComposeEditorInput(t *testing.T) {
	got := composeEditorInput("A-report", "M-report")

	analystIdx := strings.Index(got, "A-report")
	minerIdx := strings.Index(got, "M-report")
	instructionIdx := strings.Index(got, compileInstruction)
	if analystIdx < 0 || minerIdx < 0 || instructionIdx < 0 {
		t.Fatalf("composeEditorInput() missing parts:\n%s", got)
	}
	if !(analystIdx < minerIdx && minerIdx < instructionIdx) {
		t.Errorf("composeEditorInput() parts out of order:\n%s", got)
	}
}
