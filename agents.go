package main

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// maxToolRounds caps how many tool-call exchanges a single stage may make
// before the run is abandoned.
const maxToolRounds = 5

// ChatCompleter is the slice of the generative service an agent needs.
type ChatCompleter interface {
	ChatCompletion(ctx context.Context, request ChatRequest) (*ChatResponse, error)
}

// Tool is a capability the model may invoke on its own during a stage.
type Tool interface {
	Definition() ToolDefinition
	Call(ctx context.Context, arguments string) (string, error)
}

// AgentConfig describes one generative stage: who the agent is, what it is
// told to do, which model serves it and which tools it may reach for.
type AgentConfig struct {
	Name         string
	Role         string
	Instructions []string
	Model        string
	MaxTokens    int
	Temperature  float64
	Tools        []Tool

	// SystemPrompt, when set, replaces the prompt rendered from Role and
	// Instructions. Set by the prompt override flags.
	SystemPrompt string
}

// Agent executes a single stage configuration against the generative
// service. Agents hold no conversation state between runs.
type Agent struct {
	config AgentConfig
	client ChatCompleter
}

// NewAgent binds a stage configuration to a generative client.
func NewAgent(config AgentConfig, client ChatCompleter) *Agent {
	return &Agent{config: config, client: client}
}

// systemPrompt renders the role and numbered instructions, unless an
// override replaced the whole prompt.
func (a *Agent) systemPrompt() string {
	if a.config.SystemPrompt != "" {
		return strings.TrimSpace(a.config.SystemPrompt)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\nRole: %s\n\nInstructions:\n", a.config.Name, a.config.Role)
	for i, instruction := range a.config.Instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, instruction)
	}
	return strings.TrimSpace(b.String())
}

// Run sends the input through one stateless completion, resolving any tool
// calls the model makes along the way.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	messages := []ChatMessage{
		{Role: "system", Content: a.systemPrompt()},
		{Role: "user", Content: input},
	}

	var tools []ToolDefinition
	for _, tool := range a.config.Tools {
		tools = append(tools, tool.Definition())
	}

	for round := 0; round <= maxToolRounds; round++ {
		response, err := a.client.ChatCompletion(ctx, ChatRequest{
			Model:       a.config.Model,
			Messages:    messages,
			Temperature: a.config.Temperature,
			MaxTokens:   a.config.MaxTokens,
			Tools:       tools,
		})
		if err != nil {
			return "", err
		}

		choice := response.Choices[0]
		if len(choice.Message.ToolCalls) == 0 {
			return choice.Message.Content, nil
		}

		messages = append(messages, choice.Message)
		for _, call := range choice.Message.ToolCalls {
			messages = append(messages, ChatMessage{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    a.callTool(ctx, call),
			})
		}
	}

	return "", fmt.Errorf("exceeded %d tool rounds", maxToolRounds)
}

// callTool executes one requested tool. Failures are handed back to the
// model as the tool result so the stage can still finish.
func (a *Agent) callTool(ctx context.Context, call ToolCall) string {
	for _, tool := range a.config.Tools {
		if tool.Definition().Function.Name != call.Function.Name {
			continue
		}

		log.Printf("  → %s calling %s", a.config.Name, call.Function.Name)
		result, err := tool.Call(ctx, call.Function.Arguments)
		if err != nil {
			return fmt.Sprintf("tool error: %v", err)
		}
		return result
	}

	return fmt.Sprintf("unknown tool: %s", call.Function.Name)
}
