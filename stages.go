package main

import "fmt"

// compileInstruction is appended to the editor's input after both upstream
// reports. The editor never sees the raw transcript.
const compileInstruction = "Compile the analysis and insights above into the final summary report."

// analystStage cleans and structures the raw transcript.
func analystStage(settings AgentSettings) AgentConfig {
	return AgentConfig{
		Name: "Transcript Analyst",
		Role: "Extracts logical segments and raw data from captions",
		Instructions: []string{
			"Clean filler words from the transcript.",
			"Divide the content into logical chapters based on the flow of conversation.",
			"Extract all specific entities like tools, links, or names mentioned.",
		},
		Model:       settings.Model,
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	}
}

// minerStage digs for insights and may reach for the web tools on its own.
func minerStage(settings AgentSettings, tools []Tool) AgentConfig {
	return AgentConfig{
		Name: "Insight Miner",
		Role: "Identifies deep insights and the 'why' behind the video",
		Instructions: []string{
			"Identify the top 3-5 unique insights or 'Gold Nuggets'.",
			"Determine the creator's tone and the target audience.",
			"Highlight the primary problem and solution discussed.",
		},
		Model:       settings.Model,
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
		Tools:       tools,
	}
}

// editorStage compiles both reports into the final Markdown summary.
func editorStage(settings AgentSettings) AgentConfig {
	return AgentConfig{
		Name: "Lead Editor",
		Role: "Compiles the analysis and insights into the final report",
		Instructions: []string{
			"Receive the analysis from the Analyst and Miner.",
			"Format the final output into professional Markdown.",
			"Start with a 'TL;DR' section.",
			"Follow with a 'Detailed Breakdown' using headers.",
			"End with a 'Key Takeaways' checklist.",
			"Ensure the summary is concise and removes any fluff.",
		},
		Model:       settings.Model,
		MaxTokens:   settings.MaxTokens,
		Temperature: settings.Temperature,
	}
}

// composeEditorInput merges the two upstream reports with the fixed compile
// instruction, in that order.
func composeEditorInput(analysis, insights string) string {
	return fmt.Sprintf("Analyst notes:\n%s\n\nInsight report:\n%s\n\n%s", analysis, insights, compileInstruction)
}
