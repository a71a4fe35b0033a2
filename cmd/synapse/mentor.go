package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nithin-eashwar/synapse/internal/mentor"
	"github.com/nithin-eashwar/synapse/internal/pipeline"
)

var mentorCmd = &cobra.Command{
	Use:   "mentor [repository path] [entity id]",
	Short: "Ask the configured LLM to explain an entity's risk assessment",
	Long: `Builds the repository's risk assessments, then passes the given
entity's score and top factors to the configured mentor provider
(OpenAI or Gemini, set via synapse.yaml or SYNAPSE_MENTOR_* env vars) for
a plain-language explanation. Does nothing if no provider is configured.

Examples:
  synapse mentor . src/payments.py:charge_card`,
	Args: cobra.ExactArgs(2),
	RunE: runMentor,
}

func runMentor(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	repoPath, entityID := args[0], args[1]

	client, err := mentor.NewClient(ctx, mentor.Provider(cfg.Mentor.Provider), cfg.Mentor.APIKey, cfg.Mentor.Model, cfg.Mentor.RateLimitRPS)
	if err != nil {
		return fmt.Errorf("build mentor client: %w", err)
	}
	if !client.IsEnabled() {
		fmt.Println("Mentor is not configured. Set mentor.provider and an API key (env var or keychain) in synapse.yaml.")
		return nil
	}

	orch := pipeline.NewOrchestrator(logger, cfg, 0)
	result, err := orch.Run(ctx, repoPath)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	assessment, ok := result.Assessments[entityID]
	if !ok {
		return fmt.Errorf("no risk assessment for entity: %s", entityID)
	}

	prompt := fmt.Sprintf("Entity %s scored %.2f (%s).\n", entityID, assessment.Score, assessment.Level)
	for _, f := range assessment.Factors {
		prompt += fmt.Sprintf("- %s (%s): %s\n", f.Signal, f.Impact, f.Detail)
	}
	prompt += "\nExplain what this means for someone about to modify this code."

	explanation, err := client.Explain(ctx, prompt)
	if err != nil {
		return fmt.Errorf("mentor explanation failed: %w", err)
	}
	fmt.Println(explanation)
	return nil
}
