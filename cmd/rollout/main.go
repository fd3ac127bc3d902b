package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/boristopalov/rollout/pkg/agent"
	"github.com/boristopalov/rollout/pkg/config"
	"github.com/boristopalov/rollout/pkg/environment"
	"github.com/boristopalov/rollout/pkg/episode"
	"github.com/boristopalov/rollout/pkg/providers"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "rollout",
		Short: "Rollout drives a chat LLM through reinforcement-learning episodes: observations in, actions out.",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single episode against the demo environment",
		RunE:  runEpisode,
	}
	runCmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")

	for _, envFile := range []string{
		".env",
		"../../.env",
		"../../../.env",
	} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.Execute()
}

func runEpisode(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		cancel()
	}()

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}

	env := newDemoEnvironment()

	a, err := agent.NewEpisodeAgent(
		agent.WithClient(client),
		agent.WithEnvDescription(env.Describe()),
	)
	if err != nil {
		return fmt.Errorf("failed to create agent: %v", err)
	}
	log.Printf("Created %s", a.GetID())

	result, err := episode.NewLoop(env, a).Run(ctx)
	if err != nil {
		return fmt.Errorf("episode failed: %v", err)
	}

	fmt.Printf("%s finished after %d steps with return %g\n", result.EpisodeID, result.Steps, result.Return)
	return nil
}

func newClient(ctx context.Context, cfg *config.RolloutConfig) (agent.Client, error) {
	opts := []providers.ProviderOption{
		providers.WithModel(cfg.Model.Id),
		providers.WithTemperature(cfg.Model.Temperature),
	}
	if cfg.Model.BaseURL != "" {
		opts = append(opts, providers.WithBaseURL(cfg.Model.BaseURL))
	}

	switch cfg.Model.Provider {
	case "gemini":
		return providers.Gemini(ctx, opts...)
	case "openai", "":
		return providers.OpenAi(ctx, opts...), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Model.Provider)
	}
}

// newDemoEnvironment builds a short scripted blackjack-style hand so the
// loop can be exercised end to end without a live simulator.
func newDemoEnvironment() *environment.Scripted {
	description := `Blackjack. The observation is a tuple (player sum, dealer showing card, usable ace). Actions: 0 = stand, 1 = hit. Reward is +1 for winning the hand, -1 for losing, 0 otherwise.`

	return environment.NewScripted(description, "(10, 3, 0)", []environment.StepResult{
		{Observation: "(14, 3, 0)", Reward: 0.0},
		{Observation: "(14, 3, 0)", Reward: 1.0, Terminated: true},
	})
}
