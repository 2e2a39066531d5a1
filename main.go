package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cfg "github.com/Ahmiconnect/ahmi/config"
	"github.com/Ahmiconnect/ahmi/media"
	"github.com/Ahmiconnect/ahmi/orchestrator"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ahmi",
	Short: "Turns narrated recordings into themed highlight compilations",
	Long: "ahmi transcribes narrated recordings, attributes the timeline to known\n" +
		"keywords, assembles matching clip segments and composes final videos\n" +
		"with mixed narration and background music.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml")

	rootCmd.AddCommand(
		stageCmd("transcribe", "Derive keyword segment timelines from the source recordings", false,
			func(ctx context.Context, p *orchestrator.Pipeline) error { return p.Transcribe(ctx) }),
		stageCmd("assemble", "Build exact-duration segment units from the clip pools", true,
			func(ctx context.Context, p *orchestrator.Pipeline) error { return p.Assemble(ctx) }),
		stageCmd("compose", "Compose final videos with narration and background music", true,
			func(ctx context.Context, p *orchestrator.Pipeline) error { return p.Compose(ctx) }),
		stageCmd("run", "Run all three stages in order", true,
			func(ctx context.Context, p *orchestrator.Pipeline) error { return p.Run(ctx) }),
	)
}

func stageCmd(name, short string, needsEngine bool, fn func(context.Context, *orchestrator.Pipeline) error) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if needsEngine {
				if err := media.Preflight(); err != nil {
					return err
				}
			}
			p, err := buildPipeline()
			if err != nil {
				return err
			}
			return fn(cmd.Context(), p)
		},
	}
}

func buildPipeline() (*orchestrator.Pipeline, error) {
	conf, err := cfg.Load(configPath)
	if err != nil {
		return nil, err
	}
	vocab, err := cfg.LoadVocabulary(conf.Paths.Vocabulary)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(os.Stdout)
	if lvl, err := logrus.ParseLevel(conf.Pipeline.LogLvl); err == nil {
		log.SetLevel(lvl)
	}

	return orchestrator.NewPipeline(conf, vocab, media.NewFFmpeg(log), log), nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
		os.Exit(1)
	}
}
