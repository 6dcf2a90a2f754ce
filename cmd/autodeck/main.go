// Command autodeck rewrites a PowerPoint deck with a generative API.
//
// Usage:
//
//	autodeck --prompt "translate the text to French" --ppt-file deck.pptx --new-ppt deck-fr.pptx
//
// The API key is read from the AUTODECK_API_KEY environment variable,
// falling back to OPENAI_API_KEY, or from an .autodeck.yaml config file
// in the home or current directory.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tsawler/autodeck"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("Error:"), err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		prompt      string
		pptFile     string
		saveDir     string
		newPPT      string
		temperature float64
		skipImages  bool
		useOCR      bool
	)

	cmd := &cobra.Command{
		Use:   "autodeck",
		Short: "Rewrite a PowerPoint deck with a generative API",
		Long: `autodeck edits the text of a .pptx presentation according to a
natural-language instruction and replaces its embedded pictures with
generated images sized to match the originals.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := resolveAPIKey()
			if apiKey == "" {
				return fmt.Errorf("no API key: set AUTODECK_API_KEY or OPENAI_API_KEY")
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			editor := autodeck.Open(pptFile).
				Instruction(prompt).
				Temperature(temperature).
				APIKey(apiKey).
				Output(newPPT)
			if saveDir != "" {
				editor = editor.WorkDir(saveDir)
			}
			if skipImages {
				editor = editor.SkipImages()
			}
			if useOCR {
				editor = editor.OCR()
			}
			if baseURL := viper.GetString("base_url"); baseURL != "" {
				editor = editor.BaseURL(baseURL)
			}

			fmt.Printf("%s %s\n", bold("Editing"), pptFile)

			result, warnings, err := editor.Run(ctx)
			for _, w := range warnings {
				fmt.Fprintf(os.Stderr, "%s %s\n", yellow("Warning:"), w)
			}
			if err != nil {
				return err
			}

			fmt.Printf("%s %d slides, %d text runs", green("Done:"), result.Slides, result.Runs)
			if result.ImagesReplaced > 0 {
				fmt.Printf(", %d images replaced", result.ImagesReplaced)
			}
			fmt.Printf("\n%s %s\n", bold("Wrote"), result.Output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&prompt, "prompt", "p", "", "edit instruction, e.g. \"translate the text to French\"")
	cmd.Flags().StringVarP(&pptFile, "ppt-file", "f", "", "input .pptx file")
	cmd.Flags().StringVarP(&saveDir, "save-dir", "d", "", "directory for intermediate files (default: a temp dir)")
	cmd.Flags().StringVarP(&newPPT, "new-ppt", "o", autodeck.DefaultOutput, "output .pptx file")
	cmd.Flags().Float64VarP(&temperature, "temperature", "t", 0.7, "sampling temperature for the text edit")
	cmd.Flags().BoolVar(&skipImages, "skip-images", false, "edit text only, keep the original pictures")
	cmd.Flags().BoolVar(&useOCR, "ocr", false, "run OCR on pictures to enrich image prompts (requires an ocr build)")

	cobra.CheckErr(cmd.MarkFlagRequired("prompt"))
	cobra.CheckErr(cmd.MarkFlagRequired("ppt-file"))

	cobra.OnInitialize(initConfig)

	return cmd
}

// initConfig wires up the optional .autodeck.yaml config file and the
// AUTODECK_* environment variables.
func initConfig() {
	viper.SetConfigName(".autodeck")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("AUTODECK")
	viper.AutomaticEnv()

	// Missing config files are fine; only real read failures matter.
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintf(os.Stderr, "%s reading config: %v\n", yellow("Warning:"), err)
		}
	}
}

// resolveAPIKey checks the config file and AUTODECK_API_KEY first, then
// falls back to the conventional OPENAI_API_KEY variable.
func resolveAPIKey() string {
	if key := viper.GetString("api_key"); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}
