// Package main provides jobctl, a command-line client for the job board engine.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yourusername/jobboard-api/internal/app"
	"github.com/yourusername/jobboard-api/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "jobctl",
	Short:         "Fetch, score and classify job postings",
	Long:          "jobctl runs the job board engine from the command line: fetch a provider's postings, score free text against the skill profile, or classify where a posting can be worked from.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	skillsFile string
	logLevel   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&skillsFile, "skills", "", "Skill profile YAML (overrides SKILLS_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves env config and applies the persistent flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if skillsFile != "" {
		cfg.SkillsFile = skillsFile
	}
	app.SetupLogging("development", logLevel)
	return cfg, nil
}

// readText joins args, or reads stdin when there are none or the only arg is "-".
func readText(in io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no text given")
	}
	return text, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
