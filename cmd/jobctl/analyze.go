package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/jobboard-api/internal/config"
	"github.com/yourusername/jobboard-api/internal/location"
	"github.com/yourusername/jobboard-api/internal/model"
)

var scoreCmd = &cobra.Command{
	Use:   "score [text...]",
	Short: "Score posting text against the skill profile",
	Long:  "Score posting text against the skill profile. Reads stdin when no text is given.",
	RunE:  runScore,
}

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Classify where a posting can be worked from",
	Long:  "Classify where a posting can be worked from. Reads stdin when no text is given.",
	RunE:  runClassify,
}

var (
	scoreTemperature float64
	analyzeRegion    string
)

func init() {
	scoreCmd.Flags().Float64VarP(&scoreTemperature, "temperature", "t", -1, "Scoring temperature in [0, 1] (default from profile)")
	scoreCmd.Flags().StringVarP(&analyzeRegion, "region", "r", "", "Candidate region (EU, Americas, APAC, MENA, Global)")
	classifyCmd.Flags().StringVarP(&analyzeRegion, "region", "r", "", "Candidate region used for the filter columns")

	rootCmd.AddCommand(scoreCmd, classifyCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	profile, err := config.LoadProfile(cfg.SkillsFile)
	if err != nil {
		return err
	}
	_, engine, err := profile.Build(cfg)
	if err != nil {
		return err
	}

	region, err := parseRegionFlag(analyzeRegion, engine.Config().DefaultRegion)
	if err != nil {
		return err
	}
	t := scoreTemperature
	if t < 0 {
		t = engine.Config().DefaultTemperature
	}
	if t > 1 {
		return fmt.Errorf("--temperature must be between 0 and 1")
	}

	return printJSON(cmd.OutOrStdout(), engine.Score(text, t, region))
}

func runClassify(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	region, err := parseRegionFlag(analyzeRegion, model.RegionEU)
	if err != nil {
		return err
	}

	d := location.Classify(text)
	return printJSON(cmd.OutOrStdout(), map[string]any{
		"location":     d,
		"description":  location.Describe(d),
		"remoteGlobal": location.MatchesRemoteGlobal(d),
		"remoteRegion": location.MatchesRemoteRegion(d, region),
		"onsiteRegion": location.MatchesOnSiteRegion(d, region),
		"anyRegion":    location.MatchesAnyRegion(d, region),
	})
}

func parseRegionFlag(raw string, fallback model.Region) (model.Region, error) {
	if raw == "" {
		return fallback, nil
	}
	r, ok := model.ParseRegion(raw)
	if !ok {
		return "", fmt.Errorf("unknown region %q", raw)
	}
	return r, nil
}
