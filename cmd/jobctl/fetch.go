package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourusername/jobboard-api/internal/app"
	"github.com/yourusername/jobboard-api/internal/board"
	"github.com/yourusername/jobboard-api/internal/location"
	"github.com/yourusername/jobboard-api/internal/service"
	"github.com/yourusername/jobboard-api/internal/textutil"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <provider>",
	Short: "Fetch, score and filter a provider's postings",
	Args:  cobra.ExactArgs(1),
	RunE:  runFetch,
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the job providers",
	Args:  cobra.NoArgs,
	RunE:  runProviders,
}

var (
	fetchTemperature float64
	fetchRegion      string
	fetchSearch      string
	fetchMinScore    int
	fetchSort        string
	fetchLocation    string
	fetchLimit       int
	fetchJSON        bool
)

func init() {
	fetchCmd.Flags().Float64VarP(&fetchTemperature, "temperature", "t", -1, "Scoring temperature in [0, 1] (default from profile)")
	fetchCmd.Flags().StringVarP(&fetchRegion, "region", "r", "", "Candidate region (EU, Americas, APAC, MENA, Global)")
	fetchCmd.Flags().StringVarP(&fetchSearch, "search", "s", "", "Only postings mentioning this text")
	fetchCmd.Flags().IntVar(&fetchMinScore, "min-score", 0, "Minimum match score")
	fetchCmd.Flags().StringVar(&fetchSort, "sort", "score", "Sort by score or date")
	fetchCmd.Flags().StringVarP(&fetchLocation, "location", "l", "all", "Location filter: all, remote-global, remote-region, onsite-region, any-region")
	fetchCmd.Flags().IntVarP(&fetchLimit, "limit", "n", 25, "Rows to print (0 for all)")
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "Print JSON instead of a table")

	rootCmd.AddCommand(fetchCmd, providersCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	defaults := a.Engine.Config()
	region, err := parseRegionFlag(fetchRegion, defaults.DefaultRegion)
	if err != nil {
		return err
	}
	sortOrder, err := board.ParseSortOrder(fetchSort)
	if err != nil {
		return err
	}
	mode, ok := location.ParseFilterMode(fetchLocation)
	if !ok {
		return fmt.Errorf("unknown location filter %q", fetchLocation)
	}

	filters := board.FilterState{
		Search:   fetchSearch,
		MinScore: fetchMinScore,
		Sort:     sortOrder,
		Location: mode,
		Region:   region,
	}
	t := defaults.DefaultTemperature
	if fetchTemperature >= 0 {
		if fetchTemperature > 1 {
			return fmt.Errorf("--temperature must be between 0 and 1")
		}
		t = fetchTemperature
	}
	filters.Temperature = &t

	res := a.Selector.Fetch(ctx, args[0], service.FetchOptions{Temperature: t, Region: region})
	if res.Err != nil {
		return res.Err
	}
	jobs := board.ApplyFilters(res.Jobs, filters, a.Engine)
	if fetchLimit > 0 && len(jobs) > fetchLimit {
		jobs = jobs[:fetchLimit]
	}

	if fetchJSON {
		res.Jobs = jobs
		return printJSON(cmd.OutOrStdout(), res)
	}

	out := cmd.OutOrStdout()
	if res.Thread != nil {
		fmt.Fprintf(out, "%s (%d comments)\n\n", res.Thread.Title, res.Thread.CommentCount)
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tCOMPANY\tTITLE\tLOCATION\tPOSTED")
	for _, j := range jobs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			j.MatchScore,
			textutil.Truncate(j.Company, 30),
			textutil.Truncate(j.Title, 40),
			j.Location,
			j.PostedAt.Format("2006-01-02"),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%d of %d postings", len(jobs), len(res.Jobs))
	if res.FromCache {
		fmt.Fprint(out, " (cached)")
	}
	fmt.Fprintln(out)
	return nil
}

func runProviders(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	providers := app.NewProviders(service.NewHTTPClient(cfg.HTTPTimeout), nil, nil, cfg.ProviderURLs)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCACHE\tMAX JOBS\tMAX AGE")
	for _, p := range providers.Providers() {
		c := p.Config()
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%dd\n", c.ProviderID, c.Name, c.CacheDuration, c.MaxJobs, c.MaxAgeDays)
	}
	return w.Flush()
}
