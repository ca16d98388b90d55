package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/Nomadcxx/nasflix/internal/catalog"
	"github.com/Nomadcxx/nasflix/internal/config"
	"github.com/Nomadcxx/nasflix/internal/history"
	"github.com/Nomadcxx/nasflix/internal/library"
	"github.com/Nomadcxx/nasflix/internal/log"
	"github.com/Nomadcxx/nasflix/internal/metadata"
	"github.com/Nomadcxx/nasflix/internal/player"
	"github.com/Nomadcxx/nasflix/internal/reporter"
	"github.com/Nomadcxx/nasflix/internal/series"
	"github.com/Nomadcxx/nasflix/internal/titles"
	"github.com/Nomadcxx/nasflix/internal/ui"
)

var (
	cfgFile  string
	logLevel string

	outputFormat string
	saveReport   bool
	category     string

	includeYear  bool
	keepSubtitle bool

	clearHistory bool
	showSearches bool
	historyLimit int

	// Version information (set via -ldflags during build)
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "nasflix",
	Short:         "Browse and play a NAS media catalog",
	Long:          getLongDescription(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive browser",
	Args:  cobra.NoArgs,
	RunE:  runBrowse,
}

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List a catalog folder grouped into series",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog and group the results into series",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var groupCmd = &cobra.Command{
	Use:   "group <file.json|->",
	Short: "Group a JSON array of categories or movies into series",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroup,
}

var cleanCmd = &cobra.Command{
	Use:   "clean <raw-title>...",
	Short: "Show the clean title, season and episode of raw titles",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runClean,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show or clear watch and search history",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration file location and contents",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nasflix %s\n", version)
		fmt.Printf("  Commit:     %s\n", commit)
		fmt.Printf("  Built:      %s\n", buildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/nasflix/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level ("+strings.Join(log.Levels, ", ")+")")

	for _, cmd := range []*cobra.Command{listCmd, searchCmd, groupCmd} {
		cmd.Flags().StringVarP(&outputFormat, "format", "f", string(reporter.FormatText), "output format (text, json, yaml)")
		cmd.Flags().BoolVar(&saveReport, "save", false, "save the report to the data directory instead of printing it")
	}
	searchCmd.Flags().StringVarP(&category, "category", "c", "", "limit the search to one category")
	cleanCmd.Flags().BoolVar(&includeYear, "year", false, "append the release year when the title carries one")
	cleanCmd.Flags().BoolVar(&keepSubtitle, "keep-subtitle", false, "keep the subtitle after \" - \"")
	historyCmd.Flags().BoolVar(&clearHistory, "clear", false, "forget all watch and search history")
	historyCmd.Flags().BoolVar(&showSearches, "searches", false, "show recent searches instead of watched videos")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show (0 for all)")

	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(groupCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Exit code 130 for SIGINT
		}
		os.Exit(1)
	}
}

// signalContext is cancelled on Ctrl+C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	return ui.Run(ctx, ui.Deps{
		Library:   a.library,
		History:   a.history,
		Metadata:  a.metadataService(),
		NewPlayer: a.newPlayer,
	})
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := reporter.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	cats, err := a.catalog.List(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to list %q: %w", path, err)
	}

	var all []series.Series
	for _, cat := range cats {
		all = append(all, a.grouper.GroupCategory(cat, cat.Path)...)
	}
	return emit(ctx, reporter.Report{Timestamp: time.Now(), Source: "list " + path, Series: all}, format)
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := reporter.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	query := strings.Join(args, " ")
	if err := a.history.AddSearch(ctx, query); err != nil {
		log.Warn("Failed to save search", "query", query, "error", err)
	}

	results := a.library.Search(ctx, query, category)
	if err := ctx.Err(); err != nil {
		return err
	}
	return emit(ctx, reporter.Report{Timestamp: time.Now(), Source: "search " + query, Series: results}, format)
}

func runGroup(cmd *cobra.Command, args []string) error {
	format, err := reporter.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cleaner, err := titles.NewCleaner(cfg.TitleRules())
	if err != nil {
		return err
	}

	data, err := readInput(args[0])
	if err != nil {
		return err
	}
	grouped, err := groupInput(series.NewGrouper(cleaner), data)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	return emit(ctx, reporter.Report{Timestamp: time.Now(), Source: args[0], Series: grouped}, format)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cleaner, err := titles.NewCleaner(cfg.TitleRules())
	if err != nil {
		return err
	}
	return writeCleanTable(os.Stdout, cleaner, args, keepSubtitle, includeYear)
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	if clearHistory {
		if err := a.history.ClearWatches(ctx); err != nil {
			return err
		}
		if err := a.history.ClearSearches(ctx); err != nil {
			return err
		}
		fmt.Println("History cleared.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	if showSearches {
		entries, err := a.history.RecentSearches(ctx, historyLimit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\n", e.Timestamp.Format("2006-01-02 15:04"), e.Query)
		}
		return nil
	}

	entries, err := a.history.WatchHistory(ctx, historyLimit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			e.Timestamp.Format("2006-01-02 15:04"),
			formatPosition(e.PositionMs),
			titles.PrettyTitle(e.Title),
			e.ID)
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	if cfgFile != "" {
		os.Setenv("NASFLIX_CONFIG_PATH", cfgFile)
	}
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	fmt.Printf("Configuration file: %s\n\n", path)
	if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("\nWarning: %v\n", err)
	}

	fmt.Println("\nEnvironment overrides:")
	for _, v := range config.EnvVars() {
		fmt.Printf("  %-28s %s\n", v.Name, v.Desc)
	}
	return nil
}

// app holds the collaborators shared by the commands.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	cleaner *titles.Cleaner
	grouper *series.Grouper
	catalog *catalog.Client
	library *library.Library
	history *history.Store
}

// newApp loads and validates the config, installs the file logger and
// builds the catalog stack. The history database is only opened when
// withHistory is set.
func newApp(withHistory bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := log.New(log.Config{Level: cfg.Logging.Level, FilePath: cfg.Logging.FilePath})
	if err != nil {
		return nil, err
	}
	log.SetDefaultLogger(logger)

	cleaner, err := titles.NewCleaner(cfg.TitleRules())
	if err != nil {
		logger.Close()
		return nil, err
	}
	timeout, _ := cfg.Timeout()
	client := catalog.NewClient(cfg.Server.BaseURL, timeout)
	client.UserAgent = cfg.Server.UserAgent

	fetch := catalog.DefaultFetchConfig()
	if cfg.Server.Workers > 0 {
		fetch.Workers = cfg.Server.Workers
	}

	grouper := series.NewGrouper(cleaner)
	a := &app{
		cfg:     cfg,
		logger:  logger,
		cleaner: cleaner,
		grouper: grouper,
		catalog: client,
		library: library.New(client, grouper, fetch),
	}

	if withHistory {
		a.history, err = history.Open(cfg.History.DBPath)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	log.Info("nasflix started", "version", version, "server", cfg.Server.BaseURL)
	return a, nil
}

func (a *app) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			log.Warn("Failed to close history", "error", err)
		}
	}
	log.SetDefaultLogger(nil)
	a.logger.Close()
}

// metadataService returns a lookup service over TMDB, when a token is
// configured, and AniList unless disabled.
func (a *app) metadataService() *metadata.Service {
	var tmdb *metadata.TMDBClient
	if a.cfg.Metadata.TMDBToken != "" {
		tmdb = metadata.NewTMDBClient(a.cfg.Metadata.TMDBToken)
	}

	opts := []metadata.Option{
		metadata.WithCleaner(a.cleaner),
		metadata.WithLanguage(a.cfg.Metadata.Language),
	}
	if !a.cfg.Metadata.DisableAniList {
		opts = append(opts, metadata.WithAniList(metadata.NewAniListClient("")))
	}
	return metadata.NewService(tmdb, metadata.NewCache(), opts...)
}

func (a *app) newPlayer() player.Player {
	return player.NewMPV(player.MPVConfig{
		Path:    a.cfg.Player.Path,
		Args:    a.cfg.Player.Args,
		IPCPath: a.cfg.Player.IPCPath,
	})
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		os.Setenv("NASFLIX_CONFIG_PATH", cfgFile)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = strings.ToLower(logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func getLongDescription() string {
	return ui.FormatASCIIHeader() + "\n\n" +
		"nasflix browses a home media server's catalog, groups raw file listings into\n" +
		"series and seasons, and plays episodes in order through mpv."
}
