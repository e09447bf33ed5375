// Package main provides the VibeFlo command-line client.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vibeflo/vibeflo-go/internal/api"
	"github.com/vibeflo/vibeflo-go/internal/apiurl"
	"github.com/vibeflo/vibeflo-go/internal/config"
	"github.com/vibeflo/vibeflo-go/internal/credentials"
	"github.com/vibeflo/vibeflo-go/internal/localdb"
	"github.com/vibeflo/vibeflo-go/internal/tracker"
	"github.com/vibeflo/vibeflo-go/pkg/models"
)

// Version is set at build time via ldflags.
var Version = "dev"

const usage = `Usage: vibeflo [flags] <command> [args]

Commands:
  login <login> <password>       Sign in with username/email and password
  register <name> <user> <email> <password>
  logout                         Sign out and discard the local token
  whoami                         Show the signed-in account
  stats                          Show focus statistics
  sessions                       List recorded focus sessions
  add [-duration n] [-task s] [-completed]
                                 Record a finished focus session
  playlists [list|create|show|delete|add-song] ...
  themes [list|current|set] ...
`

func main() {
	// Parse flags
	apiURL := flag.String("api-url", "", "API base URL (default: resolved from config)")
	dataDir := flag.String("data-dir", "", "Data directory (default: ~/.vibeflo)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if *version {
		fmt.Println("vibeflo", Version)
		return
	}

	// Output goes to stdout, so log to stderr
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load config, using defaults")
		cfg = config.Default()
	}
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *debug || cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create data directory")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Local cache store (migrations run automatically)
	store, err := localdb.NewStore(localdb.StoreConfig{
		Path:     cfg.DBPath(),
		MaxConns: cfg.MaxConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open local database")
	}
	defer store.Close()

	creds, err := credentials.NewDB(ctx, localdb.NewKV(store))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load stored credentials")
	}

	endpoints := apiurl.Resolve(apiurl.Signals{
		ConfiguredURL: cfg.APIURL,
		Hostname:      cfg.Hostname,
		Production:    cfg.Production,
	})
	log.Debug().Str("base_url", endpoints.BaseURL).Msg("Resolved API endpoints")

	client := api.NewClient(api.Config{
		Endpoints:   endpoints,
		Credentials: creds,
		OnSessionExpired: func() {
			fmt.Fprintln(os.Stderr, "Your session has expired. Please log in again with: vibeflo login")
		},
	})

	tr := tracker.New(tracker.Config{
		Gateway:            client,
		Credentials:        creds,
		SessionCache:       localdb.NewSessionCache(store),
		StatsCache:         localdb.NewStatsCache(store),
		MinRefreshInterval: cfg.RefreshMinInterval,
	})
	defer tr.Close()

	cmd, args := flag.Arg(0), flag.Args()[1:]

	switch cmd {
	case "login":
		err = runLogin(ctx, client, args)
	case "register":
		err = runRegister(ctx, client, args)
	case "logout":
		client.Logout(ctx)
		fmt.Println("Signed out.")
	case "whoami":
		err = runWhoami(ctx, client)
	case "stats":
		err = runStats(ctx, tr)
	case "sessions":
		err = runSessions(ctx, tr)
	case "add":
		err = runAdd(ctx, tr, args)
	case "playlists":
		err = runPlaylists(ctx, client, args)
	case "themes":
		err = runThemes(ctx, client, args)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("Command failed")
	}
}

func runLogin(ctx context.Context, client *api.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: vibeflo login <username-or-email> <password>")
	}
	resp, err := client.Login(ctx, models.LoginInput{Login: args[0], Password: args[1]})
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", resp.User.Username, resp.User.Email)
	return nil
}

func runRegister(ctx context.Context, client *api.Client, args []string) error {
	if len(args) != 4 {
		return fmt.Errorf("usage: vibeflo register <name> <username> <email> <password>")
	}
	resp, err := client.Register(ctx, models.RegisterInput{
		Name:     args[0],
		Username: args[1],
		Email:    args[2],
		Password: args[3],
	})
	if err != nil {
		return err
	}
	fmt.Printf("Account created. Signed in as %s\n", resp.User.Username)
	return nil
}

func runWhoami(ctx context.Context, client *api.Client) error {
	user, err := client.CurrentUser(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	return nil
}

func runStats(ctx context.Context, tr *tracker.Tracker) error {
	tr.Refresh(ctx)
	state := tr.Snapshot()
	if state.Err != "" {
		fmt.Fprintln(os.Stderr, state.Err)
	}
	if state.Stats == nil {
		return nil
	}

	s := state.Stats
	fmt.Printf("Total sessions:     %d\n", s.TotalSessions)
	fmt.Printf("Completed sessions: %d\n", s.CompletedSessions)
	fmt.Printf("Total focus time:   %d min\n", s.TotalFocusTime)
	if s.AverageSessionMinutes > 0 {
		fmt.Printf("Average session:    %.1f min\n", s.AverageSessionMinutes)
	}
	if s.MostProductiveDay != nil {
		fmt.Printf("Most productive:    %s (%d min)\n", s.MostProductiveDay.Day, s.MostProductiveDay.Minutes)
	}
	if s.CurrentStreak > 0 {
		fmt.Printf("Current streak:     %d days\n", s.CurrentStreak)
	}
	return nil
}

func runSessions(ctx context.Context, tr *tracker.Tracker) error {
	tr.Refresh(ctx)
	state := tr.Snapshot()
	if state.Err != "" {
		fmt.Fprintln(os.Stderr, state.Err)
	}
	if len(state.Sessions) == 0 {
		fmt.Println("No sessions recorded.")
		return nil
	}

	for _, s := range state.Sessions {
		status := "completed"
		if !s.Completed {
			status = "abandoned"
		}
		marker := ""
		if s.Unsaved {
			marker = " (not saved)"
		} else if s.Provisional() {
			marker = " (saving...)"
		}
		task := s.Task
		if task == "" {
			task = "-"
		}
		fmt.Printf("%s  %3d min  %-9s  %s%s\n", s.CreatedAt, s.Duration, status, task, marker)
	}
	return nil
}

func runAdd(ctx context.Context, tr *tracker.Tracker, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	duration := fs.Int("duration", 25, "Session duration in minutes")
	task := fs.String("task", "", "What the session was spent on")
	completed := fs.Bool("completed", true, "Whether the session ran to completion")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tr.AddSession(ctx, models.SessionInput{
		Duration:  *duration,
		Task:      *task,
		Completed: *completed,
	})
	state := tr.Snapshot()
	if state.Err != "" {
		fmt.Fprintln(os.Stderr, state.Err)
		return nil
	}
	fmt.Printf("Recorded %d min session.\n", *duration)
	return nil
}

func runPlaylists(ctx context.Context, client *api.Client, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		playlists, err := client.ListPlaylists(ctx)
		if err != nil {
			return err
		}
		if len(playlists) == 0 {
			fmt.Println("No playlists.")
			return nil
		}
		for _, p := range playlists {
			fmt.Printf("%d  %s (%d songs)\n", p.ID, p.Name, len(p.Songs))
		}
		return nil

	case "create":
		if len(args) != 1 {
			return fmt.Errorf("usage: vibeflo playlists create <name>")
		}
		p, err := client.CreatePlaylist(ctx, models.PlaylistInput{Name: args[0]})
		if err != nil {
			return err
		}
		fmt.Printf("Created playlist %d: %s\n", p.ID, p.Name)
		return nil

	case "show":
		if len(args) != 1 {
			return fmt.Errorf("usage: vibeflo playlists show <id>")
		}
		p, err := client.GetPlaylist(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s\n", p.Name)
		for _, song := range p.Songs {
			fmt.Printf("  %s - %s\n", song.Artist, song.Title)
		}
		return nil

	case "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: vibeflo playlists delete <id>")
		}
		if err := client.DeletePlaylist(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("Deleted.")
		return nil

	case "add-song":
		fs := flag.NewFlagSet("add-song", flag.ExitOnError)
		title := fs.String("title", "", "Song title (required)")
		artist := fs.String("artist", "", "Artist name")
		url := fs.String("url", "", "Playback URL (required)")
		if len(args) == 0 {
			return fmt.Errorf("usage: vibeflo playlists add-song <playlist-id> -title t -url u")
		}
		playlistID := args[0]
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		song, err := client.AddSongToPlaylist(ctx, playlistID, models.Song{
			Title:  *title,
			Artist: *artist,
			URL:    *url,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added song %d: %s\n", song.ID, song.Title)
		return nil

	default:
		return fmt.Errorf("unknown playlists subcommand %q", sub)
	}
}

func runThemes(ctx context.Context, client *api.Client, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	switch sub {
	case "list":
		themes, err := client.ListThemes(ctx)
		if err != nil {
			return err
		}
		for _, th := range themes {
			marker := ""
			if th.IsDefault {
				marker = " (default)"
			}
			fmt.Printf("%d  %s%s\n", th.ID, th.Name, marker)
		}
		return nil

	case "current":
		th, err := client.GetCurrentTheme(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%d  %s\n", th.ID, th.Name)
		return nil

	case "set":
		if len(args) != 1 {
			return fmt.Errorf("usage: vibeflo themes set <id>")
		}
		var id int64
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("theme id must be numeric: %q", args[0])
		}
		if err := client.SetTheme(ctx, id); err != nil {
			return err
		}
		fmt.Println("Theme updated.")
		return nil

	default:
		return fmt.Errorf("unknown themes subcommand %q", sub)
	}
}
