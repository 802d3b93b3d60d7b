// Command stockwatch is the terminal front end of the stock-watching client:
// login, watchlist, favorites, news feed, symbol search, and the chat
// assistant, all against the app backend.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"stockwatch/internal/api"
	"stockwatch/internal/chat"
	"stockwatch/internal/config"
	"stockwatch/internal/favorites"
	"stockwatch/internal/market"
	"stockwatch/internal/news"
	"stockwatch/internal/reply"
	"stockwatch/internal/search"
	"stockwatch/internal/session"
	"stockwatch/internal/store"
	"stockwatch/internal/util"
	"stockwatch/internal/watchlist"
)

const version = "0.1.0"

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: stockwatch <command> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  version    Print the CLI version\n")
		fmt.Fprintf(os.Stderr, "  register   Create an account\n")
		fmt.Fprintf(os.Stderr, "  login      Sign in and persist the session\n")
		fmt.Fprintf(os.Stderr, "  logout     Clear the stored session\n")
		fmt.Fprintf(os.Stderr, "  profile    Show the signed-in account\n")
		fmt.Fprintf(os.Stderr, "  chat       Ask the assistant (one question, or -i for a loop)\n")
		fmt.Fprintf(os.Stderr, "  history    Show the recorded chat log\n")
		fmt.Fprintf(os.Stderr, "  watch      Manage the watchlist (list|add|rm)\n")
		fmt.Fprintf(os.Stderr, "  fav        Manage pinned favorites (list|add|rm)\n")
		fmt.Fprintf(os.Stderr, "  search     Look up symbols\n")
		fmt.Fprintf(os.Stderr, "  news       Show the aggregated news feed\n")
		fmt.Fprintf(os.Stderr, "  movers     Show top gainers and losers\n")
		fmt.Fprintf(os.Stderr, "\n")
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(1)
	}

	if os.Args[1] == "version" {
		fmt.Printf("stockwatch %s\n", version)
		return
	}

	app, err := bootstrap()
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.close()

	ctx := context.Background()
	args := os.Args[2:]

	switch os.Args[1] {
	case "register":
		err = app.register(ctx, args)
	case "login":
		err = app.login(ctx, args)
	case "logout":
		err = app.logout(ctx)
	case "profile":
		err = app.profile(ctx)
	case "chat":
		err = app.chat(ctx, args)
	case "history":
		err = app.history(ctx)
	case "watch":
		err = app.watch(ctx, args)
	case "fav":
		err = app.fav(ctx, args)
	case "search":
		err = app.search(ctx, args)
	case "news":
		err = app.news(ctx)
	case "movers":
		err = app.movers(ctx)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		flag.Usage()
		os.Exit(1)
	}

	if err != nil {
		if api.IsAuthRequired(err) {
			var apiErr *api.Error
			if errors.As(err, &apiErr) {
				fmt.Fprintln(os.Stderr, apiErr.Message)
			}
			os.Exit(2)
		}
		log.Fatalf("error: %v", err)
	}
}

// app bundles the wired client components behind the subcommands.
type app struct {
	cfg      *config.Config
	kv       *store.SQLiteStore
	sess     *session.Manager
	client   *api.Client
	watchsvc *watchlist.Service
	favs     *favorites.Set
	universe []string
}

func bootstrap() (*app, error) {
	_ = godotenv.Load()

	cfgPath := "config/stockwatch.yaml"
	if p := os.Getenv("STOCKWATCH_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := util.NewLogger(util.LogOptions{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})

	kv, err := store.NewSQLiteStore(cfg.Storage.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	sess := session.NewManager(kv, logger)
	if err := sess.Load(context.Background()); err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.API.BaseURL, api.Options{
		Tokens:        sess,
		OnAuthFailure: sess.HandleAuthFailure,
		Logger:        logger,
	})

	universe := market.DefaultUniverse
	if cfg.Storage.SymbolsCSV != "" {
		loaded, err := market.LoadCSVUniverse(cfg.Storage.SymbolsCSV)
		if err != nil {
			logger.Warn("symbols csv unreadable, using built-in universe", "error", err)
		} else {
			universe = loaded
		}
	}

	return &app{
		cfg:      cfg,
		kv:       kv,
		sess:     sess,
		client:   client,
		watchsvc: watchlist.NewService(client, logger),
		favs:     favorites.NewSet(kv),
		universe: universe,
	}, nil
}

func (a *app) close() {
	_ = a.kv.Close()
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (min 6 chars)")
	_ = fs.Parse(args)

	resp, err := a.client.Register(ctx, api.RegisterRequest{Name: *name, Email: *email, Password: *password})
	if err != nil {
		return err
	}
	if resp.Message != "" {
		fmt.Println(resp.Message)
	} else {
		fmt.Println("Đăng ký thành công. Hãy đăng nhập.")
	}
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	resp, err := a.client.Login(ctx, api.LoginRequest{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	if err := a.sess.SetCredentials(ctx, resp.Token, resp.User); err != nil {
		return err
	}
	if resp.User != nil {
		fmt.Printf("Xin chào %s\n", resp.User.Name)
	} else {
		fmt.Println("Đăng nhập thành công.")
	}
	return nil
}

func (a *app) logout(ctx context.Context) error {
	if err := a.sess.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Đã đăng xuất.")
	return nil
}

func (a *app) profile(ctx context.Context) error {
	resp, err := a.client.Profile(ctx)
	if err != nil {
		return err
	}
	if resp.User == nil {
		fmt.Println("(no profile)")
		return nil
	}
	fmt.Printf("%s <%s>\n", resp.User.Name, resp.User.Email)
	return nil
}

// ---------------------------------------------------------------------------
// Chat
// ---------------------------------------------------------------------------

func (a *app) chat(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	interactive := fs.Bool("i", false, "interactive chat loop")
	_ = fs.Parse(args)

	d := chat.NewDispatcher(a.client, nil)

	if !*interactive {
		q := strings.Join(fs.Args(), " ")
		text, err := d.Dispatch(ctx, q)
		if err != nil {
			return err
		}
		printReply(text)
		return nil
	}

	fmt.Println("Chat với trợ lý (gõ /quit để thoát)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "/quit" {
			return nil
		}
		text, err := d.Dispatch(ctx, line)
		if err != nil {
			return err
		}
		printReply(text)
	}
}

func (a *app) history(ctx context.Context) error {
	entries, err := a.client.ChatHistory(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("> %s\n", e.Query)
		printReply(e.Reply)
		fmt.Println()
	}
	return nil
}

// printReply renders a reply document for the terminal, using the same block
// parsing the app's chat screen uses.
func printReply(text string) {
	for _, b := range reply.ParseBlocks(text) {
		switch b.Kind {
		case reply.BlockHeading:
			fmt.Printf("== %s ==\n", b.Text)
		case reply.BlockSubheading:
			fmt.Printf("-- %s --\n", b.Text)
		case reply.BlockBullet:
			fmt.Printf("  • %s\n", b.Text)
		default:
			fmt.Println(b.Text)
		}
	}
}

// ---------------------------------------------------------------------------
// Watchlist and favorites
// ---------------------------------------------------------------------------

func (a *app) watch(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}

	switch sub {
	case "list":
		entries, err := a.watchsvc.Entries(ctx)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("Danh mục trống.")
			return nil
		}
		for _, e := range entries {
			line := fmt.Sprintf("%-6s giá hiện tại %s", e.Code, util.FormatVND(e.CurrentPrice))
			if pct, ok := e.DiffFromBuyPct(); ok {
				line += fmt.Sprintf("  so với giá mua %s", util.FormatPercent(pct))
			}
			if pct, ok := e.DiffFromYesterdayPct(); ok {
				line += fmt.Sprintf("  so với hôm qua %s", util.FormatPercent(pct))
			}
			if e.Note != "" {
				line += "  (" + e.Note + ")"
			}
			fmt.Println(line)
		}
		return nil

	case "add":
		fs := flag.NewFlagSet("watch add", flag.ExitOnError)
		buyPrice := fs.Float64("buy", 0, "recorded buy price")
		note := fs.String("note", "", "note")
		_ = fs.Parse(args)
		if fs.NArg() < 1 {
			return fmt.Errorf("usage: stockwatch watch add <symbol> [-buy price] [-note text]")
		}
		entry, err := a.watchsvc.Add(ctx, fs.Arg(0), *buyPrice, *note)
		if err != nil {
			return err
		}
		if entry != nil {
			fmt.Printf("Đã thêm %s vào danh mục.\n", entry.Code)
		}
		return nil

	case "rm":
		if len(args) < 1 {
			return fmt.Errorf("usage: stockwatch watch rm <id>")
		}
		if err := a.watchsvc.Remove(ctx, args[0]); err != nil {
			return err
		}
		fmt.Println("Đã xóa khỏi danh mục.")
		return nil

	default:
		return fmt.Errorf("unknown watch subcommand: %s", sub)
	}
}

func (a *app) fav(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}

	switch sub {
	case "list":
		symbols, err := a.favs.List(ctx)
		if err != nil {
			return err
		}
		if len(symbols) == 0 {
			fmt.Println("Chưa ghim mã nào.")
			return nil
		}
		fmt.Println(strings.Join(symbols, " "))
		return nil

	case "add":
		if len(args) < 1 {
			return fmt.Errorf("usage: stockwatch fav add <symbol>")
		}
		return a.favs.Add(ctx, args[0])

	case "rm":
		if len(args) < 1 {
			return fmt.Errorf("usage: stockwatch fav rm <symbol>")
		}
		return a.favs.Remove(ctx, args[0])

	default:
		return fmt.Errorf("unknown fav subcommand: %s", sub)
	}
}

// ---------------------------------------------------------------------------
// Market data
// ---------------------------------------------------------------------------

func (a *app) search(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: stockwatch search <query>")
	}

	watch, err := a.watchsvc.Symbols(ctx)
	if err != nil && !api.IsAuthRequired(err) {
		return err
	}

	o := search.NewOrchestrator(a.client, search.Options{
		Debounce:   time.Millisecond, // no keystrokes to settle in one-shot mode
		Universe:   a.universe,
		SampleSize: a.cfg.Search.SuggestionCount,
	})
	o.SetWatchlist(watch)

	done := make(chan struct{})
	o.OnResults = func(_ string, rows []search.Suggestion) {
		for _, r := range rows {
			line := fmt.Sprintf("%-6s %s", r.Symbol, r.Name)
			if r.Price != nil {
				line += "  " + util.FormatVND(*r.Price)
			}
			if r.PercentChange != nil {
				line += "  " + util.FormatPercent(*r.PercentChange)
			}
			if r.InWatchlist {
				line += "  [danh mục]"
			}
			fmt.Println(line)
		}
		close(done)
	}
	o.SetQuery(ctx, strings.Join(args, " "))
	<-done
	return nil
}

func (a *app) news(ctx context.Context) error {
	agg := news.NewAggregator(a.client, news.Options{
		Universe:       a.universe,
		SampleSize:     a.cfg.News.SampleSize,
		PerSymbolLimit: a.cfg.News.PerSymbolLimit,
		MaxItems:       a.cfg.News.MaxItems,
		PageSize:       a.cfg.News.PageSize,
		Language:       a.cfg.News.Language,
		Region:         a.cfg.News.Region,
	})
	if err := agg.Refresh(ctx); err != nil {
		return err
	}
	if agg.State() == news.StatePartial {
		fmt.Fprintln(os.Stderr, "(một số nguồn tin không tải được)")
	}
	for _, it := range agg.Items() {
		fmt.Printf("%s  %s (%s)\n    %s\n", it.PubDate.Local().Format("02/01 15:04"), it.Title, it.Source, it.Link)
	}
	return nil
}

func (a *app) movers(ctx context.Context) error {
	gainers, err := a.client.TopGainers(ctx)
	if err != nil {
		return err
	}
	losers, err := a.client.TopLosers(ctx)
	if err != nil {
		return err
	}
	indices, err := a.client.Indices(ctx)
	if err != nil {
		return err
	}

	for _, idx := range indices {
		fmt.Printf("%-10s %10.2f  %s\n", idx.Name, idx.Value, util.FormatPercent(idx.PercentChange))
	}
	fmt.Println("Tăng mạnh:")
	for _, s := range gainers {
		fmt.Printf("  %-6s %s  %s\n", s.Symbol, util.FormatVND(s.Price), util.FormatPercent(s.PercentChange))
	}
	fmt.Println("Giảm mạnh:")
	for _, s := range losers {
		fmt.Printf("  %-6s %s  %s\n", s.Symbol, util.FormatVND(s.Price), util.FormatPercent(s.PercentChange))
	}
	return nil
}
