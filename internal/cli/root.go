// Package cli wires configuration, telemetry and the client toolkit
// into the pawmate binary's commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/pawmate/pawmate/internal/client"
	"github.com/pawmate/pawmate/internal/config"
	"github.com/pawmate/pawmate/internal/devserver"
	"github.com/pawmate/pawmate/internal/geo"
	"github.com/pawmate/pawmate/internal/i18n"
	"github.com/pawmate/pawmate/internal/observability"
	"github.com/pawmate/pawmate/internal/realtime"
	"github.com/pawmate/pawmate/internal/session"
	"github.com/pawmate/pawmate/internal/store"
	"github.com/pawmate/pawmate/internal/tools/loadgen"
	"github.com/pawmate/pawmate/internal/tui"
)

type options struct {
	configPath string
	envFile    string
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "pawmate",
		Short:         "Pet adoption client toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file applied before config")
	cmd.AddCommand(newTUICommand(opts))
	cmd.AddCommand(newDevServerCommand(opts))
	cmd.AddCommand(newLoadgenCommand())
	return cmd
}

func newLoadgenCommand() *cobra.Command {
	cfg := loadgen.Config{}
	cmd := &cobra.Command{
		Use:   "loadgen",
		Short: "Generate synthetic traffic against a devserver",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			result, err := loadgen.Run(ctx, cfg)
			if err != nil {
				return err
			}
			fmt.Printf("requests=%d failures=%d classes=%v\n", result.TotalRequests, result.Failures, result.StatusClasses)
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "base-url", "http://localhost:8080", "devserver base URL")
	cmd.Flags().StringVar(&cfg.Profile, "profile", "mixed", "traffic profile: browse, messaging or mixed")
	cmd.Flags().DurationVar(&cfg.Duration, "duration", 10*time.Second, "how long to run")
	cmd.Flags().IntVar(&cfg.RPS, "rps", 10, "target requests per second")
	cmd.Flags().IntVar(&cfg.Concurrency, "concurrency", 4, "parallel workers")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", 42, "deterministic path selection seed")
	return cmd
}

// bootstrap loads config and stands up the telemetry runtime. The
// returned shutdown flushes exporters; callers defer it.
func bootstrap(ctx context.Context, opts *options) (*config.Config, *slog.Logger, func(), error) {
	if err := config.LoadEnvFile(opts.envFile); err != nil {
		return nil, nil, nil, err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	boot := slog.New(slog.NewTextHandler(os.Stderr, nil))
	rt, err := observability.InitRuntime(ctx, cfg, boot)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := observability.NewLogger(rt.LoggerProvider)
	shutdown := func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.Shutdown(flushCtx); err != nil {
			boot.Warn("telemetry shutdown failed", "error", err)
		}
	}
	return cfg, logger, shutdown, nil
}

func newTUICommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Interactive terminal client",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, logger, shutdown, err := bootstrap(ctx, opts)
			if err != nil {
				return err
			}
			defer shutdown()

			lang := i18n.Lang(cfg.Locale)
			if !i18n.Supported(lang) {
				lang = i18n.LangEnglish
			}
			catalog := i18n.New(lang)

			httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
			clientCfg := client.Config{HTTPClient: httpClient, Catalog: catalog}

			users := client.NewUsersClient(cfg.Services.UsersURL, clientCfg)
			animals := client.NewAnimalsClient(cfg.Services.AnimalsURL, clientCfg)
			messages := client.NewMessagesClient(cfg.Services.MessagesURL, clientCfg)
			rehomers := client.NewRehomersClient(cfg.Services.RehomersURL, clientCfg)

			sessions := session.NewStore(logger)
			provider := session.NewOAuth2Provider(cfg.Auth.BaseURL, httpClient)
			cache := &session.FileTokenCache{Path: cfg.StatePath + ".tokens"}
			auth := session.NewManager(sessions, provider, cache, logger)

			stateDB, err := store.OpenState(cfg.StatePath)
			if err != nil {
				return fmt.Errorf("open state db: %w", err)
			}

			adapter := realtime.NewAdapter(cfg.Realtime.URL, logger)
			unread := realtime.NewUnreadCounter(sessions, messages, adapter, logger)
			unreadCh := make(chan int, 8)
			go unread.Run(ctx, func(n int) {
				select {
				case unreadCh <- n:
				default:
				}
			})

			auth.Restore(ctx)

			app := tui.NewApp(tui.Deps{
				Catalog:      catalog,
				Sessions:     sessions,
				Auth:         auth,
				Users:        users,
				Animals:      animals,
				Messages:     messages,
				Rehomers:     rehomers,
				Dialogs:      store.NewDialogStore(),
				Pending:      store.NewPendingUserTypeStore(),
				State:        stateDB,
				Geo:          &geo.HTTPProvider{URL: cfg.Geo.PositionURL, HTTP: httpClient},
				Suggest:      &geo.Suggester{URL: cfg.Geo.SuggestURL, HTTP: httpClient, Catalog: catalog},
				UnreadEvents: unreadCh,
				Logger:       logger,
			})

			program := tea.NewProgram(app, tea.WithContext(ctx))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("run tui: %w", err)
			}
			return nil
		},
	}
}

func newDevServerCommand(opts *options) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run the bundled development backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, logger, shutdown, err := bootstrap(ctx, opts)
			if err != nil {
				return err
			}
			defer shutdown()

			srv, err := devserver.NewServer(ctx, cfg.DevServer, logger)
			if err != nil {
				return err
			}
			if seed {
				if err := devserver.Seed(srv.Store()); err != nil {
					return fmt.Errorf("seed devserver: %w", err)
				}
				logger.Info("devserver seeded with demo data")
			}
			return srv.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "load demo accounts and listings at startup")
	return cmd
}
