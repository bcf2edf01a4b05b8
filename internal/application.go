package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rocketscienceinc/connect4-client/internal/apperror"
	"github.com/rocketscienceinc/connect4-client/internal/config"
	"github.com/rocketscienceinc/connect4-client/internal/repository"
	"github.com/rocketscienceinc/connect4-client/internal/repository/storage"
	"github.com/rocketscienceinc/connect4-client/internal/session"
	"github.com/rocketscienceinc/connect4-client/internal/ui"
	"github.com/rocketscienceinc/connect4-client/transport/rest"
	"github.com/rocketscienceinc/connect4-client/transport/websocket"
)

// Options are the one-shot modes selected on the command line.
type Options struct {
	History string
	Check   bool
}

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config, opts Options) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	ranking := rest.New(conf.APIURL, nil, conf.RequestTimeout)

	if opts.Check {
		return checkAuthority(ctx, ranking, conf.APIURL, os.Stdout)
	}

	matchRepo, closeJournal, err := openJournal(ctx, conf)
	switch {
	case err == nil:
	case opts.History != "":
		return err
	case errors.Is(err, apperror.ErrJournalDisabled):
		log.Debug("match journal disabled")
	default:
		log.Error("match journal unavailable, continuing without it", "error", err)
	}
	defer closeJournal()

	if opts.History != "" {
		return printHistory(ctx, matchRepo, opts.History, conf.JournalSize, os.Stdout)
	}

	dial := func(ctx context.Context) (ui.Connection, error) {
		conn, err := websocket.Dial(ctx, logger, conf.WebsocketEndpoint())
		if err != nil {
			return nil, err
		}
		return conn, nil
	}

	var journal ui.Journal
	if matchRepo != nil {
		journal = matchRepo
	}

	sess := session.New(logger, nil, conf.BotName)
	model := ui.New(ctx, logger, sess, dial, ranking, journal)
	defer model.Close()

	log.Info("Starting client", "ws", conf.WebsocketEndpoint(), "api", conf.APIURL, "journal", matchRepo != nil)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err = program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			log.Info("Application context canceled, shutting down")
			return nil
		}
		return fmt.Errorf("ui error: %w", err)
	}

	return nil
}

// openJournal - connects the match journal when redis is configured. The
// returned close func is always safe to call.
func openJournal(ctx context.Context, conf *config.Config) (repository.MatchRepository, func(), error) {
	noop := func() {}

	if !conf.JournalEnabled() {
		return nil, noop, apperror.ErrJournalDisabled
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr(), conf.Redis.Password, conf.Redis.DB)
	if err != nil {
		return nil, noop, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeFn := func() {
		_ = redisStorage.Close()
	}

	return repository.NewMatchRepository(redisStorage.Connection, conf.JournalSize), closeFn, nil
}
