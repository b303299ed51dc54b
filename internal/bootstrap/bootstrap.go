package bootstrap

import (
	"context"
	"errors"
	"fmt"

	activityinadapter "mindshelf/internal/modules/activity/adapter/in"
	activityoutadapter "mindshelf/internal/modules/activity/adapter/out"
	activityservice "mindshelf/internal/modules/activity/service"
	activityusecase "mindshelf/internal/modules/activity/usecase"
	braininadapter "mindshelf/internal/modules/brain/adapter/in"
	brainoutadapter "mindshelf/internal/modules/brain/adapter/out"
	brainservice "mindshelf/internal/modules/brain/service"
	brainusecase "mindshelf/internal/modules/brain/usecase"
	libraryinadapter "mindshelf/internal/modules/library/adapter/in"
	libraryoutadapter "mindshelf/internal/modules/library/adapter/out"
	librarydto "mindshelf/internal/modules/library/dto"
	libraryin "mindshelf/internal/modules/library/port/in"
	libraryservice "mindshelf/internal/modules/library/service"
	libraryusecase "mindshelf/internal/modules/library/usecase"
	quizinadapter "mindshelf/internal/modules/quiz/adapter/in"
	quizoutadapter "mindshelf/internal/modules/quiz/adapter/out"
	quizservice "mindshelf/internal/modules/quiz/service"
	quizusecase "mindshelf/internal/modules/quiz/usecase"
	readerinadapter "mindshelf/internal/modules/reader/adapter/in"
	readeroutadapter "mindshelf/internal/modules/reader/adapter/out"
	readerservice "mindshelf/internal/modules/reader/service"
	readerusecase "mindshelf/internal/modules/reader/usecase"
	sessioninadapter "mindshelf/internal/modules/session/adapter/in"
	sessionoutadapter "mindshelf/internal/modules/session/adapter/out"
	sessiondomain "mindshelf/internal/modules/session/domain"
	sessionservice "mindshelf/internal/modules/session/service"
	sessionusecase "mindshelf/internal/modules/session/usecase"
	"mindshelf/internal/platform/clock"
	"mindshelf/internal/platform/config"
	apperrors "mindshelf/internal/platform/errors"
	"mindshelf/internal/platform/events"
	"mindshelf/internal/platform/id"
	"mindshelf/internal/platform/llm"
	"mindshelf/internal/platform/logger"
	"mindshelf/internal/server"
)

type App struct {
	Config  config.Config
	Session sessiondomain.Session
	Log     *logger.Logger
	Bus     events.Bus

	LibraryCLI  libraryinadapter.CLIHandler
	QuizCLI     quizinadapter.CLIHandler
	BrainCLI    braininadapter.CLIHandler
	ActivityCLI activityinadapter.CLIHandler
	ReaderCLI   readerinadapter.CLIHandler
	ReaderTUI   readerinadapter.TUIHandler
	SessionCLI  sessioninadapter.CLIHandler

	routes  []server.Routes
	library libraryin.Usecase
	stores  *storeSet
}

// Sessions builds only the session module, for commands that run before
// anyone is signed in.
func Sessions(cfg config.Config, log *logger.Logger) sessioninadapter.CLIHandler {
	return sessioninadapter.NewCLIHandler(sessionusecase.NewInteractor(newSessionService(cfg, log)))
}

func newSessionService(cfg config.Config, log *logger.Logger) *sessionservice.SessionService {
	return sessionservice.NewSessionService(sessionservice.Dependencies{
		Clock: clock.SystemClock{},
		Store: sessionoutadapter.NewFileActiveSessionStore(cfg.HomePath),
		Log:   log,
	})
}

// New wires every module for the active session. Close must be called to
// drain background analyses and pending remote writes.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	sessions := newSessionService(cfg, log)
	current, err := sessions.Current(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveSession) {
			return nil, fmt.Errorf("%w: run `mindshelf session login <user>` or `mindshelf session guest`", err)
		}
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	stores, err := openStores(ctx, cfg, current, log)
	if err != nil {
		return nil, err
	}
	bus, err := newBus(cfg, log)
	if err != nil {
		stores.close(log)
		return nil, err
	}
	chat := newCompleter(cfg, cfg.AI.ChatModel, log)
	search := newCompleter(cfg, cfg.AI.SearchModel, log)
	clk := clock.SystemClock{}
	ids := id.UUID{}

	activityUC := activityusecase.NewInteractor(activityservice.NewActivityService(
		clk, ids, loc,
		stores.ledger,
		stores.journal,
		activityoutadapter.NewEventNotifier(bus, stores.userID, log),
	))

	libraryUC := libraryusecase.NewInteractor(libraryservice.NewItemService(libraryservice.Dependencies{
		Clock:     clk,
		IDGen:     ids,
		Store:     stores.items,
		Projector: stores.index,
		Source: libraryoutadapter.NewFallbackContentSource(log,
			libraryoutadapter.NewScrapeContentSource(cfg.Scraper.BaseURL, cfg.Scraper.APIKey, cfg.Scraper.Timeout),
			libraryoutadapter.NewSearchContentSource(search),
		),
		Documents:        libraryoutadapter.NewLocalDocumentReader(),
		Analyzer:         libraryoutadapter.NewOpenAIAnalyzer(chat),
		Activity:         libraryoutadapter.NewActivityRecorder(activityUC),
		Notifier:         libraryoutadapter.NewEventNotifier(bus, stores.userID, log),
		Log:              log,
		MaxAnalysisChars: cfg.AI.MaxChars,
	}))
	if stores.reindexOnStart {
		if err := libraryUC.Reindex(ctx, librarydto.ReindexInput{}); err != nil {
			stores.close(log)
			_ = bus.Close()
			return nil, fmt.Errorf("build tag index: %w", err)
		}
	}
	if _, err := libraryUC.ResumeAnalyses(ctx); err != nil {
		log.Warn("resume interrupted analyses", "error", err)
	}

	quizLibrary := quizoutadapter.NewLibraryAdapter(libraryUC)
	quizUC := quizusecase.NewInteractor(quizservice.NewQuizService(quizservice.Dependencies{
		Clock:         clk,
		IDGen:         ids,
		Sessions:      quizoutadapter.NewMemorySessionStore(clk, quizoutadapter.DefaultSessionIdle),
		Subjects:      quizLibrary,
		Generator:     quizoutadapter.NewOpenAIQuestionGenerator(chat),
		Mastery:       quizLibrary,
		Activity:      quizoutadapter.NewActivityRecorder(activityUC),
		Log:           log,
		QuestionCount: cfg.AI.QuizQuestions,
		MaxChars:      cfg.AI.MaxChars,
	}))

	brainUC := brainusecase.NewInteractor(brainservice.NewBrainService(brainservice.Dependencies{
		Clock:     clk,
		Store:     stores.brain,
		Sources:   brainoutadapter.NewLibraryAdapter(libraryUC),
		Proposals: brainoutadapter.NewOpenAIProposalGenerator(chat, cfg.AI.MaxChars),
		Activity:  brainoutadapter.NewActivityRecorder(activityUC),
		Notifier:  brainoutadapter.NewEventNotifier(bus, stores.userID, log),
		Log:       log,
	}))

	readerUC := readerusecase.NewInteractor(readerservice.NewReaderService(readerservice.Dependencies{
		Items:    readeroutadapter.NewLibraryAdapter(libraryUC),
		Launcher: readeroutadapter.NewOSExternalLauncher(),
		Log:      log,
	}))
	sessionUC := sessionusecase.NewInteractor(sessions)

	log.Info("app ready", "session", current.Kind(), "user_id", stores.userID, "backend", stores.backend)
	return &App{
		Config:  cfg,
		Session: current,
		Log:     log,
		Bus:     bus,

		LibraryCLI:  libraryinadapter.NewCLIHandler(libraryUC),
		QuizCLI:     quizinadapter.NewCLIHandler(quizUC),
		BrainCLI:    braininadapter.NewCLIHandler(brainUC),
		ActivityCLI: activityinadapter.NewCLIHandler(activityUC),
		ReaderCLI:   readerinadapter.NewCLIHandler(readerUC),
		ReaderTUI:   readerinadapter.NewTUIHandler(readerUC),
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),

		routes: []server.Routes{
			libraryinadapter.NewHTTPHandler(libraryUC),
			quizinadapter.NewHTTPHandler(quizUC),
			braininadapter.NewHTTPHandler(brainUC),
			activityinadapter.NewHTTPHandler(activityUC),
			readerinadapter.NewHTTPHandler(readerUC),
			sessioninadapter.NewHTTPHandler(sessionUC),
		},
		library: libraryUC,
		stores:  stores,
	}, nil
}

func (a *App) Server() *server.Server {
	return server.New(a.Config.HTTP, a.Log, a.Bus, a.routes...)
}

// Close waits for in-flight analyses, flushes queued remote writes and
// releases connections.
func (a *App) Close() {
	a.library.WaitForAnalyses()
	a.stores.close(a.Log)
	if err := a.Bus.Close(); err != nil {
		a.Log.Warn("close event bus", "error", err)
	}
	a.Log.Sync()
}

func newBus(cfg config.Config, log *logger.Logger) (events.Bus, error) {
	if cfg.Redis.Addr == "" {
		return events.NewLocalBus(), nil
	}
	bus, err := events.NewRedisBus(log, cfg.Redis.Addr, cfg.Redis.Channel)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return bus, nil
}

// completer is what the OpenAI adapters need from a model client.
type completer interface {
	Complete(ctx context.Context, system, user string, jsonObject bool) (string, error)
	CompleteJSON(ctx context.Context, system, user string, out any) error
}

func newCompleter(cfg config.Config, model string, log *logger.Logger) completer {
	client, err := llm.New(llm.Options{
		APIKey:     cfg.AI.APIKey,
		BaseURL:    cfg.AI.BaseURL,
		Model:      model,
		Timeout:    cfg.AI.Timeout,
		MaxRetries: cfg.AI.MaxRetries,
		RetryDelay: cfg.AI.RetryDelay,
	})
	if err != nil {
		log.Warn("language model disabled", "model", model, "error", err)
		return llm.Unconfigured{}
	}
	return client
}
