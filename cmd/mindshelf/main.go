package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"mindshelf/internal/bootstrap"
	librarydto "mindshelf/internal/modules/library/dto"
	quizdto "mindshelf/internal/modules/quiz/dto"
	sessiondto "mindshelf/internal/modules/session/dto"
	"mindshelf/internal/platform/config"
	"mindshelf/internal/platform/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var homePath string

	root := &cobra.Command{
		Use:           "mindshelf",
		Short:         "Save, summarize, quiz and master what you read",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&homePath, "home", defaultHome(), "mindshelf home directory")

	root.AddCommand(newSessionCmd(&homePath))
	root.AddCommand(newIngestCmd(&homePath))
	root.AddCommand(newItemCmd(&homePath))
	root.AddCommand(newReadCmd(&homePath))
	root.AddCommand(newHighlightCmd(&homePath))
	root.AddCommand(newQuizCmd(&homePath))
	root.AddCommand(newBrainCmd(&homePath))
	root.AddCommand(newActivityCmd(&homePath))
	root.AddCommand(newJournalCmd(&homePath))
	root.AddCommand(newReindexCmd(&homePath))
	root.AddCommand(newServeCmd(&homePath))
	root.AddCommand(newTUICmd(&homePath))
	return root
}

func defaultHome() string {
	if v := os.Getenv("MINDSHELF_HOME"); v != "" {
		return v
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

func loadConfig(homePath string) (config.Config, *logger.Logger, error) {
	cfg, err := config.New(homePath)
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

// withApp builds the app for the active session, runs fn and always drains
// background work before returning.
func withApp(homePath string, fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, log, err := loadConfig(homePath)
	if err != nil {
		return err
	}
	ctx := context.Background()
	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

// ─── session ────────────────────────────────────────────────────────────────

func newSessionCmd(homePath *string) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Sign in, continue as guest, or sign out"}

	printSession := func(w io.Writer, out sessiondto.SessionOutput) {
		if out.Guest {
			_, _ = fmt.Fprintf(w, "guest session (nothing is saved) since %s\n", out.StartedAt.Format(time.RFC3339))
			return
		}
		_, _ = fmt.Fprintf(w, "signed in as %s since %s\n", out.UserID, out.StartedAt.Format(time.RFC3339))
	}

	session.AddCommand(&cobra.Command{
		Use:   "login <user>",
		Short: "Sign in; data is kept in this user's vault",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*homePath)
			if err != nil {
				return err
			}
			defer log.Sync()
			out, err := bootstrap.Sessions(cfg, log).Login(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), out)
			return nil
		},
	})
	session.AddCommand(&cobra.Command{
		Use:   "guest",
		Short: "Continue without an account; nothing is persisted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(*homePath)
			if err != nil {
				return err
			}
			defer log.Sync()
			out, err := bootstrap.Sessions(cfg, log).Guest(cmd.Context())
			if err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), out)
			return nil
		},
	})
	session.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "End the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(*homePath)
			if err != nil {
				return err
			}
			defer log.Sync()
			if err := bootstrap.Sessions(cfg, log).Logout(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	})
	session.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(*homePath)
			if err != nil {
				return err
			}
			defer log.Sync()
			out, err := bootstrap.Sessions(cfg, log).WhoAmI(cmd.Context())
			if err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), out)
			return nil
		},
	})
	return session
}

// ─── library ────────────────────────────────────────────────────────────────

func newIngestCmd(homePath *string) *cobra.Command {
	ingest := &cobra.Command{Use: "ingest", Short: "Add an article or document to the library"}

	var wait bool
	urlCmd := &cobra.Command{
		Use:   "url <url>",
		Short: "Save a web article, video or post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LibraryCLI.IngestURL(ctx, args[0], wait)
				if err != nil {
					return err
				}
				printIngested(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	urlCmd.Flags().BoolVar(&wait, "wait", true, "wait for the analysis to finish")

	var waitDoc bool
	docCmd := &cobra.Command{
		Use:   "doc <path>",
		Short: "Save a local PDF, markdown or text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.LibraryCLI.IngestDocument(ctx, path, waitDoc)
				if err != nil {
					return err
				}
				printIngested(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	docCmd.Flags().BoolVar(&waitDoc, "wait", true, "wait for the analysis to finish")

	ingest.AddCommand(urlCmd, docCmd)
	return ingest
}

func printIngested(w io.Writer, out librarydto.ItemDetailOutput) {
	_, _ = fmt.Fprintf(w, "ingested %s (%s) analysis=%s\n", out.Title, out.ID, out.AnalysisStatus)
	if out.FetchFailed {
		_, _ = fmt.Fprintln(w, "warning: the content could not be fetched; a placeholder was saved")
	}
}

func newItemCmd(homePath *string) *cobra.Command {
	item := &cobra.Command{Use: "item", Short: "Inspect and manage library items"}

	item.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List items, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				items, err := app.LibraryCLI.ListItems(ctx)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no items")
					return nil
				}
				for _, it := range items {
					passed := ""
					if it.IsTestPassed {
						passed = "\tpassed"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s%s\n", it.ID, it.SourceKind, it.LifecycleStatus, it.AnalysisStatus, it.Title, passed)
				}
				return nil
			})
		},
	})

	item.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show an item's analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				d, err := app.LibraryCLI.GetItem(ctx, args[0])
				if err != nil {
					return err
				}
				printDetail(cmd.OutOrStdout(), d)
				return nil
			})
		},
	})

	var force bool
	status := &cobra.Command{
		Use:   "status <id> <new|reading|practice|mastered>",
		Short: "Change an item's lifecycle status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				d, err := app.LibraryCLI.UpdateStatus(ctx, args[0], args[1], force)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", d.ID, d.LifecycleStatus)
				return nil
			})
		},
	}
	status.Flags().BoolVar(&force, "force", false, "allow moving back to an earlier status")
	item.AddCommand(status)

	item.AddCommand(&cobra.Command{
		Use:   "reanalyze <id>",
		Short: "Run the analysis again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				d, err := app.LibraryCLI.Reanalyze(ctx, args[0])
				if err != nil {
					return err
				}
				printDetail(cmd.OutOrStdout(), d)
				return nil
			})
		},
	})

	item.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.LibraryCLI.Delete(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	})

	item.AddCommand(&cobra.Command{
		Use:   "tags",
		Short: "List tags with item counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				tags, err := app.LibraryCLI.ListTags(ctx)
				if err != nil {
					return err
				}
				if len(tags) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no tags")
					return nil
				}
				for _, t := range tags {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", t.Tag, t.Count)
				}
				return nil
			})
		},
	})
	return item
}

func printDetail(w io.Writer, d librarydto.ItemDetailOutput) {
	_, _ = fmt.Fprintf(w, "id: %s\ntitle: %s\nsource: %s (%s)\nstatus: %s\nanalysis: %s\nquiz passed: %t\n",
		d.ID, d.Title, d.SourceRef, d.SourceKind, d.LifecycleStatus, d.AnalysisStatus, d.IsTestPassed)
	if len(d.Tags) > 0 {
		_, _ = fmt.Fprintf(w, "tags: %s\n", strings.Join(d.Tags, ", "))
	}
	_, _ = fmt.Fprintf(w, "\n%s\n", d.Summary)
	if len(d.Keywords) > 0 {
		_, _ = fmt.Fprintln(w, "\nkeywords:")
		for _, k := range d.Keywords {
			_, _ = fmt.Fprintf(w, "  %s (%d): %s\n", k.Word, k.Count, k.Definition)
		}
	}
	if len(d.Patterns) > 0 {
		_, _ = fmt.Fprintln(w, "\nimprovement patterns:")
		for _, p := range d.Patterns {
			_, _ = fmt.Fprintf(w, "  %s %s: %s\n", p.Icon, p.Title, p.Summary)
		}
	} else if d.ImprovementGuide != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", d.ImprovementGuide)
	}
}

// ─── reader ─────────────────────────────────────────────────────────────────

func newReadCmd(homePath *string) *cobra.Command {
	var external bool
	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Print an item's content and mark it as being read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				doc, err := app.ReaderCLI.Open(ctx, args[0], external)
				if err != nil {
					return err
				}
				if doc.ExternalLaunched {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "opened %s\n", doc.ExternalTarget)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# %s\n\n%s\n", doc.Title, doc.Content)
				return nil
			})
		},
	}
	read.Flags().BoolVar(&external, "external", false, "open the source address in the browser")
	return read
}

func newHighlightCmd(homePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "highlight <id> <passage>",
		Short: "Mark the first occurrence of a passage",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			passage := strings.Join(args[1:], " ")
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				if _, err := app.ReaderCLI.Highlight(ctx, args[0], passage); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "highlighted %q\n", passage)
				return nil
			})
		},
	}
}

// ─── quiz ───────────────────────────────────────────────────────────────────

func newQuizCmd(homePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "quiz <id>",
		Short: "Take the comprehension quiz for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				return runQuiz(ctx, app, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
}

func runQuiz(ctx context.Context, app *bootstrap.App, itemID string, in io.Reader, out io.Writer) error {
	_, _ = fmt.Fprintln(out, "generating questions…")
	s, err := app.QuizCLI.Start(ctx, itemID)
	if err != nil {
		return err
	}
	scanner := bufio.NewScanner(in)
	prompt := func(text string) (string, bool) {
		_, _ = fmt.Fprint(out, text)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	for {
		switch s.State {
		case "passed":
			_, _ = fmt.Fprintln(out, "all questions answered correctly: test passed")
			_, _ = fmt.Fprintf(out, "run `mindshelf brain merge %s` to add it to your brain\n", itemID)
			return nil
		case "review":
			_, _ = fmt.Fprintf(out, "round %d finished with %d missed\n", s.Round, len(s.Missed))
			answer, ok := prompt("retry the missed questions? [Y/n] ")
			if !ok || strings.EqualFold(answer, "n") {
				return app.QuizCLI.Discard(ctx, s.ID)
			}
			if s, err = app.QuizCLI.Retry(ctx, s.ID); err != nil {
				return err
			}
			continue
		}

		if s.Question == nil {
			return fmt.Errorf("quiz stopped in state %s", s.State)
		}
		printQuestion(out, s)
		answer, ok := prompt("answer [1-4, q to quit]: ")
		if !ok || answer == "q" {
			return app.QuizCLI.Discard(ctx, s.ID)
		}
		option, convErr := strconv.Atoi(answer)
		if convErr != nil || option < 1 || option > len(s.Question.Options) {
			_, _ = fmt.Fprintln(out, "please enter a number between 1 and 4")
			continue
		}
		if s, err = app.QuizCLI.Answer(ctx, s.ID, option-1); err != nil {
			return err
		}
		if fb := s.Feedback; fb != nil {
			if fb.Correct {
				_, _ = fmt.Fprintln(out, "correct")
			} else {
				_, _ = fmt.Fprintf(out, "incorrect, the answer was %d\n", fb.CorrectIndex+1)
			}
			if fb.Explanation != "" {
				_, _ = fmt.Fprintln(out, fb.Explanation)
			}
		}
		if s, err = app.QuizCLI.Advance(ctx, s.ID); err != nil {
			return err
		}
	}
}

func printQuestion(w io.Writer, s quizdto.SessionOutput) {
	if s.Question == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "\n[round %d, %d/%d] %s\n", s.Round, s.Position+1, s.Total, s.Question.Prompt)
	for i, opt := range s.Question.Options {
		_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, opt)
	}
}

// ─── brain ──────────────────────────────────────────────────────────────────

func newBrainCmd(homePath *string) *cobra.Command {
	brain := &cobra.Command{Use: "brain", Short: "Your personal knowledge base"}

	brain.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the knowledge base",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				b, err := app.BrainCLI.Show(ctx)
				if err != nil {
					return err
				}
				if b.Content == "" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "(empty)")
					return nil
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), b.Content)
				return nil
			})
		},
	})

	var file string
	edit := &cobra.Command{
		Use:   "edit --file <path|->",
		Short: "Replace the knowledge base with a file or stdin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(file) == "" {
				return fmt.Errorf("--file is required (use - for stdin)")
			}
			var raw []byte
			var err error
			if file == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(file)
			}
			if err != nil {
				return err
			}
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				b, err := app.BrainCLI.Edit(ctx, string(raw))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "brain saved (revision %d)\n", b.Revision)
				return nil
			})
		},
	}
	edit.Flags().StringVar(&file, "file", "", "markdown file to store, - for stdin")
	brain.AddCommand(edit)

	brain.AddCommand(&cobra.Command{
		Use:   "merge <id>",
		Short: "Merge a passed item into the knowledge base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.BrainCLI.Merge(ctx, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "merged %s (revision %d); the item is now mastered\n\n%s\n", out.ItemID, out.Brain.Revision, out.Proposal)
				return nil
			})
		},
	})
	return brain
}

// ─── activity ───────────────────────────────────────────────────────────────

func newActivityCmd(homePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Show level, streak and the 28-day heatmap",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				s, err := app.ActivityCLI.Summary(ctx)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(w, "level %d  total %d  streak %d day(s)\n\n", s.Level, s.Total, s.Streak)
				glyphs := []string{"·", "░", "▒", "█"}
				for i, c := range s.Heatmap {
					tier := min(max(c.Tier, 0), len(glyphs)-1)
					_, _ = fmt.Fprint(w, glyphs[tier], " ")
					if (i+1)%7 == 0 {
						_, _ = fmt.Fprintln(w)
					}
				}
				return nil
			})
		},
	}
}

func newJournalCmd(homePath *string) *cobra.Command {
	journal := &cobra.Command{Use: "journal", Short: "Learning diary"}

	journal.AddCommand(&cobra.Command{
		Use:   "post <text>",
		Short: "Add a diary entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				e, err := app.ActivityCLI.PostEntry(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "posted %s\n", e.ID)
				return nil
			})
		},
	})

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "Show the latest diary entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				entries, err := app.ActivityCLI.ListEntries(ctx, limit)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no entries")
					return nil
				}
				for _, e := range entries {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", e.PostedAt.Local().Format("2006-01-02 15:04"), e.Body)
				}
				return nil
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "number of entries")
	journal.AddCommand(list)
	return journal
}

// ─── maintenance and front ends ─────────────────────────────────────────────

func newReindexCmd(homePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the tag index from stored items",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.LibraryCLI.Reindex(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "reindex completed")
				return nil
			})
		},
	}
}

func newServeCmd(homePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(*homePath, func(ctx context.Context, app *bootstrap.App) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()
				return app.Server().Run(ctx)
			})
		},
	}
}

func newTUICmd(homePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.New(*homePath)
			if err != nil {
				return err
			}
			log, err := logger.NewFile(cfg.LogMode, filepath.Join(cfg.HomePath, ".mindshelf", "tui.log"))
			if err != nil {
				return err
			}
			ctx := context.Background()
			app, err := bootstrap.New(ctx, cfg, log)
			if err != nil {
				log.Sync()
				return err
			}
			defer app.Close()
			return bootstrap.RunTUI(ctx, app)
		},
	}
}
