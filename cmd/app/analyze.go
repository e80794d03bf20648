package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"NPTEL-Assignment-Analyzer/internal/config"
	"NPTEL-Assignment-Analyzer/internal/model"
	"NPTEL-Assignment-Analyzer/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errQuestionsOrAll = errors.New("pass either --questions or --all")

type analyzeOptions struct {
	username  string
	password  string
	course    string
	week      string
	questions string
	all       bool
}

func newAnalyzeCmd(load func(console io.Writer) (*app, error)) *cobra.Command {
	var opts analyzeOptions
	creds := viper.New()
	creds.SetEnvPrefix(config.EnvPrefix)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Authenticate, analyze questions of one assignment and print the answers",
		Long: "Authenticate, analyze questions of one assignment and print the answers.\n\n" +
			"Username and password may also be given as NPTEL_APP_USERNAME and NPTEL_APP_PASSWORD.\n" +
			"Answers go to stdout, log lines to stderr.",
		Example: "  NPTEL_APP_PASSWORD=secret app analyze --username me --course noc24_cs115 --week 3 --questions 3,1,2\n" +
			"  app analyze --username me --password secret --course noc24_cs115 --week 3 --all",
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, err := parseQuestions(opts.questions)
			if err != nil {
				return err
			}
			if (len(questions) == 0) == !opts.all {
				return errQuestionsOrAll
			}

			opts.username = creds.GetString("username")
			opts.password = creds.GetString("password")

			a, err := load(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runAnalyze(ctx, a.analyzer, opts, questions, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.username, "username", "", "Backend username")
	cmd.Flags().StringVar(&opts.password, "password", "", "Backend password (prefer NPTEL_APP_PASSWORD)")
	cmd.Flags().StringVar(&opts.course, "course", "", "Course code, e.g. noc24_cs115")
	cmd.Flags().StringVar(&opts.week, "week", "", "Week number")
	cmd.Flags().StringVar(&opts.questions, "questions", "", "Comma separated question numbers, analyzed in the given order")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Analyze questions 1 through 15")

	for _, key := range []string{"username", "password"} {
		_ = creds.BindPFlag(key, cmd.Flags().Lookup(key))
		_ = creds.BindEnv(key)
	}
	return cmd
}

// parseQuestions keeps the caller's order and rejects duplicates.
func parseQuestions(raw string) ([]int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	seen := make(map[int]bool)
	var out []int
	for _, part := range strings.Split(raw, ",") {
		q, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid question number %q", part)
		}
		if !model.ValidQuestion(q) {
			return nil, fmt.Errorf("question %d is outside %d-%d", q, model.FirstQuestion, model.LastQuestion)
		}
		if seen[q] {
			return nil, fmt.Errorf("question %d listed twice", q)
		}
		seen[q] = true
		out = append(out, q)
	}
	return out, nil
}

func runAnalyze(ctx context.Context, svc *service.AnalyzerService, opts analyzeOptions, questions []int, out io.Writer) error {
	if err := svc.Authenticate(ctx, opts.username, opts.password); err != nil {
		return fmt.Errorf("%s: %w", service.Message(err), err)
	}
	if err := svc.SetSelector(opts.course, opts.week); err != nil {
		return err
	}
	for _, q := range questions {
		if err := svc.ToggleQuestion(q); err != nil {
			return err
		}
	}

	var runErr error
	if opts.all {
		runErr = svc.AnalyzeAll(ctx)
	} else {
		runErr = svc.AnalyzeSelected(ctx)
	}

	for _, entry := range svc.Snapshot().Answers {
		fmt.Fprintf(out, "Question %d Analysis:\n%s\n\n", entry.Question, entry.Answer)
	}
	if runErr != nil {
		return fmt.Errorf("%s: %w", service.Message(runErr), runErr)
	}
	return nil
}
