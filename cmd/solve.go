package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alantheprice/vibecode/pkg/agent"
	"github.com/alantheprice/vibecode/pkg/config"
	"github.com/alantheprice/vibecode/pkg/language"
	"github.com/alantheprice/vibecode/pkg/llm"
	"github.com/alantheprice/vibecode/pkg/process"
	"github.com/alantheprice/vibecode/pkg/runner"
	"github.com/alantheprice/vibecode/pkg/telemetry"
	"github.com/alantheprice/vibecode/pkg/utils"
	"github.com/alantheprice/vibecode/pkg/workspace"
)

var (
	solveModel       string
	solveMaxAttempts int
	solveMetricsAddr string
	solveAuto        bool
	solveJSONLogs    bool
)

var solveCmd = &cobra.Command{
	Use:   "solve [task]",
	Short: "Generate, run and refine a project for a task",
	Long: `Asks the model for a project, writes it under the projects root, runs the
detected entry point and waits for feedback.

At the feedback prompt:
  <text>   send feedback and try again
  (empty)  send the automatic evaluation of the last run
  done     mark the task complete
  quit     stop without marking complete

With --auto, or when stdin is not a terminal, the automatic evaluation is sent
until the program succeeds or the attempt ceiling is reached.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSolve(cmd, strings.TrimSpace(strings.Join(args, " ")))
	},
}

func init() {
	solveCmd.Flags().StringVarP(&solveModel, "model", "m", "", "Model to use (ollama:<name> for a local Ollama model)")
	solveCmd.Flags().IntVar(&solveMaxAttempts, "max-attempts", 0, "Attempt ceiling for the task")
	solveCmd.Flags().StringVar(&solveMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	solveCmd.Flags().BoolVar(&solveAuto, "auto", false, "Continue with automatic feedback instead of prompting")
	solveCmd.Flags().BoolVar(&solveJSONLogs, "json-logs", false, "Write the log file as JSON lines")
}

func runSolve(cmd *cobra.Command, task string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if solveModel != "" {
		cfg.Model = solveModel
	}
	if solveMaxAttempts > 0 {
		cfg.MaxAttempts = solveMaxAttempts
	}
	if err := config.RequireCredential(cfg.Model); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	in := bufio.NewReader(cmd.InOrStdin())
	interactive := !solveAuto && term.IsTerminal(int(os.Stdin.Fd()))

	if task == "" {
		if !interactive {
			return utils.NewValidationError("task", "a task is required")
		}
		fmt.Fprint(out, "Task: ")
		task, err = readLine(in)
		if err != nil {
			return err
		}
	}

	logger := utils.GetLogger()
	logger.SetJSONMode(cfg.JsonLogs || solveJSONLogs)
	logger.SetConsole(out)
	if len(cfg.Sources) > 0 {
		logger.Logf("Loaded config from %s", strings.Join(cfg.Sources, ", "))
	}

	reg := prometheus.NewRegistry()
	recorder, err := telemetry.NewPrometheusRecorder(reg)
	if err != nil {
		return err
	}
	if solveMetricsAddr != "" {
		stop := serveMetrics(solveMetricsAddr, reg, logger)
		defer stop()
	}

	apiKey, source := config.ResolveAPIKey()
	if source != "" {
		logger.Logf("Using API key from %s", source)
	}
	client, err := llm.New(llm.Options{
		APIKey:            apiKey,
		OpenAIBaseURL:     cfg.OpenAIBaseURL,
		OllamaServerURL:   cfg.OllamaServerURL,
		RequestsPerMinute: cfg.RequestsPerMinute,
		Recorder:          recorder,
	})
	if err != nil {
		return err
	}

	writer := workspace.NewWriter(cfg.ProjectsRoot, cfg.ProtectedPaths, logger)
	exec := process.NewLocalExecutor(logger, cfg.ExecTimeout())
	r := runner.New(writer, language.Default(), exec, cfg.ExecTimeout(), logger)

	a, err := agent.New(agent.Options{
		Client:      client,
		Runner:      r,
		Model:       cfg.Model,
		MaxAttempts: cfg.MaxAttempts,
		JSONRetries: cfg.JSONRetries,
		Budget:      cfg.Budget(),
		PoolSize:    cfg.WorkerPoolSize,
		Logger:      logger,
		Observer:    newConsole(out, recorder),
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(out, "Solving with %s (up to %d attempts)\n", cfg.Model, cfg.MaxAttempts)
	result, err := a.Solve(ctx, task)
	if err != nil {
		return err
	}
	result, err = feedbackLoop(ctx, a, result, in, out, interactive)
	snap := a.Snapshot()
	recorder.RecordTaskFinished(max(snap.Attempts, result.Attempt))
	if err != nil {
		return err
	}

	switch {
	case snap.State == agent.Complete:
		fmt.Fprintln(out, "Task complete.")
	case snap.State == agent.Failed:
		fmt.Fprintf(out, "Task failed: %s\n", snap.Status)
	default:
		fmt.Fprintf(out, "Stopped after %d attempts. Project: %s\n", snap.Attempts, snap.ProjectDir)
	}
	return nil
}

// feedbackLoop keeps attempting until the task ends or the user stops.
func feedbackLoop(ctx context.Context, a *agent.Agent, result agent.Outcome, in *bufio.Reader, out io.Writer, interactive bool) (agent.Outcome, error) {
	for {
		if result.State.Terminal() || ctx.Err() != nil {
			return result, nil
		}

		if !interactive {
			if result.Evaluation != nil && result.Evaluation.Success {
				a.MarkComplete()
				return result, nil
			}
			next, err := a.Continue(ctx)
			if errors.Is(err, agent.ErrNoSession) {
				return result, nil
			}
			if err != nil {
				return result, err
			}
			result = next
			continue
		}

		fmt.Fprint(out, "\nFeedback (empty = automatic, done, quit): ")
		line, err := readLine(in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return result, nil
			}
			return result, err
		}

		var next agent.Outcome
		switch strings.ToLower(line) {
		case "done":
			a.MarkComplete()
			return result, nil
		case "quit", "exit":
			return result, nil
		case "":
			next, err = a.Continue(ctx)
		default:
			next, err = a.Feedback(ctx, line)
		}
		if errors.Is(err, agent.ErrNoSession) {
			return result, nil
		}
		if err != nil {
			return result, err
		}
		result = next
	}
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// serveMetrics exposes reg on addr until the returned stop func is called.
func serveMetrics(addr string, reg *prometheus.Registry, logger *utils.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", telemetry.Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.LogError(utils.NewNetworkError("serve metrics", err))
		}
	}()
	logger.LogProcessStep(fmt.Sprintf("Serving metrics on %s/metrics", addr))
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
