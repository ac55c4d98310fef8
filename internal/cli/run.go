package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/on-the-ground/effect_ive_store/action"
	"github.com/on-the-ground/effect_ive_store/config"
	"github.com/on-the-ground/effect_ive_store/effect"
	"github.com/on-the-ground/effect_ive_store/examples/scoreboard"
	"github.com/on-the-ground/effect_ive_store/log"
	"github.com/on-the-ground/effect_ive_store/store"
	"github.com/on-the-ground/effect_ive_store/stream"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	Script  string
	Config  string
	Results string
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay a match script",
		Long: `Replay a YAML match script through a scoreboard store.

Every distinct board line is printed as the store publishes it, including
changes made by effects.

Example:
  scoreboard run --script derby.yaml
  scoreboard run --script derby.yaml --config store.yaml
  scoreboard run --script derby.yaml --results results.jsonl`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Script, "script", "", "path to the match script (required)")
	cmd.Flags().StringVar(&opts.Config, "config", "", "path to a store configuration file")
	cmd.Flags().StringVar(&opts.Results, "results", "", "append announced results to this file as JSON lines")
	_ = cmd.MarkFlagRequired("script")

	return cmd
}

func runScript(cmd *cobra.Command, opts *RunOptions) error {
	cfg := config.Default()
	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger, err := log.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	script, err := scoreboard.LoadScript(opts.Script)
	if err != nil {
		return err
	}
	actions, err := script.Actions()
	if err != nil {
		return fmt.Errorf("script %s: %w", script.Name, err)
	}

	var seen atomic.Int64
	st := store.New(scoreboard.Reducer, scoreboard.Initial(),
		store.WithConfig(cfg),
		store.WithLogger(logger.With(zap.String("script", script.Name))),
		store.WithEffects(
			scoreboard.ResultEffect,
			effect.Logging(logger),
			counting(&seen),
		),
	)
	defer st.Close()

	recording := recordResults(st, cfg, opts.Results, script.Name)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := cmd.OutOrStdout()
	store.Select(st, scoreboard.Board)(ctx, func(line string) {
		fmt.Fprintln(out, line)
	})

	for _, a := range actions {
		st.Dispatch(a)
	}
	if err := recording(); err != nil {
		return fmt.Errorf("record results: %w", err)
	}

	fmt.Fprintf(out, "%s finished after %d actions\n", script.Name, seen.Load())
	return nil
}

// recordResults registers the archive effect when path is set and returns a
// func waiting for every announced result to be recorded.
func recordResults(st *store.Store[scoreboard.State], cfg config.Config, path, match string) func() error {
	if path == "" {
		return func() error { return nil }
	}

	var (
		pending sync.WaitGroup
		mu      sync.Mutex
		errs    []error
	)
	file := &resultsFile{path: path, match: match}
	st.Register(effect.Tap(func(scoreboard.AnnounceResult) { pending.Add(1) }))
	st.Register(scoreboard.RecordEffect(
		stream.NewWorkerConfig(cfg.Workers.NumWorkers),
		st.State,
		func(ctx context.Context, s scoreboard.State) error {
			defer pending.Done()
			err := file.record(ctx, s)
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return err
		},
	))

	return func() error {
		pending.Wait()
		mu.Lock()
		defer mu.Unlock()
		return errors.Join(errs...)
	}
}

// counting observes every action the store dispatches, including those fed back
// by effects.
func counting(seen *atomic.Int64) effect.Effect {
	return effect.NonDispatching(func(actions stream.Stream[action.Action]) stream.Stream[action.Action] {
		return stream.Map(actions, func(a action.Action) action.Action {
			seen.Add(1)
			return a
		})
	})
}
