package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/entorb/flashcards-sub001/internal/eta"
	"github.com/entorb/flashcards-sub001/internal/store"
)

var etaCmd = &cobra.Command{
	Use:   "eta",
	Short: "Estimate when a batch of tasks will be done",
}

var etaStartCmd = &cobra.Command{
	Use:   "start <total>",
	Short: "Start tracking a new batch of tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		total, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid total %q: %w", args[0], err)
		}
		var t eta.Tracker
		if !t.Start(total, time.Now()) {
			return fmt.Errorf("total must be positive, got %d", total)
		}
		return withETA(cmd, func(ctx context.Context, repo store.ETARepo) error {
			if err := repo.Save(ctx, t); err != nil {
				return fmt.Errorf("save tracker: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tracking %d tasks.\n", total)
			return nil
		})
	},
}

var etaAddCmd = &cobra.Command{
	Use:   "add <completed>",
	Short: "Record the number of completed tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		completed, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid count %q: %w", args[0], err)
		}
		return withETA(cmd, func(ctx context.Context, repo store.ETARepo) error {
			t, err := repo.Load(ctx)
			if err != nil {
				return fmt.Errorf("load tracker: %w", err)
			}
			if t == nil {
				return fmt.Errorf("no tracker running, use eta start first")
			}
			now := time.Now()
			if !t.Record(completed, now) {
				return fmt.Errorf("completed must be between 0 and %d, got %d", t.Total, completed)
			}
			if err := repo.Save(ctx, *t); err != nil {
				return fmt.Errorf("save tracker: %w", err)
			}
			printETA(cmd.OutOrStdout(), t, now)
			return nil
		})
	},
}

var etaShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show progress and the estimated completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withETA(cmd, func(ctx context.Context, repo store.ETARepo) error {
			t, err := repo.Load(ctx)
			if err != nil {
				return fmt.Errorf("load tracker: %w", err)
			}
			if t == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No tracker running.")
				return nil
			}
			printETA(cmd.OutOrStdout(), t, time.Now())
			return nil
		})
	},
}

var etaClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Stop tracking",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withETA(cmd, func(ctx context.Context, repo store.ETARepo) error {
			if err := repo.Clear(ctx); err != nil {
				return fmt.Errorf("clear tracker: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Tracker cleared.")
			return nil
		})
	},
}

func init() {
	etaCmd.AddCommand(etaStartCmd)
	etaCmd.AddCommand(etaAddCmd)
	etaCmd.AddCommand(etaShowCmd)
	etaCmd.AddCommand(etaClearCmd)
}

func withETA(cmd *cobra.Command, fn func(ctx context.Context, repo store.ETARepo) error) error {
	e, err := openEnv(cmd, "")
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(context.Background(), e.store.ETA())
}

func printETA(w io.Writer, t *eta.Tracker, now time.Time) {
	done := t.Completed()
	fmt.Fprintf(w, "Progress:  %d/%d (%.0f%%)\n", done, t.Total, float64(done)/float64(t.Total)*100)
	fmt.Fprintf(w, "Started:   %s\n", humanize.RelTime(t.Started, now, "ago", "from now"))

	p, ok := t.Estimate(now)
	if !ok {
		fmt.Fprintln(w, "Estimate:  not enough progress yet")
		return
	}
	if done >= t.Total {
		fmt.Fprintln(w, "Estimate:  done")
		return
	}
	fmt.Fprintf(w, "Remaining: %s\n", p.Remaining.Round(time.Second))
	fmt.Fprintf(w, "Done at:   %s (%s)\n", p.Completion.Local().Format("15:04"), humanize.RelTime(p.Completion, now, "ago", "from now"))
}
