package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/wordcoach/internal/words"
	"github.com/example/wordcoach/pkg/models"
)

var addCmd = &cobra.Command{
	Use:   "add [source target]",
	Short: "Add a word, or read \"source - target\" lines from stdin",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			out := cmd.OutOrStdout()
			switch len(args) {
			case 2:
				e, err := a.coach.AddWord(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Added %s - %s\n", e.SourceText, e.TargetText)
				return nil
			case 0:
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				pairs, problems := words.ParseLines(string(data))
				res, err := a.coach.AddWords(ctx, pairs)
				if err != nil {
					return err
				}
				res.Errors = append(problems, res.Errors...)
				printBatch(out, res)
				return nil
			default:
				return errors.Errorf("expected a source and a target, got %q", strings.Join(args, " "))
			}
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <source>",
	Short: "Remove a word and drop it from the remediation list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.coach.RemoveWord(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all words",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			printWords(cmd.OutOrStdout(), a.coach.Words(), "No words yet.")
			return nil
		})
	},
}

var mistakesCmd = &cobra.Command{
	Use:   "mistakes",
	Short: "List words answered incorrectly and the remediation list",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Mistakes:")
			printWords(out, a.coach.Mistakes(), "  none")
			fmt.Fprintln(out, "\nPending remediation:")
			printWords(out, a.coach.ListRemediation(), "  none")
			return nil
		})
	},
}

func printWords(out io.Writer, entries []models.WordEntry, empty string) {
	if len(entries) == 0 {
		fmt.Fprintln(out, empty)
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tTARGET\tADDED\tWRONG\tSEVERITY\tLAST WRONG")
	for _, e := range entries {
		added, last := "-", "-"
		if !e.AddedOn.IsZero() {
			added = models.DateKey(e.AddedOn)
		}
		if e.LastWrongDate != nil {
			last = models.DateKey(*e.LastWrongDate)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			e.SourceText, e.TargetText, added, e.WrongCount, models.SeverityFor(e.WrongCount), last)
	}
	w.Flush()
}

func printBatch(out io.Writer, res models.BatchResult) {
	fmt.Fprintf(out, "Added: %d\nSkipped: %d\n", res.Added, res.Skipped)
	for _, e := range res.Errors {
		fmt.Fprintf(out, "  error: %s\n", e)
	}
}

func printPenalties(out io.Writer, r models.PenaltyReport) {
	if r.MissedGoalPenalty != 0 && r.PreviousDate != nil {
		fmt.Fprintf(out, "Daily word goal missed on %s: %d points\n", models.DateKey(*r.PreviousDate), r.MissedGoalPenalty)
	}
	if r.DecayPenalty != 0 {
		fmt.Fprintf(out, "Unaddressed mistakes (%s): %d points\n", strings.Join(r.DecayedWords, ", "), r.DecayPenalty)
	}
}
