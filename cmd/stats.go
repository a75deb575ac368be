package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/wordcoach/pkg/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show score, goals, streaks and daily history",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return withApp(cmd, func(ctx context.Context, a *app) error {
			st := a.coach.StatsSnapshot()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(st)
			}
			printStats(cmd.OutOrStdout(), st)
			return nil
		})
	},
}

var rolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Close the previous day and apply pending penalties",
	RunE: func(cmd *cobra.Command, args []string) error {
		// withApp already reconciles and prints the penalties
		return withApp(cmd, func(ctx context.Context, a *app) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Score: %d\n", a.coach.StatsSnapshot().TotalScore)
			return nil
		})
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print the snapshot as JSON")
}

func printStats(out io.Writer, st models.Stats) {
	fmt.Fprintf(out, "Score:        %d\n", st.TotalScore)
	fmt.Fprintf(out, "Today:        %+d points, %d/%d words added\n", st.Today.PointsDelta, st.Today.WordsAdded, st.WordTarget)
	fmt.Fprintf(out, "Answers:      direct %d/%d, reverse %d/%d, review %d/%d (gate open: %t)\n",
		st.DirectAnswered, st.AnswerTarget, st.ReverseAnswered, st.AnswerTarget, st.ReviewAnswered, st.AnswerTarget, st.GateOpen)
	fmt.Fprintf(out, "Streak:       %d correct, %d wrong, x%.0f combo\n", st.CorrectStreak, st.WrongStreak, st.ComboMultiplier)
	fmt.Fprintf(out, "Words:        %d (mistakes %d, remediation %d)\n", st.WordCount, st.MistakeCount, st.RemediationCount)
	fmt.Fprintf(out, "Lifetime:     %d correct, %d wrong\n", st.TotalCorrect, st.TotalIncorrect)

	if len(st.History) == 0 {
		return
	}
	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tPOINTS\tTOTAL\tADDED\tCORRECT\tWRONG")
	for _, d := range st.History {
		fmt.Fprintf(w, "%s\t%+d\t%d\t%d\t%d\t%d\n",
			d.Date, d.PointsDelta, d.CumulativeScore, d.WordsAdded, d.CorrectCount, d.IncorrectCount)
	}
	w.Flush()
}
