package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/example/wordcoach/internal/remediation"
	"github.com/example/wordcoach/pkg/models"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Answer multiple choice questions in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		count, _ := cmd.Flags().GetInt("count")
		mode, err := models.ParseMode(modeFlag)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return runQuiz(ctx, a.coach, mode, count, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	},
}

func init() {
	quizCmd.Flags().String("mode", string(models.ModeDirect), "Quiz mode: direct, reverse, review or remediation")
	quizCmd.Flags().Int("count", 10, "Number of questions, 0 asks until input ends")
}

// quizCoach is the part of the drill service a quiz session needs
type quizCoach interface {
	SelectQuestion(ctx context.Context, mode models.Mode) (models.Question, error)
	SubmitOption(ctx context.Context, index int) (models.ScoreOutcome, error)
}

// runQuiz asks up to count questions, reading option numbers from in. An
// empty line or "q" ends the session early.
func runQuiz(ctx context.Context, coach quizCoach, mode models.Mode, count int, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for asked := 0; count == 0 || asked < count; asked++ {
		q, err := coach.SelectQuestion(ctx, mode)
		if errors.Is(err, remediation.ErrNoRemediationWords) && asked > 0 {
			fmt.Fprintln(out, "Remediation list is empty, well done.")
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\n[%s] %s\n", q.Mode, q.Prompt)
		for i, opt := range q.Options {
			fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
		}

		idx, ok, err := readChoice(scanner, out, len(q.Options))
		if err != nil || !ok {
			return err
		}

		res, err := coach.SubmitOption(ctx, idx)
		if err != nil {
			return err
		}
		printOutcome(out, res)
	}
	return nil
}

// readChoice prompts until a valid option number arrives. ok is false when
// the user quits or input ends.
func readChoice(scanner *bufio.Scanner, out io.Writer, n int) (int, bool, error) {
	for {
		fmt.Fprintf(out, "Your answer [1-%d, q to quit]: ", n)
		if !scanner.Scan() {
			return 0, false, scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.EqualFold(line, "q") {
			return 0, false, nil
		}
		choice, err := strconv.Atoi(line)
		if err == nil && choice >= 1 && choice <= n {
			return choice - 1, true, nil
		}
		fmt.Fprintln(out, "Please enter a number from the list.")
	}
}

func printOutcome(out io.Writer, res models.ScoreOutcome) {
	if res.Correct {
		fmt.Fprint(out, "Correct!")
	} else {
		fmt.Fprintf(out, "Wrong, the answer is %q.", res.Expected)
	}
	fmt.Fprintf(out, " %+d points (score %d", res.Delta, res.TotalScore)
	if res.Multiplier > 1 {
		fmt.Fprintf(out, ", x%.0f combo", res.Multiplier)
	}
	fmt.Fprintln(out, ")")
	if res.Correct && !res.GateOpen {
		fmt.Fprintln(out, "No points until every daily answer goal is met.")
	}
	if res.LeftRemediation {
		fmt.Fprintln(out, "Word cleared from the remediation list.")
	}
}
