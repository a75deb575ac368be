package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/wordcoach/internal/excel"
	"github.com/example/wordcoach/internal/remediation"
	"github.com/example/wordcoach/pkg/models"
)

// maxListed caps word listings below Telegram's message size limit
const maxListed = 100

const welcomeText = `Welcome to Word Coach! 🎓

Add words, drill them in four modes and keep your streak going.
Use /help to see all commands.`

const helpText = `Available commands:
/add word - translation (one pair per line)
/remove word
/quiz [direct|reverse|review|remediation]
/stats - score, goals and streaks
/words - all words
/mistakes - words you got wrong
/remediation - words pending remediation
/export - download your words as xlsx

You can also send a word list as plain text or an .xlsx/.csv file.`

const addHelpText = `Send me your list of words in the format:
word - translation

Example:
hello - merhaba
world - dünya`

var modeLabels = map[models.Mode]string{
	models.ModeDirect:      "➡️ Direct",
	models.ModeReverse:     "⬅️ Reverse",
	models.ModeReview:      "🔁 Review",
	models.ModeRemediation: "🩹 Remediation",
}

var severityMarks = map[models.Severity]string{
	models.SeverityNone:   "⚪",
	models.SeverityLow:    "🟡",
	models.SeverityMedium: "🟠",
	models.SeverityHigh:   "🔴",
}

// encodeCallback joins an action and its parameters
func encodeCallback(action string, params ...string) string {
	if len(params) == 0 {
		return action
	}
	return action + ":" + strings.Join(params, ":")
}

// decodeCallback splits callback data into action and parameters
func decodeCallback(data string) (string, []string) {
	parts := strings.Split(data, ":")
	return parts[0], parts[1:]
}

func mainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Quiz", encodeCallback(actionMode, string(models.ModeDirect))),
			tgbotapi.NewInlineKeyboardButtonData("📊 Statistics", encodeCallback(actionStats)),
		),
	)
}

func modeKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, m := range []models.Mode{models.ModeDirect, models.ModeReverse, models.ModeReview, models.ModeRemediation} {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(modeLabels[m], encodeCallback(actionMode, string(m))),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func questionKeyboard(q models.Question, round int) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, opt := range q.Options {
		data := encodeCallback(actionAnswer, strconv.Itoa(round), string(q.Mode), strconv.Itoa(i))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(opt, data)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« Menu", encodeCallback(actionMenu)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func questionText(q models.Question) string {
	return fmt.Sprintf("%s\n\n❓ %s", modeLabels[q.Mode], q.Prompt)
}

func outcomeText(out models.ScoreOutcome) string {
	var sb strings.Builder
	if out.Correct {
		sb.WriteString("✅ Correct!")
	} else {
		fmt.Fprintf(&sb, "❌ Wrong. The answer is %q.", out.Expected)
	}

	switch {
	case out.Delta > 0:
		fmt.Fprintf(&sb, " +%d", out.Delta)
	case out.Delta < 0:
		fmt.Fprintf(&sb, " %d", out.Delta)
	case out.Correct && !out.GateOpen:
		sb.WriteString(" (no points until today's answer goals are met)")
	}
	if out.Multiplier > 1 {
		fmt.Fprintf(&sb, " x%.0f combo", out.Multiplier)
	}
	if out.StreakPenalty < 0 {
		fmt.Fprintf(&sb, "\n⚠️ %d wrong in a row: %d extra", out.WrongStreak, out.StreakPenalty)
	}
	if out.LeftRemediation {
		sb.WriteString("\n🩹 Word cleared from the remediation list.")
	} else if out.InRemediation && out.Mode == models.ModeRemediation {
		fmt.Fprintf(&sb, "\n🩹 Remediation progress %d/%d", out.RemediationProgress, remediation.Target)
	}
	fmt.Fprintf(&sb, "\n🏆 Score: %d", out.TotalScore)
	return sb.String()
}

func statsText(st models.Stats) string {
	var sb strings.Builder
	sb.WriteString("📊 Statistics\n\n")
	fmt.Fprintf(&sb, "🏆 Score: %d\n", st.TotalScore)
	fmt.Fprintf(&sb, "📅 Today: %+d points, %d/%d words added\n", st.Today.PointsDelta, st.Today.WordsAdded, st.WordTarget)
	fmt.Fprintf(&sb, "🎯 Answers: direct %d/%d, reverse %d/%d, review %d/%d\n",
		st.DirectAnswered, st.AnswerTarget, st.ReverseAnswered, st.AnswerTarget, st.ReviewAnswered, st.AnswerTarget)
	if st.GateOpen {
		sb.WriteString("🔓 Points are unlocked for today\n")
	} else {
		sb.WriteString("🔒 Points unlock when every answer goal is met\n")
	}
	fmt.Fprintf(&sb, "🔥 Streak: %d correct, %d wrong, x%.0f combo\n", st.CorrectStreak, st.WrongStreak, st.ComboMultiplier)
	fmt.Fprintf(&sb, "📚 Words: %d, mistakes: %d, remediation: %d\n", st.WordCount, st.MistakeCount, st.RemediationCount)
	fmt.Fprintf(&sb, "✔️ Lifetime: %d correct, %d wrong", st.TotalCorrect, st.TotalIncorrect)

	if n := len(st.History); n > 0 {
		sb.WriteString("\n\nLast days:")
		from := n - 7
		if from < 0 {
			from = 0
		}
		for _, d := range st.History[from:] {
			fmt.Fprintf(&sb, "\n%s  %+d  (total %d)", d.Date, d.PointsDelta, d.CumulativeScore)
		}
	}
	return sb.String()
}

func wordListText(title string, entries []models.WordEntry, empty string) string {
	if len(entries) == 0 {
		return empty
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d)\n", title, len(entries))
	for i, e := range entries {
		if i == maxListed {
			fmt.Fprintf(&sb, "\n… and %d more", len(entries)-maxListed)
			break
		}
		fmt.Fprintf(&sb, "\n%s %s - %s", severityMarks[models.SeverityFor(e.WrongCount)], e.SourceText, e.TargetText)
		if e.WrongCount > 0 {
			fmt.Fprintf(&sb, " (%d wrong", e.WrongCount)
			if e.LastWrongDate != nil {
				fmt.Fprintf(&sb, ", last %s", models.DateKey(*e.LastWrongDate))
			}
			sb.WriteString(")")
		}
	}
	return sb.String()
}

func penaltyText(r models.PenaltyReport) string {
	var lines []string
	if r.MissedGoalPenalty != 0 && r.PreviousDate != nil {
		lines = append(lines, fmt.Sprintf("⚠️ Daily word goal missed on %s: %d",
			models.DateKey(*r.PreviousDate), r.MissedGoalPenalty))
	}
	if r.DecayPenalty != 0 {
		lines = append(lines, fmt.Sprintf("⚠️ Unaddressed mistakes (%s): %d",
			strings.Join(r.DecayedWords, ", "), r.DecayPenalty))
	}
	return strings.Join(lines, "\n")
}

func batchText(res models.BatchResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Words processed:\n- Added: %d\n- Skipped: %d\n", res.Added, res.Skipped)
	if len(res.Errors) > 0 {
		fmt.Fprintf(&sb, "\n❌ Errors (%d):\n", len(res.Errors))
		for _, e := range res.Errors {
			sb.WriteString("- " + e + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func importText(res *excel.ImportResult) string {
	return batchText(models.BatchResult{Added: res.Added, Skipped: res.Skipped, Errors: res.Errors}) +
		fmt.Sprintf("\n\nRows read: %d", res.TotalProcessed)
}
