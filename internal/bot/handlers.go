package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/example/wordcoach/internal/drill"
	"github.com/example/wordcoach/internal/excel"
	"github.com/example/wordcoach/internal/remediation"
	"github.com/example/wordcoach/internal/selection"
	"github.com/example/wordcoach/internal/words"
	"github.com/example/wordcoach/pkg/models"
)

// Callback actions
const (
	actionMenu   = "menu"
	actionMode   = "mode"
	actionAnswer = "ans"
	actionStats  = "stats"
)

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.Message == nil || !b.isAllowed(cb.From.ID) {
			return
		}
		b.logger.Debug("callback received", zap.Int64("user_id", cb.From.ID), zap.String("data", cb.Data))
		b.rememberChat(cb.Message.Chat.ID)
		b.handleCallback(ctx, cb)
	case update.Message != nil:
		msg := update.Message
		if msg.From == nil || !b.isAllowed(msg.From.ID) {
			if msg.From != nil {
				b.logger.Warn("ignoring message from unknown user", zap.Int64("user_id", msg.From.ID))
			}
			return
		}
		b.logger.Debug("update received", zap.Int64("chat_id", msg.Chat.ID), zap.String("text", msg.Text))
		b.rememberChat(msg.Chat.ID)
		b.handleMessage(ctx, msg)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	if message.IsCommand() {
		args := strings.TrimSpace(message.CommandArguments())
		switch message.Command() {
		case "start":
			b.handleStart(ctx, chatID)
		case "help", "menu":
			b.reply(chatID, helpText)
		case "add":
			if args == "" {
				b.send(tgbotapi.NewMessage(chatID, addHelpText))
				return
			}
			b.handleWordList(ctx, chatID, args)
		case "remove":
			b.handleRemove(ctx, chatID, args)
		case "quiz":
			b.handleQuiz(ctx, chatID, args)
		case "stats":
			b.reply(chatID, statsText(b.coach.StatsSnapshot()))
		case "words":
			b.reply(chatID, wordListText("📚 Words", b.coach.Words(), "No words yet. Use /add to add some."))
		case "mistakes":
			b.reply(chatID, wordListText("❌ Mistakes", b.coach.Mistakes(), "No mistakes so far."))
		case "remediation":
			b.reply(chatID, wordListText("🩹 Remediation list", b.coach.ListRemediation(), "Nothing to remediate."))
		case "export":
			b.handleExport(chatID)
		default:
			b.reply(chatID, "Unknown command. Use /help to see what I can do.")
		}
		return
	}

	if message.Document != nil {
		b.handleDocument(ctx, chatID, message.Document)
		return
	}

	if strings.TrimSpace(message.Text) != "" {
		b.handleWordList(ctx, chatID, message.Text)
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	report, err := b.coach.ReconcileDay(ctx)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	text := welcomeText
	if p := penaltyText(report); p != "" {
		text += "\n\n" + p
	}
	b.reply(chatID, text)
}

func (b *Bot) handleWordList(ctx context.Context, chatID int64, text string) {
	pairs, problems := words.ParseLines(text)
	if len(pairs) == 0 {
		b.send(tgbotapi.NewMessage(chatID, addHelpText))
		return
	}
	res, err := b.coach.AddWords(ctx, pairs)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	res.Errors = append(problems, res.Errors...)
	b.reply(chatID, batchText(res))
}

func (b *Bot) handleRemove(ctx context.Context, chatID int64, source string) {
	if source == "" {
		b.send(tgbotapi.NewMessage(chatID, "Usage: /remove <word>"))
		return
	}
	if err := b.coach.RemoveWord(ctx, source); err != nil {
		b.replyError(chatID, err)
		return
	}
	b.reply(chatID, fmt.Sprintf("🗑 Removed %q.", source))
}

func (b *Bot) handleQuiz(ctx context.Context, chatID int64, arg string) {
	if arg == "" {
		msg := tgbotapi.NewMessage(chatID, "Choose a mode:")
		msg.ReplyMarkup = modeKeyboard()
		b.send(msg)
		return
	}
	mode, err := models.ParseMode(arg)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.askQuestion(ctx, chatID, mode)
}

func (b *Bot) askQuestion(ctx context.Context, chatID int64, mode models.Mode) {
	q, err := b.coach.SelectQuestion(ctx, mode)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	round := b.nextRound()
	msg := tgbotapi.NewMessage(chatID, questionText(q))
	msg.ReplyMarkup = questionKeyboard(q, round)
	b.send(msg)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	// acknowledge the button press so the client stops spinning
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.logger.Debug("callback ack failed", zap.Error(err))
	}

	action, params := decodeCallback(cb.Data)
	switch action {
	case actionMenu:
		b.reply(chatID, helpText)
	case actionStats:
		b.reply(chatID, statsText(b.coach.StatsSnapshot()))
	case actionMode:
		if len(params) != 1 {
			return
		}
		mode, err := models.ParseMode(params[0])
		if err != nil {
			b.replyError(chatID, err)
			return
		}
		b.askQuestion(ctx, chatID, mode)
	case actionAnswer:
		b.handleAnswer(ctx, chatID, params)
	default:
		b.logger.Debug("unknown callback", zap.String("data", cb.Data))
	}
}

func (b *Bot) handleAnswer(ctx context.Context, chatID int64, params []string) {
	if len(params) != 3 {
		return
	}
	round, err1 := strconv.Atoi(params[0])
	idx, err2 := strconv.Atoi(params[2])
	if err1 != nil || err2 != nil {
		return
	}
	if round != b.currentRound() {
		b.send(tgbotapi.NewMessage(chatID, "⌛ That question has expired."))
		return
	}
	mode, err := models.ParseMode(params[1])
	if err != nil {
		return
	}

	out, err := b.coach.SubmitOption(ctx, idx)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.send(tgbotapi.NewMessage(chatID, outcomeText(out)))

	if mode == models.ModeRemediation && len(b.coach.ListRemediation()) == 0 {
		b.reply(chatID, "🎉 Remediation list is empty.")
		return
	}
	b.askQuestion(ctx, chatID, mode)
}

func (b *Bot) handleExport(chatID int64) {
	f, err := excel.BuildWorkbook(b.coach.Words())
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "words.xlsx", Bytes: buf.Bytes()})
	b.send(doc)
}

func (b *Bot) handleDocument(ctx context.Context, chatID int64, doc *tgbotapi.Document) {
	ext := strings.ToLower(filepath.Ext(doc.FileName))
	if ext != ".xlsx" && ext != ".csv" {
		b.reply(chatID, "Please send an .xlsx or .csv file with words in column A and translations in column B.")
		return
	}

	path, err := b.download(ctx, doc.FileID, ext)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	defer os.Remove(path)

	cfg := excel.DefaultImportConfig()
	cfg.FilePath = path
	res, err := excel.ImportWords(ctx, b.coach, cfg)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.reply(chatID, importText(res))
}

// download fetches a Telegram file into a temporary file and returns its path
func (b *Bot) download(ctx context.Context, fileID, ext string) (string, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve file")
	}

	ctx, cancel := context.WithTimeout(ctx, b.cfg.DownloadTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to download file")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "wordcoach-import-*"+ext)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", errors.Wrap(err, "failed to store file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func (b *Bot) replyError(chatID int64, err error) {
	text, known := errorText(err)
	if !known {
		b.logger.Error("handle error", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	b.reply(chatID, text)
}

// errorText maps engine errors to user facing text
func errorText(err error) (string, bool) {
	switch {
	case errors.Is(err, selection.ErrEmptyCorpus):
		return fmt.Sprintf("📭 You need at least %d words to take a quiz. Add more with /add.", drill.MinQuizWords), true
	case errors.Is(err, remediation.ErrNoRemediationWords):
		return "🎉 Nothing to remediate right now.", true
	case errors.Is(err, models.ErrInvalidMode):
		return "Unknown mode. Use one of: direct, reverse, review, remediation.", true
	case errors.Is(err, drill.ErrNoPendingQuestion), errors.Is(err, drill.ErrUnknownOption):
		return "⌛ That question has expired. Use /quiz to get a new one.", true
	case errors.Is(err, words.ErrDuplicateWord):
		return "That word already exists.", true
	case errors.Is(err, words.ErrWordNotFound):
		return "No such word.", true
	case errors.Is(err, words.ErrEmptyText):
		return "Word and translation must not be empty.", true
	}
	return "❌ Something went wrong, please try again.", false
}
