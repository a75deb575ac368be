package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/example/wordcoach/internal/words"
	"github.com/example/wordcoach/pkg/models"
)

// Coach is the drill service as seen by the bot
type Coach interface {
	ReconcileDay(ctx context.Context) (models.PenaltyReport, error)
	AddWords(ctx context.Context, pairs []words.Pair) (models.BatchResult, error)
	RemoveWord(ctx context.Context, source string) error
	SelectQuestion(ctx context.Context, mode models.Mode) (models.Question, error)
	SubmitOption(ctx context.Context, index int) (models.ScoreOutcome, error)
	ListRemediation() []models.WordEntry
	Mistakes() []models.WordEntry
	Words() []models.WordEntry
	StatsSnapshot() models.Stats
}

// telegramAPI is the subset of *tgbotapi.BotAPI the bot uses
type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot represents the Telegram bot application
type Bot struct {
	api    telegramAPI
	coach  Coach
	cfg    Config
	logger *zap.Logger

	allowed map[int64]bool

	mu    sync.Mutex
	chats map[int64]bool
	// round identifies the question currently on screen so that buttons of
	// older questions are rejected
	round int
}

// New connects to Telegram with token
func New(token string, coach Coach, cfg Config, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create bot")
	}
	logger.Info("authorized on account", zap.String("username", api.Self.UserName))
	return newBot(api, coach, cfg, logger), nil
}

func newBot(api telegramAPI, coach Coach, cfg Config, logger *zap.Logger) *Bot {
	b := &Bot{
		api:     api,
		coach:   coach,
		cfg:     cfg,
		logger:  logger,
		allowed: make(map[int64]bool, len(cfg.AllowedUserIDs)),
		chats:   make(map[int64]bool),
	}
	for _, id := range cfg.AllowedUserIDs {
		b.allowed[id] = true
	}
	if len(b.allowed) == 0 {
		logger.Warn("no allowed users configured, the bot answers everyone")
	}
	return b
}

// Run handles updates until ctx is cancelled
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("telegram handler started")
	defer b.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// SendReminder implements scheduler.Notifier. Reminders go to every allowed
// user and every chat seen since start.
func (b *Bot) SendReminder(_ context.Context, text string) error {
	var firstErr error
	for _, chatID := range b.reminderChats() {
		if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			b.logger.Error("failed to send reminder", zap.Int64("chat_id", chatID), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (b *Bot) reminderChats() []int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	seen := make(map[int64]bool)
	var out []int64
	// private chat ids equal user ids
	for _, id := range b.cfg.AllowedUserIDs {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for id := range b.chats {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (b *Bot) isAllowed(userID int64) bool {
	return len(b.allowed) == 0 || b.allowed[userID]
}

func (b *Bot) rememberChat(chatID int64) {
	b.mu.Lock()
	b.chats[chatID] = true
	b.mu.Unlock()
}

func (b *Bot) nextRound() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.round++
	return b.round
}

func (b *Bot) currentRound() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.round
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("failed to send message", zap.Error(err))
	}
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = mainMenu()
	b.send(msg)
}
