package telegram

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/khamphay/laolotto-bot/internal/models"
	"github.com/khamphay/laolotto-bot/internal/services"
	"golang.org/x/exp/slog"
)

var (
	guessText  = regexp.MustCompile(`^\d{2,4}$`)
	resultText = regexp.MustCompile(`^\d{4}$`)
)

// HandleUpdate routes one inbound Telegram update. Handling is stateless
// between messages: every decision is derived from the message text or the
// callback payload, never from remembered per-user conversation state.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	chatID := msg.Chat.ID
	userID := strconv.FormatInt(msg.From.ID, 10)
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/start":
		b.sendWithKeyboard(chatID, msgWelcome, b.mainKeyboard(msg.From.ID))
	case strings.HasPrefix(text, "/setresult"):
		b.handleSetResult(ctx, msg, text)
	case strings.HasPrefix(text, "/announce"):
		b.handleManualAnnounce(ctx, msg)
	case text == btnPlay:
		b.reply(chatID, msgPromptGuess)
	case text == btnCheck:
		b.handleCheckResult(ctx, chatID, userID)
	case text == btnEnterResult:
		if b.isAdmin(msg.From.ID) {
			b.reply(chatID, msgSetResultUsage)
		}
	case text == btnAdminMenu:
		if b.isAdmin(msg.From.ID) {
			b.sendWithKeyboard(chatID, msgAdminMenu, b.adminKeyboard())
		}
	case text == btnCountRound:
		if b.isAdmin(msg.From.ID) {
			b.handleCounts(ctx, chatID)
		}
	case text == btnClearWagers:
		if b.isAdmin(msg.From.ID) {
			b.handleClearWagers(ctx, chatID)
		}
	case text == btnClearResults:
		if b.isAdmin(msg.From.ID) {
			b.handleClearResults(ctx, chatID)
		}
	case text == btnBack:
		b.sendWithKeyboard(chatID, msgWelcome, b.mainKeyboard(msg.From.ID))
	case guessText.MatchString(text):
		b.handleGuess(ctx, msg, text)
	}
}

// handleGuess submits a 3/4-digit guess directly; a 2-digit guess gets an
// inline keyboard whose callback data carries the digits as the correlation
// token, so the top/bottom follow-up needs no per-user pending state.
func (b *Bot) handleGuess(ctx context.Context, msg *tgbotapi.Message, number string) {
	chatID := msg.Chat.ID
	if len(number) == 2 {
		b.sendWithKeyboard(chatID, fmt.Sprintf(msgChoosePosition, number), positionKeyboard(number))
		return
	}

	userID := strconv.FormatInt(msg.From.ID, 10)
	b.submitWager(ctx, chatID, userID, displayLabel(msg.From), number, models.PositionNone)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Always answer so the client stops the spinner, even on bad payloads
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			slog.Warn("Failed to answer callback query", "error", err)
		}
	}()

	if cb.Message == nil || cb.From == nil {
		return
	}
	number, position, ok := parsePositionCallback(cb.Data)
	if !ok {
		return
	}

	chatID := cb.Message.Chat.ID
	userID := strconv.FormatInt(cb.From.ID, 10)
	b.submitWager(ctx, chatID, userID, displayLabel(cb.From), number, position)
}

// parsePositionCallback decodes a top/bottom choice payload ("pos:top:56").
// The digits are the correlation token carried from the prompt, so they are
// re-validated here; anything malformed is dropped without a reply.
func parsePositionCallback(data string) (string, models.Position, bool) {
	parts := strings.SplitN(data, ":", 3)
	if len(parts) != 3 || parts[0] != "pos" {
		return "", models.PositionNone, false
	}
	number := parts[2]
	if len(number) != 2 || !guessText.MatchString(number) {
		return "", models.PositionNone, false
	}

	switch parts[1] {
	case "top":
		return number, models.PositionTop, true
	case "bottom":
		return number, models.PositionBottom, true
	default:
		return "", models.PositionNone, false
	}
}

// submitWager runs the shared submission path and maps each typed outcome to
// a player-facing reply.
func (b *Bot) submitWager(ctx context.Context, chatID int64, userID, label, number string, position models.Position) {
	wager, err := b.wagers.Submit(ctx, userID, label, number, position)
	if err == nil {
		b.reply(chatID, fmt.Sprintf(msgWagerAccepted, formatGuess(wager), wager.RoundID))
		return
	}

	if existing, ok := services.IsAlreadyWagered(err); ok {
		b.reply(chatID, fmt.Sprintf(msgAlreadyWagered, formatGuess(existing)))
		return
	}
	switch err {
	case services.ErrInvalidNumber:
		b.reply(chatID, msgInvalidGuess)
	case services.ErrPositionRequired:
		b.sendWithKeyboard(chatID, fmt.Sprintf(msgChoosePosition, number), positionKeyboard(number))
	case services.ErrBettingClosed:
		b.reply(chatID, msgBettingClosed)
	default:
		slog.Error("Wager submission failed", "error", err)
		b.reply(chatID, msgTryAgainLater)
	}
}

// handleSetResult records the draft draw: "/setresult 1234" targets the open
// round, "/setresult 1234 2026-01-05" targets an explicit round.
func (b *Bot) handleSetResult(ctx context.Context, msg *tgbotapi.Message, text string) {
	if !b.isAdmin(msg.From.ID) {
		return
	}
	chatID := msg.Chat.ID

	fields := strings.Fields(text)
	if len(fields) < 2 || !resultText.MatchString(fields[1]) {
		b.reply(chatID, msgSetResultUsage)
		return
	}
	digits4 := fields[1]

	roundID := b.clock.CurrentRoundID(messageTime(msg))
	if len(fields) >= 3 {
		roundID = fields[2]
	}

	result, err := b.results.PublishDraft(ctx, roundID, digits4)
	switch err {
	case nil:
		b.reply(chatID, fmt.Sprintf(msgResultRecorded, result.Digits4, result.RoundID))
	case services.ErrInvalidNumber:
		b.reply(chatID, msgInvalidResult)
	case services.ErrDuplicateResult:
		b.reply(chatID, msgDuplicateResult)
	default:
		slog.Error("Failed to record result draft", "error", err, "roundId", roundID)
		b.reply(chatID, msgTryAgainLater)
	}
}

// handleManualAnnounce lets an admin trigger the announcement outside the
// scheduled instant, e.g. after entering a late result.
func (b *Bot) handleManualAnnounce(ctx context.Context, msg *tgbotapi.Message) {
	if !b.isAdmin(msg.From.ID) || b.lifecycle == nil {
		return
	}
	if err := b.lifecycle.AnnounceRound(ctx); err != nil {
		b.reply(msg.Chat.ID, msgTryAgainLater)
	}
}

func (b *Bot) handleCheckResult(ctx context.Context, chatID int64, userID string) {
	result, err := b.results.LatestPublished(ctx)
	if err != nil {
		if err == services.ErrResultNotFound {
			b.reply(chatID, msgNoResultYet)
		} else {
			slog.Error("Failed to fetch latest result", "error", err)
			b.reply(chatID, msgTryAgainLater)
		}
		return
	}

	text := b.formatter.FormatResult(result)
	if wager, err := b.wagers.WagerForUser(ctx, userID, result.RoundID); err == nil && wager != nil {
		text += "\n" + fmt.Sprintf(msgYourGuessWas, formatGuess(wager))
	}
	b.reply(chatID, text)
}

func (b *Bot) handleCounts(ctx context.Context, chatID int64) {
	roundID := b.clock.CurrentRoundID(time.Now())
	entries, err := b.wagers.CountForRound(ctx, roundID)
	if err != nil {
		b.reply(chatID, msgTryAgainLater)
		return
	}
	players, err := b.wagers.DistinctUsersForRound(ctx, roundID)
	if err != nil {
		b.reply(chatID, msgTryAgainLater)
		return
	}
	b.reply(chatID, fmt.Sprintf(msgRoundCounts, roundID, entries, players))
}

func (b *Bot) handleClearWagers(ctx context.Context, chatID int64) {
	deleted, err := b.wagers.ClearAll(ctx)
	if err != nil {
		b.reply(chatID, msgTryAgainLater)
		return
	}
	b.reply(chatID, fmt.Sprintf(msgWagersCleared, deleted))
}

func (b *Bot) handleClearResults(ctx context.Context, chatID int64) {
	deleted, err := b.results.DeleteAll(ctx)
	if err != nil {
		b.reply(chatID, msgTryAgainLater)
		return
	}
	b.reply(chatID, fmt.Sprintf(msgResultsCleared, deleted))
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.admins[userID]
}

func (b *Bot) reply(chatID int64, text string) {
	if err := b.Send(chatID, text); err != nil {
		// Delivery failure never rolls back the state change behind the reply
		slog.Error("Failed to deliver reply", "error", err, "chatId", chatID)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("Failed to deliver reply", "error", err, "chatId", chatID)
	}
}

// messageTime prefers the Telegram-stamped send time so a delayed webhook
// replay still lands in the round the sender saw.
func messageTime(msg *tgbotapi.Message) time.Time {
	if msg.Date > 0 {
		return time.Unix(int64(msg.Date), 0)
	}
	return time.Now()
}

// displayLabel captures a human-friendly handle at submission time, for
// announcements only; it is never treated as identity.
func displayLabel(user *tgbotapi.User) string {
	if user.UserName != "" {
		return "@" + user.UserName
	}
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

// formatGuess renders a wager's number with its position marker
func formatGuess(w *models.Wager) string {
	switch w.Position {
	case models.PositionTop:
		return w.Number + " (ເທິງ)"
	case models.PositionBottom:
		return w.Number + " (ລຸ່ມ)"
	default:
		return w.Number
	}
}
