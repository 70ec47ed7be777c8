package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Menu buttons, kept in Lao to match the player-facing audience
const (
	btnPlay         = "🎲 ເລີ່ມທາຍເລກ"
	btnCheck        = "🔍 ກວດຜົນທາຍ"
	btnEnterResult  = "📝 ກອກຜົນລາງວັນ"
	btnAdminMenu    = "📊 ຈັດການລະບົບ"
	btnCountRound   = "📈 ຈໍານວນທັງຮອບ"
	btnClearWagers  = "♻️ ລ້າງໂພຍທັງຮອບ"
	btnClearResults = "🗑 ລ້າງຜົນລາງວັນ"
	btnBack         = "↩️ ກັບໄປເມນູຫຼັກ"

	btnPositionTop    = "⬆️ 2 ໂຕເທິງ"
	btnPositionBottom = "⬇️ 2 ໂຕລຸ່ມ"
)

// User-facing message templates
const (
	msgWelcome        = "🎲 ຮອບໃໝ່ເລີ່ມຕົ້ນ!"
	msgPromptGuess    = "✍️ ພິມເລກ 2-4 ຕົວ (ຕົວຢ່າງ 1234)"
	msgInvalidGuess   = "⚠️ ຕ້ອງເປັນເລກ 2-4 ຕົວ"
	msgChoosePosition = "ເລກ %s: ເລືອກ 2 ໂຕເທິງ ຫຼື 2 ໂຕລຸ່ມ"
	msgWagerAccepted  = "✅ ຮັບໂພຍແລ້ວ: %s (ຮອບ %s)"
	msgAlreadyWagered = "⚠️ ທ່ານທາຍແລ້ວໃນຮອບນີ້: %s"
	msgBettingClosed  = "⛔️ ປິດຮັບໂພຍແລ້ວ ກະລຸນາລໍຖ້າຮອບຕໍ່ໄປ"
	msgNoResultYet    = "ℹ️ ຍັງບໍ່ມີຜົນລາງວັນ"
	msgYourGuessWas   = "ໂພຍຂອງທ່ານ: %s"
	msgTryAgainLater  = "⚠️ ລະບົບຂັດຂ້ອງ ກະລຸນາລອງໃໝ່ພາຍຫຼັງ"

	msgAdminMenu       = "📊 ເມນູຈັດການລະບົບ"
	msgSetResultUsage  = "✍️ ພິມ /setresult ຕາມດ້ວຍເລກ 4 ຕົວ (ຕົວຢ່າງ /setresult 1234)"
	msgInvalidResult   = "⚠️ ຕ້ອງເປັນເລກ 4 ຕົວ"
	msgResultRecorded  = "✅ ບັນທຶກຜົນ: %s (ຮອບ %s)"
	msgDuplicateResult = "⚠️ ມີຜົນແລ້ວໃນຮອບນີ້"
	msgRoundCounts     = "📈 ຮອບ %s: %d ໂພຍ ຈາກ %d ຄົນ"
	msgWagersCleared   = "♻️ ລ້າງໂພຍແລ້ວ %d ລາຍການ"
	msgResultsCleared  = "🗑 ລ້າງຜົນລາງວັນແລ້ວ %d ລາຍການ"
)

// mainKeyboard returns the persistent reply keyboard; admins get the extra
// management row.
func (b *Bot) mainKeyboard(userID int64) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnPlay),
			tgbotapi.NewKeyboardButton(btnCheck),
		),
	}
	if b.isAdmin(userID) {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnEnterResult),
			tgbotapi.NewKeyboardButton(btnAdminMenu),
		))
	}
	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// adminKeyboard returns the management submenu
func (b *Bot) adminKeyboard() tgbotapi.ReplyKeyboardMarkup {
	keyboard := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCountRound),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnClearWagers),
			tgbotapi.NewKeyboardButton(btnClearResults),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBack),
		),
	)
	keyboard.ResizeKeyboard = true
	return keyboard
}

// positionKeyboard builds the top/bottom follow-up for a two-digit guess.
// The digits ride along in the callback data as the correlation token.
func positionKeyboard(number string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnPositionTop, "pos:top:"+number),
			tgbotapi.NewInlineKeyboardButtonData(btnPositionBottom, "pos:bottom:"+number),
		),
	)
}
