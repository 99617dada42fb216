package handler

import (
	tele "gopkg.in/telebot.v3"
)

// Button labels for the persistent reply keyboard.
const (
	BtnBalance   = "💰 Balance"
	BtnReferrals = "👥 Referidos"
	BtnSupport   = "👤 Soporte"
)

// Callback data for the balance screen's inline buttons.
const (
	CallbackDailyBonus = "bonus_claim"
	CallbackSetWallet  = "wallet_set"
	CallbackRedeem     = "redeem_request"
)

// MainKeyboard builds the persistent reply keyboard.
func MainKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	markup.ReplyKeyboard = [][]tele.ReplyButton{
		{
			{Text: BtnBalance},
			{Text: BtnReferrals},
		},
		{
			{Text: BtnSupport},
		},
	}
	return markup
}

// BalanceKeyboard builds the inline keyboard shown under the balance screen.
func BalanceKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.InlineKeyboard = [][]tele.InlineButton{
		{
			{Text: "🎁 Bono diario", Data: CallbackDailyBonus},
			{Text: "👛 Billetera", Data: CallbackSetWallet},
		},
		{
			{Text: "🔄 Canjear", Data: CallbackRedeem},
		},
	}
	return markup
}
