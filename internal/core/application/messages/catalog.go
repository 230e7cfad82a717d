package messages

import (
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// Settings are the deployment-specific values that appear in texts.
type Settings struct {
	CardNumber      string
	CardHolder      string
	ContactPhone    string
	ContactTelegram string
}

// Catalog renders the texts that depend on Settings.
type Catalog struct {
	settings Settings
}

// NewCatalog returns a catalog rendering texts with the payment and contact settings.
func NewCatalog(settings Settings) Catalog {
	return Catalog{settings: settings}
}

// ContactUs is the "contact us" card with a button opening the support account.
func (c Catalog) ContactUs() ports.Message {
	phoneLink := strings.ReplaceAll(c.settings.ContactPhone, " ", "")
	text := "<b>📞 Biz bilan bog'lanish</b>\n\n" +
		fmt.Sprintf("• Telefon: <a href=\"tel:%s\">%s</a>\n", phoneLink, esc(c.settings.ContactPhone)) +
		"• Telegram: @" + esc(c.settings.ContactTelegram)
	return ports.Message{
		Text: text,
		HTML: true,
		Actions: [][]ports.Action{{
			{Label: "✉️ Telegramga yozish", URL: "https://t.me/" + c.settings.ContactTelegram},
		}},
	}
}

// PaymentPrompt asks for a subscription payment for regions and offers the
// "send receipt" action.
func (c Catalog) PaymentPrompt(regions []string) ports.Message {
	price := services.FormatPrice(services.SubscriptionPrice(len(regions)))
	text := fmt.Sprintf("💳 <b>Obuna to‘lovi:</b> <code>%s so‘m</code> (%d hudud)\n", price, len(regions)) +
		c.cardLines() +
		"✅ To‘lovni amalga oshirgach, <b>chek rasm</b>ini yuboring (screenshot ham bo‘ladi).\n" +
		"⚠️ <b>Ogohlantirish:</b> soxtalashtirilgan chek yuborgan shaxsga <b>jinoyiy javobgarlik</b> qo‘llanilishi mumkin."
	return ports.Message{Text: text, HTML: true, Actions: sendReceiptActions()}
}

// TrialExpired is the payment prompt sent by the watcher after kicking a driver.
func (c Catalog) TrialExpired(regions []string) ports.Message {
	price := services.FormatPrice(services.SubscriptionPrice(len(regions)))
	text := "⛔️ <b>30 kunlik bepul sinov muddati tugadi.</b>\n\n" +
		"📍 <b>Hududlar:</b> " + esc(RegionList(regions)) + "\n" +
		fmt.Sprintf("💳 <b>Obuna to‘lovi:</b> <code>%s so‘m</code> (%d hudud)\n", price, len(regions)) +
		c.cardLines() +
		"✅ To‘lovni amalga oshirgach, <b>chek rasm</b>ini yuboring.\n" +
		"Tasdiqlangach, sizga <b>haydovchilar guruhiga</b> qayta qo‘shilish havolasini yuboramiz."
	return ports.Message{Text: text, HTML: true, Actions: sendReceiptActions()}
}

func (c Catalog) cardLines() string {
	return "🧾 <b>Karta:</b> <code>" + esc(c.settings.CardNumber) + "</code>\n" +
		"👤 Karta egasi: <b>" + esc(c.settings.CardHolder) + "</b>\n\n"
}

func sendReceiptActions() [][]ports.Action {
	return [][]ports.Action{{{Label: "📤 Chekni yuborish", Data: SendReceiptData()}}}
}

// ReceiptCaption describes a driver's payment for the payments chat.
func ReceiptCaption(driverID kernel.UserID, name, carMake, carPlate, phone string, regions []string) string {
	price := services.FormatPrice(services.SubscriptionPrice(len(regions)))
	return "🧾 <b>Yangi obuna to‘lovi (haydovchi)</b>\n" +
		"👤 <b>F.I.Sh:</b> " + esc(orDash(name)) + "\n" +
		"🚗 <b>Avtomobil:</b> " + esc(orDash(carMake)) + "\n" +
		"🔢 <b>Raqam:</b> " + esc(orDash(carPlate)) + "\n" +
		"📞 <b>Telefon:</b> " + esc(kernel.PhoneDisplay(phone)) + "\n" +
		"📍 <b>Hudud(lar):</b> " + esc(RegionList(regions)) + "\n" +
		"🔗 <b>Profil:</b> " + userLink(driverID, driverID.String()) + "\n\n" +
		"💳 <b>Miqdor:</b> " + price + " so‘m\n" +
		"⚠️ <i>Ogohlantirish: soxtalashtirilgan chek yuborgan shaxsga nisbatan jinoyiy javobgarlik qo‘llanilishi mumkin.</i>"
}
