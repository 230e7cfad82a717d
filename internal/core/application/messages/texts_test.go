package messages_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/draft"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

func details(t *testing.T) order.Details {
	t.Helper()
	when, err := kernel.ParseTimeOfDay("19:00")
	require.NoError(t, err)
	return order.Details{Region: "Farg'ona", Vehicle: "Labo", Pickup: "Bozor", Dropoff: "Vokzal", When: when}
}

func TestDispatchPost(t *testing.T) {
	got := messages.DispatchPost("Ali", details(t), messages.TextStatusAccepted)

	want := "📦 Yangi buyurtma!\n" +
		"👤 Mijoz: Ali\n" +
		"📍 Hudud: Farg'ona\n" +
		"🚚 Mashina: Labo\n" +
		"➡️ Yo‘nalish:\n" +
		"   • Qayerdan: Bozor\n" +
		"   • Qayerga: Vokzal\n" +
		"🕒 Vaqt: 19:00\n" +
		"ℹ️ Telefon raqami guruhda ko‘rsatilmaydi.\n" +
		"✅ Holat: QABUL QILINDI"
	assert.Equal(t, want, got)
}

func TestDispatchPost_NoPhone(t *testing.T) {
	got := messages.DispatchPost("", details(t), "")
	assert.Contains(t, got, "👤 Mijoz: Mijoz\n")
	assert.NotContains(t, got, "+998")
}

func TestReminder(t *testing.T) {
	got := messages.Reminder(60, details(t))
	assert.Equal(t, "⏳ 1 soat qoldi — 19:00 vaqti uchun Farg'ona buyurtma.\nYo‘nalish: Bozor → Vokzal\nMuvofiqlashtirishni unutmang.", got)

	assert.Contains(t, messages.Reminder(0, details(t)), "⏰ Vaqti bo‘ldi")
}

func TestDraftSummary_EscapesUserText(t *testing.T) {
	got := messages.DraftSummary(draft.Details{Region: "Andijon", Pickup: "<b>x</b>"})

	assert.Contains(t, got, "&lt;b&gt;x&lt;/b&gt;")
	assert.Contains(t, got, "🕒 Vaqt: —")
}

func TestRegionToggled(t *testing.T) {
	added := messages.RegionToggled("Andijon", true, []string{"Farg'ona", "Andijon"})
	assert.Contains(t, added, "Hudud qo‘shildi: <b>Andijon</b>")
	assert.Contains(t, added, "<b>179 000</b> so‘m")

	removed := messages.RegionToggled("Andijon", false, nil)
	assert.Contains(t, removed, "olib tashlandi")
	assert.Contains(t, removed, "Tanlangan hududlar: <b>—</b>")
	assert.Contains(t, removed, "<b>0</b> so‘m")
}

func TestCatalog_PaymentPrompt(t *testing.T) {
	c := messages.NewCatalog(messages.Settings{CardNumber: "5614 0000", CardHolder: "A B"})

	msg := c.PaymentPrompt([]string{"Farg'ona", "Andijon", "Namangan"})

	assert.True(t, msg.HTML)
	assert.Contains(t, msg.Text, "<code>259 000 so‘m</code> (3 hudud)")
	assert.Contains(t, msg.Text, "5614 0000")
	require.Len(t, msg.Actions, 1)
	assert.Equal(t, messages.SendReceiptData(), msg.Actions[0][0].Data)
}

func TestCatalog_ContactUs(t *testing.T) {
	c := messages.NewCatalog(messages.Settings{ContactPhone: "+998 50 330 77 07", ContactTelegram: "support"})

	msg := c.ContactUs()

	assert.Contains(t, msg.Text, `href="tel:+998503307707"`)
	assert.Equal(t, "https://t.me/support", msg.Actions[0][0].URL)
}

func TestReceiptCaption(t *testing.T) {
	got := messages.ReceiptCaption(42, "", "Labo", "01A", "998901", []string{"Andijon"})

	assert.Contains(t, got, "<b>F.I.Sh:</b> —")
	assert.Contains(t, got, "+998901")
	assert.Contains(t, got, `<a href="tg://user?id=42">42</a>`)
	assert.Contains(t, got, "99 000 so‘m")
}

func TestApprovalNote(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 5, 0, 0, time.UTC)
	got := messages.ApprovalNote("admin", at, []string{"Andijon", "Namangan"})

	assert.Contains(t, got, "✅ <b>Tasdiqlandi</b> — admin • 2025-03-01 09:05")
	assert.Contains(t, got, "179 000 so‘m")
}

func TestUserCounts(t *testing.T) {
	assert.Equal(t, "👥 Jami foydalanuvchilar: <b>3</b>\n📞 Telefon saqlanganlar: <b>2</b>", messages.UserCounts(3, 2))
}

func TestInviteLinkFailed(t *testing.T) {
	got := messages.InviteLinkFailed("Andijon", 42, errors.New("forbidden"))
	assert.Equal(t, "❌ Andijon hududi uchun haydovchi silka yaratilmagan (user 42): forbidden", got)
}

func TestKeyboards(t *testing.T) {
	kb := messages.DriverRegions([]string{"A", "B", "C", "D"})
	require.Len(t, kb.Rows, 5)
	assert.Len(t, kb.Rows[0], 3)
	assert.Equal(t, messages.LabelRegionDone, kb.Rows[2][0].Text)
	assert.Equal(t, []string{messages.LabelCancel}, labels(kb.Rows[4]))

	when := messages.WhenKeyboard()
	assert.Equal(t, []string{messages.LabelBack, messages.LabelCancel}, labels(when.Rows[len(when.Rows)-1]))

	assert.True(t, messages.PickupKeyboard().Rows[0][0].RequestLocation)
	assert.True(t, messages.SharePhone().Rows[0][0].RequestContact)
}

func labels(row []ports.KeyButton) []string {
	out := make([]string, 0, len(row))
	for _, b := range row {
		out = append(out, b.Text)
	}
	return out
}
