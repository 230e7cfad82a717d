package messages

import (
	"fmt"
	"html"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/draft"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
)

// Static texts.
const (
	TextMainMenu       = "Asosiy menyu"
	TextChooseFromMenu = "Quyidagi menyudan tanlang 👇"
	TextPhoneSaved     = "✅ Telefon raqamingiz saqlandi."
	TextMenuAfterPhone = "Endi quyidagi menyudan tanlang 👇"
	TextAskPhone       = "Iltimos, telefon raqamingizni yuboring 📞"
	TextCancelled      = "❌ Bekor qilindi."

	TextAskRegion          = "📍 Qaysi hudud uchun buyurtma berasiz?"
	TextRegionByButtons    = "❗️ Iltimos, hududni tugmalar yordamida tanlang."
	TextPleaseChooseRegion = "📍 Iltimos, hududni tanlang."
	TextAskVehicle         = "🚚 Qanday yuk mashinasi kerak?\nQuyidagidan tanlang yoki o‘zingiz yozing:"
	TextAskPickup          = "📍 Yuk <b>qayerdan</b> olinadi?\nManzilni yozing yoki “📍 Lokatsiyani yuborish”:"
	TextLocationAccepted   = "✅ Lokatsiya qabul qilindi.\n\n📦 Endi yuk <b>qayerga</b> yetkaziladi? Manzilni yozing:"
	TextAskDropoff         = "📦 Yuk <b>qayerga</b> yetkaziladi? Manzilni yozing:"
	TextAskWhen            = "🕒 Qaysi <b>vaqtga</b> kerak?\nTugmalardan tanlang yoki <code>HH:MM</code> yozing."
	TextAskCustomTime      = "⏰ Vaqtni kiriting (<code>HH:MM</code>, masalan: <code>19:00</code>):"
	TextBadTimeSelect      = "❗️ Vaqt formati <code>HH:MM</code> bo‘lishi kerak. Yoki tugmalarni tanlang."
	TextBadTimeInput       = "❗️ Noto‘g‘ri format. <code>HH:MM</code> yozing (masalan: <code>19:00</code>)."
	TextAwaitingConfirm    = "ℹ️ Iltimos, buyurtmani tasdiqlash uchun pastdagi tugmalarni bosing yoki 'Ortga' tugmasidan foydalaning."
	TextOrderSent          = "✅ Buyurtma haydovchilarga yuborildi.\nKerak bo‘lsa bekor qilishingiz mumkin."
	TextDraftCancelled     = "❌ Buyurtma bekor qilindi."

	TextAcceptNeedsPhone = "ℹ️ Buyurtmani qabul qilishdan oldin telefon raqamingizni yuboring."
	TextStatusAccepted   = "✅ Holat: QABUL QILINDI"
	TextStatusCompleted  = "✅ Holat: YAKUNLANDI"
	TextRatePrompt       = "✅ Buyurtmangiz muvaffaqiyatli yakunlandi.\nIltimos, xizmatimizni 1–5 baholang:"

	TextCustomerCancelledToDriver = "❌ Mijoz buyurtmani bekor qildi."
	TextCustomerCancelled         = "❌ Buyurtmangiz bekor qilindi."
	TextDriverCancelledToCustomer = "❌ Buyurtmangiz haydovchi tomonidan bekor qilindi. Tez orada sizning buyurtmangizni yangi haydovchi qabul qiladi."
	TextAdminCancelledToDriver    = "❌ Buyurtma admin tomonidan bekor qilindi."
	TextAdminCancelledToCustomer  = "❌ Buyurtmangiz admin tomonidan bekor qilindi."

	TextDriverRequirements = "👨‍✈️ <b>Haydovchi uchun minimal talablar</b>\n" +
		"1) Faol <b>oylik obuna</b> bo‘lishi shart.\n" +
		"2) Soz avtomobil (Labo/Damas/Porter/…) va amal qiluvchi guvohnoma.\n" +
		"3) Telegram/telefon doimo onlayn; xushmuomala va vaqtga rioya.\n\n" +
		"📦 <b>Ish tartibi</b>\n" +
		"1) Buyurtma guruhdan “Qabul qilish” orqali olinadi; <b>narx/vaqt/manzil</b> haydovchi ↔ mijoz o‘rtasida <b>bevosita</b> kelishiladi.\n" +
		"2) <b>EltiBer ma’muriyati</b> narx, to‘lov va yetkazish jarayoniga <b>aralashmaydi</b> va <b>javobgar emas</b>.\n" +
		"3) Borolmasangiz, darhol mijozga xabar bering va bekor qiling.\n\n"
	TextAgree             = "✅ Shartlarga roziman"
	TextAskDriverRegions  = "📍 Qaysi hududlar uchun haydovchi bo‘lasiz?\nBir nechta hududni ketma-ket tanlang. Tanlash tugagach “✅ Tanlash tugadi” tugmasini bosing.\nHududni yana bosish orqali tanlovdan olib tashlashingiz mumkin."
	TextPickAtLeastOne    = "❗️ Hech bo‘lmaganda bitta hududni tanlang."
	TextAskName           = "✍️ Iltimos, <b>Ism Familiya</b>ingizni yuboring:"
	TextAskCarMake        = "🚗 Avtomobil <b>markasi</b>ni yozing (masalan: Labo / Porter / Isuzu):"
	TextAskCarPlate       = "🔢 Avtomobil <b>davlat raqami</b>ni yozing (masalan: 01A123BC):"
	TextAskDriverPhone    = "📞 Kontakt raqamingizni yuboring.\nRaqamni yozishingiz yoki pastdagi tugma orqali ulashishingiz mumkin."
	TextTrialStarting     = "🎁 Siz uchun <b>30 kunlik bepul sinov</b> ishga tushiriladi.\nBir zumda havolalarni yuboraman..."
	TextSubscriptionAlive = "ℹ️ Tanlangan hududlar uchun obuna allaqachon faol."
	TextInviteFailed      = "❌ Silka yaratib bo‘lmadi. Iltimos, admin bilan bog‘laning yoki keyinroq qayta urinib ko‘ring."
	TextAskReceipt        = "📸 Iltimos, <b>chek rasmini</b> bitta rasm ko‘rinishida yuboring (screenshot ham bo‘ladi)."
	TextReceiptSent       = "✅ Chek yuborildi. Iltimos, <b>tasdiqlashni kuting</b>.\nTasdiqlangandan so‘ng <b>admin sizga Haydovchilar guruhi</b> silkasini yuboradi."
	TextReceiptFailed     = "❌ Chekni log guruhiga yuborishda xatolik. Iltimos, keyinroq qayta urinib ko‘ring yoki admin bilan bog‘laning."
	TextReceiptRejected   = "❌ To‘lovingiz <b>rad etildi</b>.\nIltimos, to‘g‘ri va aniq chek rasmini qaytadan yuboring."
	TextJoinedGroup       = "🎉 Guruhga muvaffaqiyatli qo‘shildingiz! Ishingizga omad."
	TextReceiptAdminNote  = "\n\n⚠️ Chekni cheklar guruhiga yuborib bo‘lmadi. Guruh ruxsatlarini tekshiring yoki bu xabarni oldinga yuboring."
)

// Alert texts answered to inline button presses.
const (
	AlertMalformed         = "Xato ID."
	AlertNotYourButton     = "Bu tugma siz uchun emas."
	AlertNoActiveDraft     = "Aktiv buyurtma topilmadi."
	AlertOrderSent         = "Buyurtma yuborildi!"
	AlertOrderNotFound     = "Buyurtma topilmadi."
	AlertAcceptNotFound    = "Bu buyurtma topilmadi yoki allaqachon yakunlangan."
	AlertCancelNotFound    = "Buyurtma topilmadi yoki allaqachon bekor qilingan."
	AlertAlreadyTaken      = "Bu buyurtma allaqachon qabul qilingan yoki yakunlangan."
	AlertOwnOrder          = "O‘z buyurtmangizni qabul qila olmaysiz."
	AlertPhoneFirst        = "Avval telefon raqamingizni yuboring."
	AlertDriverDMFailed    = "Haydovchiga DM yuborilmadi. Botga /start yozing."
	AlertAccepted          = "Buyurtma sizga biriktirildi!"
	AlertOnlyDriver        = "Faqat ushbu buyurtmani olgan haydovchi yakunlashi mumkin."
	AlertCannotComplete    = "Bu buyurtma yakunlab bo‘lmaydi (holat mos emas)."
	AlertCompleted         = "Buyurtma yakunlandi."
	AlertOnlyOwnerRates    = "Faqat buyurtma egasi baholay oladi."
	AlertRateOnlyCompleted = "Baholash faqat yakunlangan buyurtma uchun."
	AlertThanks            = "Rahmat!"
	AlertCannotCancelFinal = "Bu buyurtma yakunlangan, bekor qilib bo‘lmaydi."
	AlertNoCancelRights    = "Bu buyurtmani bekor qilishga ruxsatingiz yo‘q."
	AlertCancelledCustomer = "Bekor qilindi (mijoz)."
	AlertCancelledDriver   = "Bekor qilindi (haydovchi)."
	AlertCancelledAdmin    = "Bekor qilindi (admin)."
	AlertCancelled         = "Bekor qilindi."
	AlertAdminApproveOnly  = "Faqat admin tasdiqlashi mumkin."
	AlertAdminRejectOnly   = "Faqat admin rad etishi mumkin."
	AlertNoDriverRegions   = "Haydovchining hududlari aniqlanmadi. Iltimos, hududlarni qayta tanlang."
	AlertNoInviteSent      = "❌ Silka yuborilmadi. Iltimos, keyinroq qayta urinib ko‘ring."
	AlertApproved          = "✅ Tasdiqlandi va silka yuborildi."
	AlertRejected          = "Rad etildi."
	AlertGeneric           = "Xatolik yuz berdi. Keyinroq qayta urinib ko‘ring."
)

// Replies to admin commands.
const (
	TextApproveUsage       = "Foydalanish: <code>/tasdiq USER_ID</code>"
	TextApproveNoRegions   = "❌ Haydovchining hududlari aniqlanmadi. Avval haydovchi hududlarni tanlashi kerak."
	TextApproveNoDM        = "❌ Haydovchiga DM yuborilmadi (botga /start yozmagan bo‘lishi mumkin)."
	TextPaymentsTestSent   = "✅ Test: bot cheklar guruhiga xabar yubora oladi."
	TextPaymentsTestOK     = "✅ OK: xabar cheklar guruhiga yuborildi."
	TextPaymentsTestFailed = "❌ Muvaffaqiyatsiz: "
)

// Reminder labels by minutes before the scheduled time.
var reminderLabels = map[int]string{
	60: "⏳ 1 soat qoldi",
	30: "⏳ 30 daqiqa qoldi",
	15: "⏳ 15 daqiqa qoldi",
	0:  "⏰ Vaqti bo‘ldi",
}

const timestampLayout = "2006-01-02 15:04"

func esc(s string) string { return html.EscapeString(s) }

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func userLink(id kernel.UserID, label string) string {
	return fmt.Sprintf(`<a href="tg://user?id=%s">%s</a>`, id, esc(label))
}

// ProfileURL opens a user's chat profile.
func ProfileURL(id kernel.UserID) string {
	return "tg://user?id=" + id.String()
}

// RegionList joins region names, a dash when empty.
func RegionList(regions []string) string {
	return orDash(strings.Join(regions, ", "))
}

// Greeting asks a new user for their phone once.
func Greeting(fullName string) string {
	return fmt.Sprintf("Salom, %s! 👋\nIltimos, bir marta telefon raqamingizni yuboring:", fullName)
}

// DispatchPost is the plain-text order post in the region chat. The customer's phone
// is never shown there.
func DispatchPost(customerName string, d order.Details, statusNote string) string {
	if customerName == "" {
		customerName = "Mijoz"
	}
	text := "📦 Yangi buyurtma!\n" +
		"👤 Mijoz: " + customerName + "\n" +
		"📍 Hudud: " + orDash(d.Region) + "\n" +
		"🚚 Mashina: " + d.Vehicle + "\n" +
		"➡️ Yo‘nalish:\n" +
		"   • Qayerdan: " + d.Pickup + "\n" +
		"   • Qayerga: " + d.Dropoff + "\n" +
		"🕒 Vaqt: " + d.When.String() + "\n" +
		"ℹ️ Telefon raqami guruhda ko‘rsatilmaydi."
	if statusNote != "" {
		text += "\n" + statusNote
	}
	return text
}

// DraftSummary is the confirmation card of a finished draft.
func DraftSummary(d draft.Details) string {
	when := "—"
	if d.When.IsSet() {
		when = d.When.String()
	}
	return "📋 <b>Buyurtma ma'lumotlari</b>\n\n" +
		"📍 Hudud: " + esc(orDash(d.Region)) + "\n" +
		"🚚 Mashina: " + esc(orDash(d.Vehicle)) + "\n" +
		"📍 Qayerdan: " + esc(orDash(d.Pickup)) + "\n" +
		"📦 Qayerga: " + esc(orDash(d.Dropoff)) + "\n" +
		"🕒 Vaqt: " + when
}

// DriverAssigned is the driver's copy of an accepted order, with the customer's phone.
func DriverAssigned(customerID kernel.UserID, customerName, customerPhone string, d order.Details) string {
	if customerName == "" {
		customerName = "Noma'lum"
	}
	return "✅ Buyurtma sizga biriktirildi\n\n" +
		"👤 Mijoz: " + esc(customerName) + "\n" +
		"📞 Telefon: " + userLink(customerID, kernel.PhoneDisplay(customerPhone)) + "\n" +
		"📍 Hudud: " + esc(d.Region) + "\n" +
		"🚚 Mashina: " + esc(d.Vehicle) + "\n" +
		"➡️ Yo‘nalish:\n   • Qayerdan: " + esc(d.Pickup) + "\n" +
		"   • Qayerga: " + esc(d.Dropoff) + "\n" +
		"🕒 Vaqt: " + d.When.String()
}

// CustomerAssigned tells the customer who took the order.
func CustomerAssigned(driverID kernel.UserID, driverName, driverPhone, region string) string {
	return "🚚 Buyurtmangizni haydovchi qabul qildi.\n\n" +
		"👨‍✈️ Haydovchi: " + esc(driverName) + "\n" +
		"📞 Telefon: " + userLink(driverID, kernel.PhoneDisplay(driverPhone)) + "\n" +
		"📍 Hudud: " + esc(region)
}

func RegionMismatch(region string, driverRegions []string) string {
	return fmt.Sprintf("Bu buyurtma %s hududi uchun. Siz tanlagan hududlar: %s.", region, strings.Join(driverRegions, ", "))
}

func RatingThanks(score int) string {
	return fmt.Sprintf("😊 Rahmat! Bahoyingiz qabul qilindi: %d/5.", score)
}

// RatingLog is posted to the ratings chat.
func RatingLog(customerID kernel.UserID, customerName string, score int) string {
	if customerName == "" {
		customerName = "Mijoz"
	}
	return fmt.Sprintf("📊 %s mijoz sizning botingizni <b>%d/5</b> ga baholadi.", userLink(customerID, customerName), score)
}

// Reminder is the driver DM sent offsetMinutes before the order time.
func Reminder(offsetMinutes int, d order.Details) string {
	label, ok := reminderLabels[offsetMinutes]
	if !ok {
		label = fmt.Sprintf("⏳ %d daqiqa qoldi", offsetMinutes)
	}
	region := d.Region
	if region == "" {
		region = "Hudud"
	}
	return fmt.Sprintf("%s — %s vaqti uchun %s buyurtma.\nYo‘nalish: %s → %s\nMuvofiqlashtirishni unutmang.",
		label, d.When, region, d.Pickup, d.Dropoff)
}

// RegionToggled reports the running selection and price on the onboarding region step.
func RegionToggled(region string, added bool, selected []string) string {
	price := services.FormatPrice(services.SubscriptionPrice(len(selected)))
	head := fmt.Sprintf("✅ Hudud qo‘shildi: <b>%s</b>\n", esc(region))
	if !added {
		head = fmt.Sprintf("ℹ️ <b>%s</b> hududi tanlovdan olib tashlandi.\n", esc(region))
	}
	return head +
		"Tanlangan hududlar: <b>" + esc(RegionList(selected)) + "</b>\n" +
		"💳 Jami to‘lov: <b>" + price + "</b> so‘m\n" +
		"Yana hudud tanlang yoki “✅ Tanlash tugadi” tugmasini bosing."
}

func RegionsCleared() string {
	return "✅ Tanlov tozalandi.\nTanlangan hududlar: <b>—</b>\n" +
		"💳 Jami to‘lov: <b>" + services.FormatPrice(0) + "</b> so‘m\nYangi hududlarni tanlang."
}

func TooManyRegions() string {
	return fmt.Sprintf("❗️ Bir vaqtning o‘zida faqat %d ta hudud tanlash mumkin.\n"+
		"Hududni olib tashlash uchun tanlangan hudud ustiga yana bir marta bosing yoki “🗑 Tanlovni tozalash” tugmasidan foydalaning.",
		kernel.MaxDriverRegions)
}

// RegionsChosen closes the region step and asks for the name.
func RegionsChosen(selected []string) string {
	price := services.FormatPrice(services.SubscriptionPrice(len(selected)))
	return "✅ Tanlov yakunlandi.\n" +
		"📍 Hududlar: <b>" + esc(RegionList(selected)) + "</b>\n" +
		fmt.Sprintf("💳 Obuna to‘lovi: <b>%s so‘m</b> (%d hudud)\n\n", price, len(selected)) +
		fmt.Sprintf("Maksimal %d ta hudud tanlash mumkin.\n", kernel.MaxDriverRegions) +
		"Agar ko‘proq hududga qo‘shilmoqchi bo‘lsangiz, ushbu jarayon yakunlangach yana “Haydovchi bo‘lish” bo‘limidan o‘ting.\n" +
		TextAskName
}

// StoredPhoneHint is appended to the phone question when a phone is on file.
func StoredPhoneHint(phone string) string {
	if phone == "" {
		return ""
	}
	return "\n\nBizdagi saqlangan raqam: <b>" + esc(kernel.PhoneDisplay(phone)) + "</b>"
}

// ApplicationSummary echoes the wizard answers after the phone step.
func ApplicationSummary(name, carMake, carPlate, phone string, regions []string) string {
	return "Ma’lumotlaringiz qabul qilindi ✅\n\n" +
		"👤 <b>F.I.Sh:</b> " + esc(orDash(name)) + "\n" +
		"🚗 <b>Avtomobil:</b> " + esc(orDash(carMake)) + "\n" +
		"🔢 <b>Raqam:</b> " + esc(orDash(carPlate)) + "\n" +
		"📞 <b>Telefon:</b> " + esc(kernel.PhoneDisplay(phone)) + "\n" +
		"📍 <b>Hudud(lar):</b> " + esc(RegionList(regions))
}

func TrialAlreadyUsed(at time.Time) string {
	return fmt.Sprintf("ℹ️ Siz %s sanada 30 kunlik bepul sinov orqali haydovchilar guruhiga qo‘shilgansiz."+
		" Bepul sinov faqat bir martalik, shuning uchun qayta havola yuborilmaydi.", humanTime(at))
}

// TrialInvite heads the join button of a freshly granted trial.
func TrialInvite(region string, expiresAt time.Time) string {
	return "🎁 <b>30 kunlik bepul sinov</b> faollashtirildi!\n\n" +
		"📍 Hudud: " + esc(region) + "\n" +
		"⏳ Amal qilish muddati: <b>" + expiresAt.Format(timestampLayout) + "</b> gacha.\n" +
		"Quyidagi tugma orqali guruhga qo‘shiling. Sinov tugaganda agar obuna bo‘lmasangiz, guruhdan chiqarib qo‘yiladi."
}

func OtherRegionsNeedPayment(regions []string) string {
	return fmt.Sprintf("ℹ️ Qolgan hududlar (%s) uchun obuna to‘lovi talab qilinadi.", strings.Join(regions, ", "))
}

func SubscriptionInvite(region string) string {
	return "✅ Sizning obunangiz faol.\n\n📍 <b>Hudud:</b> " + esc(region) + "\nQuyidagi tugma orqali haydovchilar guruhiga qo‘shiling."
}

func PaymentApprovedInvite(region string) string {
	return "✅ <b>To‘lov tasdiqlandi.</b>\n\n📍 <b>Hudud:</b> " + esc(region) + "\n" +
		"Quyidagi tugma orqali haydovchilar guruhiga qo‘shiling. Guruhga qo‘shilgandan so‘ng bu xabar avtomatik o‘chiriladi."
}

// JoinButton is the label of an invite link button.
func JoinButton(region string) string {
	return fmt.Sprintf("👥 %s haydovchilar guruhiga qo‘shilish", region)
}

func InviteLinkFailed(region string, driverID kernel.UserID, err error) string {
	return fmt.Sprintf("❌ %s hududi uchun haydovchi silka yaratilmagan (user %s): %v", region, driverID, err)
}

func ReceiptDeliveryWarning(driverID kernel.UserID, err error) string {
	return fmt.Sprintf("❗️ Chekni cheklar guruhiga yuborib bo‘lmadi.\nUser: %s\nXato: %v", driverID, err)
}

// ApprovalNote is appended to the receipt caption once an admin approved it.
func ApprovalNote(admin string, at time.Time, regions []string) string {
	price := services.FormatPrice(services.SubscriptionPrice(len(regions)))
	return fmt.Sprintf("\n\n✅ <b>Tasdiqlandi</b> — %s • %s\n📍 Hududlar: %s\n💳 To‘lov: %s so‘m",
		esc(admin), at.Format(timestampLayout), esc(RegionList(regions)), price)
}

func RejectionNote(admin string, at time.Time) string {
	return fmt.Sprintf("\n\n❌ <b>Rad etildi</b> — %s • %s", esc(admin), at.Format(timestampLayout))
}

// ApprovedReply confirms a manual approval to the admin who ran it.
func ApprovedReply(regions []string) string {
	return fmt.Sprintf("✅ Silka(l)ar yuborildi: %s\n💳 To‘lov: %s so‘m",
		esc(RegionList(regions)), services.FormatPrice(services.SubscriptionPrice(len(regions))))
}

func UserCounts(total, withPhone int) string {
	return fmt.Sprintf("👥 Jami foydalanuvchilar: <b>%d</b>\n📞 Telefon saqlanganlar: <b>%d</b>", total, withPhone)
}

func humanTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format(timestampLayout)
}
