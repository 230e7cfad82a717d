package messages

// Reply keyboard labels. The router matches incoming text against them.
const (
	LabelOrder        = "🚖 Buyurtma berish"
	LabelBecomeDriver = "👨‍✈️ Haydovchi bo'lish"
	LabelContactUs    = "📞 Biz bilan bog'lanish"

	LabelCancel = "❌ Bekor qilish"
	LabelBack   = "◀️ Ortga"
	LabelNow    = "🕒 Hozir"
	LabelCustom = "⌨️ Boshqa vaqt"

	LabelRegionDone  = "✅ Tanlash tugadi"
	LabelRegionClear = "🗑 Tanlovni tozalash"

	LabelSharePhone    = "📲 Telefon raqamni yuborish"
	LabelSharePhoneNow = "📞 Telefon raqamingizni yuboring"
	LabelDriverPhone   = "📲 Telefon raqamini ulashish"
	LabelShareLocation = "📍 Lokatsiyani yuborish"
)

// Vehicles offered as shortcuts on the vehicle step; any other text is accepted too.
var Vehicles = []string{"🛻 Labo", "🚚 Labodan Kattaroq"}
