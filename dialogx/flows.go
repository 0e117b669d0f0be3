package dialogx

import "fmt"

// Pricing holds the fixed, currency-agnostic amounts quoted by the
// flows. Values come from service configuration; these are the business
// defaults.
type Pricing struct {
	TPL               int
	RegTransport      int
	RoadsideTransport int
}

// DefaultPricing returns the current Rider Mall price list
func DefaultPricing() Pricing {
	return Pricing{
		TPL:               300,
		RegTransport:      150,
		RoadsideTransport: 100,
	}
}

// Comprehensive premium rate over the declared bike value.
const premiumRate = 0.04

// flow is the per-service configuration behind the shared
// quote → confirm → (docs | slot) → finalize skeleton. The engine keeps
// one transition algorithm; everything that differs between services
// lives here.
type flow struct {
	label     string
	price     func(Pricing) int // nil when the price is quoted, not fixed
	wantsDocs bool
	wantsSlot bool
	quoted    bool // carries bike value + computed premium
	doneMsg   string
}

var flows = map[ServiceID]flow{
	ServiceInsuranceComp: {
		label:     "تأمين شامل",
		wantsDocs: true,
		quoted:    true,
		doneMsg:   msgInsuranceDone,
	},
	ServiceInsuranceTPL: {
		label:   "تأمين ضد الغير",
		price:   func(p Pricing) int { return p.TPL },
		doneMsg: msgInsuranceDone,
	},
	ServiceRegistration: {
		label:     "تجديد استمارة وفحص",
		price:     func(p Pricing) int { return p.RegTransport },
		wantsDocs: true,
		wantsSlot: true,
		doneMsg:   msgRegDone,
	},
	ServiceRoadsideEmergency: {
		label:   "مساعدة طارئة على الطريق",
		doneMsg: msgRoadsideNow,
	},
	ServiceRoadsideBooking: {
		label:     "حجز مساعدة على الطريق",
		price:     func(p Pricing) int { return p.RoadsideTransport },
		wantsSlot: true,
		doneMsg:   msgRoadsideDone,
	},
}

// Outbound copy. Button titles stay within WhatsApp's ~20 character
// limit and list row titles within ~24.
const (
	msgWelcome = "أهلًا بك في Rider Mall 👋\nنخدمك في تأمين وتجديد وفحص مركبتك."
	msgMenu    = "اختر الخدمة المطلوبة:"

	msgUnknownOption = "ما فهمت اختيارك 🙏 اختر من القائمة:"
	msgCanceled      = "تم الإلغاء ✅ تقدر تختار خدمة ثانية من القائمة:"

	msgInsuranceType = "أي نوع تأمين تحتاج؟"
	msgAskBikeValue  = "أرسل قيمة الدراجة التقريبية بالريال (أرقام فقط)."
	msgBadBikeValue  = "الرجاء إرسال قيمة رقمية صحيحة أكبر من صفر، مثال: 80000"

	msgAskVehicleForm   = "أرسل صورة استمارة المركبة 📄"
	msgAskResidencyCard = "تمام ✅ الآن أرسل صورة هوية أو إقامة المالك."
	msgPhotoNotReceived = "ما وصلتنا الصورة 🙏 حاول إرسالها مرة ثانية."
	msgDocsAlreadyDone  = "استلمنا كل الأوراق المطلوبة مسبقًا ✅"

	msgInsuranceDone = "شكرًا لك 🙏 استلمنا الأوراق وبيتواصل معك فريقنا لإتمام التأمين."

	msgAskSlot      = "اختر الوقت المناسب لك:"
	msgRegDone      = "تم الحجز ✅ بيتواصل معك فريقنا لتأكيد الموعد."
	msgRoadsideNow  = "تم استلام طلب الطوارئ 🚨 فريقنا في الطريق إليك."
	msgRoadsidePick = "كيف نقدر نساعدك على الطريق؟"
	msgRoadsideDone = "تم حجز خدمة المساعدة ✅ بيتواصل معك فريقنا."
)

func msgCompQuote(premium int) string {
	return fmt.Sprintf("قسط التأمين الشامل التقريبي: %d ريال سنويًا.\nهل توافق على المتابعة؟", premium)
}

func msgTPLQuote(price int) string {
	return fmt.Sprintf("تأمين ضد الغير: %d ريال سنويًا.\nهل توافق على المتابعة؟", price)
}

func msgRegCost(price int) string {
	return fmt.Sprintf("رسوم نقل المركبة للفحص: %d ريال.\nهل توافق؟", price)
}

func msgRoadsideCost(price int) string {
	return fmt.Sprintf("رسوم خدمة السحب: %d ريال.\nهل توافق؟", price)
}

// Button is one interactive reply button (max 3 per message)
type Button struct {
	ID    Selection
	Title string
}

// ListRow is one row of an interactive list message
type ListRow struct {
	ID    Selection
	Title string
}

// ListSection groups list rows under a section title
type ListSection struct {
	Title string
	Rows  []ListRow
}

func serviceListSections() []ListSection {
	return []ListSection{{
		Title: "خدماتنا",
		Rows: []ListRow{
			{ID: SelServiceInsurance, Title: "تأمين المركبات"},
			{ID: SelServiceRegistration, Title: "تجديد استمارة وفحص"},
			{ID: SelServiceRoadside, Title: "مساعدة على الطريق"},
		},
	}}
}

// serviceButtons is the reduced option set used when the list message
// cannot be delivered.
func serviceButtons() []Button {
	return []Button{
		{ID: SelServiceInsurance, Title: "تأمين"},
		{ID: SelServiceRegistration, Title: "استمارة وفحص"},
		{ID: SelServiceRoadside, Title: "مساعدة طريق"},
	}
}

func insuranceTypeButtons() []Button {
	return []Button{
		{ID: SelInsComprehensive, Title: "تأمين شامل"},
		{ID: SelInsThirdParty, Title: "تأمين ضد الغير"},
	}
}

func compQuoteButtons() []Button {
	return []Button{
		{ID: SelInsAgree, Title: "موافق"},
		{ID: SelInsDisagree, Title: "غير موافق"},
		{ID: SelInsSwitchTPL, Title: "أبغى ضد الغير"},
	}
}

func tplQuoteButtons() []Button {
	return []Button{
		{ID: SelTPLAgree, Title: "موافق"},
		{ID: SelTPLDisagree, Title: "غير موافق"},
	}
}

func regCostButtons() []Button {
	return []Button{
		{ID: SelRegAgree, Title: "موافق"},
		{ID: SelRegDisagree, Title: "غير موافق"},
	}
}

func slotButtons() []Button {
	return []Button{
		{ID: SelSlotMorning, Title: "صباحًا"},
		{ID: SelSlotEvening, Title: "مساءً"},
	}
}

func roadsidePickButtons() []Button {
	return []Button{
		{ID: SelRoadsideEmergency, Title: "طوارئ الآن"},
		{ID: SelRoadsideBooking, Title: "حجز موعد"},
	}
}

func roadsideCostButtons() []Button {
	return []Button{
		{ID: SelRoadsideAgree, Title: "موافق"},
		{ID: SelRoadsideDisagree, Title: "غير موافق"},
	}
}
