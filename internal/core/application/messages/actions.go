package messages

import (
	"strconv"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

// AcceptActions is the single button on an open dispatch post.
func AcceptActions(customer kernel.UserID) [][]ports.Action {
	return [][]ports.Action{{{Label: "❗️ Qabul qilish", Data: AcceptData(customer)}}}
}

func DraftConfirmActions(customer kernel.UserID) [][]ports.Action {
	return [][]ports.Action{
		{{Label: "✅ Tasdiqlash", Data: DraftConfirmData(customer)}},
		{{Label: "❌ Bekor qilish", Data: DraftCancelData(customer)}},
	}
}

// CustomerCancelActions lets the customer cancel a posted order.
func CustomerCancelActions(customer kernel.UserID) [][]ports.Action {
	return [][]ports.Action{{{Label: "❌ Buyurtmani bekor qilish", Data: CancelData(customer)}}}
}

func DriverOrderActions(customer kernel.UserID) [][]ports.Action {
	return [][]ports.Action{
		{{Label: "✅ Buyurtmani yakunlash", Data: CompleteData(customer)}},
		{{Label: "❌ Buyurtmani bekor qilish", Data: CancelData(customer)}},
		{{Label: "👤 Mijoz profili", URL: ProfileURL(customer)}},
	}
}

func CustomerOrderActions(customer, driver kernel.UserID) [][]ports.Action {
	return [][]ports.Action{
		{{Label: "❌ Buyurtmani bekor qilish", Data: CancelData(customer)}},
		{{Label: "👨‍✈️ Haydovchi profili", URL: ProfileURL(driver)}},
	}
}

// RatingActions is one row of 1..5 buttons.
func RatingActions(customer kernel.UserID) [][]ports.Action {
	row := make([]ports.Action, 0, 5)
	for i := 1; i <= 5; i++ {
		row = append(row, ports.Action{Label: strconv.Itoa(i), Data: RateData(customer, i)})
	}
	return [][]ports.Action{row}
}

func PaymentReviewActions(driver kernel.UserID) [][]ports.Action {
	return [][]ports.Action{{
		{Label: "✅ Tasdiqlash", Data: ApproveData(driver)},
		{Label: "❌ Rad etish", Data: RejectData(driver)},
	}}
}

func AgreeActions() [][]ports.Action {
	return [][]ports.Action{{{Label: TextAgree, Data: DriverAgreeData()}}}
}

func JoinActions(region, link string) [][]ports.Action {
	return [][]ports.Action{{{Label: JoinButton(region), URL: link}}}
}
