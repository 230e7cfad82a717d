package messages

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrMalformedCallback is returned for callback data this bot never produced.
var ErrMalformedCallback = errors.New("malformed callback data")

// CallbackKind names what an inline button does.
type CallbackKind int

const (
	CallbackUnknown CallbackKind = iota
	CallbackAccept
	CallbackComplete
	CallbackCancel
	CallbackRate
	CallbackDraftConfirm
	CallbackDraftCancel
	CallbackPaymentApprove
	CallbackPaymentReject
	CallbackDriverAgree
	CallbackSendReceipt
)

// Callback is decoded inline button data. Target is the customer for order
// actions, the draft owner for draft actions and the driver for payment actions.
type Callback struct {
	Kind   CallbackKind
	Target kernel.UserID
	Score  int
}

var callbackPrefixes = []struct {
	prefix string
	kind   CallbackKind
}{
	{"draft_confirm_", CallbackDraftConfirm},
	{"draft_cancel_", CallbackDraftCancel},
	{"accept_", CallbackAccept},
	{"complete_", CallbackComplete},
	{"cancel_", CallbackCancel},
	{"rate_", CallbackRate},
	{"payok_", CallbackPaymentApprove},
	{"payno_", CallbackPaymentReject},
}

const (
	dataDriverAgree = "driver_agree"
	dataSendReceipt = "send_check"
)

// ParseCallback decodes data produced by the Data helpers below.
func ParseCallback(data string) (Callback, error) {
	switch data {
	case dataDriverAgree:
		return Callback{Kind: CallbackDriverAgree}, nil
	case dataSendReceipt:
		return Callback{Kind: CallbackSendReceipt}, nil
	}

	for _, p := range callbackPrefixes {
		rest, ok := strings.CutPrefix(data, p.prefix)
		if !ok {
			continue
		}
		cb := Callback{Kind: p.kind}
		if p.kind == CallbackRate {
			id, score, found := strings.Cut(rest, "_")
			if !found {
				return Callback{}, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
			}
			n, err := strconv.Atoi(score)
			if err != nil {
				return Callback{}, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
			}
			cb.Score = n
			rest = id
		}
		target, err := kernel.ParseUserID(rest)
		if err != nil {
			return Callback{}, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
		}
		cb.Target = target
		return cb, nil
	}

	return Callback{}, fmt.Errorf("%w: %q", ErrMalformedCallback, data)
}

func AcceptData(customer kernel.UserID) string   { return "accept_" + customer.String() }
func CompleteData(customer kernel.UserID) string { return "complete_" + customer.String() }
func CancelData(customer kernel.UserID) string   { return "cancel_" + customer.String() }

func RateData(customer kernel.UserID, score int) string {
	return fmt.Sprintf("rate_%s_%d", customer, score)
}

func DraftConfirmData(customer kernel.UserID) string { return "draft_confirm_" + customer.String() }
func DraftCancelData(customer kernel.UserID) string  { return "draft_cancel_" + customer.String() }
func ApproveData(driver kernel.UserID) string        { return "payok_" + driver.String() }
func RejectData(driver kernel.UserID) string         { return "payno_" + driver.String() }
func DriverAgreeData() string                        { return dataDriverAgree }
func SendReceiptData() string                        { return dataSendReceipt }
