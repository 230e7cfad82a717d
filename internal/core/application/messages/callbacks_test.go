package messages_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/kernel"
)

func TestParseCallback(t *testing.T) {
	const uid kernel.UserID = 123456

	tests := []struct {
		data string
		want messages.Callback
	}{
		{messages.AcceptData(uid), messages.Callback{Kind: messages.CallbackAccept, Target: uid}},
		{messages.CompleteData(uid), messages.Callback{Kind: messages.CallbackComplete, Target: uid}},
		{messages.CancelData(uid), messages.Callback{Kind: messages.CallbackCancel, Target: uid}},
		{messages.RateData(uid, 4), messages.Callback{Kind: messages.CallbackRate, Target: uid, Score: 4}},
		{messages.DraftConfirmData(uid), messages.Callback{Kind: messages.CallbackDraftConfirm, Target: uid}},
		{messages.DraftCancelData(uid), messages.Callback{Kind: messages.CallbackDraftCancel, Target: uid}},
		{messages.ApproveData(uid), messages.Callback{Kind: messages.CallbackPaymentApprove, Target: uid}},
		{messages.RejectData(uid), messages.Callback{Kind: messages.CallbackPaymentReject, Target: uid}},
		{messages.DriverAgreeData(), messages.Callback{Kind: messages.CallbackDriverAgree}},
		{messages.SendReceiptData(), messages.Callback{Kind: messages.CallbackSendReceipt}},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, err := messages.ParseCallback(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCallback_WireFormat(t *testing.T) {
	assert.Equal(t, "accept_42", messages.AcceptData(42))
	assert.Equal(t, "rate_42_5", messages.RateData(42, 5))
	assert.Equal(t, "draft_confirm_42", messages.DraftConfirmData(42))
	assert.Equal(t, "payok_7", messages.ApproveData(7))
}

func TestParseCallback_Malformed(t *testing.T) {
	for _, data := range []string{"", "accept_", "accept_x", "accept_0", "rate_42", "rate_42_x", "unknown_1", "payok_-"} {
		_, err := messages.ParseCallback(data)
		assert.ErrorIs(t, err, messages.ErrMalformedCallback, data)
	}
}
