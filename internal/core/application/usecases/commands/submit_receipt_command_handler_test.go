package commands_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/onboarding"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var receiptPhoto = ports.File{ID: "AgACAgIAAxkBAAIB", Kind: ports.FilePhoto}

func submitReceipt(t *testing.T, h *harness) error {
	t.Helper()
	cmd, err := commands.NewSubmitReceiptCommand(driver, receiptPhoto)
	require.NoError(t, err)
	return commands.NewSubmitReceiptCommandHandler(h.deps).Handle(t.Context(), cmd)
}

func TestNewSubmitReceiptCommand_Validation(t *testing.T) {
	_, err := commands.NewSubmitReceiptCommand(driver, ports.File{Kind: ports.FilePhoto})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewSubmitReceiptCommand(driver, ports.File{ID: "x"})
	assert.Error(t, err)
}

func TestSubmitReceiptCommandHandler_Handle_Forwards(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.withWizardAt(t, onboarding.StageAwaitingReceipt, fergana)

	// Act
	err := submitReceipt(t, h)

	// Assert
	require.NoError(t, err)
	h.gw.AssertCalled(t, "SendFile", mock.Anything, paymentsChat, receiptPhoto, mock.MatchedBy(func(m ports.Message) bool {
		return m.HTML && assert.ObjectsAreEqual(messages.PaymentReviewActions(driver), m.Actions)
	}))
	assert.Contains(t, texts(h.gw.Sent(int64(driver))), messages.TextReceiptSent)

	_, err = h.deps.Onboarding.Get(t.Context(), driver)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestSubmitReceiptCommandHandler_Handle_RetriesPhotoAsDocument(t *testing.T) {
	h := newHarness(t)
	h.withWizardAt(t, onboarding.StageAwaitingReceipt, fergana)
	h.gw.Fail("SendFile", ports.ErrPhotoNotAllowed, mock.Anything, paymentsChat, receiptPhoto, mock.Anything).Once()

	require.NoError(t, submitReceipt(t, h))

	asDocument := ports.File{ID: receiptPhoto.ID, Kind: ports.FileDocument}
	h.gw.AssertCalled(t, "SendFile", mock.Anything, paymentsChat, asDocument, mock.Anything)
}

func TestSubmitReceiptCommandHandler_Handle_FallsBackToAdmins(t *testing.T) {
	// Arrange
	h := newHarness(t)
	h.withWizardAt(t, onboarding.StageAwaitingReceipt, fergana)
	h.gw.Fail("SendFile", errors.New("bot was kicked"), mock.Anything, paymentsChat, mock.Anything, mock.Anything)

	// Act
	err := submitReceipt(t, h)

	// Assert
	require.ErrorIs(t, err, commands.ErrGatewayDeliveryFailed)
	h.gw.AssertCalled(t, "SendFile", mock.Anything, int64(admin), receiptPhoto, mock.Anything)
	assert.Len(t, h.gw.Sent(int64(admin)), 1)
	assert.Contains(t, texts(h.gw.Sent(int64(driver))), messages.TextReceiptFailed)
	assert.Equal(t, onboarding.StageAwaitingReceipt, wizardStage(t, h))
}

func TestSubmitReceiptCommandHandler_Handle_NotAwaiting(t *testing.T) {
	h := newHarness(t)
	h.withWizardAt(t, onboarding.StageName, fergana)

	assert.ErrorIs(t, submitReceipt(t, h), commands.ErrNotAwaitingReceipt)

	h2 := newHarness(t)
	assert.ErrorIs(t, submitReceipt(t, h2), commands.ErrNotAwaitingReceipt)
}

func TestRequestReceiptCommandHandler_Handle(t *testing.T) {
	h := newHarness(t)
	h.withWizardAt(t, onboarding.StageAwaitingReceipt, fergana)
	cmd, err := commands.NewRequestReceiptCommand(driver)
	require.NoError(t, err)

	require.NoError(t, commands.NewRequestReceiptCommandHandler(h.deps).Handle(t.Context(), cmd))

	assert.Equal(t, []string{messages.TextAskReceipt}, texts(h.gw.Sent(int64(driver))))
}
