// Package telegram turns incoming Telegram updates into commands and answers the
// user when a command is refused.
package telegram

import (
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
)

// Handlers are the use cases the router dispatches to.
type Handlers struct {
	GreetUser    commands.GreetUserCommandHandler
	ShareContact commands.ShareContactCommandHandler
	CancelFlow   commands.CancelFlowCommandHandler

	StartOrderFlow   commands.StartOrderFlowCommandHandler
	SubmitDraftInput commands.SubmitDraftInputCommandHandler
	DraftBack        commands.DraftBackCommandHandler
	CommitDraft      commands.CommitDraftCommandHandler
	DiscardDraft     commands.DiscardDraftCommandHandler

	AcceptOrder   commands.AcceptOrderCommandHandler
	CompleteOrder commands.CompleteOrderCommandHandler
	CancelOrder   commands.CancelOrderCommandHandler
	RateOrder     commands.RateOrderCommandHandler

	StartDriverOnboarding commands.StartDriverOnboardingCommandHandler
	AcceptDriverTerms     commands.AcceptDriverTermsCommandHandler
	SubmitOnboardingInput commands.SubmitOnboardingInputCommandHandler
	OnboardingBack        commands.OnboardingBackCommandHandler

	SubmitReceipt  commands.SubmitReceiptCommandHandler
	RequestReceipt commands.RequestReceiptCommandHandler
	ApproveReceipt commands.ApproveReceiptCommandHandler
	RejectReceipt  commands.RejectReceiptCommandHandler

	ReconcileMembership commands.ReconcileMembershipCommandHandler

	UserCounts queries.GetUserCountsQueryHandler
}

// NewHandlers builds every handler from the same dependencies.
func NewHandlers(deps commands.Deps) Handlers {
	return Handlers{
		GreetUser:    commands.NewGreetUserCommandHandler(deps),
		ShareContact: commands.NewShareContactCommandHandler(deps),
		CancelFlow:   commands.NewCancelFlowCommandHandler(deps),

		StartOrderFlow:   commands.NewStartOrderFlowCommandHandler(deps),
		SubmitDraftInput: commands.NewSubmitDraftInputCommandHandler(deps),
		DraftBack:        commands.NewDraftBackCommandHandler(deps),
		CommitDraft:      commands.NewCommitDraftCommandHandler(deps),
		DiscardDraft:     commands.NewDiscardDraftCommandHandler(deps),

		AcceptOrder:   commands.NewAcceptOrderCommandHandler(deps),
		CompleteOrder: commands.NewCompleteOrderCommandHandler(deps),
		CancelOrder:   commands.NewCancelOrderCommandHandler(deps),
		RateOrder:     commands.NewRateOrderCommandHandler(deps),

		StartDriverOnboarding: commands.NewStartDriverOnboardingCommandHandler(deps),
		AcceptDriverTerms:     commands.NewAcceptDriverTermsCommandHandler(deps),
		SubmitOnboardingInput: commands.NewSubmitOnboardingInputCommandHandler(deps),
		OnboardingBack:        commands.NewOnboardingBackCommandHandler(deps),

		SubmitReceipt:  commands.NewSubmitReceiptCommandHandler(deps),
		RequestReceipt: commands.NewRequestReceiptCommandHandler(deps),
		ApproveReceipt: commands.NewApproveReceiptCommandHandler(deps),
		RejectReceipt:  commands.NewRejectReceiptCommandHandler(deps),

		ReconcileMembership: commands.NewReconcileMembershipCommandHandler(deps),

		UserCounts: queries.NewGetUserCountsQueryHandler(deps.Profiles),
	}
}
