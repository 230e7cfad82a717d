package commands

import (
	"context"

	"dispatch/internal/core/application/messages"
	"dispatch/internal/core/domain/model/onboarding"
)

// promptOnboardingStage asks the question of the wizard's stage. storedPhone is
// shown as a hint on the phone step.
func promptOnboardingStage(ctx context.Context, d Deps, n notifier, o *onboarding.Onboarding, storedPhone string) {
	chat := int64(o.DriverID())
	onlyControls := messages.WithBackCancel(nil, 1, true)

	switch o.Stage() {
	case onboarding.StageRegions:
		n.sendText(ctx, "onboarding_prompt", chat, messages.TextAskDriverRegions, messages.DriverRegions(d.Regions.Names()))
	case onboarding.StageName:
		n.sendText(ctx, "onboarding_prompt", chat, messages.TextAskName, onlyControls)
	case onboarding.StageCarMake:
		n.sendText(ctx, "onboarding_prompt", chat, messages.TextAskCarMake, onlyControls)
	case onboarding.StageCarPlate:
		n.sendText(ctx, "onboarding_prompt", chat, messages.TextAskCarPlate, onlyControls)
	case onboarding.StagePhone:
		n.sendText(ctx, "onboarding_prompt", chat,
			messages.TextAskDriverPhone+messages.StoredPhoneHint(storedPhone), messages.SharePhone())
	case onboarding.StageAwaitingReceipt:
		n.sendText(ctx, "onboarding_prompt", chat, messages.TextAskReceipt, nil)
	case onboarding.StageUnknown:
	}
}
