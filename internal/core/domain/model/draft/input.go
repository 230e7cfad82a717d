package draft

import "dispatch/internal/core/domain/model/kernel"

// InputKind tags the variant carried by an Input.
type InputKind int

const (
	// InputText is free text typed by the customer.
	InputText InputKind = iota + 1
	// InputLocation is a shared geolocation.
	InputLocation
	// InputNow is the "now" shortcut at the time stage.
	InputNow
	// InputCustom is the "other time" shortcut at the time stage.
	InputCustom
)

// Input is one customer reply to the wizard.
type Input struct {
	Kind  InputKind
	Text  string
	Point kernel.GeoPoint
}

// TextInput wraps typed text.
func TextInput(text string) Input { return Input{Kind: InputText, Text: text} }

// LocationInput wraps a shared location.
func LocationInput(p kernel.GeoPoint) Input { return Input{Kind: InputLocation, Point: p} }

// NowInput is the "now" shortcut.
func NowInput() Input { return Input{Kind: InputNow} }

// CustomInput is the "other time" shortcut.
func CustomInput() Input { return Input{Kind: InputCustom} }
