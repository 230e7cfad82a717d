package messages

import "dispatch/internal/core/ports"

func rows(items []string, perRow int) [][]ports.KeyButton {
	var out [][]ports.KeyButton
	for i := 0; i < len(items); i += perRow {
		end := min(i+perRow, len(items))
		row := make([]ports.KeyButton, 0, end-i)
		for _, text := range items[i:end] {
			row = append(row, ports.KeyButton{Text: text})
		}
		out = append(out, row)
	}
	return out
}

func controlRow(showBack bool) []ports.KeyButton {
	var row []ports.KeyButton
	if showBack {
		row = append(row, ports.KeyButton{Text: LabelBack})
	}
	return append(row, ports.KeyButton{Text: LabelCancel})
}

// WithBackCancel lays options out perRow per row and appends the back/cancel row.
func WithBackCancel(options []string, perRow int, showBack bool) *ports.Keyboard {
	kb := rows(options, perRow)
	kb = append(kb, controlRow(showBack))
	return &ports.Keyboard{Rows: kb}
}

// MainMenu is the keyboard shown outside any wizard.
func MainMenu() *ports.Keyboard {
	return &ports.Keyboard{Rows: [][]ports.KeyButton{
		{{Text: LabelOrder}},
		{{Text: LabelBecomeDriver}},
		{{Text: LabelContactUs}},
	}}
}

// RemoveKeyboard hides the reply keyboard.
func RemoveKeyboard() *ports.Keyboard {
	return &ports.Keyboard{Remove: true}
}

// ContactRequest asks for a one-tap contact share.
func ContactRequest(label string) *ports.Keyboard {
	return &ports.Keyboard{Rows: [][]ports.KeyButton{{{Text: label, RequestContact: true}}}}
}

// OrderRegions lists the configured regions for the draft wizard.
func OrderRegions(names []string) *ports.Keyboard {
	return WithBackCancel(names, 3, false)
}

// DriverRegions lists the regions for the onboarding toggle step.
func DriverRegions(names []string) *ports.Keyboard {
	kb := rows(names, 3)
	kb = append(kb,
		[]ports.KeyButton{{Text: LabelRegionDone}},
		[]ports.KeyButton{{Text: LabelRegionClear}},
		controlRow(false),
	)
	return &ports.Keyboard{Rows: kb}
}

func VehicleKeyboard() *ports.Keyboard {
	return WithBackCancel(Vehicles, 1, false)
}

func PickupKeyboard() *ports.Keyboard {
	return &ports.Keyboard{Rows: [][]ports.KeyButton{
		{{Text: LabelShareLocation, RequestLocation: true}},
		controlRow(true),
	}}
}

func WhenKeyboard() *ports.Keyboard {
	return WithBackCancel([]string{LabelNow, LabelCustom}, 2, true)
}

// SharePhone is the onboarding phone step keyboard.
func SharePhone() *ports.Keyboard {
	return &ports.Keyboard{Rows: [][]ports.KeyButton{
		{{Text: LabelDriverPhone, RequestContact: true}},
		controlRow(true),
	}}
}
