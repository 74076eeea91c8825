package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Actions wires the toolbar buttons. Nil actions are left out.
type Actions struct {
	Clear  func()
	Submit func()
	Export func()
}

func NewToolbar(a Actions) fyne.CanvasObject {
	var items []fyne.CanvasObject
	if a.Clear != nil {
		items = append(items, widget.NewButtonWithIcon("Clear", theme.ContentClearIcon(), a.Clear))
	}
	if a.Submit != nil {
		submit := widget.NewButtonWithIcon("Submit", theme.ConfirmIcon(), a.Submit)
		submit.Importance = widget.HighImportance
		items = append(items, submit)
	}
	if a.Export != nil {
		if len(items) > 0 {
			items = append(items, widget.NewSeparator())
		}
		items = append(items, widget.NewButtonWithIcon("Export PDF", theme.DocumentSaveIcon(), a.Export))
	}
	items = append(items, layout.NewSpacer())
	return container.NewHBox(items...)
}
