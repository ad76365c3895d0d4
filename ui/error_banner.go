package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// ErrorBanner is the red strip above the map canvas. Fetch failures land
// here instead of a modal so the map stays usable; the retry button reissues
// whatever request put the banner up.
type ErrorBanner struct {
	container *fyne.Container
	text      *widget.Label
}

// NewErrorBanner creates a hidden banner. onRetry runs when the user asks
// for another attempt; pass nil to omit the button.
func NewErrorBanner(onRetry func()) *ErrorBanner {
	text := widget.NewLabel("")
	text.Wrapping = fyne.TextWrapWord
	text.Alignment = fyne.TextAlignCenter

	rect := canvas.NewRectangle(color.NRGBA{R: 255, G: 200, B: 200, A: 255})
	rect.SetMinSize(fyne.NewSize(0, 40))

	inner := container.NewPadded(text)
	var body fyne.CanvasObject = inner
	if onRetry != nil {
		body = container.NewBorder(nil, nil, nil, widget.NewButton("Retry", onRetry), inner)
	}

	eb := &ErrorBanner{
		container: container.NewStack(rect, body),
		text:      text,
	}
	eb.container.Hide()
	return eb
}

// GetContainer returns the container for embedding in UI
func (eb *ErrorBanner) GetContainer() *fyne.Container {
	return eb.container
}

// SetMessage updates the error message and shows the banner.
func (eb *ErrorBanner) SetMessage(message string) {
	eb.text.SetText("❌ " + message)
	eb.container.Show()
	eb.container.Refresh()
}

// Hide hides the error banner
func (eb *ErrorBanner) Hide() {
	eb.container.Hide()
}

// IsVisible returns whether the banner is visible
func (eb *ErrorBanner) IsVisible() bool {
	return eb.container.Visible()
}
