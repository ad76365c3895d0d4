package dialogs

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"mapprint-studio/internal/platform"
)

// ShowError shows an error dialog to the user
func ShowError(window fyne.Window, err error) {
	fyne.Do(func() {
		dialog.ShowError(err, window)
	})
}

// ShowErrorText shows an error dialog with a text message
func ShowErrorText(window fyne.Window, title, message string) {
	fyne.Do(func() {
		dialog.ShowError(fmt.Errorf("%s: %s", title, message), window)
	})
}

// ShowInfo shows an information dialog to the user
func ShowInfo(window fyne.Window, title, message string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, message, window)
	})
}

// ShowCustom shows a custom dialog with custom content
func ShowCustom(window fyne.Window, title, dismiss string, content fyne.CanvasObject) {
	fyne.Do(func() {
		dialog.ShowCustom(title, dismiss, content, window)
	})
}

// ShowConfirm shows a confirmation dialog
func ShowConfirm(window fyne.Window, title, message string, onConfirm func(bool)) {
	fyne.Do(func() {
		dialog.ShowConfirm(title, message, onConfirm, window)
	})
}

// ShowOpenURLInfo shows a dialog with a message and an Open button that
// hands the URL to the system browser. Used for finished print jobs.
func ShowOpenURLInfo(window fyne.Window, title, message, url string) {
	fyne.Do(func() {
		content := widget.NewLabel(message)
		d := dialog.NewCustom(title, "Close", content, window)
		openBtn := widget.NewButton("Open", func() {
			if err := platform.OpenURL(url); err != nil {
				log.Printf("ShowOpenURLInfo: failed to open %s: %v", url, err)
			}
		})
		d.SetButtons([]fyne.CanvasObject{openBtn, widget.NewButton("Close", func() { d.Hide() })})
		d.Show()
	})
}

// ShowAutoHideInfo shows a temporary notification and dialog that auto-hides after 2 seconds
func ShowAutoHideInfo(app fyne.App, window fyne.Window, title, message string) {
	app.SendNotification(&fyne.Notification{Title: title, Content: message})
	fyne.Do(func() {
		d := dialog.NewCustomWithoutButtons(title, widget.NewLabel(message), window)
		d.Show()
		go func() {
			time.Sleep(2 * time.Second)
			fyne.Do(func() { d.Hide() })
		}()
	})
}
