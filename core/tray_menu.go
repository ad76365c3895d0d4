package core

import (
	"runtime"

	"fyne.io/fyne/v2"
)

// CreateTrayMenu creates the system tray menu. The window close button hides
// the window, so the tray is how users come back.
func (ac *AppController) CreateTrayMenu() *fyne.Menu {
	menuItems := []*fyne.MenuItem{}

	// macOS: separator at top to fix menu positioning
	if runtime.GOOS == "darwin" {
		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem("Open", func() {
			if ac.MainWindow != nil {
				fyne.Do(func() {
					ac.MainWindow.Show()
					ac.MainWindow.RequestFocus()
				})
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Reload Print Capabilities", func() {
			ac.ReloadCapabilities()
		}),
		fyne.NewMenuItemSeparator(),
	)

	menuItems = append(menuItems, fyne.NewMenuItem("Quit", ac.GracefulExit))

	return fyne.NewMenu("MapPrint Studio", menuItems...)
}
