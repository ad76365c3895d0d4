package ui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"mapprint-studio/core"
	"mapprint-studio/internal/dialogs"
	"mapprint-studio/internal/platform"
)

// CreateToolsTab creates and returns the content for the "Tools" tab.
func CreateToolsTab(ac *core.AppController) fyne.CanvasObject {
	logsButton := widget.NewButton("Open Logs Folder", func() {
		logsDir := platform.GetLogsDir(ac.ExecDir)
		if err := platform.OpenFolder(logsDir); err != nil {
			log.Printf("toolsTab: Failed to open logs folder: %v", err)
			dialogs.ShowError(ac.MainWindow, err)
		}
	})

	configButton := widget.NewButton("Open Config Folder", func() {
		binDir := platform.GetBinDir(ac.ExecDir)
		if err := platform.OpenFolder(binDir); err != nil {
			log.Printf("toolsTab: Failed to open config folder: %v", err)
			dialogs.ShowError(ac.MainWindow, err)
		}
	})

	reloadButton := widget.NewButton("Reload Print Capabilities", func() {
		ac.ReloadCapabilities()
		dialogs.ShowAutoHideInfo(ac.Application, ac.MainWindow, "Reload",
			"Reloading print capabilities in the background.")
	})

	clearCacheButton := widget.NewButton("Clear Map Image Cache", func() {
		ac.Images.Invalidate()
		if ac.RefreshMapFunc != nil {
			ac.RefreshMapFunc()
		}
		dialogs.ShowAutoHideInfo(ac.Application, ac.MainWindow, "Cache",
			"Cached map images dropped, the map will refetch.")
	})

	copyWMSButton := widget.NewButton("Copy WMS Endpoint", func() {
		ac.MainWindow.Clipboard().SetContent(ac.Config.WMS.URL)
		dialogs.ShowAutoHideInfo(ac.Application, ac.MainWindow, "Copied",
			"WMS endpoint copied to clipboard.")
	})

	return container.NewVBox(
		logsButton,
		configButton,
		widget.NewSeparator(),
		reloadButton,
		clearCacheButton,
		copyWMSButton,
	)
}
