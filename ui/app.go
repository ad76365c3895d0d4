package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"mapprint-studio/core"
	"mapprint-studio/internal/dialogs"
	"mapprint-studio/internal/platform"
)

// App manages the UI structure and tabs
type App struct {
	window fyne.Window
	core   *core.AppController
	tabs   *container.AppTabs
}

// NewApp creates a new App instance
func NewApp(window fyne.Window, controller *core.AppController) *App {
	app := &App{
		window: window,
		core:   controller,
	}

	// Create tabs - Map is first (opens on startup)
	app.tabs = container.NewAppTabs(
		container.NewTabItem("Map", CreateMapTab(controller)),
		container.NewTabItem("Print", CreatePrintTab(controller)),
		container.NewTabItem("Diagnostics", CreateDiagnosticsTab(controller)),
		container.NewTabItem("Tools", CreateToolsTab(controller)),
		container.NewTabItem("Help", CreateHelpTab(controller)),
	)

	// Set tab selection handler
	app.tabs.OnSelected = func(item *container.TabItem) {
		if item.Text == "Map" && controller.RefreshMapFunc != nil {
			// Heals a map fetch that failed while the tab was hidden; cached
			// images make the common case free.
			controller.RefreshMapFunc()
		}
	}

	return app
}

// GetTabs returns the tabs container
func (a *App) GetTabs() *container.AppTabs {
	return a.tabs
}

// GetWindow returns the main window
func (a *App) GetWindow() fyne.Window {
	return a.window
}

// GetController returns the core controller
func (a *App) GetController() *core.AppController {
	return a.core
}

// CreateConfigErrorContent fills the window when the configuration cannot be
// loaded: the error itself, a shortcut to the config folder and a way out.
func CreateConfigErrorContent(ac *core.AppController, err error) fyne.CanvasObject {
	msg := widget.NewLabel("The configuration could not be loaded:\n\n" + err.Error() +
		"\n\nFix bin/config.jsonc and restart the application.")
	msg.Wrapping = fyne.TextWrapWord

	openButton := widget.NewButton("Open Config Folder", func() {
		if err := platform.OpenFolder(platform.GetBinDir(ac.ExecDir)); err != nil {
			dialogs.ShowError(ac.MainWindow, err)
		}
	})
	quitButton := widget.NewButton("Quit", ac.GracefulExit)

	return container.NewVBox(msg, openButton, quitButton)
}
