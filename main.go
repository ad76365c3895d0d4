package main

import (
	_ "embed" // For embedding resource files (icons)
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"mapprint-studio/core"
	"mapprint-studio/ui"
)

// Embedded resources
//
//go:embed assets/app.png
var appIconData []byte // Main application icon

// main is the application's entry point. It simply creates and runs the AppController.
func main() {
	controller, err := core.NewAppController(appIconData)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Configure the system tray if the application is running on a Desktop platform.
	if desk, ok := controller.Application.(desktop.App); ok {
		controller.Application.Lifecycle().SetOnStarted(func() {
			go func() {
				// Add a delay to give the tray time to initialize
				time.Sleep(500 * time.Millisecond)
				fyne.Do(func() {
					desk.SetSystemTrayIcon(controller.AppIconData)
					desk.SetSystemTrayMenu(controller.CreateTrayMenu())
				})
			}()
		})
	}

	controller.MainWindow = controller.Application.NewWindow("MapPrint Studio") // Create the main application window
	controller.MainWindow.SetIcon(controller.AppIconData)

	// Check if config.jsonc exists and write an example next to it if not
	core.CheckConfigFileExists(controller)

	if err := controller.InitFromConfig(); err != nil {
		log.Printf("main: config load failed: %v", err)
		controller.ShowConfigError(err)
		controller.MainWindow.SetContent(ui.CreateConfigErrorContent(controller, err))
	} else {
		// Create App structure to manage UI
		app := ui.NewApp(controller.MainWindow, controller)
		controller.MainWindow.SetContent(app.GetTabs()) // Set the window's content
		controller.StartBackground()
	}

	controller.MainWindow.Resize(fyne.NewSize(980, 640)) // initial window size
	controller.MainWindow.CenterOnScreen()               // Center the window on the screen

	core.CheckIfStudioAlreadyRunning(controller)

	// Intercept the window close event (clicking "X") to hide it instead of exiting completely.
	controller.MainWindow.SetCloseIntercept(func() {
		controller.MainWindow.Hide()
	})

	controller.MainWindow.ShowAndRun() // Show the main window and start the main Fyne event loop.
	// The code below executes only after ShowAndRun() finishes.
	log.Println("Application shutting down.")
}
