package ui

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"mapprint-studio/core"
	"mapprint-studio/internal/constants"
	"mapprint-studio/internal/dialogs"
	"mapprint-studio/internal/platform"
)

// CreateHelpTab creates and returns the content for the "Help" tab.
func CreateHelpTab(ac *core.AppController) fyne.CanvasObject {
	quickStart := widget.NewLabel(
		"Getting started:\n" +
			"1. Edit bin/" + constants.ConfigFileName + ": point wms.url at your map server and\n" +
			"   print.capabilities_url at the print service's info.json.\n" +
			"2. The Map tab draws the configured layers; toggle them in the side panel\n" +
			"   and navigate with the arrow buttons.\n" +
			"3. The Print tab places a page on the map: pick a layout and a scale,\n" +
			"   then press Print. The finished document opens in your browser.")
	quickStart.Wrapping = fyne.TextWrapWord

	// Version and links section
	versionLabel := widget.NewLabel("📦 Version: " + constants.AppVersion)
	versionLabel.Alignment = fyne.TextAlignCenter

	// Identity of the WMS server we are talking to
	serverLabel := widget.NewLabel("Contacting the WMS server...")
	serverLabel.Alignment = fyne.TextAlignCenter
	serverLabel.Wrapping = fyne.TextWrapWord

	updateServerInfo := func() bool {
		info := ac.Status.GetCachedWMSInfo()
		if info == nil {
			serverLabel.SetText("WMS server not reached yet")
			return false
		}
		title := info.Title
		if title == "" {
			title = info.Name
		}
		serverLabel.SetText(fmt.Sprintf("🗺 Connected to: %s (WMS %s)", title, info.Version))
		return true
	}

	updateServerInfo()

	// The startup probe may still be in flight; poll a few times until the
	// cache fills.
	go func() {
		for i := 0; i < 10; i++ {
			time.Sleep(2 * time.Second)
			filled := false
			fyne.DoAndWait(func() {
				filled = updateServerInfo()
			})
			if filled {
				return
			}
		}
	}()

	osmLink := widget.NewHyperlink("🗺 OpenStreetMap", nil)
	_ = osmLink.SetURLFromString("https://www.openstreetmap.org")
	osmLink.OnTapped = func() {
		if err := platform.OpenURL("https://www.openstreetmap.org"); err != nil {
			log.Printf("helpTab: Failed to open OpenStreetMap link: %v", err)
			dialogs.ShowError(ac.MainWindow, err)
		}
	}

	githubLink := widget.NewHyperlink("🐙 GitHub Repository", nil)
	_ = githubLink.SetURLFromString("https://github.com/mapprint/mapprint-studio")
	githubLink.OnTapped = func() {
		if err := platform.OpenURL("https://github.com/mapprint/mapprint-studio"); err != nil {
			log.Printf("helpTab: Failed to open GitHub link: %v", err)
			dialogs.ShowError(ac.MainWindow, err)
		}
	}

	return container.NewVBox(
		quickStart,
		widget.NewSeparator(),
		versionLabel,
		serverLabel,
		widget.NewSeparator(),
		container.NewHBox(
			layout.NewSpacer(),
			osmLink,
			widget.NewLabel(" | "),
			githubLink,
			layout.NewSpacer(),
		),
	)
}
