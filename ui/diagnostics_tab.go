package ui

import (
	"fmt"
	"log"
	"net"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/pion/stun"

	"mapprint-studio/api"
	"mapprint-studio/core"
	"mapprint-studio/internal/constants"
	"mapprint-studio/internal/dialogs"
	"mapprint-studio/internal/platform"
)

// checkSTUN performs a STUN request to determine the external IP address.
// Map and print services behind address allowlists reject unknown clients;
// this is the first thing their operators ask for.
func checkSTUN(serverAddr string) (string, error) {
	conn, err := net.Dial("udp", serverAddr)
	if err != nil {
		return "", fmt.Errorf("failed to dial STUN server: %w", err)
	}
	defer conn.Close()

	c, err := stun.NewClient(conn)
	if err != nil {
		return "", fmt.Errorf("failed to create STUN client: %w", err)
	}
	defer c.Close()

	message := stun.MustBuild(stun.TransactionID, stun.BindingRequest)

	var xorAddr stun.XORMappedAddress
	var errResult error

	done := make(chan bool)

	go func() {
		err = c.Do(message, func(res stun.Event) {
			if res.Error != nil {
				errResult = res.Error
				return
			}
			if err := xorAddr.GetFrom(res.Message); err != nil {
				errResult = err
				return
			}
		})
		if err != nil {
			errResult = err
		}
		close(done)
	}()

	select {
	case <-done:
		if errResult != nil {
			return "", fmt.Errorf("STUN request failed: %w", errResult)
		}
		return xorAddr.IP.String(), nil
	case <-time.After(5 * time.Second):
		return "", fmt.Errorf("STUN request timed out")
	}
}

// CreateDiagnosticsTab creates and returns the content for the "Diagnostics" tab.
func CreateDiagnosticsTab(ac *core.AppController) fyne.CanvasObject {
	endpoints := widget.NewLabel(fmt.Sprintf("WMS endpoint: %s\nPrint endpoint: %s",
		ac.Config.WMS.URL, ac.Config.Print.CapabilitiesURL))
	endpoints.Wrapping = fyne.TextWrapBreak

	wmsButton := widget.NewButton("Check WMS Server", func() {
		if ac.Status.IsWMSCheckInProgress() {
			dialogs.ShowAutoHideInfo(ac.Application, ac.MainWindow, "WMS Check", "A check is already running.")
			return
		}
		waitDialog := dialog.NewCustomWithoutButtons("WMS Check",
			widget.NewLabel("Contacting the WMS server, please wait..."), ac.MainWindow)
		waitDialog.Show()

		ac.ProbeWMSServer(func(info *api.ServiceInfo, err error) {
			fyne.Do(func() {
				waitDialog.Hide()
				if err != nil {
					log.Printf("diagnosticsTab: WMS check failed: %v", err)
					dialogs.ShowError(ac.MainWindow, err)
					return
				}
				log.Printf("diagnosticsTab: WMS check successful: %s %s", info.Name, info.Version)
				dialogs.ShowInfo(ac.MainWindow, "WMS Check Result",
					fmt.Sprintf("Service: %s\nTitle: %s\nWMS version: %s", info.Name, info.Title, info.Version))
			})
		})
	})

	printButton := widget.NewButton("Check Print Service", func() {
		if ac.Status.IsPrintCheckInProgress() {
			dialogs.ShowAutoHideInfo(ac.Application, ac.MainWindow, "Print Check", "A check is already running.")
			return
		}
		waitDialog := dialog.NewCustomWithoutButtons("Print Check",
			widget.NewLabel("Contacting the print service, please wait..."), ac.MainWindow)
		waitDialog.Show()

		ac.ProbePrintServer(func(status string, err error) {
			fyne.Do(func() {
				waitDialog.Hide()
				if err != nil {
					log.Printf("diagnosticsTab: print check failed: %v", err)
					dialogs.ShowError(ac.MainWindow, err)
					return
				}
				log.Printf("diagnosticsTab: print check successful: %s", status)
				dialogs.ShowInfo(ac.MainWindow, "Print Check Result", "Capabilities "+status)
			})
		})
	})

	stunButton := widget.NewButton("Check External IP (STUN)", func() {
		waitDialog := dialog.NewCustomWithoutButtons("STUN Check",
			widget.NewLabel("Checking, please wait..."), ac.MainWindow)
		waitDialog.Show()

		go func() {
			stunServer := constants.DefaultSTUNServer
			ip, err := checkSTUN(stunServer)

			fyne.Do(func() {
				waitDialog.Hide()
				if err != nil {
					log.Printf("diagnosticsTab: STUN check failed: %v", err)
					dialogs.ShowError(ac.MainWindow, err)
					return
				}
				log.Printf("diagnosticsTab: STUN check successful, IP: %s", ip)
				resultLabel := widget.NewLabel(fmt.Sprintf("Your External IP: %s\n(determined via [UDP]%s)", ip, stunServer))
				copyButton := widget.NewButton("Copy IP", func() {
					ac.MainWindow.Clipboard().SetContent(ip)
					dialogs.ShowAutoHideInfo(ac.Application, ac.MainWindow, "Copied", "IP address copied to clipboard.")
				})
				dialogs.ShowCustom(ac.MainWindow, "STUN Check Result", "Close",
					container.NewVBox(resultLabel, copyButton))
			})
		}()
	})

	// Helper function to create "Open in Browser" buttons
	openBrowserButton := func(label, url string) fyne.CanvasObject {
		return widget.NewButton(label, func() {
			if err := platform.OpenURL(url); err != nil {
				log.Printf("diagnosticsTab: Failed to open URL %s: %v", url, err)
				dialogs.ShowError(ac.MainWindow, err)
			}
		})
	}

	return container.NewVBox(
		widget.NewLabel("Configured Services:"),
		endpoints,
		wmsButton,
		printButton,
		stunButton,
		widget.NewSeparator(),
		widget.NewLabel("Reference:"),
		openBrowserButton("OpenStreetMap", "https://www.openstreetmap.org"),
		openBrowserButton("EPSG Registry", "https://epsg.io"),
		openBrowserButton("OGC WMS Standard", "https://www.ogc.org/standards/wms"),
		openBrowserButton("MapFish Print Docs", "https://mapfish.github.io/mapfish-print-doc/"),
	)
}
