package core

import (
	"fmt"
	"log"

	"mapprint-studio/internal/dialogs"
)

// ShowConfigError shows a configuration problem the user has to fix before
// the app is usable.
func (ac *AppController) ShowConfigError(err error) {
	message := fmt.Sprintf("Failed to load configuration:\n\n%s\n\nPlease check:\n1. %s is valid JSONC\n2. wms.url and print.capabilities_url are set\n3. Check logs for details",
		err.Error(), ac.ConfigPath)
	if ac.MainWindow != nil {
		dialogs.ShowErrorText(ac.MainWindow, "Configuration Error", message)
	}
	log.Printf("ConfigError: %v", err)
}

// ShowPrintError shows an error from the print service.
func (ac *AppController) ShowPrintError(err error) {
	message := fmt.Sprintf("Print job failed:\n\n%s\n\nPlease check:\n1. The print service is reachable\n2. The selected layout and scale are still offered\n3. Check api.log for details", err.Error())
	if ac.MainWindow != nil {
		dialogs.ShowErrorText(ac.MainWindow, "Print Failed", message)
	}
	log.Printf("PrintError: %v", err)
}

// ShowWMSError shows an error from the map server.
func (ac *AppController) ShowWMSError(err error) {
	message := fmt.Sprintf("Map server request failed:\n\n%s\n\nPlease check:\n1. wms.url points at a WMS endpoint\n2. The configured layer names exist\n3. Check api.log for details", err.Error())
	if ac.MainWindow != nil {
		dialogs.ShowErrorText(ac.MainWindow, "Map Server Error", message)
	}
	log.Printf("WMSError: %v", err)
}
