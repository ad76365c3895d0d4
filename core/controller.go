package core

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"

	"mapprint-studio/api"
	"mapprint-studio/core/config"
	"mapprint-studio/core/geo"
	"mapprint-studio/core/mapview"
	"mapprint-studio/core/services"
	"mapprint-studio/core/wms"
	"mapprint-studio/internal/constants"
	"mapprint-studio/internal/dialogs"
	"mapprint-studio/internal/platform"
	"mapprint-studio/internal/process"
)

// Constants for log file names and background operation timeouts
const (
	logFileName    = "logs/" + constants.MainLogFileName
	apiLogFileName = "logs/" + constants.APILogFileName
	probeTimeout   = 10 * time.Second
	submitTimeout  = 60 * time.Second
)

// AppController - the main structure encapsulating all application state and logic.
type AppController struct {
	// --- Fyne Components ---
	Application fyne.App
	MainWindow  fyne.Window
	AppIconData fyne.Resource

	// --- File Paths ---
	ExecDir    string
	ConfigPath string

	// --- Logging ---
	MainLogFile *os.File
	ApiLogFile  *os.File

	// --- Configuration ---
	Config *config.Config

	// --- Remote Service Clients ---
	HTTPClient  *http.Client
	WMSClient   *api.WMSClient
	PrintClient *api.PrintClient

	// --- Domain Services ---
	Capabilities *services.CapabilityService
	Images       *services.ImageService
	Status       *services.StatusService

	// --- Map State ---
	SourceView *mapview.View

	// --- Print Submission State ---
	SubmitMutex   sync.Mutex // Mutex for SubmitRunning
	SubmitRunning bool

	// --- Background Lifecycle ---
	BgCtx    context.Context
	BgCancel context.CancelFunc

	// --- Callbacks for UI logic ---
	UpdateLegendFunc           func()
	UpdateCapabilityStatusFunc func()
	RefreshMapFunc             func()
}

// initialMapCanvas seeds the view before the first canvas resize arrives.
var initialMapCanvas = geo.RectSize{Width: 800, Height: 600}

// NewAppController creates and initializes a new AppController instance.
// Configuration is loaded separately by InitFromConfig so a broken config
// file still leaves a window to show the error in.
func NewAppController(appIconData []byte) (*AppController, error) {
	ac := &AppController{}

	ex, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("NewAppController: cannot determine executable path: %w", err)
	}
	ac.ExecDir = filepath.Dir(ex)

	if err := platform.EnsureDirectories(ac.ExecDir); err != nil {
		return nil, fmt.Errorf("NewAppController: cannot create directories: %w", err)
	}
	ac.ConfigPath = platform.GetConfigPath(ac.ExecDir)

	// Open log files with rotation support
	logFile, err := openLogFileWithRotation(filepath.Join(ac.ExecDir, logFileName))
	if err != nil {
		return nil, fmt.Errorf("NewAppController: cannot open main log file: %w", err)
	}
	log.SetOutput(logFile)
	ac.MainLogFile = logFile

	apiLogFile, err := openLogFileWithRotation(filepath.Join(ac.ExecDir, apiLogFileName))
	if err != nil {
		log.Printf("NewAppController: failed to open API log file: %v", err)
		ac.ApiLogFile = nil
	} else {
		ac.ApiLogFile = apiLogFile
	}

	ac.AppIconData = fyne.NewStaticResource("appIcon", appIconData)

	log.Println("Application initializing...")
	ac.Application = app.NewWithID("com.mapprint.studio")
	ac.Application.SetIcon(ac.AppIconData)

	// Set theme based on constants
	switch constants.AppTheme {
	case "dark":
		ac.Application.Settings().SetTheme(theme.DarkTheme())
	case "light":
		ac.Application.Settings().SetTheme(theme.LightTheme())
	default:
		ac.Application.Settings().SetTheme(theme.DefaultTheme())
	}

	ac.BgCtx, ac.BgCancel = context.WithCancel(context.Background())
	ac.Status = services.NewStatusService()

	ac.UpdateLegendFunc = func() { log.Println("UpdateLegendFunc handler is not set yet.") }
	ac.UpdateCapabilityStatusFunc = func() { log.Println("UpdateCapabilityStatusFunc handler is not set yet.") }
	ac.RefreshMapFunc = func() { log.Println("RefreshMapFunc handler is not set yet.") }

	return ac, nil
}

// InitFromConfig loads the configuration and builds everything that depends
// on it: HTTP plumbing, service clients, caches and the source map view.
func (ac *AppController) InitFromConfig() error {
	cfg, err := config.Load(ac.ConfigPath)
	if err != nil {
		return err
	}
	ac.Config = cfg

	timeout := time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second
	ac.HTTPClient = CreateHTTPClient(timeout, cfg.HTTP.SOCKS5Proxy)
	if cfg.HTTP.SOCKS5Proxy != "" {
		log.Printf("InitFromConfig: routing requests through SOCKS5 proxy %s", cfg.HTTP.SOCKS5Proxy)
	}

	ac.WMSClient = api.NewWMSClient(cfg.WMS.URL, ac.HTTPClient, ac.apiLogWriter())
	ac.PrintClient = api.NewPrintClient(cfg.Print.CapabilitiesURL, ac.HTTPClient, ac.apiLogWriter())

	images, err := services.NewImageService(ac.WMSClient.FetchImage)
	if err != nil {
		return fmt.Errorf("InitFromConfig: cannot build image cache: %w", err)
	}
	ac.Images = images

	ac.Capabilities = services.NewCapabilityService(ac.PrintClient,
		func() {
			log.Println("InitFromConfig: print capabilities loaded")
			if ac.UpdateCapabilityStatusFunc != nil {
				ac.UpdateCapabilityStatusFunc()
			}
		},
		func(err error) {
			log.Printf("InitFromConfig: print capabilities load failed: %v", err)
			if ac.UpdateCapabilityStatusFunc != nil {
				ac.UpdateCapabilityStatusFunc()
			}
		})

	view, err := mapview.New(cfg.Map.SRS, cfg.MapUnits(), cfg.Map.Resolutions, cfg.MapCenter(),
		initialMapCanvas)
	if err != nil {
		return fmt.Errorf("InitFromConfig: cannot build map view: %w", err)
	}
	view.SetLayers(cfg.BuildLayers())
	view.SetZoom(cfg.Map.Zoom)
	ac.SourceView = view

	log.Printf("InitFromConfig: %d layers, srs %s, zoom %d", len(cfg.WMS.Layers), cfg.Map.SRS, cfg.Map.Zoom)
	return nil
}

// StartBackground launches the startup goroutines. Call once, after the UI
// callbacks are wired.
func (ac *AppController) StartBackground() {
	ac.Capabilities.AutoLoadCapabilities(ac.BgCtx)
	// One early identity probe so the Help tab can name the server without a
	// manual check.
	ac.ProbeWMSServer(nil)
}

// apiLogWriter hands the API log to the service clients; nil disables
// request logging rather than crashing on a failed open.
func (ac *AppController) apiLogWriter() io.Writer {
	if ac.ApiLogFile == nil {
		return nil
	}
	return ac.ApiLogFile
}

// GracefulExit performs a graceful shutdown of the application.
func (ac *AppController) GracefulExit() {
	log.Println("GracefulExit: shutting down...")
	if ac.BgCancel != nil {
		ac.BgCancel()
	}
	if ac.Images != nil {
		ac.Images.Close()
	}

	if ac.MainLogFile != nil {
		ac.MainLogFile.Close()
	}
	if ac.ApiLogFile != nil {
		ac.ApiLogFile.Close()
	}

	ac.Application.Quit()
}

// MapRequestURL merges the visible layers of view into one GetMap URL for
// its current viewport. ok is false when nothing is visible.
func (ac *AppController) MapRequestURL(view *mapview.View) (string, bool, error) {
	params := wms.BuildGetMapParams(view.Layers(), view.Viewport())
	if params == nil {
		return "", false, nil
	}
	u, err := params.URL(ac.Config.WMS.URL)
	if err != nil {
		return "", false, err
	}
	return u, true, nil
}

// LegendURLForLayer builds the legend image URL for one layer against the
// source view's current viewport. ok is false for layers that are detached
// or excluded from the legend.
func (ac *AppController) LegendURLForLayer(l *wms.Layer) (string, bool) {
	if l == nil || !l.InLegend {
		return "", false
	}
	params := wms.BuildLegendParams(l, ac.SourceView.Viewport())
	if params == nil {
		return "", false
	}
	u, err := params.URL(ac.Config.WMS.URL)
	if err != nil {
		log.Printf("LegendURLForLayer: %v", err)
		return "", false
	}
	return u, true
}

// ProbeWMSServer fetches the WMS identity in the background and caches it.
// done runs on the probe goroutine; wrap UI work in fyne.Do.
func (ac *AppController) ProbeWMSServer(done func(info *api.ServiceInfo, err error)) {
	if ac.Status.IsWMSCheckInProgress() {
		log.Println("ProbeWMSServer: probe already in progress, skipping")
		return
	}
	ac.Status.SetWMSCheckInProgress(true)

	go func() {
		defer ac.Status.SetWMSCheckInProgress(false)
		ctx, cancel := context.WithTimeout(ac.BgCtx, probeTimeout)
		defer cancel()

		info, err := ac.WMSClient.FetchServiceInfo(ctx)
		if err != nil {
			log.Printf("ProbeWMSServer: %v", err)
		} else {
			ac.Status.SetCachedWMSInfo(info)
		}
		if done != nil {
			done(info, err)
		}
	}()
}

// ProbePrintServer fetches the print capabilities in the background and
// caches a one-line status. done runs on the probe goroutine; wrap UI work
// in fyne.Do.
func (ac *AppController) ProbePrintServer(done func(status string, err error)) {
	if ac.Status.IsPrintCheckInProgress() {
		log.Println("ProbePrintServer: probe already in progress, skipping")
		return
	}
	ac.Status.SetPrintCheckInProgress(true)

	go func() {
		defer ac.Status.SetPrintCheckInProgress(false)
		ctx, cancel := context.WithTimeout(ac.BgCtx, probeTimeout)
		defer cancel()

		caps, err := ac.PrintClient.FetchCapabilities(ctx)
		if err != nil {
			log.Printf("ProbePrintServer: %v", err)
			if done != nil {
				done("", err)
			}
			return
		}
		status := fmt.Sprintf("ok: %d layouts, %d scales, %d dpis",
			len(caps.Layouts), len(caps.Scales), len(caps.DPIs))
		ac.Status.SetCachedPrintCheck(status)
		if done != nil {
			done(status, nil)
		}
	}()
}

// ReloadCapabilities drops the cached print capabilities and images and
// fetches fresh ones. Bound to the Tools tab.
func (ac *AppController) ReloadCapabilities() {
	log.Println("ReloadCapabilities: reloading print capabilities and dropping image cache")
	ac.Images.Invalidate()

	go func() {
		ctx, cancel := context.WithTimeout(ac.BgCtx, probeTimeout)
		defer cancel()
		if err := ac.Capabilities.LoadOnce(ctx); err != nil {
			log.Printf("ReloadCapabilities: %v", err)
		}
		if ac.RefreshMapFunc != nil {
			ac.RefreshMapFunc()
		}
	}()
}

// CheckIfStudioAlreadyRunning warns when another instance of the app is
// already up. Two instances fight over the log files.
func CheckIfStudioAlreadyRunning(ac *AppController) {
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("CheckIfStudioAlreadyRunning: cannot detect executable path: %v", err)
		return
	}
	count, err := process.CountByName(filepath.Base(execPath))
	if err != nil {
		log.Printf("CheckIfStudioAlreadyRunning: error listing processes: %v", err)
		return
	}
	if count > 1 {
		dialogs.ShowInfo(ac.MainWindow, "Information",
			"The application is already running. Use the existing instance or close it before starting a new one.")
	}
}

// CheckConfigFileExists checks if config.jsonc exists and shows a warning if it doesn't.
// The commented example is written next to the expected location.
func CheckConfigFileExists(ac *AppController) {
	if _, err := os.Stat(ac.ConfigPath); !os.IsNotExist(err) {
		return
	}
	log.Printf("CheckConfigFileExists: config not found at %s", ac.ConfigPath)

	examplePath := platform.GetConfigExamplePath(ac.ExecDir)
	if err := config.WriteExample(examplePath); err != nil {
		log.Printf("CheckConfigFileExists: %v", err)
	}

	message := fmt.Sprintf(
		"⚠️ Configuration file not found!\n\n"+
			"The file %s is missing from the bin/ folder.\n\n"+
			"To get started:\n"+
			"1. Copy the file %s to %s\n"+
			"2. Open %s and point it at your WMS and print servers\n"+
			"3. Restart the application\n\n"+
			"Example configuration is located here:\n%s",
		constants.ConfigFileName,
		constants.ConfigExampleFileName,
		constants.ConfigFileName,
		constants.ConfigFileName,
		examplePath,
	)
	dialogs.ShowInfo(ac.MainWindow, "Configuration Not Found", message)
}
