package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"mapprint-studio/api"
	"mapprint-studio/core/geo"
)

// CapabilityService owns the print service capabilities and their delivery
// to the rest of the app. It encapsulates capability state and loading so
// AppController stays small.
//
// Callbacks run on whatever goroutine finished the load; UI consumers wrap
// their own fyne.Do.
type CapabilityService struct {
	// Loaded capabilities (protected by StateMutex). The document is
	// treated as immutable once stored.
	StateMutex   sync.RWMutex
	Capabilities *api.PrintCapabilities

	// Auto-load state
	AutoLoadInProgress bool
	AutoLoadMutex      sync.Mutex

	// Dependencies (passed from AppController)
	Client               *api.PrintClient
	OnCapabilitiesLoaded func()          // Called after a successful load
	OnLoadFailed         func(err error) // Called when every attempt failed
}

// NewCapabilityService creates a service around an existing print client.
func NewCapabilityService(client *api.PrintClient, onLoaded func(), onFailed func(err error)) *CapabilityService {
	return &CapabilityService{
		Client:               client,
		OnCapabilitiesLoaded: onLoaded,
		OnLoadFailed:         onFailed,
	}
}

// SetCapabilities safely stores a capability document.
func (cs *CapabilityService) SetCapabilities(caps *api.PrintCapabilities) {
	cs.StateMutex.Lock()
	defer cs.StateMutex.Unlock()
	cs.Capabilities = caps
}

// GetCapabilities safely returns the current document, nil before the first
// successful load.
func (cs *CapabilityService) GetCapabilities() *api.PrintCapabilities {
	cs.StateMutex.RLock()
	defer cs.StateMutex.RUnlock()
	return cs.Capabilities
}

// Loaded reports whether capabilities have arrived.
func (cs *CapabilityService) Loaded() bool {
	return cs.GetCapabilities() != nil
}

// Scales returns the service's scale list in service order, empty before
// the first load.
func (cs *CapabilityService) Scales() []geo.Scale {
	caps := cs.GetCapabilities()
	if caps == nil {
		return nil
	}
	return caps.ScaleList()
}

// Layouts returns the service's layouts, empty before the first load.
func (cs *CapabilityService) Layouts() []api.Layout {
	caps := cs.GetCapabilities()
	if caps == nil {
		return nil
	}
	return append([]api.Layout(nil), caps.Layouts...)
}

// DPIValues returns the offered print densities, empty before the first
// load.
func (cs *CapabilityService) DPIValues() []float64 {
	caps := cs.GetCapabilities()
	if caps == nil {
		return nil
	}
	return caps.DPIValues()
}

// CreateURL returns the job submission endpoint, empty before the first
// load.
func (cs *CapabilityService) CreateURL() string {
	caps := cs.GetCapabilities()
	if caps == nil {
		return ""
	}
	return caps.CreateURL
}

// LoadOnce fetches capabilities synchronously, stores them and fires the
// loaded callback. Used by the reload button and diagnostics.
func (cs *CapabilityService) LoadOnce(ctx context.Context) error {
	if cs.Client == nil {
		return fmt.Errorf("capability service: no print client configured")
	}
	caps, err := cs.Client.FetchCapabilities(ctx)
	if err != nil {
		return err
	}
	cs.SetCapabilities(caps)
	if cs.OnCapabilitiesLoaded != nil {
		cs.OnCapabilitiesLoaded()
	}
	return nil
}

// AutoLoadCapabilities fetches capabilities in the background, retrying on
// a widening ladder so a print service that boots alongside the app gets a
// fair chance. Repeated calls while an attempt is running are ignored.
func (cs *CapabilityService) AutoLoadCapabilities(ctx context.Context) {
	cs.AutoLoadMutex.Lock()
	if cs.AutoLoadInProgress {
		cs.AutoLoadMutex.Unlock()
		log.Printf("AutoLoadCapabilities: Already in progress, skipping")
		return
	}
	cs.AutoLoadInProgress = true
	cs.AutoLoadMutex.Unlock()

	finish := func() {
		cs.AutoLoadMutex.Lock()
		cs.AutoLoadInProgress = false
		cs.AutoLoadMutex.Unlock()
	}

	intervals := []time.Duration{0, 1, 3, 5, 10, 15}

	go func() {
		defer finish()
		var lastErr error
		for attempt, interval := range intervals {
			if interval > 0 {
				select {
				case <-ctx.Done():
					log.Printf("AutoLoadCapabilities: Stopped during wait (context cancelled)")
					return
				case <-time.After(interval * time.Second):
				}
			} else {
				select {
				case <-ctx.Done():
					log.Printf("AutoLoadCapabilities: Stopped (context cancelled)")
					return
				default:
				}
			}

			err := cs.LoadOnce(ctx)
			if err == nil {
				log.Printf("AutoLoadCapabilities: Loaded on attempt %d/%d", attempt+1, len(intervals))
				return
			}
			lastErr = err
			log.Printf("AutoLoadCapabilities: Attempt %d/%d failed: %v", attempt+1, len(intervals), err)
		}

		log.Printf("AutoLoadCapabilities: All %d attempts failed", len(intervals))
		if cs.OnLoadFailed != nil {
			cs.OnLoadFailed(lastErr)
		}
	}()
}
