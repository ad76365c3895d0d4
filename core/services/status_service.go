package services

import (
	"sync"
	"time"

	"mapprint-studio/api"
)

// StatusService caches the diagnostics probes: the WMS server identity and
// the print service reachability. Probes run in the background; the cache
// keeps the diagnostics tab responsive and saves repeat round trips.
type StatusService struct {
	// WMS identity probe caching
	WMSInfoCache       *api.ServiceInfo
	WMSInfoCacheTime   time.Time
	WMSCheckMutex      sync.RWMutex
	WMSCheckInProgress bool

	// Print service probe caching
	PrintCheckCache      string
	PrintCheckCacheTime  time.Time
	PrintCheckMutex      sync.RWMutex
	PrintCheckInProgress bool
}

// NewStatusService creates and initializes a new StatusService instance.
func NewStatusService() *StatusService {
	return &StatusService{}
}

// GetCachedWMSInfo safely gets the cached WMS identity with mutex protection.
func (s *StatusService) GetCachedWMSInfo() *api.ServiceInfo {
	s.WMSCheckMutex.RLock()
	defer s.WMSCheckMutex.RUnlock()
	return s.WMSInfoCache
}

// SetCachedWMSInfo safely sets the cached WMS identity with mutex protection.
func (s *StatusService) SetCachedWMSInfo(info *api.ServiceInfo) {
	s.WMSCheckMutex.Lock()
	defer s.WMSCheckMutex.Unlock()
	s.WMSInfoCache = info
	s.WMSInfoCacheTime = time.Now()
}

// GetCachedWMSInfoTime safely gets the cached WMS identity time.
func (s *StatusService) GetCachedWMSInfoTime() time.Time {
	s.WMSCheckMutex.RLock()
	defer s.WMSCheckMutex.RUnlock()
	return s.WMSInfoCacheTime
}

// SetWMSCheckInProgress safely sets the WMS check in progress flag.
func (s *StatusService) SetWMSCheckInProgress(inProgress bool) {
	s.WMSCheckMutex.Lock()
	defer s.WMSCheckMutex.Unlock()
	s.WMSCheckInProgress = inProgress
}

// IsWMSCheckInProgress safely checks if a WMS probe is in flight.
func (s *StatusService) IsWMSCheckInProgress() bool {
	s.WMSCheckMutex.RLock()
	defer s.WMSCheckMutex.RUnlock()
	return s.WMSCheckInProgress
}

// GetCachedPrintCheck safely gets the cached print service status line.
func (s *StatusService) GetCachedPrintCheck() string {
	s.PrintCheckMutex.RLock()
	defer s.PrintCheckMutex.RUnlock()
	return s.PrintCheckCache
}

// SetCachedPrintCheck safely sets the cached print service status line.
func (s *StatusService) SetCachedPrintCheck(status string) {
	s.PrintCheckMutex.Lock()
	defer s.PrintCheckMutex.Unlock()
	s.PrintCheckCache = status
	s.PrintCheckCacheTime = time.Now()
}

// GetCachedPrintCheckTime safely gets the cached print status time.
func (s *StatusService) GetCachedPrintCheckTime() time.Time {
	s.PrintCheckMutex.RLock()
	defer s.PrintCheckMutex.RUnlock()
	return s.PrintCheckCacheTime
}

// SetPrintCheckInProgress safely sets the print check in progress flag.
func (s *StatusService) SetPrintCheckInProgress(inProgress bool) {
	s.PrintCheckMutex.Lock()
	defer s.PrintCheckMutex.Unlock()
	s.PrintCheckInProgress = inProgress
}

// IsPrintCheckInProgress safely checks if a print probe is in flight.
func (s *StatusService) IsPrintCheckInProgress() bool {
	s.PrintCheckMutex.RLock()
	defer s.PrintCheckMutex.RUnlock()
	return s.PrintCheckInProgress
}
