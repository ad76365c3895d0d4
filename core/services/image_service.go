package services

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"mapprint-studio/internal/debuglog"
)

// imageTTL ages cached graphics out so server-side style changes
// eventually show up without a restart.
const imageTTL = 15 * time.Minute

// ImageService caches rendered map and legend graphics keyed by request
// URL, so panning back and forth does not hammer the WMS. Eviction is by
// approximate pixel cost with a hard byte budget.
type ImageService struct {
	cache *ristretto.Cache[string, image.Image]

	// FetchFunc performs the actual download on a miss. Passed from
	// AppController so the service stays transport-agnostic.
	FetchFunc func(ctx context.Context, url string) (image.Image, error)
}

// NewImageService creates the cache. fetch must not be nil.
func NewImageService(fetch func(ctx context.Context, url string) (image.Image, error)) (*ImageService, error) {
	if fetch == nil {
		return nil, fmt.Errorf("image service: fetch function is required")
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, image.Image]{
		NumCounters: 10_000,
		MaxCost:     256 << 20, // ~256 MB of decoded pixels
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("image service: init cache: %w", err)
	}
	return &ImageService{cache: cache, FetchFunc: fetch}, nil
}

// Get returns the image for url, downloading it on a cache miss.
func (is *ImageService) Get(ctx context.Context, url string) (image.Image, error) {
	if img, ok := is.cache.Get(url); ok {
		debuglog.Log("imagecache", debuglog.LevelTrace, debuglog.UseGlobal, "hit: %s", url)
		return img, nil
	}

	img, err := is.FetchFunc(ctx, url)
	if err != nil {
		return nil, err
	}

	is.cache.SetWithTTL(url, img, imageCost(img), imageTTL)
	is.cache.Wait()
	return img, nil
}

// Invalidate drops every cached graphic. Wired to the reload actions.
func (is *ImageService) Invalidate() {
	is.cache.Clear()
}

// Close releases the cache's internal goroutines.
func (is *ImageService) Close() {
	is.cache.Close()
}

// imageCost approximates decoded size as 4 bytes per pixel.
func imageCost(img image.Image) int64 {
	b := img.Bounds()
	cost := int64(b.Dx()) * int64(b.Dy()) * 4
	if cost <= 0 {
		cost = 1
	}
	return cost
}
