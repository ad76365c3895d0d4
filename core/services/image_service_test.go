package services

import (
	"context"
	"fmt"
	"image"
	"testing"
)

func countingFetch(calls *int) func(ctx context.Context, url string) (image.Image, error) {
	return func(ctx context.Context, url string) (image.Image, error) {
		*calls++
		return image.NewRGBA(image.Rect(0, 0, 10, 10)), nil
	}
}

func TestImageServiceCachesByURL(t *testing.T) {
	calls := 0
	is, err := NewImageService(countingFetch(&calls))
	if err != nil {
		t.Fatalf("NewImageService: %v", err)
	}
	defer is.Close()

	ctx := context.Background()
	if _, err := is.Get(ctx, "http://wms/a"); err != nil {
		t.Fatalf("first Get: %v", err)
	}
	if _, err := is.Get(ctx, "http://wms/a"); err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if calls != 1 {
		t.Errorf("fetch ran %d times for one URL; want 1", calls)
	}

	if _, err := is.Get(ctx, "http://wms/b"); err != nil {
		t.Fatalf("third Get: %v", err)
	}
	if calls != 2 {
		t.Errorf("fetch ran %d times for two URLs; want 2", calls)
	}
}

func TestImageServicePropagatesErrors(t *testing.T) {
	calls := 0
	is, err := NewImageService(func(ctx context.Context, url string) (image.Image, error) {
		calls++
		return nil, fmt.Errorf("server unreachable")
	})
	if err != nil {
		t.Fatalf("NewImageService: %v", err)
	}
	defer is.Close()

	ctx := context.Background()
	if _, err := is.Get(ctx, "http://wms/a"); err == nil {
		t.Fatal("expected fetch error")
	}
	// Failures must not be cached.
	if _, err := is.Get(ctx, "http://wms/a"); err == nil {
		t.Fatal("expected fetch error on retry")
	}
	if calls != 2 {
		t.Errorf("fetch ran %d times; want 2", calls)
	}
}

func TestImageServiceInvalidate(t *testing.T) {
	calls := 0
	is, err := NewImageService(countingFetch(&calls))
	if err != nil {
		t.Fatalf("NewImageService: %v", err)
	}
	defer is.Close()

	ctx := context.Background()
	is.Get(ctx, "http://wms/a")
	is.Invalidate()
	is.Get(ctx, "http://wms/a")

	if calls != 2 {
		t.Errorf("fetch ran %d times across an invalidation; want 2", calls)
	}
}

func TestNewImageServiceRequiresFetch(t *testing.T) {
	if _, err := NewImageService(nil); err == nil {
		t.Error("expected error for nil fetch function")
	}
}
