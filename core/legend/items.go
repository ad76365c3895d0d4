package legend

// Item is one entry in a legend block's item list. A block usually holds a
// title item followed by one or more image items, but the list may carry
// anything; unknown entries are left alone.
type Item interface{}

// ImageItem is an Item that displays a legend graphic loaded from a URL.
// Implementations live in the UI layer; this package only repoints them.
type ImageItem interface {
	Item
	LegendURL() string
	SetLegendURL(url string)
}

// Reconcile brings a block's items in line with the layer's current legend
// URL. The title item, identified by isTitle, is never touched even when it
// happens to implement ImageItem. Every other image item is repointed at
// url. If the block holds no image item yet, one is appended via newImage.
//
// The returned slice is the block's new item list. Reconciling twice with
// the same URL changes nothing the second time.
func Reconcile(items []Item, isTitle func(Item) bool, url string, newImage func(url string) ImageItem) []Item {
	hasImage := false
	for _, it := range items {
		if isTitle != nil && isTitle(it) {
			continue
		}
		if img, ok := it.(ImageItem); ok {
			img.SetLegendURL(url)
			hasImage = true
		}
	}
	if !hasImage && newImage != nil {
		items = append(items, newImage(url))
	}
	return items
}
