// Package qrcode renders tracking links for orders as PNG QR codes.
package qrcode

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels
const DefaultSize = 256

// Generator builds tracking QR codes against a public base URL
type Generator struct {
	BaseURL string
	Size    int
}

// NewGenerator creates a generator for links under baseURL
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Size:    DefaultSize,
	}
}

// TrackingURL returns the public tracking link for an order reference
func (g *Generator) TrackingURL(reference string) string {
	return fmt.Sprintf("%s/api/v1/orders/track/%s", g.BaseURL, url.PathEscape(reference))
}

// Generate encodes the tracking link for reference as a PNG
func (g *Generator) Generate(reference string) ([]byte, error) {
	size := g.Size
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(g.TrackingURL(reference), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	return png, nil
}
