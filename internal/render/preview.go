// internal/render/preview.go
//
// Editor device preview.
//
// The editor shows the page inside a desktop or mobile frame.  The
// frame itself is the theme's `preview` template; the framed content is
// the same page render the public route produces, so what the operator
// sees is what publishes.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"github.com/brokerkit/brokerkit/internal/theme"
)

// Device selects the preview frame geometry.
type Device string

const (
	DeviceDesktop Device = "desktop"
	DeviceMobile  Device = "mobile"
)

// Valid reports whether d is a known device frame.
func (d Device) Valid() bool {
	return d == DeviceDesktop || d == DeviceMobile
}

// previewDot is the dot for the `preview` template.
type previewDot struct {
	*PageData
	Device Device
	Inner  template.HTML
}

// Preview renders the page wrapped in the device frame to w.  An
// unknown device falls back to desktop.
func Preview(w io.Writer, th *theme.Theme, device Device, data *PageData) error {
	if !device.Valid() {
		device = DeviceDesktop
	}
	if !th.Has("preview") {
		return fmt.Errorf("theme %s has no preview template", th.Name)
	}

	var inner bytes.Buffer
	if err := Page(&inner, th, data); err != nil {
		return err
	}

	var buf bytes.Buffer
	err := th.Renderer.ExecuteTemplate(&buf, "preview", previewDot{
		PageData: data,
		Device:   device,
		Inner:    template.HTML(inner.String()),
	})
	if err != nil {
		return fmt.Errorf("render preview: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}
