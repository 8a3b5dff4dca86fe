package display

import (
	"fmt"

	"printer_dashboard/internal/config"
)

// Panel pixel geometry: the ST7735 scans 128x160 portrait.
const (
	PanelW = 128
	PanelH = 160
)

// OpenPanels opens every configured panel and returns sinks in config
// order plus a closer for all underlying SPI ports. On any failure the
// already-opened ports are closed before returning.
func OpenPanels(panels []config.Panel) ([]*PanelSink, func(), error) {
	var devs []*ST7735
	closeAll := func() {
		for _, d := range devs {
			_ = d.Close()
		}
	}

	sinks := make([]*PanelSink, 0, len(panels))
	for _, p := range panels {
		dev, err := OpenST7735(p.SPIPort, p.DCPin, p.RSTPin, PanelW, PanelH)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("panel %s: %w", p.Name, err)
		}
		devs = append(devs, dev)
		sinks = append(sinks, NewPanelSink(dev, p.Flip180, p.OffsetX, p.OffsetY))
	}
	return sinks, closeAll, nil
}
