package display

import (
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// ST7735 command bytes (subset this driver needs).
const (
	cmdSWRESET = 0x01
	cmdSLPOUT  = 0x11
	cmdDISPON  = 0x29
	cmdCASET   = 0x2A
	cmdRASET   = 0x2B
	cmdRAMWR   = 0x2C
	cmdMADCTL  = 0x36
	cmdCOLMOD  = 0x3A
)

const (
	spiSpeed = 16 * physic.MegaHertz
	// Linux spidev transfers are capped; stay under the usual 4096 limit.
	maxChunk = 4096
)

// ST7735 drives one 128x160 TFT over SPI with separate DC and RST lines.
type ST7735 struct {
	port spi.PortCloser
	conn spi.Conn
	dc   gpio.PinOut
	rst  gpio.PinOut
	w, h int
}

// OpenST7735 opens the SPI port and GPIO pins by name (e.g. "SPI0.0",
// "GPIO25", "GPIO23") and runs the panel init sequence. periph's host
// must already be initialized.
func OpenST7735(spiPort, dcPin, rstPin string, w, h int) (*ST7735, error) {
	port, err := spireg.Open(spiPort)
	if err != nil {
		return nil, fmt.Errorf("open spi %s: %w", spiPort, err)
	}
	conn, err := port.Connect(spiSpeed, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("connect spi %s: %w", spiPort, err)
	}

	dc := gpioreg.ByName(dcPin)
	if dc == nil {
		_ = port.Close()
		return nil, fmt.Errorf("unknown dc pin %q", dcPin)
	}
	rst := gpioreg.ByName(rstPin)
	if rst == nil {
		_ = port.Close()
		return nil, fmt.Errorf("unknown rst pin %q", rstPin)
	}

	d := &ST7735{port: port, conn: conn, dc: dc, rst: rst, w: w, h: h}
	if err := d.init(); err != nil {
		_ = port.Close()
		return nil, err
	}
	return d, nil
}

// init performs a hardware reset and the minimal wake-up sequence:
// 16-bit color, default scan order, display on.
func (d *ST7735) init() error {
	if err := d.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("reset low: %w", err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("reset high: %w", err)
	}
	time.Sleep(50 * time.Millisecond)

	steps := []struct {
		cmd   byte
		data  []byte
		delay time.Duration
	}{
		{cmd: cmdSWRESET, delay: 150 * time.Millisecond},
		{cmd: cmdSLPOUT, delay: 150 * time.Millisecond},
		{cmd: cmdCOLMOD, data: []byte{0x05}}, // RGB565
		{cmd: cmdMADCTL, data: []byte{0x00}},
		{cmd: cmdDISPON, delay: 100 * time.Millisecond},
	}
	for _, s := range steps {
		if err := d.command(s.cmd, s.data...); err != nil {
			return err
		}
		if s.delay > 0 {
			time.Sleep(s.delay)
		}
	}
	return nil
}

// Draw writes one full portrait frame. The image must match the panel
// geometry; anything else is a programming error upstream.
func (d *ST7735) Draw(img image.Image) error {
	b := img.Bounds()
	if b.Dx() != d.w || b.Dy() != d.h {
		return fmt.Errorf("frame is %dx%d, panel is %dx%d", b.Dx(), b.Dy(), d.w, d.h)
	}

	if err := d.setWindow(); err != nil {
		return err
	}

	buf := make([]byte, 0, d.w*d.h*2)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			px := uint16(r>>11)<<11 | uint16(g>>10)<<5 | uint16(bl>>11)
			buf = append(buf, byte(px>>8), byte(px))
		}
	}

	if err := d.command(cmdRAMWR); err != nil {
		return err
	}
	return d.data(buf)
}

// Close releases the SPI port.
func (d *ST7735) Close() error {
	return d.port.Close()
}

// setWindow addresses the full panel for the next RAMWR.
func (d *ST7735) setWindow() error {
	if err := d.command(cmdCASET, 0, 0, 0, byte(d.w-1)); err != nil {
		return err
	}
	return d.command(cmdRASET, 0, 0, 0, byte(d.h-1))
}

// command sends one command byte (DC low) and its parameters (DC high).
func (d *ST7735) command(cmd byte, params ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return err
	}
	if err := d.conn.Tx([]byte{cmd}, nil); err != nil {
		return fmt.Errorf("cmd 0x%02x: %w", cmd, err)
	}
	if len(params) == 0 {
		return nil
	}
	return d.data(params)
}

// data sends a payload with DC high, chunked to the spidev transfer cap.
func (d *ST7735) data(buf []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return err
	}
	for len(buf) > 0 {
		n := len(buf)
		if n > maxChunk {
			n = maxChunk
		}
		if err := d.conn.Tx(buf[:n], nil); err != nil {
			return fmt.Errorf("data tx: %w", err)
		}
		buf = buf[n:]
	}
	return nil
}
