package hw

import (
	"cmp"
	"slices"
)

type bgPixel struct {
	color uint8 // 2-bit color index, 0 is transparent to sprites
	pal   uint8
	pri   bool
}

type objPixel struct {
	color  uint8
	pal    uint8 // enhanced: palette index; classic: OBP0/OBP1 select
	bgOver bool
}

type sprite struct {
	y, x, tile, attrs uint8
}

func (p *Ppu) objHeight() int {
	if p.LCDC.Value&0x04 != 0 {
		return 16
	}
	return 8
}

// selectObjects picks up to 10 sprites covering scanline ly, in table order.
// Classic mode re-sorts them by ascending x, preserving table order on ties.
func (p *Ppu) selectObjects(ly uint8, out []sprite) []sprite {
	height := p.objHeight()
	target := int(ly) + 16

	out = out[:0]
	// 40 records; the OAM buffer is padded past 0xA0 for mapping purposes
	for i := 0; i < 0xA0 && len(out) < 10; i += 4 {
		sy := int(p.OAM.Data[i])
		if sy <= target && target < sy+height {
			out = append(out, sprite{
				y:     p.OAM.Data[i],
				x:     p.OAM.Data[i+1],
				tile:  p.OAM.Data[i+2],
				attrs: p.OAM.Data[i+3],
			})
		}
	}
	if !p.CGB {
		slices.SortStableFunc(out, func(a, b sprite) int {
			return cmp.Compare(a.x, b.x)
		})
	}
	return out
}

func (p *Ppu) windowAt(lx uint8) bool {
	return p.LCDC.Value&0x20 != 0 &&
		p.LY.Value >= p.WY.Value &&
		lx+7 >= p.WX.Value
}

func (p *Ppu) fetchBGPixel(lx uint8) bgPixel {
	lcdc := p.LCDC.Value

	var x, y, mapSel uint8
	if p.windowAt(lx) {
		x = lx + 7 - p.WX.Value
		y = uint8(p.winLine)
		mapSel = lcdc >> 6 & 1
	} else {
		x = lx + p.SCX.Value
		y = p.LY.Value + p.SCY.Value
		mapSel = lcdc >> 3 & 1
	}

	mapAddr := 0x1800 | uint16(mapSel)<<10 | uint16(y>>3)<<5 | uint16(x>>3)
	tileID := p.vram[0][mapAddr]
	var attrs uint8
	if p.CGB {
		attrs = p.vram[1][mapAddr]
	}

	yOff := y & 7
	if attrs&0x40 != 0 {
		yOff = 7 - yOff
	}
	bit := 7 - x&7
	if attrs&0x20 != 0 {
		bit = x & 7
	}

	// tile data base: 0x8000 unsigned-id mode, or 0x9000 signed-id mode for
	// ids below 0x80
	addrModeBit := ^(lcdc>>4 | tileID>>7) & 1
	dataAddr := uint16(addrModeBit)<<12 | uint16(tileID)<<4 | uint16(yOff)<<1

	bank := 0
	if p.CGB && attrs&0x08 != 0 {
		bank = 1
	}
	lo := p.vram[bank][dataAddr]
	hi := p.vram[bank][dataAddr+1]

	px := bgPixel{
		color: (hi>>bit&1)<<1 | lo>>bit&1,
		pri:   attrs&0x80 != 0,
	}
	if p.CGB {
		px.pal = attrs & 7
	}
	return px
}

func (p *Ppu) fetchObjPixel(objs []sprite, lx uint8) (objPixel, bool) {
	height := p.objHeight()
	target := int(lx) + 8

	for _, o := range objs {
		ox := int(o.x)
		if target < ox || target >= ox+8 {
			continue
		}
		row := int(p.LY.Value) + 16 - int(o.y)
		if o.attrs&0x40 != 0 {
			row = height - 1 - row
		}
		tile := o.tile
		if height == 16 {
			tile = tile&0xFE | uint8(row>>3)
		}

		bit := 7 - uint8(target-ox)
		if o.attrs&0x20 != 0 {
			bit = uint8(target - ox)
		}
		bank := 0
		if p.CGB && o.attrs&0x08 != 0 {
			bank = 1
		}
		dataAddr := uint16(tile)<<4 | uint16(row&7)<<1
		lo := p.vram[bank][dataAddr]
		hi := p.vram[bank][dataAddr+1]

		color := (hi>>bit&1)<<1 | lo>>bit&1
		if color == 0 {
			continue
		}
		pal := o.attrs >> 4 & 1
		if p.CGB {
			pal = o.attrs & 7
		}
		return objPixel{color: color, pal: pal, bgOver: o.attrs&0x80 != 0}, true
	}
	return objPixel{}, false
}

// objWins resolves sprite-vs-background priority for a non-transparent
// sprite pixel over a non-transparent background pixel.
func (p *Ppu) objWins(bg bgPixel, obj objPixel) bool {
	if p.CGB {
		if p.LCDC.Value&0x01 == 0 {
			return true // master priority off: sprites always in front
		}
		return !bg.pri && !obj.bgOver
	}
	return !obj.bgOver
}

func palColor(ram []uint8, pal, idx uint8) uint16 {
	off := int(pal)*8 + int(idx)*2
	return uint16(ram[off]) | uint16(ram[off+1])<<8
}

func (p *Ppu) bgColor(bg bgPixel) uint16 {
	idx := bg.color
	if !p.CGB {
		idx = p.BGP.Value >> (2 * bg.color) & 3
	}
	return palColor(p.bgPal[:], bg.pal, idx)
}

func (p *Ppu) objColor(obj objPixel) uint16 {
	idx := obj.color
	if !p.CGB {
		reg := p.OBP0.Value
		if obj.pal != 0 {
			reg = p.OBP1.Value
		}
		idx = reg >> (2 * obj.color) & 3
	}
	return palColor(p.objPal[:], obj.pal, idx)
}

const white = 0x7FFF

func (p *Ppu) drawScanline(fb []uint8) {
	ly := p.LY.Value
	var sprbuf [10]sprite
	objs := p.selectObjects(ly, sprbuf[:0])
	objsEnabled := p.LCDC.Value&0x02 != 0
	bgBlank := !p.CGB && p.LCDC.Value&0x01 == 0

	windowUsed := false
	for lx := uint8(0); lx < ScreenWidth; lx++ {
		bg := bgPixel{}
		if !bgBlank {
			bg = p.fetchBGPixel(lx)
			windowUsed = windowUsed || p.windowAt(lx)
		}

		var c uint16
		obj, hasObj := objPixel{}, false
		if objsEnabled {
			obj, hasObj = p.fetchObjPixel(objs, lx)
		}
		switch {
		case hasObj && (bg.color == 0 || p.objWins(bg, obj)):
			c = p.objColor(obj)
		case bgBlank:
			c = white
		default:
			c = p.bgColor(bg)
		}

		putPixel(fb, int(ly)*ScreenWidth+int(lx), c)
	}
	if windowUsed {
		p.winLine++
	}
}

// putPixel rescales a 15-bit color to RGBA8888.
func putPixel(fb []uint8, idx int, c uint16) {
	fb[idx*4+0] = uint8(int(c&0x1F) * 0xFF / 0x1F)
	fb[idx*4+1] = uint8(int(c>>5&0x1F) * 0xFF / 0x1F)
	fb[idx*4+2] = uint8(int(c>>10&0x1F) * 0xFF / 0x1F)
	fb[idx*4+3] = 0xFF
}

// WhiteFrame blanks the whole frame buffer, as shown while the display is
// re-enabled mid-frame.
func WhiteFrame(fb []uint8) {
	for i := range fb {
		fb[i] = 0xFF
	}
}
