package imageproc

import (
	"bytes"
	"encoding/binary"
)

// headerProbes read dimensions from formats the image package has no
// decoder for. Each returns ok=false when data is not its format. ICO has
// the weakest signature and goes last.
var headerProbes = []func(data []byte) (width, height int, ok bool){
	probeISOBMFF,
	probePSD,
	probeICO,
}

// probeICO reads the first directory entry of an ICO or CUR file. A zero
// byte in the entry stands for 256.
func probeICO(data []byte) (int, int, bool) {
	const entryOffset = 6
	if len(data) < entryOffset+16 {
		return 0, 0, false
	}
	if binary.LittleEndian.Uint16(data[0:2]) != 0 {
		return 0, 0, false
	}
	if typ := binary.LittleEndian.Uint16(data[2:4]); typ != 1 && typ != 2 {
		return 0, 0, false
	}
	if binary.LittleEndian.Uint16(data[4:6]) == 0 {
		return 0, 0, false
	}

	side := func(b byte) int {
		if b == 0 {
			return 256
		}
		return int(b)
	}
	return side(data[entryOffset]), side(data[entryOffset+1]), true
}

// probeISOBMFF reads the image spatial extents ("ispe") property of an
// AVIF or HEIF file: ftyp, then meta/iprp/ipco/ispe. When several ispe
// boxes are present (thumbnails, alpha planes) the largest is taken.
func probeISOBMFF(data []byte) (int, int, bool) {
	top := isoBoxes(data)
	if len(top) == 0 || top[0].typ != "ftyp" {
		return 0, 0, false
	}

	meta, ok := findBox(top, "meta")
	// meta is a full box: version and flags precede its children.
	if !ok || len(meta) < 4 {
		return 0, 0, false
	}
	iprp, ok := findBox(isoBoxes(meta[4:]), "iprp")
	if !ok {
		return 0, 0, false
	}
	ipco, ok := findBox(isoBoxes(iprp), "ipco")
	if !ok {
		return 0, 0, false
	}

	var width, height int
	for _, b := range isoBoxes(ipco) {
		if b.typ != "ispe" || len(b.payload) < 12 {
			continue
		}
		w := int(binary.BigEndian.Uint32(b.payload[4:8]))
		h := int(binary.BigEndian.Uint32(b.payload[8:12]))
		if w*h > width*height {
			width, height = w, h
		}
	}
	if width == 0 || height == 0 {
		return 0, 0, false
	}
	return width, height, true
}

// probePSD reads the Photoshop file header.
func probePSD(data []byte) (int, int, bool) {
	if len(data) < 26 || !bytes.HasPrefix(data, []byte("8BPS")) {
		return 0, 0, false
	}
	h := int(binary.BigEndian.Uint32(data[14:18]))
	w := int(binary.BigEndian.Uint32(data[18:22]))
	if w == 0 || h == 0 {
		return 0, 0, false
	}
	return w, h, true
}

type isoBox struct {
	typ     string
	payload []byte
}

// isoBoxes splits data into consecutive ISOBMFF boxes, stopping at the
// first malformed header.
func isoBoxes(data []byte) []isoBox {
	var boxes []isoBox
	for len(data) >= 8 {
		size := uint64(binary.BigEndian.Uint32(data[0:4]))
		typ := string(data[4:8])
		header := uint64(8)

		switch size {
		case 0:
			// Extends to the end of the enclosing data.
			size = uint64(len(data))
		case 1:
			if len(data) < 16 {
				return boxes
			}
			size = binary.BigEndian.Uint64(data[8:16])
			header = 16
		}
		if size < header || size > uint64(len(data)) {
			return boxes
		}

		boxes = append(boxes, isoBox{typ: typ, payload: data[header:size]})
		data = data[size:]
	}
	return boxes
}

func findBox(boxes []isoBox, typ string) ([]byte, bool) {
	for _, b := range boxes {
		if b.typ == typ {
			return b.payload, true
		}
	}
	return nil, false
}
