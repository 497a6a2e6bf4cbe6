package palette

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/image/riff"
)

// A .pal file is a RIFF "PAL " form holding one or more "data" chunks, each
// a LOGPALETTE: palVersion (0x0300), palNumEntries, then 4 bytes per entry
// (red, green, blue, flags). All words are little-endian.

const palVersion = 0x0300

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// ReadRIFF reads every palette in a RIFF .pal stream and concatenates them.
// Entries are opaque; the flags byte is not an alpha channel.
func ReadRIFF(r io.Reader) (Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	return readChunks(rd, "PAL")
}

func readChunks(r *riff.Reader, ident string) (Palette, error) {
	var res Palette
	for i := 0; ; i++ {
		id, size, data, err := r.Next()
		if errors.Is(err, io.EOF) {
			return res, nil
		} else if err != nil {
			return res, fmt.Errorf("could not read chunk %s#%d: %w", ident, i, err)
		}

		switch id {
		case riff.LIST:
			listType, list, err := riff.NewListReader(size, data)
			if err != nil {
				return res, fmt.Errorf("could not read list from chunk %s#%d: %w", ident, i, err)
			} else if listType != palType {
				return res, fmt.Errorf("chunk %s#%d unsupported list type: %s", ident, i, string(listType[:]))
			}
			sub, err := readChunks(list, fmt.Sprintf("%s#%d", ident, i))
			res = append(res, sub...)
			if err != nil {
				return res, err
			}
		case dataType:
			pal, err := readLogPalette(data)
			if err != nil {
				return res, fmt.Errorf("chunk %s#%d: %w", ident, i, err)
			}
			res = append(res, pal...)
		default:
			return res, fmt.Errorf("unsupported chunk type in %s#%d: %s", ident, i, string(id[:]))
		}
	}
}

func readLogPalette(r io.Reader) (Palette, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("could not read palette header: %w", err)
	}

	if ver := binary.LittleEndian.Uint16(hdr[0:2]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version: %#04x", ver)
	}

	count := int(binary.LittleEndian.Uint16(hdr[2:4]))
	entries := make([]byte, count*4)
	if _, err := io.ReadFull(r, entries); err != nil {
		return nil, fmt.Errorf("could not read %d palette entries: %w", count, err)
	}

	pal := make(Palette, count)
	for i := range pal {
		e := entries[i*4 : i*4+4]
		pal[i] = RGB(e[0], e[1], e[2])
	}
	return pal, nil
}

// WriteRIFF writes the palette as a single-chunk RIFF .pal stream. Alpha is
// dropped. It returns the number of bytes written.
func WriteRIFF(w io.Writer, pal Palette) (int64, error) {
	if len(pal) > 0xFFFF {
		return 0, fmt.Errorf("too many colors for a .pal file: %d", len(pal))
	}

	chunkSize := 4 + len(pal)*4
	buf := make([]byte, 0, 12+8+chunkSize)
	buf = append(buf, riffType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(4+8+chunkSize))
	buf = append(buf, palType[:]...)
	buf = append(buf, dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(chunkSize))
	buf = binary.LittleEndian.AppendUint16(buf, palVersion)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(pal)))
	for _, c := range pal {
		buf = append(buf, c.R, c.G, c.B, 0)
	}

	n, err := w.Write(buf)
	if err != nil {
		return int64(n), fmt.Errorf("could not write palette: %w", err)
	}
	return int64(n), nil
}
