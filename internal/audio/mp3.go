// Package audio handles binary MP3 assembly: concatenating independently
// encoded segment files into one chapter track, re-encoding to fix duration
// metadata, and chunking text to the TTS provider's character limit.
package audio

// id3v2HeaderLen is the fixed ID3v2 header size preceding the tag body.
const id3v2HeaderLen = 10

// FindFirstFrame returns the offset of the first MPEG audio frame sync in
// buf, or -1. A frame starts with 0xFF followed by a byte whose top 3 bits
// are set (11 sync bits total).
func FindFirstFrame(buf []byte) int {
	for i := 0; i+1 < len(buf); i++ {
		if buf[i] == 0xFF && buf[i+1]&0xE0 == 0xE0 {
			return i
		}
	}
	return -1
}

// id3v2TagSize returns the total size of a leading ID3v2 tag (header plus
// body), or 0 when buf does not start with one. The body size is a 4-byte
// synchsafe integer at offset 6: big-endian with the top bit of each byte
// unused so tag bytes can never alias a frame sync.
func id3v2TagSize(buf []byte) int {
	if len(buf) < id3v2HeaderLen {
		return 0
	}
	if buf[0] != 'I' || buf[1] != 'D' || buf[2] != '3' {
		return 0
	}
	size := int(buf[6]&0x7F)<<21 |
		int(buf[7]&0x7F)<<14 |
		int(buf[8]&0x7F)<<7 |
		int(buf[9]&0x7F)
	return id3v2HeaderLen + size
}

// StripLeadingMetadata removes a leading ID3v2 tag and any residual bytes
// before the first frame sync, returning a slice that begins on a playable
// frame. Buffers with no recognizable frame after the tag are returned from
// the end of the tag; buffers with no tag and no sync are returned as-is.
func StripLeadingMetadata(buf []byte) []byte {
	if tagSize := id3v2TagSize(buf); tagSize > 0 {
		if tagSize > len(buf) {
			// Truncated tag; nothing playable follows.
			return buf[len(buf):]
		}
		rest := buf[tagSize:]
		if frameStart := FindFirstFrame(rest); frameStart >= 0 {
			return rest[frameStart:]
		}
		return rest
	}

	if frameStart := FindFirstFrame(buf); frameStart > 0 {
		return buf[frameStart:]
	}
	return buf
}

// Concatenate joins per-segment MP3 buffers into one chapter buffer. The
// first buffer is kept verbatim so the output carries its container
// metadata; every subsequent buffer is stripped to its first audio frame.
// Naive byte concatenation would leave ID3 tags between frames, which
// players render as corruption or audible artifacts.
func Concatenate(buffers [][]byte) []byte {
	if len(buffers) == 0 {
		return []byte{}
	}
	if len(buffers) == 1 {
		return buffers[0]
	}

	total := len(buffers[0])
	stripped := make([][]byte, 0, len(buffers)-1)
	for _, buf := range buffers[1:] {
		s := StripLeadingMetadata(buf)
		stripped = append(stripped, s)
		total += len(s)
	}

	out := make([]byte, 0, total)
	out = append(out, buffers[0]...)
	for _, s := range stripped {
		out = append(out, s...)
	}
	return out
}
