package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// Decoded is the normalized result of turning an uploaded byte buffer into
// analysis samples. Samples is the first channel only, scaled to [-1,1].
type Decoded struct {
	Samples    []float64
	SampleRate int
	Channels   int
	Codec      string
	// Bitrate is bits per second; 0 when the container reports none and the
	// payload is too degenerate to estimate.
	Bitrate     int
	DurationSec float64
	// Placeholder is true when the samples are a synthesized silence buffer
	// (metadata-only or last-resort decode). Downstream analyzers still run on
	// placeholder buffers; they just produce fallback-flavored features.
	Placeholder bool
}

const (
	defaultSampleRate  = 44100
	defaultChannels    = 2
	placeholderSeconds = 10
)

// Decode turns raw bytes plus a declared media type into normalized mono PCM.
// It never returns an error: unsupported containers degrade to a metadata-only
// placeholder, and a totally unrecognizable buffer degrades to 10 seconds of
// stereo silence at 44.1 kHz. Whether degraded input fails the job is the
// orchestrator's call, not the decoder's.
func Decode(data []byte, mimeType, filename string) *Decoded {
	switch {
	case looksLikeWAV(data):
		if d := decodeWAV(data); d != nil {
			return d
		}
	case looksLikeMP3(data, mimeType, filename):
		if d := decodeMP3(data); d != nil {
			return d
		}
	case looksLikeFLAC(data):
		if sr, ch, ok := flacStreamInfo(data); ok {
			return placeholder(sr, ch, "flac", len(data))
		}
	case looksLikeOgg(data):
		if sr, ch, ok := vorbisIdent(data); ok {
			return placeholder(sr, ch, "vorbis", len(data))
		}
	}
	return placeholder(defaultSampleRate, defaultChannels, "unknown", len(data))
}

func looksLikeWAV(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE"))
}

func looksLikeMP3(data []byte, mimeType, filename string) bool {
	if len(data) >= 3 && bytes.Equal(data[0:3], []byte("ID3")) {
		return true
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0 {
		return true
	}
	return mimeType == "audio/mpeg" || mimeType == "audio/mp3" ||
		strings.HasSuffix(strings.ToLower(filename), ".mp3")
}

func looksLikeFLAC(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[0:4], []byte("fLaC"))
}

func looksLikeOgg(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[0:4], []byte("OggS"))
}

// decodeWAV parses a RIFF/WAVE container and extracts the first channel of
// 16-bit linear PCM. Other sample formats fall back to a placeholder carrying
// the header's rate and channel count.
func decodeWAV(data []byte) *Decoded {
	var (
		audioFormat uint16
		channels    uint16
		sampleRate  uint32
		byteRate    uint32
		blockAlign  uint16
		bits        uint16
		pcm         []byte
		haveFmt     bool
	)

	// Chunks follow the 12-byte RIFF header as (id, size, payload) triples.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			break
		}
		switch id {
		case "fmt ":
			if size >= 16 {
				audioFormat = binary.LittleEndian.Uint16(data[body : body+2])
				channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
				sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
				byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
				blockAlign = binary.LittleEndian.Uint16(data[body+12 : body+14])
				bits = binary.LittleEndian.Uint16(data[body+14 : body+16])
				haveFmt = true
			}
		case "data":
			pcm = data[body : body+size]
		}
		// Chunk payloads are word-aligned.
		off = body + size + size%2
	}

	if !haveFmt || sampleRate == 0 || channels == 0 {
		return nil
	}
	if audioFormat != 1 || bits != 16 || len(pcm) == 0 || blockAlign == 0 {
		// Header understood but payload isn't plain PCM16; keep the metadata.
		return placeholder(int(sampleRate), int(channels), "wav", len(data))
	}

	frames := len(pcm) / int(blockAlign)
	samples := make([]float64, 0, frames)
	for i := 0; i+1 < len(pcm); i += int(blockAlign) {
		s := int16(binary.LittleEndian.Uint16(pcm[i : i+2]))
		samples = append(samples, float64(s)/32768.0)
	}

	bitrate := int(byteRate) * 8
	duration := float64(frames) / float64(sampleRate)
	return &Decoded{
		Samples:     samples,
		SampleRate:  int(sampleRate),
		Channels:    int(channels),
		Codec:       "pcm_s16le",
		Bitrate:     bitrate,
		DurationSec: duration,
	}
}

// decodeMP3 fully decodes an MPEG stream. go-mp3 always emits 16-bit
// little-endian stereo; the left channel becomes the analysis channel.
func decodeMP3(data []byte) *Decoded {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	var samples []float64
	buf := make([]byte, 8192)
	for {
		n, err := dec.Read(buf)
		// 4 bytes per stereo frame; keep the left int16 of each.
		for i := 0; i+3 < n; i += 4 {
			s := int16(binary.LittleEndian.Uint16(buf[i : i+2]))
			samples = append(samples, float64(s)/32768.0)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil
		}
	}
	if len(samples) == 0 {
		return nil
	}

	sr := dec.SampleRate()
	duration := float64(len(samples)) / float64(sr)
	bitrate := 0
	if duration > 0 {
		bitrate = int(float64(len(data)*8) / duration)
	}
	return &Decoded{
		Samples:     samples,
		SampleRate:  sr,
		Channels:    2,
		Codec:       "mp3",
		Bitrate:     bitrate,
		DurationSec: duration,
	}
}

// flacStreamInfo reads sample rate and channel count from the mandatory
// STREAMINFO block. The frames themselves stay undecoded.
func flacStreamInfo(data []byte) (sampleRate, channels int, ok bool) {
	// "fLaC" + 4-byte block header + 34-byte STREAMINFO.
	if len(data) < 42 {
		return 0, 0, false
	}
	si := data[8:42]
	sampleRate = int(uint32(si[10])<<12 | uint32(si[11])<<4 | uint32(si[12])>>4)
	channels = int((si[12]>>1)&0x07) + 1
	if sampleRate == 0 {
		return 0, 0, false
	}
	return sampleRate, channels, true
}

// vorbisIdent scans the first Ogg page for the Vorbis identification header.
func vorbisIdent(data []byte) (sampleRate, channels int, ok bool) {
	limit := len(data)
	if limit > 4096 {
		limit = 4096
	}
	idx := bytes.Index(data[:limit], []byte("\x01vorbis"))
	if idx < 0 || idx+16 > len(data) {
		return 0, 0, false
	}
	// id header: "\x01vorbis" version(4) channels(1) sample_rate(4 LE)
	channels = int(data[idx+11])
	sampleRate = int(binary.LittleEndian.Uint32(data[idx+12 : idx+16]))
	if sampleRate == 0 || channels == 0 {
		return 0, 0, false
	}
	return sampleRate, channels, true
}

// placeholder synthesizes a zero-filled sample buffer of plausible length so
// the rest of the pipeline can run against metadata-only decodes.
func placeholder(sampleRate, channels int, codec string, payloadLen int) *Decoded {
	duration := float64(placeholderSeconds)
	bitrate := 0
	if payloadLen > 0 {
		bitrate = int(float64(payloadLen*8) / duration)
	}
	return &Decoded{
		Samples:     make([]float64, sampleRate*placeholderSeconds),
		SampleRate:  sampleRate,
		Channels:    channels,
		Codec:       codec,
		Bitrate:     bitrate,
		DurationSec: duration,
		Placeholder: true,
	}
}
