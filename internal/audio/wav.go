package audio

import (
	"encoding/binary"
)

const wavHeaderSize = 44

// WAVHeader describes a 16-bit PCM WAV header.
type WAVHeader struct {
	// RIFF chunk descriptor
	ChunkID   [4]byte // "RIFF"
	ChunkSize uint32  // 4 + (8 + Subchunk1Size) + (8 + Subchunk2Size)
	Format    [4]byte // "WAVE"

	// "fmt " sub-chunk
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 for PCM
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32 // SampleRate * NumChannels * BitsPerSample/8
	BlockAlign    uint16 // NumChannels * BitsPerSample/8
	BitsPerSample uint16

	// "data" sub-chunk
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32
}

// EncodeWAV wraps raw 16-bit mono PCM in a complete WAV container.
func EncodeWAV(pcm []byte, sampleRate int) []byte {
	out := make([]byte, 0, wavHeaderSize+len(pcm))
	out = append(out, wavHeaderBytes(sampleRate, 1, uint32(len(pcm)))...)
	return append(out, pcm...)
}

// wavHeaderBytes builds the 44-byte header for a PCM payload of the
// given size.
func wavHeaderBytes(sampleRate, channels int, dataSize uint32) []byte {
	bitsPerSample := uint16(16)
	byteRate := uint32(sampleRate * channels * int(bitsPerSample/8))
	blockAlign := uint16(channels * int(bitsPerSample/8))

	header := WAVHeader{
		ChunkID:   [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize: 36 + dataSize,
		Format:    [4]byte{'W', 'A', 'V', 'E'},

		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1,
		NumChannels:   uint16(channels),
		SampleRate:    uint32(sampleRate),
		ByteRate:      byteRate,
		BlockAlign:    blockAlign,
		BitsPerSample: bitsPerSample,

		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	headerBytes := make([]byte, wavHeaderSize)

	copy(headerBytes[0:4], header.ChunkID[:])
	binary.LittleEndian.PutUint32(headerBytes[4:8], header.ChunkSize)
	copy(headerBytes[8:12], header.Format[:])

	copy(headerBytes[12:16], header.Subchunk1ID[:])
	binary.LittleEndian.PutUint32(headerBytes[16:20], header.Subchunk1Size)
	binary.LittleEndian.PutUint16(headerBytes[20:22], header.AudioFormat)
	binary.LittleEndian.PutUint16(headerBytes[22:24], header.NumChannels)
	binary.LittleEndian.PutUint32(headerBytes[24:28], header.SampleRate)
	binary.LittleEndian.PutUint32(headerBytes[28:32], header.ByteRate)
	binary.LittleEndian.PutUint16(headerBytes[32:34], header.BlockAlign)
	binary.LittleEndian.PutUint16(headerBytes[34:36], header.BitsPerSample)

	copy(headerBytes[36:40], header.Subchunk2ID[:])
	binary.LittleEndian.PutUint32(headerBytes[40:44], header.Subchunk2Size)

	return headerBytes
}
