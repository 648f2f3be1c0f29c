package main

import (
	"github.com/gordonklaus/portaudio"
)

const (
	sampleRate             = 16000
	defaultFramesPerBuffer = 1024
)

// MicrophoneReader captures 16-bit mono PCM at 16kHz from the default input
// device and exposes it as an io.ReadCloser.
type MicrophoneReader struct {
	stream *portaudio.Stream
	buffer []int16
}

// NewMicrophoneReader initializes PortAudio, opens the default input stream
// and starts recording. framesPerBuffer is the number of samples captured
// per Read; values below 1 fall back to the default. The caller must
// Close() to release the device.
func NewMicrophoneReader(framesPerBuffer int) (*MicrophoneReader, error) {
	if framesPerBuffer < 1 {
		framesPerBuffer = defaultFramesPerBuffer
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	buffer := make([]int16, framesPerBuffer)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), len(buffer), buffer)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, err
	}

	return &MicrophoneReader{
		stream: stream,
		buffer: buffer,
	}, nil
}

// FrameBytes returns the size in bytes of one captured frame.
func (m *MicrophoneReader) FrameBytes() int {
	return len(m.buffer) * 2
}

// Read captures one frame from the microphone into p as little-endian bytes.
func (m *MicrophoneReader) Read(p []byte) (int, error) {
	if err := m.stream.Read(); err != nil {
		return 0, err
	}

	n := copy(p, int16SliceToByteSlice(m.buffer))
	return n, nil
}

// Close stops and closes the stream, then terminates PortAudio.
func (m *MicrophoneReader) Close() error {
	var err error
	if m.stream != nil {
		if stopErr := m.stream.Stop(); stopErr != nil {
			err = stopErr
		}
		if closeErr := m.stream.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	portaudio.Terminate()
	return err
}

// int16SliceToByteSlice converts int16 samples to little-endian bytes.
func int16SliceToByteSlice(in []int16) []byte {
	out := make([]byte, len(in)*2)
	for i, v := range in {
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	return out
}
