package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	stt "github.com/voxpipe/stt_streaming"
)

// dedupThreshold is the similarity above which a transcript is considered a
// repeat of a recently printed one.
const dedupThreshold = 0.85

type Client struct {
	conn       *websocket.Conn
	audio      io.Reader
	frameBytes int
	transcript *TranscriptBuffer
	wg         sync.WaitGroup
	log        *log.Logger
	outputFile *os.File
	bufWriter  *bufio.Writer
}

func main() {
	var serverURL = flag.String("url", "ws://localhost:8081/ws/stt", "WebSocket server URL")
	var token = flag.String("token", "dev-token", "Bearer token for the handshake")
	var outputPath = flag.String("output", "", "Output file path for transcriptions (optional)")
	var framesPerBuffer = flag.Int("frames", defaultFramesPerBuffer, "Samples captured per audio frame")
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)

	u, err := url.Parse(*serverURL)
	if err != nil {
		logger.Printf("Invalid server URL: %v\n", err)
		return
	}
	q := u.Query()
	q.Set("token", *token)
	u.RawQuery = q.Encode()

	mic, err := NewMicrophoneReader(*framesPerBuffer)
	if err != nil {
		logger.Printf("Failed to open microphone: %v\n", err)
		return
	}
	defer mic.Close()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		logger.Printf("WebSocket dial failed: %v\n", err)
		return
	}
	defer conn.Close()

	client := &Client{
		conn:       conn,
		audio:      mic,
		frameBytes: mic.FrameBytes(),
		transcript: NewTranscriptBuffer(16),
		log:        logger,
	}

	if *outputPath != "" {
		outputFile, err := os.Create(*outputPath)
		if err != nil {
			logger.Printf("Failed to create output file: %v\n", err)
			return
		}
		defer outputFile.Close()

		client.outputFile = outputFile
		client.bufWriter = bufio.NewWriter(outputFile)
		defer client.bufWriter.Flush()
	}

	fmt.Println("Recording... Press Ctrl+C to stop.")
	client.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	client.Close()
	fmt.Println("\nDone.")
}

func (c *Client) Start() {
	c.wg.Add(2)
	go c.reader()
	go c.writer()
}

// serverFrame is the union of everything the server sends: lifecycle status
// messages, acknowledgements and transcription results.
type serverFrame struct {
	ID          string              `json:"id"`
	TaskID      int                 `json:"taskId"`
	Code        int                 `json:"code"`
	Message     string              `json:"message"`
	Description string              `json:"description"`
	Result      []stt.ResultSegment `json:"result"`
}

func (c *Client) reader() {
	defer c.wg.Done()
	var buf bytes.Buffer

	for {
		buf.Reset()

		_, r, err := c.conn.NextReader()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Printf("WebSocket read error: %v\n", err)
			}
			return
		}

		if _, err := buf.ReadFrom(r); err != nil {
			c.log.Printf("Failed to read from WebSocket reader: %v\n", err)
			continue
		}

		var frame serverFrame
		if err := json.Unmarshal(buf.Bytes(), &frame); err != nil {
			c.log.Printf("Failed to unmarshal server frame: %v\n", err)
			continue
		}

		c.handleFrame(frame)
	}
}

func (c *Client) handleFrame(frame serverFrame) {
	switch {
	case frame.Code == stt.CodeInitializing:
		fmt.Println("Service initializing...")
	case frame.Code == stt.CodeReady:
		fmt.Printf("Service ready (task %d).\n", frame.TaskID)
	case len(frame.Result) > 0:
		for _, segment := range frame.Result {
			c.printTranscript(segment)
		}
	case frame.Code >= stt.CodeBadRequest:
		c.log.Printf("Server rejected: %d %s\n", frame.Code, frame.Description)
	default:
		// Acks for config updates and buffered audio; nothing to show.
	}
}

func (c *Client) printTranscript(segment stt.ResultSegment) {
	if c.transcript.IsSimilar(segment.Transcript, dedupThreshold) {
		return
	}
	c.transcript.Add(segment.Transcript)

	timestamp := time.Now().Format("15:04:05")
	line := fmt.Sprintf("[%s] (%.3f-%.3f) %s\n", timestamp, segment.StartTime, segment.EndTime, segment.Transcript)

	fmt.Print(line)

	if c.bufWriter != nil {
		if _, err := c.bufWriter.WriteString(line); err != nil {
			c.log.Printf("Failed to write to output file: %v\n", err)
		} else {
			c.bufWriter.Flush()
		}
	}
}

func (c *Client) writer() {
	defer c.wg.Done()
	size := c.frameBytes
	if size <= 0 {
		size = defaultFramesPerBuffer * 2
	}
	frame := make([]byte, size)

	for {
		n, err := c.audio.Read(frame)
		if err != nil {
			c.log.Printf("Audio read error: %v\n", err)
			break
		}

		if err := c.conn.WriteMessage(websocket.BinaryMessage, frame[:n]); err != nil {
			if !errors.Is(err, net.ErrClosed) {
				c.log.Printf("WebSocket write error: %v\n", err)
			}
			return
		}
	}
}

func (c *Client) Close() {
	c.log.Println("Closing client...")
	if c.conn != nil {
		c.conn.Close()
	}
	c.wg.Wait()
}
