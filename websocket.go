package stt_streaming

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/voxpipe/stt_streaming/session"
)

const outboundQueueSize = 16

// WebConn is one accepted streaming connection: it owns the receive loop,
// the single outbound writer, and the session engine driving recognition.
type WebConn struct {
	conn   *websocket.Conn
	log    *log.Logger
	server *Server
	sess   *session.AudioSession

	// seg is built lazily on the first audio frame that arrives after the
	// readiness gate fires, and rebuilt on config updates. Only the receive
	// loop touches it.
	seg *session.Segmenter

	correlationID string
	taskID        int

	outbound  chan []byte
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  8192,
		WriteBufferSize: 8192,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "error", err)
		return
	}

	// The handshake is accepted before validation so rejections travel over
	// the socket instead of a bare HTTP error, matching the protocol.
	token := r.URL.Query().Get("token")
	if err := validateToken(token, s.cfg.Auth.JWTSecret); err != nil {
		code := CodeBadRequest
		if errors.Is(err, errTokenInvalid) {
			code = CodeUnauthorized
		}
		s.rejectAndClose(conn, code, err.Error())
		return
	}

	correlationID := uuid.NewString()
	if !s.registry.TryAdmit(correlationID) {
		s.metrics.SessionsRejected.Inc()
		s.rejectAndClose(conn, CodeBadRequest, "exceeded number of connections")
		return
	}

	jobID := fmt.Sprintf("job_%d", time.Now().Unix())
	taskID := 100000 + rand.Intn(900000)

	sess := session.New(correlationID, jobID, s.cfg.Audio.SampleRate, s.cfg.Audio.SampleWidth, 0, session.Config{
		Language:           s.cfg.Recognition.Language,
		ChunkLengthSeconds: s.cfg.Segmentation.ChunkLengthSeconds,
		ChunkOffsetSeconds: s.cfg.Segmentation.ChunkOffsetSeconds,
	})

	wc := &WebConn{
		conn:          conn,
		log:           s.log.With("session", correlationID, "job", jobID),
		server:        s,
		sess:          sess,
		correlationID: correlationID,
		taskID:        taskID,
		outbound:      make(chan []byte, outboundQueueSize),
		done:          make(chan struct{}),
	}

	s.registry.Track(correlationID, wc.close)
	s.metrics.ActiveSessions.Inc()
	wc.log.Info("session accepted", "task_id", taskID, "remote", conn.RemoteAddr())

	defer func() {
		wc.close()
		s.registry.Release(correlationID)
		s.metrics.ActiveSessions.Dec()
		wc.wg.Wait()
		wc.log.Info("session closed",
			"total_samples", sess.TotalSamples(),
			"last_emitted_end", sess.LastEmittedEnd())
	}()

	wc.wg.Add(1)
	go wc.writer()

	// Queue the initializing notice before the ready watcher starts so the
	// code-100 frame always precedes the code-180 frame.
	wc.enqueueJSON(StatusMessage{
		ID:      correlationID,
		Code:    CodeInitializing,
		Message: "service initializing",
	})

	wc.wg.Add(1)
	go wc.notifyReady()

	wc.readLoop(r.Context())
}

func (s *Server) rejectAndClose(conn *websocket.Conn, code int, description string) {
	payload, err := json.Marshal(Response{Code: code, Description: description})
	if err == nil {
		if werr := conn.WriteMessage(websocket.TextMessage, payload); werr != nil {
			s.log.Error("failed to send rejection", "error", werr)
		}
	}
	conn.Close()
}

// readLoop demultiplexes the single inbound stream: binary frames are audio,
// text frames are control messages. It suspends only waiting for the next
// frame; recognition runs on its own task and never blocks this loop.
func (wc *WebConn) readLoop(ctx context.Context) {
	for {
		messageType, data, err := wc.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				wc.log.Error("websocket read error", "error", err)
			}
			return
		}

		switch messageType {
		case websocket.BinaryMessage:
			wc.handleAudio(ctx, data)
		case websocket.TextMessage:
			wc.handleControl(ctx, data)
		}
	}
}

func (wc *WebConn) handleControl(ctx context.Context, data []byte) {
	var msg controlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		// Malformed control frames are logged and skipped, never fatal.
		wc.log.Error("invalid control message", "error", err)
		return
	}

	switch {
	case msg.Type == "config" && msg.Data != nil:
		wc.applyConfig(msg.Data)
	case msg.Audio != "":
		decoded, err := base64.StdEncoding.DecodeString(msg.Audio)
		if err != nil {
			wc.log.Error("base64 audio decode failed", "error", err)
			return
		}
		wc.handleAudio(ctx, decoded)
	default:
		wc.log.Warn("unknown control message", "type", msg.Type)
	}
}

func (wc *WebConn) applyConfig(data *configPayload) {
	update := session.ConfigUpdate{
		Language:           data.Language,
		ProcessingStrategy: data.ProcessingStrategy,
		SampleRate:         data.SampleRate,
	}
	if data.ProcessingArgs != nil {
		update.ChunkLengthSeconds = data.ProcessingArgs.ChunkLengthSeconds
		update.ChunkOffsetSeconds = data.ProcessingArgs.ChunkOffsetSeconds
	}

	cfg := wc.sess.UpdateConfig(update)
	if wc.seg != nil {
		// Fresh strategy, same session: buffered audio and the in-flight
		// guard carry over untouched.
		wc.seg = wc.seg.Rebuild()
	}
	wc.log.Info("config updated",
		"language", cfg.Language,
		"chunk_length", cfg.ChunkLengthSeconds,
		"chunk_offset", cfg.ChunkOffsetSeconds)

	wc.enqueueJSON(Response{Code: CodeSuccess, Description: "config updated"})
}

func (wc *WebConn) handleAudio(ctx context.Context, data []byte) {
	wc.sess.AppendAudio(data)
	wc.server.metrics.AudioBytesReceived.Add(float64(len(data)))

	if !wc.server.gate.Fired() {
		// Keep the connection alive and transparent while the recognition
		// subsystem is still initializing (or failed to initialize): buffer
		// and acknowledge, but never process.
		wc.enqueueJSON(Response{
			Code:        CodeSuccess,
			Description: "audio received (ASR not initialized)",
			Data:        map[string]any{"buffer_bytes": wc.sess.PendingLen()},
		})
		return
	}

	if wc.seg == nil {
		wc.seg = session.NewSegmenter(wc.sess, session.SegmenterOptions{
			Detector:         wc.server.detector,
			Recognizer:       wc.server.recognizer,
			Emit:             wc.emitResult,
			Logger:           wc.log,
			Metrics:          wc.server.metrics,
			RecognizeTimeout: time.Duration(wc.server.cfg.Recognition.TimeoutSeconds * float64(time.Second)),
		})
	}
	wc.seg.OnAudio(ctx)
}

// emitResult delivers one finalized segment to the caller. Results arriving
// after the session closed are discarded, per the disconnect semantics.
func (wc *WebConn) emitResult(r session.Result) {
	select {
	case <-wc.done:
		wc.log.Debug("discarding result for closed session", "segment", r.Segment)
		return
	default:
	}

	wc.enqueueJSON(ResultMessage{
		ID:      wc.correlationID,
		Code:    CodeSuccess,
		Message: "ok",
		Result: []ResultSegment{{
			Segment:    r.Segment,
			Transcript: r.Text,
			Final:      1,
			StartTime:  r.Start,
			EndTime:    r.End,
		}},
	})
}

func (wc *WebConn) enqueueJSON(v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		wc.log.Error("failed to marshal outbound message", "error", err)
		return
	}
	select {
	case wc.outbound <- payload:
	case <-wc.done:
	}
}

// writer is the single goroutine allowed to write to the connection; it
// serializes outbound frames in arrival order.
func (wc *WebConn) writer() {
	defer wc.wg.Done()
	for {
		select {
		case payload := <-wc.outbound:
			if err := wc.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				wc.log.Error("websocket write error", "error", err)
				wc.close()
				return
			}
		case <-wc.done:
			return
		}
	}
}

// notifyReady sends the code-180 frame exactly once, as soon as the shared
// readiness gate fires, or immediately if it already has.
func (wc *WebConn) notifyReady() {
	defer wc.wg.Done()
	select {
	case <-wc.server.gate.Ready():
		wc.enqueueJSON(StatusMessage{
			ID:      wc.correlationID,
			TaskID:  wc.taskID,
			Code:    CodeReady,
			Message: "service ready",
		})
	case <-wc.done:
	}
}

func (wc *WebConn) close() {
	wc.closeOnce.Do(func() {
		close(wc.done)
		wc.conn.Close()
	})
}
