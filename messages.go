package stt_streaming

// Wire codes, mirroring the upstream streaming protocol.
const (
	CodeInitializing = 100
	CodeReady        = 180
	CodeSuccess      = 200
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeTimeout      = 408
)

// Response is the generic acknowledgement / error frame.
type Response struct {
	Code        int            `json:"code"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
}

// StatusMessage carries the connection lifecycle notifications: the code-100
// "service initializing" frame sent right after acceptance and the code-180
// "service ready" frame sent once the recognition subsystem is up. ID is the
// connection-scoped correlation identifier echoed on every frame.
type StatusMessage struct {
	ID      string `json:"id"`
	TaskID  int    `json:"taskId,omitempty"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ResultMessage is a finalized transcription delivered to the caller.
type ResultMessage struct {
	ID      string          `json:"id"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Result  []ResultSegment `json:"result"`
}

// ResultSegment is one recognized span on the session timeline. Final is
// always 1; the protocol has no interim hypotheses.
type ResultSegment struct {
	Segment    int     `json:"segment"`
	Transcript string  `json:"transcript"`
	Final      int     `json:"final"`
	StartTime  float64 `json:"startTime"`
	EndTime    float64 `json:"endTime"`
}

// controlMessage is the inbound text-frame shape: either a config update or
// a base64-encoded audio payload.
type controlMessage struct {
	Type  string         `json:"type"`
	Data  *configPayload `json:"data"`
	Audio string         `json:"audio"`
}

type configPayload struct {
	Language           *string         `json:"language"`
	ProcessingStrategy *string         `json:"processing_strategy"`
	ProcessingArgs     *processingArgs `json:"processing_args"`
	SampleRate         *int            `json:"sampleRate"`
}

type processingArgs struct {
	ChunkLengthSeconds *float64 `json:"chunk_length_seconds"`
	ChunkOffsetSeconds *float64 `json:"chunk_offset_seconds"`
}
