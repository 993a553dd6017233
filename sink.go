package bananabatch

import "sync"

// MessageSink is a StreamSink that appends batch results into a
// caller-owned ModelMessage under a mutex. It is the canonical sink for
// conversational callers: run a batch with the sink, then persist the
// message however you like.
type MessageSink struct {
	mu         sync.Mutex
	msg        *ModelMessage
	onProgress func(completed, total int)
}

var _ StreamSink = (*MessageSink)(nil)

// NewMessageSink creates a sink writing into msg. onProgress may be nil.
func NewMessageSink(msg *ModelMessage, onProgress func(completed, total int)) *MessageSink {
	return &MessageSink{msg: msg, onProgress: onProgress}
}

func (s *MessageSink) OnImage(img GeneratedImage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg.AddImage(img)
}

func (s *MessageSink) OnText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msg.AddTextVariation(text)
}

func (s *MessageSink) OnProgress(completed, total int) {
	if s.onProgress != nil {
		s.onProgress(completed, total)
	}
}

// Message returns the underlying message. Call only after the batch has
// resolved; during a run the message is owned by the sink.
func (s *MessageSink) Message() *ModelMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msg
}
