package ollama

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
)

// Stream is a pull-based sequence of assistant text fragments, decoded
// from the backend's newline-delimited JSON. Finite, not restartable.
// Each Recv call performs at most one blocking read, so no more than
// one chunk is ever buffered ahead of the consumer.
type Stream struct {
	body   io.ReadCloser
	reader *bufio.Reader
	logger *zap.Logger
	done   bool
}

func newStream(body io.ReadCloser, logger *zap.Logger) *Stream {
	return &Stream{
		body:   body,
		reader: bufio.NewReader(body),
		logger: logger,
	}
}

// streamChunk is one NDJSON line from the backend. Content and done are
// both optional; the final line carries done=true.
type streamChunk struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// Recv returns the next text fragment, or io.EOF once the backend sent
// its done marker (no further reads are issued even if the connection
// stays open). Malformed lines are skipped, not fatal. A trailing line
// without a newline is still parsed when the connection closes, so the
// last fragment is never dropped.
func (s *Stream) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}

	for {
		// ReadBytes may return data together with an error at EOF; the
		// data is a partial line and is parsed before the error is acted on.
		line, readErr := s.reader.ReadBytes('\n')

		if len(line) > 0 {
			content, finished := s.parseLine(line)
			if finished {
				s.done = true
				if content != "" {
					return content, nil
				}
				return "", io.EOF
			}
			if content != "" {
				return content, nil
			}
		}

		if readErr != nil {
			s.done = true
			if errors.Is(readErr, io.EOF) {
				return "", io.EOF
			}
			return "", fmt.Errorf("read upstream stream: %w", readErr)
		}
	}
}

// parseLine decodes one line. Unparseable lines yield ("", false) and
// are logged at debug, keeping the stream alive.
func (s *Stream) parseLine(line []byte) (content string, finished bool) {
	var chunk streamChunk
	if err := json.Unmarshal(line, &chunk); err != nil {
		s.logger.Debug("skipping malformed stream line", zap.Error(err))
		return "", false
	}
	return chunk.Message.Content, chunk.Done
}

// Close releases the upstream read handle. Safe to call at any point,
// including mid-stream when the downstream consumer disconnects.
func (s *Stream) Close() error {
	if err := s.body.Close(); err != nil {
		return fmt.Errorf("close upstream body: %w", err)
	}
	return nil
}
