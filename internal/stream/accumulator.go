package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrStream indicates the transport failed before the stream completed.
// Partial content is discarded; the caller must start a fresh stream.
var ErrStream = errors.New("stream: transport failed")

// Accumulate drives the decoder over a framed text stream and reconstructs
// the full artifact. The reader may deliver lines split across read
// boundaries; frames are decoded in arrival order once a full line is
// buffered, and a trailing unterminated line is still decoded. On a clean
// end of stream the concatenated content is fence-stripped and returned.
func Accumulate(ctx context.Context, r io.Reader) (string, error) {
	reader := bufio.NewReader(r)
	var out strings.Builder

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w: %w", ErrStream, err)
		}

		line, err := reader.ReadString('\n')
		if line != "" {
			if delta, ok := DecodeLine(strings.TrimRight(line, "\r\n")); ok {
				out.WriteString(delta)
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", fmt.Errorf("%w: %w", ErrStream, err)
		}
	}

	return StripFences(out.String()), nil
}
