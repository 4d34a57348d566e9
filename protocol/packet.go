// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// maxPacketLength is the maximum allowed JSON payload size. 16 MB is
// generous for protocol traffic; large values (network response bodies,
// page sources) travel as long-string actors in bounded chunks.
const maxPacketLength = 16 * 1024 * 1024

// maxLengthDigits bounds the decimal length prefix. 8 digits cover
// maxPacketLength with room to spare; anything longer is a framing
// error, not a big packet.
const maxLengthDigits = 8

// WritePacket marshals v and writes it to w as a length-prefixed JSON
// packet: the decimal byte length of the JSON text, a colon, then the
// text itself. The whole frame goes out in a single Write so that
// message-oriented transports carry one packet per message.
func WritePacket(w io.Writer, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal packet: %w", err)
	}
	frame := make([]byte, 0, len(body)+maxLengthDigits+1)
	frame = strconv.AppendInt(frame, int64(len(body)), 10)
	frame = append(frame, ':')
	frame = append(frame, body...)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write packet: %w", err)
	}
	return nil
}

// ReadPacket reads one length-prefixed JSON packet from r and returns
// the decoded object. Returns an error if the stream is malformed, the
// payload exceeds maxPacketLength, or the payload is not a JSON object.
func ReadPacket(r *bufio.Reader) (map[string]any, error) {
	length := 0
	digits := 0
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("read packet header: %w", err)
		}
		if b == ':' {
			if digits == 0 {
				return nil, fmt.Errorf("packet header missing length")
			}
			break
		}
		if b < '0' || b > '9' {
			return nil, fmt.Errorf("packet header byte %q is not a digit", b)
		}
		digits++
		if digits > maxLengthDigits {
			return nil, fmt.Errorf("packet length prefix exceeds %d digits", maxLengthDigits)
		}
		length = length*10 + int(b-'0')
	}
	if length > maxPacketLength {
		return nil, fmt.Errorf("packet length %d exceeds maximum %d", length, maxPacketLength)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("read packet body: %w", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("decode packet body: %w", err)
	}
	return msg, nil
}
