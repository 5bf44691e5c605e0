package sse

import (
	"bufio"
	"bytes"
	"io"

	"github.com/rotisserie/eris"
)

const (
	dataPrefix = "data:"
	doneMarker = "[DONE]"
	maxLineLen = 1024 * 1024
)

// ReadData 逐行读取SSE流，对每个 data: 负载调用 fn，遇到 [DONE] 或 fn 返回 false 时停止
func ReadData(r io.Reader, fn func(data []byte) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLen)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if !bytes.HasPrefix(line, []byte(dataPrefix)) {
			continue
		}
		data := bytes.TrimSpace(line[len(dataPrefix):])
		if bytes.Equal(data, []byte(doneMarker)) {
			return nil
		}
		if len(data) == 0 {
			continue
		}
		if !fn(data) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return eris.Wrap(err, "sse: read stream")
	}
	return nil
}
