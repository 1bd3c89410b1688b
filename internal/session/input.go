package session

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// maxLineBytes caps a single input line. Longer lines are discarded whole.
const maxLineBytes = 1 << 20

var errLineTooLong = errors.New("line too long")

type line struct {
	text string
	err  error
}

// readLines feeds lines from r into out until EOF, a read error or done,
// then closes out. An over-long line is reported as errLineTooLong and
// reading continues with the next line.
func readLines(r io.Reader, limit int, out chan<- line, done <-chan struct{}) {
	defer close(out)

	br := bufio.NewReaderSize(r, 64*1024)
	for {
		text, err := readLine(br, limit)
		if errors.Is(err, io.EOF) {
			return
		}
		select {
		case out <- line{text: text, err: err}:
		case <-done:
			return
		}
		if err != nil && !errors.Is(err, errLineTooLong) {
			return
		}
	}
}

func readLine(br *bufio.Reader, limit int) (string, error) {
	var buf []byte
	tooLong := false

	for {
		chunk, err := br.ReadSlice('\n')
		if !tooLong && len(buf)+len(chunk) > limit {
			tooLong = true
			buf = nil
		}
		if !tooLong {
			buf = append(buf, chunk...)
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if err != nil && len(buf) == 0 && !tooLong {
			return "", io.EOF
		}
		if tooLong {
			return "", errLineTooLong
		}
		return strings.TrimRight(string(buf), "\r\n"), nil
	}
}
