/*
DESCRIPTION
  scanner.go provides a buffered byte source for splitting byte streams.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package h265

import "io"

// scanner reads a byte stream a buffer at a time.
type scanner struct {
	buf []byte
	off int
	r   io.Reader
}

func newScanner(r io.Reader, buf []byte) *scanner {
	return &scanner{r: r, buf: buf[:0]}
}

func (s *scanner) readByte() (byte, error) {
	for s.off >= len(s.buf) {
		err := s.reload()
		if err != nil {
			return 0, err
		}
	}
	b := s.buf[s.off]
	s.off++
	return b, nil
}

// reload refills the buffer. A read returning no data without error is
// retried by readByte.
func (s *scanner) reload() error {
	n, err := s.r.Read(s.buf[:cap(s.buf)])
	s.buf, s.off = s.buf[:n], 0
	if err != nil && (err != io.EOF || n == 0) {
		return err
	}
	return nil
}
