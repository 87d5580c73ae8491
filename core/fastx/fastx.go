// core/fastx/fastx.go
package fastx

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Record is one parsed sequence. Bases pass through unmodified; case
// and ambiguity classification are the encoder's concern.
type Record struct {
	ID  string
	Seq []byte
}

// ScanReader parses FASTA or FASTQ from r (sniffed from the first
// record marker) and calls emit for each record in file order. It is
// cancelable between records. A non-nil error from emit stops the scan.
func ScanReader(ctx context.Context, r io.Reader, emit func(Record) error) error {
	br := bufio.NewReaderSize(r, 1<<20)
	first, err := br.Peek(1)
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	switch first[0] {
	case '>':
		return scanFasta(ctx, br, emit)
	case '@':
		return scanFastq(ctx, br, emit)
	}
	return errors.Errorf("unrecognized sequence format (leading byte %q)", first[0])
}

// ScanPath opens path (plain, gzip, or "-") and streams its records
// through emit. Each call restarts from the beginning of the file.
func ScanPath(ctx context.Context, path string, emit func(Record) error) error {
	rc, err := openReader(path)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	return errors.Wrapf(ScanReader(ctx, rc, emit), "read %s", path)
}

// Stream is the channel wrapper around ScanPath. The open error is
// reported immediately for non-stdin paths; scan errors arrive on the
// second return channel after the record channel closes.
func Stream(ctx context.Context, path string) (<-chan Record, <-chan error, error) {
	if path != "-" {
		rc, err := openReader(path)
		if err != nil {
			return nil, nil, err
		}
		_ = rc.Close()
	}
	out := make(chan Record, 8)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		errc <- ScanPath(ctx, path, func(rec Record) error {
			select {
			case out <- rec:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()
	return out, errc, nil
}

func scanFasta(ctx context.Context, br *bufio.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(br)
	const maxLine = 64 * 1024 * 1024 // very long single-line sequences
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		id  string
		seq = make([]byte, 0, 1<<20)
		got bool
	)
	flush := func() error {
		if !got {
			return nil
		}
		rec := Record{ID: id, Seq: append([]byte(nil), seq...)}
		seq = seq[:0]
		return emit(rec)
	}
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) > 0 && line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			id = headerID(line[1:])
			got = true
			if err := ctx.Err(); err != nil {
				return err
			}
			continue
		}
		seq = append(seq, bytes.TrimSpace(line)...)
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return flush()
}

func scanFastq(ctx context.Context, br *bufio.Reader, emit func(Record) error) error {
	sc := bufio.NewScanner(br)
	const maxLine = 16 * 1024 * 1024
	sc.Buffer(make([]byte, 64*1024), maxLine)

	for sc.Scan() {
		head := sc.Bytes()
		if len(head) == 0 {
			continue
		}
		if head[0] != '@' {
			return errors.Errorf("malformed FASTQ record header %q", string(head))
		}
		id := headerID(head[1:])
		if !sc.Scan() {
			return errors.New("truncated FASTQ record: missing sequence line")
		}
		seq := append([]byte(nil), bytes.TrimSpace(sc.Bytes())...)
		if !sc.Scan() || len(sc.Bytes()) == 0 || sc.Bytes()[0] != '+' {
			return errors.New("truncated FASTQ record: missing separator line")
		}
		if !sc.Scan() {
			return errors.New("truncated FASTQ record: missing quality line")
		}
		if err := emit(Record{ID: id, Seq: seq}); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return sc.Err()
}

// headerID takes the first whitespace-delimited token of a header.
func headerID(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		s = s[:i]
	}
	return s
}
