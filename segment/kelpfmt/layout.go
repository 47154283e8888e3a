// Copyright 2024 The Kelp Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package kelpfmt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/blevesearch/vellum"
	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/kelpsearch/kelp/segment/postings"
)

// On-disk layout, grounded on ice/footer.go's fixed-width trailer but
// simplified to one section per concern instead of per-chunk:
//
//   [ field 0 postings blob ] [ field 0 fst ] ...
//   [ field N postings blob ] [ field N fst ]
//   [ field index ]        -- name, fst offset, fst len, blob offset, blob len, docCount, totalLen, per field
//   [ stored fields block ] -- zstd-compressed
//   [ columns block ]       -- zstd-compressed
//   [ footer ]              -- D# | FX | SF | CM | V | CC, each fixed-width big-endian
//
// FX is the field index offset, SF the stored fields block offset, CM the
// columns block offset. CC is an xxhash64 checksum of the footer fields
// preceding it (D# through V); the sections before the footer are not
// covered by it. It is used in place of ice's crc32 (this codec's domain stack prefers
// cespare/xxhash/v2 throughout, see kelp's footer design note).
const (
	footerNumDocsWidth  = 8
	footerOffsetWidth   = 8
	footerVersionWidth  = 4
	footerChecksumWidth = 8
	footerLen           = footerNumDocsWidth + 3*footerOffsetWidth + footerVersionWidth + footerChecksumWidth
)

type fstLookup struct {
	fst    *vellum.FST
	reader *vellum.Reader
}

func (f *fstLookup) Get(key []byte) (uint64, bool, error) {
	if f.reader != nil {
		return f.reader.Get(key)
	}
	return 0, false, nil
}

func writeSegment(s *Segment, w io.Writer, closeCh chan struct{}) (int64, error) {
	var written int64
	write := func(p []byte) error {
		n, err := w.Write(p)
		written += int64(n)
		return err
	}

	type fieldSection struct {
		name      string
		blobOff   int64
		blobLen   int64
		fstOff    int64
		fstLen    int64
		docCount  uint64
		totalLen  uint64
	}
	sections := make([]fieldSection, 0, len(s.fieldOrder))

	for _, name := range s.fieldOrder {
		select {
		case <-closeCh:
			return written, fmt.Errorf("kelpfmt: write aborted")
		default:
		}

		fd := s.fields[name]
		sec := fieldSection{name: name, blobOff: written, docCount: fd.docCount, totalLen: fd.totalLen}

		var blob bytes.Buffer
		var fstBuf bytes.Buffer
		builder, err := vellum.New(&fstBuf, nil)
		if err != nil {
			return written, fmt.Errorf("kelpfmt: new fst for field %q: %w", name, err)
		}
		for _, t := range fd.terms {
			list := fd.postingsByTerm[t]
			offset := uint64(blob.Len())
			encoded, err := reencode(list)
			if err != nil {
				return written, fmt.Errorf("kelpfmt: reencode field %q term %q: %w", name, t, err)
			}
			blob.Write(encoded)
			if err := builder.Insert([]byte(t), offset); err != nil {
				return written, fmt.Errorf("kelpfmt: fst insert field %q term %q: %w", name, t, err)
			}
		}
		if err := builder.Close(); err != nil {
			return written, fmt.Errorf("kelpfmt: close fst for field %q: %w", name, err)
		}

		if err := write(blob.Bytes()); err != nil {
			return written, err
		}
		sec.blobLen = int64(blob.Len())
		sec.fstOff = written
		if err := write(fstBuf.Bytes()); err != nil {
			return written, err
		}
		sec.fstLen = int64(fstBuf.Len())

		sections = append(sections, sec)
	}

	fieldIndexOffset := written
	var idx bytes.Buffer
	binary.Write(&idx, binary.BigEndian, uint64(len(sections)))
	for _, sec := range sections {
		binary.Write(&idx, binary.BigEndian, uint64(len(sec.name)))
		idx.WriteString(sec.name)
		binary.Write(&idx, binary.BigEndian, uint64(sec.blobOff))
		binary.Write(&idx, binary.BigEndian, uint64(sec.blobLen))
		binary.Write(&idx, binary.BigEndian, uint64(sec.fstOff))
		binary.Write(&idx, binary.BigEndian, uint64(sec.fstLen))
		binary.Write(&idx, binary.BigEndian, sec.docCount)
		binary.Write(&idx, binary.BigEndian, sec.totalLen)
	}
	if err := write(idx.Bytes()); err != nil {
		return written, err
	}

	storedOffset := written
	storedBlock, err := encodeStoredFields(s.storedFields)
	if err != nil {
		return written, err
	}
	if err := write(storedBlock); err != nil {
		return written, err
	}

	columnsOffset := written
	columnsBlock, err := encodeColumns(s.columns)
	if err != nil {
		return written, err
	}
	if err := write(columnsBlock); err != nil {
		return written, err
	}

	footer := make([]byte, 0, footerLen)
	footer = appendUint64(footer, s.numDocs)
	footer = appendUint64(footer, uint64(fieldIndexOffset))
	footer = appendUint64(footer, uint64(storedOffset))
	footer = appendUint64(footer, uint64(columnsOffset))
	footer = appendUint32(footer, Version)
	checksum := xxhash.Sum64(footer)
	footer = appendUint64(footer, checksum)

	if err := write(footer); err != nil {
		return written, err
	}

	return written, nil
}

// reencode bridges a postings.List already held in memory (docFreq/maxWeight
// /maxLength carried out of band from Writer) to the self-delimiting
// Writer.Encode wire shape kelpfmt's blob format needs. Since List only
// exposes a decoded Iterator, not its raw bytes, this walks the list once
// through a fresh Writer — paid once per segment flush, not per query.
func reencode(list *postings.List) ([]byte, error) {
	w := postings.NewWriter()
	it, err := list.Iterator(true, true, true, nil)
	if err != nil {
		return nil, err
	}
	for {
		p, err := it.Next()
		if err != nil {
			return nil, err
		}
		if p == nil {
			break
		}
		w.Add(postings.RawPosting{
			DocNum: p.Number(),
			Weight: p.Weight(),
			Freq:   p.Frequency(),
			Norm:   p.Norm(),
			Length: p.Length(),
			Locs:   p.Locations(),
		})
	}
	return w.Encode(), nil
}

func decodeListAt(blob []byte, offset uint64) (*postings.List, error) {
	if offset >= uint64(len(blob)) {
		return nil, fmt.Errorf("kelpfmt: posting offset %d out of range (blob %d bytes)", offset, len(blob))
	}
	list, _, err := postings.Decode(blob[offset:])
	return list, err
}

func appendUint64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

func appendUint32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

func encodeStoredFields(docs [][]storedField) ([]byte, error) {
	var raw bytes.Buffer
	binary.Write(&raw, binary.BigEndian, uint64(len(docs)))
	for _, fields := range docs {
		binary.Write(&raw, binary.BigEndian, uint64(len(fields)))
		for _, f := range fields {
			binary.Write(&raw, binary.BigEndian, uint64(len(f.name)))
			raw.WriteString(f.name)
			binary.Write(&raw, binary.BigEndian, uint64(len(f.value)))
			raw.Write(f.value)
		}
	}
	return compress(raw.Bytes())
}

func decodeStoredFields(data []byte) ([][]storedField, error) {
	raw, err := decompress(data)
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(raw)
	var numDocs uint64
	if err := binary.Read(r, binary.BigEndian, &numDocs); err != nil {
		return nil, fmt.Errorf("kelpfmt: decode stored fields doc count: %w", err)
	}
	docs := make([][]storedField, numDocs)
	for i := range docs {
		var numFields uint64
		if err := binary.Read(r, binary.BigEndian, &numFields); err != nil {
			return nil, fmt.Errorf("kelpfmt: decode stored fields count for doc %d: %w", i, err)
		}
		fields := make([]storedField, numFields)
		for j := range fields {
			name, err := readLenPrefixedString(r)
			if err != nil {
				return nil, err
			}
			value, err := readLenPrefixedBytes(r)
			if err != nil {
				return nil, err
			}
			fields[j] = storedField{name: name, value: value}
		}
		docs[i] = fields
	}
	return docs, nil
}

func encodeColumns(columns map[string]map[uint64][]byte) ([]byte, error) {
	var raw bytes.Buffer
	binary.Write(&raw, binary.BigEndian, uint64(len(columns)))
	for field, byDoc := range columns {
		binary.Write(&raw, binary.BigEndian, uint64(len(field)))
		raw.WriteString(field)
		binary.Write(&raw, binary.BigEndian, uint64(len(byDoc)))
		for docNum, value := range byDoc {
			binary.Write(&raw, binary.BigEndian, docNum)
			binary.Write(&raw, binary.BigEndian, uint64(len(value)))
			raw.Write(value)
		}
	}
	return compress(raw.Bytes())
}

func decodeColumns(data []byte) (map[string]map[uint64][]byte, error) {
	raw, err := decompress(data)
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(raw)
	var numFields uint64
	if err := binary.Read(r, binary.BigEndian, &numFields); err != nil {
		return nil, fmt.Errorf("kelpfmt: decode columns field count: %w", err)
	}
	columns := make(map[string]map[uint64][]byte, numFields)
	for i := uint64(0); i < numFields; i++ {
		field, err := readLenPrefixedString(r)
		if err != nil {
			return nil, err
		}
		var numDocs uint64
		if err := binary.Read(r, binary.BigEndian, &numDocs); err != nil {
			return nil, fmt.Errorf("kelpfmt: decode column doc count for %q: %w", field, err)
		}
		byDoc := make(map[uint64][]byte, numDocs)
		for j := uint64(0); j < numDocs; j++ {
			var docNum uint64
			if err := binary.Read(r, binary.BigEndian, &docNum); err != nil {
				return nil, fmt.Errorf("kelpfmt: decode column docnum for %q: %w", field, err)
			}
			value, err := readLenPrefixedBytes(r)
			if err != nil {
				return nil, err
			}
			byDoc[docNum] = value
		}
		columns[field] = byDoc
	}
	return columns, nil
}

func readLenPrefixedString(r *bytes.Reader) (string, error) {
	b, err := readLenPrefixedBytes(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readLenPrefixedBytes(r *bytes.Reader) ([]byte, error) {
	var n uint64
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, fmt.Errorf("kelpfmt: read length prefix: %w", err)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("kelpfmt: read %d bytes: %w", n, err)
	}
	return buf, nil
}

func compress(raw []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("kelpfmt: new zstd encoder: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("kelpfmt: new zstd decoder: %w", err)
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// Load parses a byte-serialized segment produced by WriteTo back into a
// queryable Segment, resolving term dictionaries to FST+blob rather than
// the in-memory maps Build leaves behind.
func Load(data []byte) (*Segment, error) {
	if len(data) < footerLen {
		return nil, fmt.Errorf("kelpfmt: data len %d shorter than footer %d", len(data), footerLen)
	}

	footerStart := len(data) - footerLen
	footer := data[footerStart:]
	gotChecksum := binary.BigEndian.Uint64(footer[footerNumDocsWidth+3*footerOffsetWidth+footerVersionWidth:])
	wantChecksum := xxhash.Sum64(footer[:footerNumDocsWidth+3*footerOffsetWidth+footerVersionWidth])
	if gotChecksum != wantChecksum {
		return nil, fmt.Errorf("kelpfmt: checksum mismatch")
	}

	numDocs := binary.BigEndian.Uint64(footer[0:8])
	fieldIndexOffset := binary.BigEndian.Uint64(footer[8:16])
	storedOffset := binary.BigEndian.Uint64(footer[16:24])
	columnsOffset := binary.BigEndian.Uint64(footer[24:32])
	version := binary.BigEndian.Uint32(footer[32:36])
	if version != Version {
		return nil, fmt.Errorf("kelpfmt: unsupported version %d", version)
	}

	idxReader := bytes.NewReader(data[fieldIndexOffset:storedOffset])
	var numFields uint64
	if err := binary.Read(idxReader, binary.BigEndian, &numFields); err != nil {
		return nil, fmt.Errorf("kelpfmt: decode field index count: %w", err)
	}

	s := &Segment{
		numDocs: numDocs,
		fields:  make(map[string]*fieldData, numFields),
	}
	for i := uint64(0); i < numFields; i++ {
		name, err := readLenPrefixedString(idxReader)
		if err != nil {
			return nil, err
		}
		var blobOff, blobLen, fstOff, fstLen, docCount, totalLen uint64
		for _, dst := range []*uint64{&blobOff, &blobLen, &fstOff, &fstLen, &docCount, &totalLen} {
			if err := binary.Read(idxReader, binary.BigEndian, dst); err != nil {
				return nil, fmt.Errorf("kelpfmt: decode field index entry %q: %w", name, err)
			}
		}

		fst, err := vellum.Load(data[fstOff : fstOff+fstLen])
		if err != nil {
			return nil, fmt.Errorf("kelpfmt: load fst for field %q: %w", name, err)
		}
		reader, err := fst.Reader()
		if err != nil {
			return nil, fmt.Errorf("kelpfmt: fst reader for field %q: %w", name, err)
		}

		s.fieldOrder = append(s.fieldOrder, name)
		s.fields[name] = &fieldData{
			name:     name,
			docCount: docCount,
			totalLen: totalLen,
			blob:     data[blobOff : blobOff+blobLen],
			fst:      &fstLookup{fst: fst, reader: reader},
		}
	}

	stored, err := decodeStoredFields(data[storedOffset:columnsOffset])
	if err != nil {
		return nil, err
	}
	s.storedFields = stored

	columns, err := decodeColumns(data[columnsOffset:footerStart])
	if err != nil {
		return nil, err
	}
	s.columns = columns

	return s, nil
}
