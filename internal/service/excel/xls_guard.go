package excel

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/richardlehane/mscfb"
)

// BIFF 记录类型
const (
	recBOF        = 0x809
	recEOF        = 0x00a
	recContinue   = 0x03c
	recSST        = 0x0fc
	recBoundSheet = 0x085
	recFont       = 0x031
	recFormat     = 0x41e
	recRow        = 0x208
	recNumber     = 0x203
	recRK         = 0x27e
	recLabelSST   = 0x0fd
	recLabel      = 0x204
	recBlank      = 0x201
	recFormula    = 0x006
	recMulRK      = 0x0bd
	recMulBlank   = 0x0be
	recHyperlink  = 0x1b8
)

// maxXLSCols BIFF8 工作表最大列数（A..IV）
const maxXLSCols = 256

var errCorruptXLS = errors.New("corrupted xls")

var le = binary.LittleEndian

// xlsRecord 一条 BIFF 记录
type xlsRecord struct {
	id     uint16
	offset int
	body   []byte
}

// checkXLS 在交给 xls 库之前校验文件结构
//
// xls 库按记录中的长度字段直接分配内存且不做边界检查，损坏的文件
// 会导致超大分配。这里用 mscfb 读出 Workbook 流，按库的读取顺序
// 预演一遍，拒绝任何会产生越界分配或失步的记录。
func checkXLS(data []byte) error {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", errCorruptXLS, err)
	}

	found := false
	for _, f := range doc.File {
		if f.Name != "Workbook" && f.Name != "Book" {
			continue
		}
		found = true
		if f.Size <= 0 || f.Size > int64(len(data)) {
			return fmt.Errorf("%w: workbook stream size %d out of range", errCorruptXLS, f.Size)
		}
		stream := make([]byte, f.Size)
		if _, err := io.ReadFull(f, stream); err != nil {
			return fmt.Errorf("%w: %v", errCorruptXLS, err)
		}
		if err := checkWorkbookStream(stream); err != nil {
			return err
		}
	}
	if !found {
		return fmt.Errorf("%w: workbook stream not found", errCorruptXLS)
	}
	return nil
}

func splitRecords(stream []byte) ([]xlsRecord, error) {
	var recs []xlsRecord
	for off := 0; off+4 <= len(stream); {
		id := le.Uint16(stream[off:])
		end := off + 4 + int(le.Uint16(stream[off+2:]))
		if end > len(stream) {
			return nil, fmt.Errorf("%w: record 0x%x at %d exceeds stream", errCorruptXLS, id, off)
		}
		recs = append(recs, xlsRecord{id: id, offset: off, body: stream[off+4 : end]})
		off = end
	}
	if len(recs) == 0 || recs[0].id != recBOF {
		return nil, fmt.Errorf("%w: stream does not start with BOF", errCorruptXLS)
	}
	return recs, nil
}

func checkWorkbookStream(stream []byte) error {
	recs, err := splitRecords(stream)
	if err != nil {
		return err
	}

	scan := &xlsScan{limit: uint64(len(stream))}
	positions, err := scan.globals(recs)
	if err != nil {
		return err
	}

	index := make(map[int]int, len(recs))
	for i, r := range recs {
		index[r.offset] = i
	}
	for n, pos := range positions {
		start, ok := index[pos]
		if !ok || recs[start].id != recBOF {
			return fmt.Errorf("%w: worksheet %d does not start at a BOF record", errCorruptXLS, n)
		}
		for _, r := range recs[start:] {
			if err := scan.cell(r); err != nil {
				return err
			}
			if r.id == recEOF {
				break
			}
		}
	}
	return nil
}

// xlsScan 复现 xls 库解析工作簿全局区时的状态
type xlsScan struct {
	limit     uint64
	biff5     bool
	sstLen    uint64
	contUTF16 uint16
	contRich  uint16
	contApsb  uint32
}

// globals 预演全局区解析，返回各工作表在流中的偏移
func (s *xlsScan) globals(recs []xlsRecord) ([]int, error) {
	var positions []int
	var preID uint16
	offset := uint64(0)

	for _, rec := range recs {
		r := bytes.NewReader(rec.body)
		next := uint64(0)

		switch rec.id {
		case recBOF:
			// 头部不足 16 字节时版本号按 0 处理
			if len(rec.body) < 16 || le.Uint16(rec.body) != 0x600 {
				s.biff5 = true
			}
		case recContinue:
			if preID == recSST {
				var size uint16
				var err error
				if s.contUTF16 >= 1 {
					size = s.contUTF16
					s.contUTF16 = 0
				} else {
					size, err = readU16(r)
				}
				for err == nil && offset < s.sstLen {
					if size > 0 {
						if err = s.skipString(r, size); errors.Is(err, errCorruptXLS) {
							return nil, err
						}
					}
					offset++
					size, err = readU16(r)
				}
			}
			next = offset
		case recSST:
			if len(rec.body) < 8 {
				s.sstLen = 0
				break
			}
			count := uint64(le.Uint32(rec.body[4:]))
			// 每个字符串至少占 3 字节（长度 + 标志）
			if count*3 > s.limit {
				return nil, fmt.Errorf("%w: shared string count %d exceeds stream", errCorruptXLS, count)
			}
			s.sstLen = count
			_, _ = r.Seek(8, io.SeekStart)
			i := uint64(0)
			for ; i < count; i++ {
				size, err := readU16(r)
				if err != nil {
					// 库在读不到长度时空转到 count
					i = count
					break
				}
				err = s.skipString(r, size)
				if errors.Is(err, errCorruptXLS) {
					return nil, err
				}
				if err == io.EOF {
					break
				}
			}
			next = i
		case recBoundSheet:
			if len(rec.body) < 7 {
				positions = append(positions, 0)
				break
			}
			positions = append(positions, int(le.Uint32(rec.body)))
			_, _ = r.Seek(7, io.SeekStart)
			if err := s.skipString(r, uint16(rec.body[6])); errors.Is(err, errCorruptXLS) {
				return nil, err
			}
		case recFont:
			var name uint16
			if len(rec.body) >= 15 {
				name = uint16(rec.body[14])
				_, _ = r.Seek(15, io.SeekStart)
			} else {
				_, _ = r.Seek(0, io.SeekEnd)
			}
			if err := s.skipString(r, name); errors.Is(err, errCorruptXLS) {
				return nil, err
			}
		case recFormat:
			var size uint16
			if len(rec.body) >= 4 {
				size = le.Uint16(rec.body[2:])
				_, _ = r.Seek(4, io.SeekStart)
			} else {
				_, _ = r.Seek(0, io.SeekEnd)
			}
			if err := s.skipString(r, size); errors.Is(err, errCorruptXLS) {
				return nil, err
			}
		}

		if rec.id != recContinue {
			preID = rec.id
		}
		offset = next
	}
	return positions, nil
}

// skipString 复现库的字符串读取；拼音扩展块过大时报错
func (s *xlsScan) skipString(r *bytes.Reader, size uint16) error {
	if s.biff5 {
		if r.Len() == 0 {
			return io.EOF
		}
		skip(r, int(size))
		return nil
	}

	var rich uint16
	var phonetic uint32
	flag, err := readU8(r)
	if flag&0x8 != 0 {
		rich, err = readU16(r)
	} else if s.contRich > 0 {
		rich = s.contRich
		s.contRich = 0
	}
	if flag&0x4 != 0 {
		phonetic, err = readU32(r)
	} else if s.contApsb > 0 {
		phonetic = s.contApsb
		s.contApsb = 0
	}

	if flag&0x1 != 0 {
		i := uint16(0)
		for ; i < size && err == nil; i++ {
			_, err = readU16(r)
		}
		if i < size {
			s.contUTF16 = size - i + 1
		}
	} else {
		if r.Len() == 0 {
			err = io.EOF
			if size > 0 {
				s.contUTF16 = size
			}
		} else {
			n := skip(r, int(size))
			err = nil
			if uint16(n) < size {
				s.contUTF16 = size - uint16(n)
				err = io.EOF
			}
		}
	}

	if rich > 0 {
		err = readFull(r, int(uint16(4*rich)))
		if err == io.EOF {
			s.contRich = rich
		}
	}
	if phonetic > 0 {
		if uint64(phonetic) > s.limit {
			return fmt.Errorf("%w: phonetic block of %d bytes", errCorruptXLS, phonetic)
		}
		err = readFull(r, int(phonetic))
		if err == io.EOF {
			s.contApsb = phonetic
		}
	}
	return err
}

// cell 校验工作表中的单元格记录：长度与库读取的结构一致，列号在范围内
func (s *xlsScan) cell(rec xlsRecord) error {
	b := rec.body
	bad := func(what string) error {
		return fmt.Errorf("%w: %s in record 0x%x at %d", errCorruptXLS, what, rec.id, rec.offset)
	}
	col := func() uint16 { return le.Uint16(b[2:]) }

	switch rec.id {
	case recRow:
		if len(b) != 16 {
			return bad("bad length")
		}
	case recNumber, recRK, recLabelSST, recBlank, recFormula:
		want := map[uint16]int{recNumber: 14, recRK: 10, recLabelSST: 10, recBlank: 6, recFormula: 20}[rec.id]
		if len(b) < want || (rec.id != recFormula && len(b) != want) {
			return bad("bad length")
		}
		if col() >= maxXLSCols {
			return bad("column out of range")
		}
		if rec.id == recLabelSST && uint64(le.Uint32(b[6:])) >= s.sstLen {
			return bad("shared string index out of range")
		}
	case recMulRK, recMulBlank:
		unit := 6
		if rec.id == recMulBlank {
			unit = 2
		}
		if len(b) < 6+unit || (len(b)-6)%unit != 0 {
			return bad("bad length")
		}
		first, last := col(), le.Uint16(b[len(b)-2:])
		if first > last || last >= maxXLSCols || int(last-first)+1 != (len(b)-6)/unit {
			return bad("column range")
		}
	case recLabel:
		return s.label(b, bad)
	case recHyperlink:
		return hyperlink(b, bad)
	}
	return nil
}

func (s *xlsScan) label(b []byte, bad func(string) error) error {
	if len(b) < 8 {
		return bad("bad length")
	}
	if le.Uint16(b[2:]) >= maxXLSCols {
		return bad("column out of range")
	}
	size := int(le.Uint16(b[6:]))
	if s.biff5 {
		if len(b) != 8+size {
			return bad("string length")
		}
		return nil
	}
	if len(b) < 9 {
		return bad("bad length")
	}
	flag := b[8]
	need := 9
	rich, phonetic := 0, 0
	if flag&0x8 != 0 {
		if len(b) < need+2 {
			return bad("bad length")
		}
		rich = int(le.Uint16(b[need:]))
		need += 2
	}
	if flag&0x4 != 0 {
		if len(b) < need+4 {
			return bad("bad length")
		}
		phonetic = int(le.Uint32(b[need:]))
		need += 4
	}
	if uint64(phonetic) > s.limit {
		return bad("phonetic block too large")
	}
	if flag&0x1 != 0 {
		need += 2 * size
	} else {
		need += size
	}
	need += 4*rich + phonetic
	if need != len(b) {
		return bad("string length")
	}
	return nil
}

// hyperlink 按库的读取顺序走一遍超链接记录，所有长度字段必须恰好落在记录内
func hyperlink(b []byte, bad func(string) error) error {
	if len(b) < 32 {
		return bad("bad length")
	}
	firstRow, lastRow := le.Uint16(b[0:]), le.Uint16(b[2:])
	firstCol, lastCol := le.Uint16(b[4:]), le.Uint16(b[6:])
	if firstRow > lastRow || lastRow == 0xffff || firstCol > lastCol || lastCol >= maxXLSCols {
		return bad("cell range")
	}

	flag := le.Uint32(b[28:])
	pos := 32
	u32 := func() (int, bool) {
		if pos+4 > len(b) {
			return 0, false
		}
		n := int(le.Uint32(b[pos:]))
		pos += 4
		return n, n <= len(b)
	}
	// utf16 字符串至少包含结尾的 0
	str := func(chars int) bool {
		if chars == 0 || pos+2*chars > len(b) {
			return false
		}
		pos += 2 * chars
		return true
	}

	for _, f := range []uint32{0x14, 0x80} {
		if flag&f == 0 {
			continue
		}
		n, ok := u32()
		if !ok || !str(n) {
			return bad("string length")
		}
	}
	if flag&0x1 != 0 {
		if pos+16 > len(b) {
			return bad("bad length")
		}
		hi, lo := binary.BigEndian.Uint64(b[pos:]), binary.BigEndian.Uint64(b[pos+8:])
		pos += 16
		switch {
		case hi == 0xE0C9EA79F9BACE11 && lo == 0x8C8200AA004BA90B:
			n, ok := u32()
			if !ok || !str(n/2) {
				return bad("url length")
			}
		case hi == 0x303000000000000 && lo == 0xC000000000000046:
			pos += 2
			n, ok := u32()
			if !ok || pos+n > len(b) {
				return bad("file path length")
			}
			pos += n + 24
			n, ok = u32()
			if !ok {
				return bad("file path length")
			}
			if n > 0 {
				if n, ok = u32(); !ok {
					return bad("file path length")
				}
				pos += 2
				if !str(n/2 + 1) {
					return bad("file path length")
				}
			}
		}
	}
	if flag&0x8 != 0 {
		n, ok := u32()
		if !ok || !str(n) {
			return bad("text mark length")
		}
	}
	if pos != len(b) {
		return bad("trailing bytes")
	}
	return nil
}

func readU8(r *bytes.Reader) (byte, error) {
	if r.Len() == 0 {
		return 0, io.EOF
	}
	return r.ReadByte()
}

func readU16(r *bytes.Reader) (uint16, error) {
	var b [2]byte
	if err := read(r, b[:]); err != nil {
		return 0, err
	}
	return le.Uint16(b[:]), nil
}

func readU32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if err := read(r, b[:]); err != nil {
		return 0, err
	}
	return le.Uint32(b[:]), nil
}

// read 语义同 io.ReadFull：不足时消耗剩余部分
func read(r *bytes.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	return err
}

// readFull 跳过 n 字节，返回值同 io.ReadFull
func readFull(r *bytes.Reader, n int) error {
	switch {
	case n == 0:
		return nil
	case r.Len() == 0:
		return io.EOF
	case r.Len() < n:
		_, _ = r.Seek(0, io.SeekEnd)
		return io.ErrUnexpectedEOF
	}
	_, _ = r.Seek(int64(n), io.SeekCurrent)
	return nil
}

func skip(r *bytes.Reader, n int) int {
	if n > r.Len() {
		n = r.Len()
	}
	_, _ = r.Seek(int64(n), io.SeekCurrent)
	return n
}
