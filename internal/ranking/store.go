package ranking

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// storeMagic marks a persisted ranking table file ("PKRK").
const storeMagic = uint32(0x504b524b)

func storePath(dir, name string) string {
	return filepath.Join(dir, name+".rank")
}

// Save persists the table as a flat indexable file: a magic + count
// header followed by each entry's canonical key, ordinal, and
// classification tag. The write goes through a temp file and a
// rename so a crashed save never leaves a truncated table behind.
func (t *Table) Save(dir string) error {
	tmp, err := os.CreateTemp(dir, "."+t.name+"-*")
	if err != nil {
		return fmt.Errorf("ranking: save %s: %w", t.name, err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if err := binary.Write(w, binary.LittleEndian, storeMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(t.index.entries))); err != nil {
		return err
	}
	for _, e := range t.index.entries {
		if err := writeEntry(w, e); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), storePath(dir, t.name))
}

func writeEntry(w *bufio.Writer, e Entry) error {
	if err := w.WriteByte(byte(len(e.Key))); err != nil {
		return err
	}
	if _, err := w.WriteString(string(e.Key)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, e.Ordinal); err != nil {
		return err
	}
	if err := w.WriteByte(byte(len(e.Classification))); err != nil {
		return err
	}
	_, err := w.WriteString(e.Classification)
	return err
}

// LoadStored reads a previously saved table and rebuilds its perfect-hash
// index. The index is reconstructed rather than persisted: rebuilding from
// the entry set is cheap next to enumerating C(52,5) classifications, and it
// keeps the file format independent of the hash library's internals.
func LoadStored(name, dir string) (*Table, error) {
	f, err := os.Open(storePath(dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var magic, count uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("ranking: load %s: %w", name, err)
	}
	if magic != storeMagic {
		return nil, fmt.Errorf("ranking: load %s: not a ranking table file", name)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("ranking: load %s: %w", name, err)
	}

	entries := make([]Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		e, err := readEntry(r)
		if err != nil {
			return nil, fmt.Errorf("ranking: load %s entry %d: %w", name, i, err)
		}
		entries = append(entries, e)
	}
	idx, err := buildIndex(entries)
	if err != nil {
		return nil, err
	}
	return &Table{name: name, index: idx}, nil
}

func readEntry(r *bufio.Reader) (Entry, error) {
	keyLen, err := r.ReadByte()
	if err != nil {
		return Entry{}, err
	}
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return Entry{}, err
	}
	var ordinal int32
	if err := binary.Read(r, binary.LittleEndian, &ordinal); err != nil {
		return Entry{}, err
	}
	classLen, err := r.ReadByte()
	if err != nil {
		return Entry{}, err
	}
	class := make([]byte, classLen)
	if _, err := io.ReadFull(r, class); err != nil {
		return Entry{}, err
	}
	return Entry{Key: Key(key), Ordinal: ordinal, Classification: string(class)}, nil
}
