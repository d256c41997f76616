package imagewriter

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const dirEntrySize = 32

// dirEntry is an unpacked 32-byte FAT directory entry. Only the fields
// ReplaceFile needs are kept; writeEntry re-reads the on-disk entry and
// overwrites just these fields, so every other byte stays untouched.
type dirEntry struct {
	name           [11]byte
	attr           byte
	firstClusterHi uint16
	firstClusterLo uint16
	fileSize       uint32
}

const (
	attrDirectory = 0x10
	attrVolumeID  = 0x08
	attrLongName  = 0x0F
)

func (e dirEntry) firstCluster() uint32 {
	return uint32(e.firstClusterHi)<<16 | uint32(e.firstClusterLo)
}

func (e dirEntry) isFree() bool {
	return e.name[0] == 0x00 || e.name[0] == 0xE5
}

func (e dirEntry) isEnd() bool {
	return e.name[0] == 0x00
}

func (e dirEntry) matches83(name string) bool {
	return shortNameOf(e.name) == strings.ToUpper(name)
}

// shortNameOf renders an 11-byte 8.3 name field as "NAME.EXT", trimming
// padding spaces and omitting the dot when there is no extension.
func shortNameOf(raw [11]byte) string {
	base := strings.TrimRight(string(raw[0:8]), " ")
	ext := strings.TrimRight(string(raw[8:11]), " ")
	if ext == "" {
		return base
	}
	return base + "." + ext
}

func parseDirEntry(raw []byte) dirEntry {
	var e dirEntry
	copy(e.name[:], raw[0:11])
	e.attr = raw[11]
	e.firstClusterHi = binary.LittleEndian.Uint16(raw[20:22])
	e.firstClusterLo = binary.LittleEndian.Uint16(raw[26:28])
	e.fileSize = binary.LittleEndian.Uint32(raw[28:32])
	return e
}

func (e dirEntry) encode(raw []byte) {
	copy(raw[0:11], e.name[:])
	raw[11] = e.attr
	binary.LittleEndian.PutUint16(raw[20:22], e.firstClusterHi)
	binary.LittleEndian.PutUint16(raw[26:28], e.firstClusterLo)
	binary.LittleEndian.PutUint32(raw[28:32], e.fileSize)
}

// entryLocation is the absolute byte offset of a 32-byte directory entry
// within the image file, letting writeEntry patch it in place without
// re-walking the directory.
type entryLocation struct {
	byteOffset int64
}

// findEntry walks absolutePath's components starting at the root
// directory, returning the leaf file's directory entry and its on-disk
// location. absolutePath must name a plain file, not a directory.
func (h *Handle) findEntry(absolutePath string) (dirEntry, entryLocation, error) {
	parts := splitPath(absolutePath)
	if len(parts) == 0 {
		return dirEntry{}, entryLocation{}, fmt.Errorf("%w: %q", ErrNotFound, absolutePath)
	}

	dirCluster := uint32(0) // 0 means "root directory region", not a cluster chain
	var (
		entry dirEntry
		loc   entryLocation
		found bool
	)

	for i, part := range parts {
		entry, loc, found = h.lookupIn(dirCluster, part)
		if !found {
			return dirEntry{}, entryLocation{}, fmt.Errorf("%w: %q", ErrNotFound, absolutePath)
		}

		isLast := i == len(parts)-1
		if isLast {
			if entry.attr&attrDirectory != 0 {
				return dirEntry{}, entryLocation{}, fmt.Errorf("%w: %q is a directory", ErrNotFound, absolutePath)
			}
			return entry, loc, nil
		}

		if entry.attr&attrDirectory == 0 {
			return dirEntry{}, entryLocation{}, fmt.Errorf("%w: %q", ErrNotFound, absolutePath)
		}
		dirCluster = entry.firstCluster()
	}

	return dirEntry{}, entryLocation{}, fmt.Errorf("%w: %q", ErrNotFound, absolutePath)
}

func splitPath(absolutePath string) []string {
	trimmed := strings.Trim(absolutePath, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// lookupIn scans one directory's entries (the root region when dirCluster
// is 0, otherwise the directory's own cluster chain) for name, matched
// case-insensitively against the 8.3 short name.
func (h *Handle) lookupIn(dirCluster uint32, name string) (dirEntry, entryLocation, bool) {
	regions := h.dirRegions(dirCluster)

	for _, region := range regions {
		buf := make([]byte, dirEntrySize)
		for off := region.start; off+dirEntrySize <= region.end; off += dirEntrySize {
			if _, err := h.f.ReadAt(buf, off); err != nil {
				return dirEntry{}, entryLocation{}, false
			}
			if buf[0] == 0x00 {
				return dirEntry{}, entryLocation{}, false
			}
			if buf[0] == 0xE5 || buf[11] == attrLongName {
				continue
			}
			e := parseDirEntry(buf)
			if e.matches83(name) {
				return e, entryLocation{byteOffset: off}, true
			}
		}
	}
	return dirEntry{}, entryLocation{}, false
}

type byteRange struct {
	start, end int64
}

// dirRegions returns the byte ranges, in order, that make up one
// directory's entry table: the fixed root region when dirCluster is 0,
// or one range per cluster in the chain otherwise.
func (h *Handle) dirRegions(dirCluster uint32) []byteRange {
	if dirCluster == 0 {
		start := int64(h.bpb.rootDirSector) * int64(h.bpb.bytesPerSector)
		end := start + int64(h.bpb.rootDirSectors)*int64(h.bpb.bytesPerSector)
		return []byteRange{{start, end}}
	}

	chain, err := h.readChain(dirCluster)
	if err != nil {
		return nil
	}
	regions := make([]byteRange, 0, len(chain))
	clusterBytes := int64(h.bpb.bytesPerCluster())
	for _, c := range chain {
		start := int64(h.bpb.clusterToSector(c)) * int64(h.bpb.bytesPerSector)
		regions = append(regions, byteRange{start, start + clusterBytes})
	}
	return regions
}

func (h *Handle) writeEntry(loc entryLocation, entry dirEntry) error {
	buf := make([]byte, dirEntrySize)
	if _, err := h.f.ReadAt(buf, loc.byteOffset); err != nil {
		return err
	}
	entry.encode(buf)
	_, err := h.f.WriteAt(buf, loc.byteOffset)
	return err
}
