// Package imagewriter is the external collaborator named in the codec
// pipeline's §4.6 and §6: a FAT12/16 hard-disk image rewriter that can
// replace an existing file's contents by its absolute in-image path. Its
// contract — Open/ReplaceFile/Close — is the whole of the interface the
// rest of this module depends on; everything below this package boundary
// (the FAT table, directory entries, cluster chains) is deliberately out
// of scope for the codec pipeline and is implemented here only because a
// real disk image has to come from somewhere for the batch driver's
// "import-to-image" and "all" operations to have something to call.
package imagewriter

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
)

// Sentinel errors surfaced by ReplaceFile, matching the three failure
// kinds the spec requires of the image writer.
var (
	// ErrNotFound means absolutePath does not name an existing file in
	// the image.
	ErrNotFound = errors.New("imagewriter: path not found in image")
	// ErrNoSpace means there are not enough free clusters to hold the
	// new file contents.
	ErrNoSpace = errors.New("imagewriter: insufficient free clusters")
	// ErrImageCorrupt means the boot sector, FAT, or directory structure
	// could not be parsed as a well-formed FAT12/16 volume.
	ErrImageCorrupt = errors.New("imagewriter: malformed FAT12/16 image")
)

// ScriptDir is the fixed in-image directory scripts live under, rendered
// with forward slashes and a trailing slash per the spec's convention.
const ScriptDir = "/EVE/"

// JoinImagePath builds the absolute in-image path for filename under dir,
// preserving filename's case (the image's 8.3 entries are matched
// case-insensitively, but the caller's intent is preserved in the path
// string itself).
func JoinImagePath(dir, filename string) string {
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return path.Join(dir, filename)
}

// Handle is an open FAT12/16 image. Callers must call Close when done;
// Handle acquires the underlying file in a scoped manner so a caller that
// defers Close immediately after Open never leaks the descriptor.
type Handle struct {
	f   *os.File
	bpb bootSector
	fat fatKind
}

// Open parses imagePath's boot sector and classifies the volume as FAT12
// or FAT16, returning a Handle ready for ReplaceFile calls. The FAT tables
// themselves are read on demand by ReplaceFile.
func Open(imagePath string) (*Handle, error) {
	f, err := os.OpenFile(imagePath, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	bpb, err := readBootSector(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	kind, err := bpb.classify()
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Handle{f: f, bpb: bpb, fat: kind}, nil
}

// Close releases the underlying file descriptor.
func (h *Handle) Close() error {
	return h.f.Close()
}

// ReplaceFile locates absolutePath within the image and rewrites its
// contents to data, reusing the file's existing cluster chain where
// possible and growing or shrinking it as needed.
func (h *Handle) ReplaceFile(absolutePath string, data []byte) error {
	entry, entryLoc, err := h.findEntry(absolutePath)
	if err != nil {
		return err
	}

	existingChain, err := h.readChain(entry.firstCluster())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageCorrupt, err)
	}

	bytesPerCluster := int(h.bpb.bytesPerSector) * int(h.bpb.sectorsPerCluster)
	needed := (len(data) + bytesPerCluster - 1) / bytesPerCluster

	chain, err := h.resizeChain(existingChain, needed)
	if err != nil {
		return err
	}

	if err := h.writeClusters(chain, data); err != nil {
		return fmt.Errorf("%w: %v", ErrImageCorrupt, err)
	}

	first := uint16(0)
	if len(chain) > 0 {
		first = uint16(chain[0])
	}
	entry.firstClusterLo = first
	entry.fileSize = uint32(len(data))

	if err := h.writeEntry(entryLoc, entry); err != nil {
		return fmt.Errorf("%w: %v", ErrImageCorrupt, err)
	}

	return nil
}
