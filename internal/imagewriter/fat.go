package imagewriter

import "fmt"

const (
	fat12EOC = 0xFF8
	fat16EOC = 0xFFF8
	fat12Free = 0x000
	fat16Free = 0x0000
)

func (h *Handle) fatOffset() int64 {
	return int64(h.bpb.reservedSectors) * int64(h.bpb.bytesPerSector)
}

// readFATEntry returns the raw value stored at cluster's slot in the
// first FAT, unpacking FAT12's 12-bit entries from their shared-byte
// encoding.
func (h *Handle) readFATEntry(cluster uint32) (uint32, error) {
	base := h.fatOffset()

	if h.fat == fat16 {
		buf := make([]byte, 2)
		if _, err := h.f.ReadAt(buf, base+int64(cluster)*2); err != nil {
			return 0, err
		}
		return uint32(buf[0]) | uint32(buf[1])<<8, nil
	}

	off := base + int64(cluster)*3/2
	buf := make([]byte, 2)
	if _, err := h.f.ReadAt(buf, off); err != nil {
		return 0, err
	}
	v := uint32(buf[0]) | uint32(buf[1])<<8
	if cluster%2 == 0 {
		return v & 0x0FFF, nil
	}
	return v >> 4, nil
}

// writeFATEntry stores value into cluster's slot across every FAT copy
// the volume carries (numFATs mirrors).
func (h *Handle) writeFATEntry(cluster, value uint32) error {
	base := h.fatOffset()
	fatBytes := int64(h.bpb.fatSizeSectors) * int64(h.bpb.bytesPerSector)

	for copyIdx := 0; copyIdx < int(h.bpb.numFATs); copyIdx++ {
		copyBase := base + int64(copyIdx)*fatBytes

		if h.fat == fat16 {
			buf := []byte{byte(value), byte(value >> 8)}
			if _, err := h.f.WriteAt(buf, copyBase+int64(cluster)*2); err != nil {
				return err
			}
			continue
		}

		off := copyBase + int64(cluster)*3/2
		existing := make([]byte, 2)
		if _, err := h.f.ReadAt(existing, off); err != nil {
			return err
		}
		packed := uint32(existing[0]) | uint32(existing[1])<<8
		if cluster%2 == 0 {
			packed = (packed & 0xF000) | (value & 0x0FFF)
		} else {
			packed = (packed & 0x000F) | ((value & 0x0FFF) << 4)
		}
		buf := []byte{byte(packed), byte(packed >> 8)}
		if _, err := h.f.WriteAt(buf, off); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handle) isEOC(entry uint32) bool {
	if h.fat == fat16 {
		return entry >= fat16EOC
	}
	return entry >= fat12EOC
}

func (h *Handle) isFreeEntry(entry uint32) bool {
	if h.fat == fat16 {
		return entry == fat16Free
	}
	return entry == fat12Free
}

func (h *Handle) eocMarker() uint32 {
	if h.fat == fat16 {
		return fat16EOC
	}
	return fat12EOC
}

// readChain follows firstCluster's FAT chain to its end-of-chain marker.
// A firstCluster of 0 (an empty file with no clusters allocated) yields
// an empty chain.
func (h *Handle) readChain(firstCluster uint32) ([]uint32, error) {
	if firstCluster == 0 {
		return nil, nil
	}

	var chain []uint32
	cur := firstCluster
	seen := make(map[uint32]bool)

	for {
		if seen[cur] {
			return nil, fmt.Errorf("cluster chain loops at cluster %d", cur)
		}
		seen[cur] = true
		chain = append(chain, cur)

		next, err := h.readFATEntry(cur)
		if err != nil {
			return nil, err
		}
		if h.isEOC(next) {
			break
		}
		if h.isFreeEntry(next) {
			return nil, fmt.Errorf("cluster chain references free cluster at %d", cur)
		}
		cur = next
	}
	return chain, nil
}

// resizeChain adjusts existing to hold exactly needed clusters: extra
// trailing clusters are freed if shrinking, and free clusters are
// allocated from the volume if growing. It returns the new chain in
// order, or ErrNoSpace if growth can't be satisfied.
func (h *Handle) resizeChain(existing []uint32, needed int) ([]uint32, error) {
	if needed == 0 {
		if err := h.freeChain(existing); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if len(existing) >= needed {
		keep := existing[:needed]
		if err := h.freeChain(existing[needed:]); err != nil {
			return nil, err
		}
		if err := h.writeFATEntry(keep[len(keep)-1], h.eocMarker()); err != nil {
			return nil, err
		}
		return keep, nil
	}

	grow := needed - len(existing)
	newClusters, err := h.allocateFree(grow)
	if err != nil {
		return nil, err
	}

	chain := append(append([]uint32(nil), existing...), newClusters...)
	for i := 0; i < len(chain)-1; i++ {
		if err := h.writeFATEntry(chain[i], chain[i+1]); err != nil {
			return nil, err
		}
	}
	if err := h.writeFATEntry(chain[len(chain)-1], h.eocMarker()); err != nil {
		return nil, err
	}
	return chain, nil
}

func (h *Handle) freeChain(clusters []uint32) error {
	for _, c := range clusters {
		free := uint32(fat16Free)
		if h.fat == fat12 {
			free = fat12Free
		}
		if err := h.writeFATEntry(c, free); err != nil {
			return err
		}
	}
	return nil
}

// allocateFree scans the FAT linearly for count unused clusters. It does
// not mark them allocated in the FAT itself; the caller links them as
// part of writing the chain.
func (h *Handle) allocateFree(count int) ([]uint32, error) {
	var free []uint32
	for cluster := uint32(2); cluster < h.bpb.countOfClusters+2 && len(free) < count; cluster++ {
		entry, err := h.readFATEntry(cluster)
		if err != nil {
			return nil, err
		}
		if h.isFreeEntry(entry) {
			free = append(free, cluster)
		}
	}
	if len(free) < count {
		return nil, ErrNoSpace
	}
	return free, nil
}

// writeClusters writes data across chain's clusters in order, zero-filling
// the remainder of the final cluster.
func (h *Handle) writeClusters(chain []uint32, data []byte) error {
	clusterSize := h.bpb.bytesPerCluster()

	for i, cluster := range chain {
		start := i * clusterSize
		end := start + clusterSize
		buf := make([]byte, clusterSize)
		if start < len(data) {
			copy(buf, data[start:min(end, len(data))])
		}

		sector := h.bpb.clusterToSector(cluster)
		offset := int64(sector) * int64(h.bpb.bytesPerSector)
		if _, err := h.f.WriteAt(buf, offset); err != nil {
			return err
		}
	}
	return nil
}
