package imagewriter

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// fatKind distinguishes the two on-disk FAT entry widths this package
// understands; FAT32 images are out of scope (the legacy title this
// toolchain targets only ever shipped FAT12/16 images).
type fatKind int

const (
	fat12 fatKind = iota
	fat16
)

// bootSector holds the BIOS Parameter Block fields needed to locate the
// FAT, the root directory, and the data region.
type bootSector struct {
	bytesPerSector    uint16
	sectorsPerCluster uint8
	reservedSectors   uint16
	numFATs           uint8
	rootEntryCount    uint16
	totalSectors      uint32
	fatSizeSectors    uint32
	rootDirSector     uint32
	rootDirSectors    uint32
	firstDataSector   uint32
	countOfClusters   uint32
}

const bootSectorSize = 512

func readBootSector(f *os.File) (bootSector, error) {
	buf := make([]byte, bootSectorSize)
	if _, err := f.ReadAt(buf, 0); err != nil && err != io.EOF {
		return bootSector{}, fmt.Errorf("%w: reading boot sector: %v", ErrImageCorrupt, err)
	}

	if buf[510] != 0x55 || buf[511] != 0xAA {
		return bootSector{}, fmt.Errorf("%w: missing boot sector signature", ErrImageCorrupt)
	}

	bpb := bootSector{
		bytesPerSector:    binary.LittleEndian.Uint16(buf[11:13]),
		sectorsPerCluster: buf[13],
		reservedSectors:   binary.LittleEndian.Uint16(buf[14:16]),
		numFATs:           buf[16],
		rootEntryCount:    binary.LittleEndian.Uint16(buf[17:19]),
	}

	totalSectors16 := binary.LittleEndian.Uint16(buf[19:21])
	fatSize16 := binary.LittleEndian.Uint16(buf[22:24])
	totalSectors32 := binary.LittleEndian.Uint32(buf[32:36])

	if bpb.bytesPerSector == 0 || bpb.sectorsPerCluster == 0 || bpb.numFATs == 0 {
		return bootSector{}, fmt.Errorf("%w: zero-valued BPB field", ErrImageCorrupt)
	}

	if totalSectors16 != 0 {
		bpb.totalSectors = uint32(totalSectors16)
	} else {
		bpb.totalSectors = totalSectors32
	}
	bpb.fatSizeSectors = uint32(fatSize16)

	bpb.rootDirSectors = (uint32(bpb.rootEntryCount)*32 + uint32(bpb.bytesPerSector) - 1) / uint32(bpb.bytesPerSector)
	bpb.rootDirSector = uint32(bpb.reservedSectors) + uint32(bpb.numFATs)*bpb.fatSizeSectors
	bpb.firstDataSector = bpb.rootDirSector + bpb.rootDirSectors

	dataSectors := bpb.totalSectors - bpb.firstDataSector
	bpb.countOfClusters = dataSectors / uint32(bpb.sectorsPerCluster)

	return bpb, nil
}

// classify decides FAT12 vs FAT16 from the cluster count, per the
// Microsoft FAT specification's canonical thresholds.
func (b bootSector) classify() (fatKind, error) {
	switch {
	case b.countOfClusters < 4085:
		return fat12, nil
	case b.countOfClusters < 65525:
		return fat16, nil
	default:
		return 0, fmt.Errorf("%w: FAT32 images are not supported", ErrImageCorrupt)
	}
}

// clusterToSector converts a cluster number (clusters are numbered from 2)
// to an absolute sector index.
func (b bootSector) clusterToSector(cluster uint32) uint32 {
	return b.firstDataSector + (cluster-2)*uint32(b.sectorsPerCluster)
}

func (b bootSector) bytesPerCluster() int {
	return int(b.bytesPerSector) * int(b.sectorsPerCluster)
}
