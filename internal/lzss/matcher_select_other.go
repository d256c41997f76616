//go:build !amd64 && !arm64

package lzss

// selectFinder falls back to the byte-by-byte finder on architectures
// without a dedicated word-compare implementation.
func selectFinder() finder {
	return genericFinder{}
}
