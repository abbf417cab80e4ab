package util

import "hash/fnv"

// SeedFromString derives a stable seed from s, so that the same output
// path always produces the same images.
func SeedFromString(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // hash.Write never returns an error
	return int64(h.Sum64())
}
