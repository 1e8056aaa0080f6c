// File: internal/sizeclass/sizeclass.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Power-of-two size class table shared by the recycling allocator.

package sizeclass

// Predefined (power-of-two) block size classes (bytes).
// This table can be tuned for deployment needs.
var classes = [...]int{
	64,
	128,
	256,
	512,
	1024,            // 1K
	2 * 1024,        // 2K
	4 * 1024,        // 4K
	8 * 1024,        // 8K
	16 * 1024,       // 16K
	32 * 1024,       // 32K
	64 * 1024,       // 64K
	128 * 1024,      // 128K
	256 * 1024,      // 256K
	512 * 1024,      // 512K
	1 * 1024 * 1024, // 1M
}

// Count returns the number of size classes.
func Count() int { return len(classes) }

// Class returns the block size of class i.
func Class(i int) int { return classes[i] }

// Largest returns the biggest class size.
func Largest() int { return classes[len(classes)-1] }

// Index returns the index of the smallest class that fits size,
// or -1 when size is non-positive or above the largest class.
func Index(size int) int {
	if size <= 0 || size > Largest() {
		return -1
	}
	for i, c := range classes {
		if size <= c {
			return i
		}
	}
	return -1
}

// IndexOf returns the index of the class exactly equal to size, or -1.
func IndexOf(size int) int {
	for i, c := range classes {
		if size == c {
			return i
		}
		if size < c {
			return -1
		}
	}
	return -1
}

// RoundUp returns the smallest class >= size. Sizes above the largest
// class are returned unchanged; such blocks bypass class accounting.
func RoundUp(size int) int {
	if i := Index(size); i >= 0 {
		return classes[i]
	}
	return size
}
