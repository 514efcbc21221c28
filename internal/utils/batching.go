package utils

const BATCH_SIZE = 32

// Batches splits items into consecutive slices of at most size items. The
// slices share items' backing array. A size <= 0 uses BATCH_SIZE.
func Batches[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = BATCH_SIZE
	}
	if len(items) == 0 {
		return nil
	}

	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end:end])
	}
	return batches
}
