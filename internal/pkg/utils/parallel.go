package utils

import (
	"github.com/zeromicro/go-zero/core/mr"
)

// ParallelMap 以最多 workers 个协程并发执行 fn，结果与输入顺序一致
func ParallelMap[T, R any](items []T, workers int, fn func(T) R) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}
	if len(items) == 1 || workers <= 1 {
		for i, item := range items {
			results[i] = fn(item)
		}
		return results
	}

	mr.ForEach(func(source chan<- int) {
		for i := range items {
			source <- i
		}
	}, func(i int) {
		results[i] = fn(items[i])
	}, mr.WithWorkers(min(workers, len(items))))
	return results
}
