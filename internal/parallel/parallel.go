/*
Copyright © 2020 ConsenSys

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package parallel fans work out over contiguous index chunks, one goroutine
// per chunk. It backs the parallel aggregation entry points.
package parallel

import (
	"runtime"
	"sync"
)

// Execute splits [0, nbIterations) into at most NumCPU contiguous chunks,
// runs work on each chunk on its own goroutine and waits for completion.
// Chunk boundaries are deterministic for a given nbIterations and CPU count,
// but callers must not rely on any particular partitioning: the work function
// has to combine results with an associative, commutative operation.
func Execute(nbIterations int, work func(start, end int)) {
	nbTasks := runtime.NumCPU()
	if nbTasks > nbIterations {
		nbTasks = nbIterations
	}
	if nbTasks <= 1 {
		if nbIterations > 0 {
			work(0, nbIterations)
		}
		return
	}

	nbIterationsPerCpus := nbIterations / nbTasks
	extraTasks := nbIterations % nbTasks

	var wg sync.WaitGroup
	start := 0
	for i := 0; i < nbTasks; i++ {
		end := start + nbIterationsPerCpus
		if i < extraTasks {
			end++
		}
		wg.Add(1)
		go func(s, e int) {
			work(s, e)
			wg.Done()
		}(start, end)
		start = end
	}
	wg.Wait()
}
