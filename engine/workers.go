package engine

import "golang.org/x/sync/errgroup"

// parallel splits [0, n) into one contiguous chunk per worker, runs fn on
// every chunk and waits for all of them before returning.
func parallel(workers, n int, fn func(lo, hi int)) {
	if workers > n {
		workers = n
	}

	if workers <= 1 {
		fn(0, n)
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)

	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, lo+chunk
		if hi > n {
			hi = n
		}

		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}

	// fn cannot fail, so Wait only joins the workers and returns nil.
	_ = g.Wait()
}
