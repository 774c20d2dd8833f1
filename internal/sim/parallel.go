package sim

import (
	"math/rand"
	"runtime"
	"sort"
	"sync"
)

// GameJob is a single simulation job.
type GameJob struct {
	SimID int
	Seed  int64
}

// RunBatch plays cfg.Games games on a worker pool. Game seeds are derived
// from cfg.Seed, so a batch is reproducible regardless of the worker count.
func RunBatch(cfg Config) Report {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	jobs := make(chan GameJob, cfg.Games)
	results := make(chan GameResult, cfg.Games)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go worker(&wg, cfg, jobs, results)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	for i := 0; i < cfg.Games; i++ {
		seed := rng.Int63()
		if seed == 0 {
			seed = 1
		}
		jobs <- GameJob{SimID: i, Seed: seed}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	all := make([]GameResult, 0, cfg.Games)
	for r := range results {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].SimID < all[j].SimID })
	return Aggregate(all)
}

func worker(wg *sync.WaitGroup, cfg Config, jobs <-chan GameJob, results chan<- GameResult) {
	defer wg.Done()
	for job := range jobs {
		results <- RunSingleGame(cfg, job.SimID, job.Seed)
	}
}
