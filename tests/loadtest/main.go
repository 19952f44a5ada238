package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL         = "http://127.0.0.1:18090"
	adminToken      = "change-me"
	numWorkers      = 50
	testDuration    = 10 * time.Second
	numWorks        = 50
	numFingerprints = 100
)

var categories = []string{"game", "utility", "demo", "music", "art"}

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== workd Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n", numWorkers, testDuration)
	fmt.Printf("Works: %d | Fingerprints: %d\n\n", numWorks, numFingerprints)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: Seed the catalog through the admin API
	fmt.Println("\n--- Phase 1: Seeding catalog (POST /api/admin/works) ---")
	seedWorks()

	// Phase 2: Browse-heavy load
	fmt.Println("\n--- Phase 2: Browse load (list, detail, search) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.30:
			return doGetWorks()
		case r < 0.70:
			return doGetDetail(rng)
		case r < 0.90:
			return doSearch(rng)
		default:
			return doGetCategories()
		}
	})

	// Phase 3: Mixed load with likes hammering the limiter
	fmt.Println("\n--- Phase 3: Mixed load (40% like, 60% read) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.40:
			return doLike(rng)
		case r < 0.70:
			return doGetDetail(rng)
		case r < 0.90:
			return doGetWorks()
		default:
			return doSearch(rng)
		}
	})
}

func seedWorks() {
	var created, failed int
	for i := 0; i < numWorks; i++ {
		body := map[string]interface{}{
			"id":        workID(i),
			"title":     fmt.Sprintf("Load Work %d", i),
			"author":    "loadtest",
			"category":  categories[i%len(categories)],
			"tags":      []string{"load", categories[i%len(categories)]},
			"platforms": []string{"pc"},
		}
		data, _ := json.Marshal(body)
		resp, err := httpClient.Post(
			baseURL+"/api/admin/works?token="+adminToken,
			"application/json", bytes.NewReader(data))
		if err != nil {
			failed++
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		// 409 means a previous run already seeded this id
		if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusConflict {
			created++
		} else {
			failed++
		}
	}
	fmt.Printf("  Seeded: %d | Failed: %d\n", created, failed)
}

func workID(i int) string {
	return fmt.Sprintf("load-work-%d", i)
}

func fingerprintHeaders(req *http.Request, rng *rand.Rand) {
	// Distinct forwarded addresses give the limiter distinct fingerprints.
	req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.%d.%d", rng.Intn(100), rng.Intn(250)+1))
	req.Header.Set("User-Agent", "workd-loadtest")
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + repeat("-", 92))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + repeat("-", 92))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func doGet(endpoint, url string, rng *rand.Rand, okStatus func(int) bool) result {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return result{endpoint, 0, 0, true}
	}
	if rng != nil {
		fingerprintHeaders(req, rng)
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, !okStatus(resp.StatusCode)}
}

func doGetWorks() result {
	return doGet("GET /api/works", baseURL+"/api/works", nil, func(c int) bool { return c == 200 })
}

func doGetDetail(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/api/works/%s", baseURL, workID(rng.Intn(numWorks)))
	return doGet("GET /api/works/{id}", url, rng, func(c int) bool { return c == 200 })
}

func doSearch(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/api/search?q=load&category=%s", baseURL, categories[rng.Intn(len(categories))])
	return doGet("GET /api/search", url, nil, func(c int) bool { return c == 200 })
}

func doGetCategories() result {
	return doGet("GET /api/categories", baseURL+"/api/categories", nil, func(c int) bool { return c == 200 })
}

func doLike(rng *rand.Rand) result {
	url := fmt.Sprintf("%s/api/like/%s", baseURL, workID(rng.Intn(numWorks)))
	req, err := http.NewRequest(http.MethodPost, url, nil)
	if err != nil {
		return result{"POST /api/like/{id}", 0, 0, true}
	}
	fingerprintHeaders(req, rng)
	start := time.Now()
	resp, err := httpClient.Do(req)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /api/like/{id}", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	// 429 is an expected limiter outcome under repeat traffic, not an error
	ok := resp.StatusCode == 200 || resp.StatusCode == 429
	return result{"POST /api/like/{id}", resp.StatusCode, lat, !ok}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}

func repeat(s string, n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += s
	}
	return out
}
