package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

// Scenario is one kind of request the load test sends
type Scenario struct {
	Name   string
	Amount string // transfers only; empty sends a wallet getBalance callback
}

// TestResult contains metrics for a single request
type TestResult struct {
	Scenario     string
	AccountID    int
	Success      bool
	ResponseTime time.Duration
	StatusCode   int
	Error        error
}

// TestStats contains aggregated test statistics
type TestStats struct {
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	TotalTime          time.Duration
	MinResponseTime    time.Duration
	MaxResponseTime    time.Duration
	TotalResponseTime  time.Duration
	ResponseTimes      []time.Duration
	ErrorCounts        map[string]int
	AccountStats       map[int]int
	ScenarioStats      map[string]int
	Lock               sync.Mutex
}

type settings struct {
	baseURL    string
	actorID    int
	actorRole  string
	walletKey  string
	logins     map[int]string
	delay      time.Duration
	httpClient *http.Client
}

func main() {
	concurrency := pflag.IntP("concurrency", "c", 5, "number of concurrent workers")
	totalRequests := pflag.IntP("requests", "n", 100, "total number of requests")
	accountIDs := pflag.IntSliceP("accounts", "a", []int{3, 4}, "account ids to spread load across")
	baseURL := pflag.String("url", "http://localhost:8080", "base URL of the portal")
	actorID := pflag.Int("actor-id", 1, "X-Actor-ID sent with transfers")
	actorRole := pflag.String("actor-role", "admin", "X-Actor-Role sent with transfers")
	walletKey := pflag.String("wallet-key", "", "shared secret for wallet callbacks; empty skips callbacks")
	delay := pflag.Duration("delay", 100*time.Millisecond, "delay between requests per worker")
	pflag.Parse()

	if len(*accountIDs) == 0 || *concurrency <= 0 || *totalRequests <= 0 {
		fmt.Fprintln(os.Stderr, "accounts, concurrency and requests must be non-empty and positive")
		os.Exit(2)
	}

	scenarios := []Scenario{
		{"Credit Small", "10.00"},
		{"Credit Large", "120.00"},
		{"Debit Small", "-5.00"},
		{"Debit Large", "-60.00"},
	}
	if *walletKey != "" {
		scenarios = append(scenarios, Scenario{Name: "Wallet Balance"})
	}

	cfg := settings{
		baseURL:    *baseURL,
		actorID:    *actorID,
		actorRole:  *actorRole,
		walletKey:  *walletKey,
		logins:     map[int]string{1: "admin", 2: "runner", 3: "player1", 4: "player2"},
		delay:      *delay,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	fmt.Printf("Load testing %s across accounts %v\n", cfg.baseURL, *accountIDs)
	fmt.Printf("Scenarios: %d, concurrency: %d, requests: %d, delay: %s\n",
		len(scenarios), *concurrency, *totalRequests, cfg.delay)

	stats := &TestStats{
		TotalRequests:   *totalRequests,
		MinResponseTime: time.Hour,
		ErrorCounts:     make(map[string]int),
		ResponseTimes:   make([]time.Duration, 0, *totalRequests),
		AccountStats:    make(map[int]int),
		ScenarioStats:   make(map[string]int),
	}

	results := make(chan TestResult, *totalRequests)
	jobs := make(chan int, *totalRequests)

	var wg sync.WaitGroup
	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker(cfg, *accountIDs, scenarios, jobs, results)
		}()
	}

	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for result := range results {
			stats.record(result)
		}
	}()

	startTime := time.Now()
	ticker := time.NewTicker(time.Second)
	go func() {
		for range ticker.C {
			stats.Lock.Lock()
			completed := stats.SuccessfulRequests + stats.FailedRequests
			stats.Lock.Unlock()
			fmt.Printf("Progress: %d/%d requests completed (%.1f%%)\n",
				completed, stats.TotalRequests, float64(completed)/float64(stats.TotalRequests)*100)
		}
	}()

	wg.Wait()
	close(results)
	<-collected
	ticker.Stop()

	stats.TotalTime = time.Since(startTime)
	printResults(stats)
}

func (s *TestStats) record(result TestResult) {
	s.Lock.Lock()
	defer s.Lock.Unlock()

	s.AccountStats[result.AccountID]++
	s.ScenarioStats[result.Scenario]++
	if result.Success {
		s.SuccessfulRequests++
	} else {
		s.FailedRequests++
		msg := "unknown"
		if result.Error != nil {
			msg = result.Error.Error()
		}
		s.ErrorCounts[msg]++
	}

	s.ResponseTimes = append(s.ResponseTimes, result.ResponseTime)
	s.TotalResponseTime += result.ResponseTime
	if result.ResponseTime < s.MinResponseTime {
		s.MinResponseTime = result.ResponseTime
	}
	if result.ResponseTime > s.MaxResponseTime {
		s.MaxResponseTime = result.ResponseTime
	}
}

func worker(cfg settings, accountIDs []int, scenarios []Scenario, jobs <-chan int, results chan<- TestResult) {
	for range jobs {
		if cfg.delay > 0 {
			time.Sleep(cfg.delay)
		}

		accountID := accountIDs[rand.Intn(len(accountIDs))]
		scenario := scenarios[rand.Intn(len(scenarios))]

		var req *http.Request
		var err error
		if scenario.Amount == "" {
			req, err = walletRequest(cfg, accountID)
		} else {
			req, err = transferRequest(cfg, accountID, scenario.Amount)
		}
		result := TestResult{Scenario: scenario.Name, AccountID: accountID}
		if err != nil {
			result.Error = err
			results <- result
			continue
		}
		req.Header.Set("X-Request-ID", uuid.NewString())

		start := time.Now()
		resp, err := cfg.httpClient.Do(req)
		result.ResponseTime = time.Since(start)

		if err != nil {
			result.Error = err
		} else {
			result.StatusCode = resp.StatusCode
			result.Success, result.Error = checkResponse(resp, scenario.Amount == "")
			_ = resp.Body.Close()
		}
		results <- result
	}
}

func transferRequest(cfg settings, accountID int, amount string) (*http.Request, error) {
	body, err := json.Marshal(map[string]string{"amount": amount})
	if err != nil {
		return nil, err
	}
	apiURL := fmt.Sprintf("%s/api/accounts/%d/transfers", cfg.baseURL, accountID)
	req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", fmt.Sprint(cfg.actorID))
	req.Header.Set("X-Actor-Role", cfg.actorRole)
	return req, nil
}

func walletRequest(cfg settings, accountID int) (*http.Request, error) {
	form := url.Values{
		"cmd":   {"getBalance"},
		"login": {cfg.logins[accountID]},
		"key":   {cfg.walletKey},
	}
	req, err := http.NewRequest(http.MethodPost, cfg.baseURL+"/api/wallet/callback", bytes.NewBufferString(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req, nil
}

// checkResponse treats wallet callbacks by their status field since they always answer 200
func checkResponse(resp *http.Response, wallet bool) (bool, error) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}
	if !wallet {
		return true, nil
	}
	var body struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode wallet response: %w", err)
	}
	if body.Status != "success" {
		return false, fmt.Errorf("wallet %s", body.Error)
	}
	return true, nil
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)*p/100]
}

func printResults(stats *TestStats) {
	rawTPS := float64(stats.SuccessfulRequests) / stats.TotalTime.Seconds()
	theoreticalTPS := float64(stats.TotalRequests) / stats.TotalTime.Seconds()

	var avg time.Duration
	if len(stats.ResponseTimes) > 0 {
		avg = stats.TotalResponseTime / time.Duration(len(stats.ResponseTimes))
	}
	sorted := append([]time.Duration(nil), stats.ResponseTimes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	fmt.Println("\n================= TEST RESULTS =================")
	fmt.Printf("Total Requests:      %d\n", stats.TotalRequests)
	fmt.Printf("Successful Requests: %d (%.1f%%)\n", stats.SuccessfulRequests,
		float64(stats.SuccessfulRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Failed Requests:     %d (%.1f%%)\n", stats.FailedRequests,
		float64(stats.FailedRequests)/float64(stats.TotalRequests)*100)
	fmt.Printf("Total Test Time:     %.2f seconds\n", stats.TotalTime.Seconds())

	fmt.Println("\n----------------- PERFORMANCE -----------------")
	fmt.Printf("Raw TPS:             %.2f (successful requests / total time)\n", rawTPS)
	fmt.Printf("Theoretical TPS:     %.2f (if all requests were successful)\n", theoreticalTPS)

	fmt.Println("\n----------------- RESPONSE TIMES -----------------")
	fmt.Printf("Average Response:    %v\n", avg)
	fmt.Printf("Minimum Response:    %v\n", stats.MinResponseTime)
	fmt.Printf("Maximum Response:    %v\n", stats.MaxResponseTime)
	fmt.Printf("P50 Response:        %v\n", percentile(sorted, 50))
	fmt.Printf("P90 Response:        %v\n", percentile(sorted, 90))
	fmt.Printf("P99 Response:        %v\n", percentile(sorted, 99))

	fmt.Println("\n----------------- ACCOUNT DISTRIBUTION -----------------")
	for id, count := range stats.AccountStats {
		fmt.Printf("Account %d: %d requests\n", id, count)
	}

	fmt.Println("\n----------------- SCENARIO DISTRIBUTION -----------------")
	for name, count := range stats.ScenarioStats {
		fmt.Printf("%-15s: %d requests\n", name, count)
	}

	// Transfers that would overdraw an account are rejected by the ledger and counted here.
	if stats.FailedRequests > 0 {
		fmt.Println("\n----------------- ERROR DISTRIBUTION -----------------")
		for msg, count := range stats.ErrorCounts {
			fmt.Printf("%-40s: %d\n", msg, count)
		}
	}
	fmt.Println("================================================")
}
