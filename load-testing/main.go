// Buoy simulator: posts randomized in-bounds readings to a running instance
// at a configurable rate, then spot-checks the derived views. Used to
// exercise a deployed service, not run as part of the test suite.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"
)

type SimulatorConfig struct {
	TargetURL string
	Duration  time.Duration
	Interval  time.Duration
}

type readingPayload struct {
	GPSLatitude         float64 `json:"gps_latitude"`
	GPSLongitude        float64 `json:"gps_longitude"`
	BatteryPercentage   float64 `json:"battery_percentage"`
	WaterTurbidity      float64 `json:"water_turbidity"`
	WaterTemperature    float64 `json:"water_temperature"`
	Humidity            float64 `json:"humidity"`
	AirPressure         float64 `json:"air_pressure"`
	DetectedObjectClass *string `json:"detected_object_class,omitempty"`
}

type SimResults struct {
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	TotalLatency    time.Duration
	MinLatency      time.Duration
	MaxLatency      time.Duration
	Errors          []string
	mu              sync.RWMutex
}

func (sr *SimResults) AddResult(success bool, latency time.Duration, err error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	sr.TotalRequests++
	sr.TotalLatency += latency

	if sr.MinLatency == 0 || latency < sr.MinLatency {
		sr.MinLatency = latency
	}
	if latency > sr.MaxLatency {
		sr.MaxLatency = latency
	}

	if success {
		sr.SuccessRequests++
	} else {
		sr.FailedRequests++
		if err != nil {
			sr.Errors = append(sr.Errors, err.Error())
		}
	}
}

func (sr *SimResults) GetStats() (float64, float64, time.Duration) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	if sr.TotalRequests == 0 {
		return 0, 0, 0
	}
	successRate := float64(sr.SuccessRequests) / float64(sr.TotalRequests) * 100
	avgLatency := sr.TotalLatency / time.Duration(sr.TotalRequests)

	return successRate, float64(sr.TotalRequests), avgLatency
}

// buoy evolves a plausible sensor state between posts: the platform drifts,
// the battery drains, the water changes slowly.
type buoy struct {
	lat, lng  float64
	battery   float64
	turbidity float64
	waterTemp float64
}

func newBuoy() *buoy {
	return &buoy{
		lat:       6.9271 + rand.Float64()*0.01,
		lng:       79.8612 + rand.Float64()*0.01,
		battery:   100,
		turbidity: 5 + rand.Float64()*10,
		waterTemp: 27 + rand.Float64()*3,
	}
}

func (b *buoy) next() readingPayload {
	b.lat += (rand.Float64() - 0.5) * 0.0005
	b.lng += (rand.Float64() - 0.5) * 0.0005
	b.battery -= rand.Float64() * 0.05
	if b.battery < 5 {
		b.battery = 100 // solar recharge
	}
	b.turbidity += (rand.Float64() - 0.5) * 0.5
	if b.turbidity < 0 {
		b.turbidity = 0
	}
	b.waterTemp += (rand.Float64() - 0.5) * 0.1

	p := readingPayload{
		GPSLatitude:       b.lat,
		GPSLongitude:      b.lng,
		BatteryPercentage: b.battery,
		WaterTurbidity:    b.turbidity,
		WaterTemperature:  b.waterTemp,
		Humidity:          60 + rand.Float64()*30,
		AirPressure:       1000 + rand.Float64()*20,
	}

	if rand.Intn(20) == 0 {
		classes := []string{"boat", "bird", "debris", "swimmer"}
		class := classes[rand.Intn(len(classes))]
		p.DetectedObjectClass = &class
	}
	return p
}

func postReading(client *http.Client, baseURL string, payload readingPayload) (bool, time.Duration, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return false, 0, err
	}

	start := time.Now()
	resp, err := client.Post(baseURL+"/api/v1/readings", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return false, time.Since(start), err
	}
	defer resp.Body.Close()

	latency := time.Since(start)
	if resp.StatusCode != http.StatusOK {
		return false, latency, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return true, latency, nil
}

func checkDerivedViews(client *http.Client, baseURL string) error {
	fmt.Println("\n=== Checking derived views ===")

	resp, err := client.Get(baseURL + "/api/v1/status")
	if err != nil {
		return fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status endpoint returned HTTP %d", resp.StatusCode)
	}

	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("failed to decode status: %w", err)
	}
	fmt.Printf("Status: online=%v quality=%v total=%v\n",
		status["is_online"], status["connection_quality"], status["total_readings"])

	resp2, err := client.Get(baseURL + "/api/v1/readings/summary?hours=1")
	if err != nil {
		return fmt.Errorf("summary request failed: %w", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		return fmt.Errorf("summary endpoint returned HTTP %d", resp2.StatusCode)
	}

	var summary map[string]interface{}
	if err := json.NewDecoder(resp2.Body).Decode(&summary); err != nil {
		return fmt.Errorf("failed to decode summary: %w", err)
	}
	fmt.Printf("Summary: readings in last hour=%v\n", summary["total_readings"])

	return nil
}

func main() {
	config := SimulatorConfig{
		TargetURL: getEnv("TARGET_URL", "http://localhost:8080"),
		Duration:  getEnvDuration("DURATION", "60s"),
		Interval:  getEnvDuration("INTERVAL", "2s"),
	}

	fmt.Printf("=== Buoy Simulator ===\n")
	fmt.Printf("Target URL: %s\n", config.TargetURL)
	fmt.Printf("Duration: %v\n", config.Duration)
	fmt.Printf("Post interval: %v\n", config.Interval)

	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Println("\nWaiting for service to be ready...")
	for i := 0; i < 30; i++ {
		resp, err := client.Get(config.TargetURL + "/health")
		if err == nil && resp.StatusCode == 200 {
			resp.Body.Close()
			fmt.Println("Service is ready!")
			break
		}
		if resp != nil {
			resp.Body.Close()
		}

		fmt.Printf("Waiting for service... (%d/30)\n", i+1)
		time.Sleep(2 * time.Second)
	}

	results := &SimResults{}
	b := newBuoy()

	ctx, cancel := context.WithTimeout(context.Background(), config.Duration)
	defer cancel()

	ticker := time.NewTicker(config.Interval)
	defer ticker.Stop()

	fmt.Println("\nTransmitting readings...")

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
			success, latency, err := postReading(client, config.TargetURL, b.next())
			results.AddResult(success, latency, err)
		}
	}

	fmt.Printf("\n=== Final Results ===\n")
	successRate, totalReqs, avgLatency := results.GetStats()

	fmt.Printf("Total Requests: %.0f\n", totalReqs)
	fmt.Printf("Successful Requests: %d\n", results.SuccessRequests)
	fmt.Printf("Failed Requests: %d\n", results.FailedRequests)
	fmt.Printf("Success Rate: %.2f%%\n", successRate)
	fmt.Printf("Average Latency: %v\n", avgLatency.Round(time.Millisecond))
	fmt.Printf("Min Latency: %v\n", results.MinLatency.Round(time.Millisecond))
	fmt.Printf("Max Latency: %v\n", results.MaxLatency.Round(time.Millisecond))

	if len(results.Errors) > 0 {
		fmt.Printf("\n=== Errors (showing first 10) ===\n")
		for i, err := range results.Errors {
			if i >= 10 {
				fmt.Printf("... and %d more errors\n", len(results.Errors)-10)
				break
			}
			fmt.Printf("- %s\n", err)
		}
	}

	if err := checkDerivedViews(client, config.TargetURL); err != nil {
		fmt.Printf("Derived view check failed: %v\n", err)
	}

	fmt.Println("\nSimulation completed!")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	if parsed, err := time.ParseDuration(defaultValue); err == nil {
		return parsed
	}
	return time.Minute
}
