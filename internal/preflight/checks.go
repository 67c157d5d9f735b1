// Package preflight runs startup sanity checks so misconfiguration surfaces
// as one readable report instead of a mid-request failure.
package preflight

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Vansh-Tyagi-git/PokAImon/internal/config"
)

// Result of a single check
type Result struct {
	Name    string
	Ok      bool
	Fatal   bool
	Message string
}

// Run executes all checks and returns an error when any fatal check failed.
func Run(cfg *config.Config) error {
	results := []Result{
		checkImageDir(cfg.ImageDir),
		checkGeminiKey(cfg.GeminiAPIKey),
		checkRedis(cfg.RedisURL),
		checkPoolsFile(cfg.PoolsFile),
	}

	fatal := false
	for _, r := range results {
		switch {
		case r.Ok:
			log.Printf("✅ [PREFLIGHT] %s", r.Name)
		case r.Fatal:
			fatal = true
			log.Printf("❌ [PREFLIGHT] %s: %s", r.Name, r.Message)
		default:
			log.Printf("⚠️  [PREFLIGHT] %s: %s", r.Name, r.Message)
		}
	}

	if fatal {
		return fmt.Errorf("preflight checks failed")
	}
	return nil
}

// checkImageDir verifies the image directory exists and is writable.
func checkImageDir(dir string) Result {
	r := Result{Name: "image directory", Fatal: true}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		r.Message = fmt.Sprintf("cannot create %s: %v", dir, err)
		return r
	}

	probe := filepath.Join(dir, ".preflight")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		r.Message = fmt.Sprintf("%s is not writable: %v", dir, err)
		return r
	}
	os.Remove(probe)

	r.Ok = true
	return r
}

// checkGeminiKey warns when no server-side key is configured. Not fatal:
// requests may carry their own key, and the simulator covers the rest.
func checkGeminiKey(key string) Result {
	r := Result{Name: "gemini api key"}
	if key == "" {
		r.Message = "GEMINI_API_KEY not set; generation uses per-request keys or the simulator"
		return r
	}
	r.Ok = true
	return r
}

// checkRedis warns when Redis is not configured. Not fatal: the gallery
// cache falls back to the in-process implementation.
func checkRedis(redisURL string) Result {
	r := Result{Name: "redis"}
	if redisURL == "" {
		r.Message = "REDIS_URL not set; gallery cache is in-process only"
		return r
	}
	r.Ok = true
	return r
}

// checkPoolsFile verifies a configured pools file exists. Not fatal: the
// simulator carries compiled-in defaults.
func checkPoolsFile(path string) Result {
	r := Result{Name: "simulator pools file"}
	if path == "" {
		r.Ok = true
		return r
	}
	if _, err := os.Stat(path); err != nil {
		r.Message = fmt.Sprintf("%s: %v; using built-in pools", path, err)
		return r
	}
	r.Ok = true
	return r
}
