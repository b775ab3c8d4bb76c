// Package config loads and hot-reloads this server's YAML configuration,
// in the same shape as the rest of the corpus's config-driven services:
// env-var substitution, sane applied defaults, and an fsnotify-backed
// watcher for zero-restart reloads.
package config

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for a pgshim server.
type Config struct {
	ListenAddress                string   `yaml:"listen_address"`
	ApplicationName              string   `yaml:"application_name"`
	BufferSize                   int      `yaml:"buffer_size"`
	MaxClients                   int      `yaml:"max_clients"`
	TLSCertFile                  string   `yaml:"tls_cert_file"`
	TLSKeyFile                   string   `yaml:"tls_key_file"`
	RequireEncryption             bool     `yaml:"require_encryption"`
	SurfaceExecuteErrors          bool     `yaml:"surface_execute_errors"`
	IgnoreMissingStatementTypes   []string `yaml:"ignore_missing_statement_types"`
	MetricsListenAddress          string   `yaml:"metrics_listen_address"`
}

// TLSEnabled reports whether both halves of a TLS keypair are configured.
func (c Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}

// Default returns the configuration a server runs with when no file is
// loaded at all.
func Default() Config {
	return Config{
		ListenAddress:   "0.0.0.0:5432",
		ApplicationName: "postgres-proto",
		BufferSize:      8192,
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// substituteEnvVars replaces ${VAR_NAME} occurrences with the named
// environment variable's value, leaving the placeholder untouched when the
// variable is unset.
func substituteEnvVars(data []byte) []byte {
	return envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envVarPattern.FindSubmatch(match)[1]
		if val, ok := os.LookupEnv(string(name)); ok {
			return []byte(val)
		}
		return match
	})
}

// Load reads and parses a YAML config file at path, substituting
// ${VAR_NAME} environment references, and fills in any field left zero
// with Default's value.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	data = substituteEnvVars(data)

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Watcher watches a config file for changes and invokes a callback with
// the freshly reloaded configuration, debounced so a burst of writes from
// an editor only triggers one reload.
type Watcher struct {
	path     string
	callback func(Config)
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	stopCh   chan struct{}
}

// NewWatcher starts watching path for changes.
func NewWatcher(path string, callback func(Config)) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	if err := w.Add(path); err != nil {
		w.Close()
		return nil, fmt.Errorf("watching config file: %w", err)
	}

	cw := &Watcher{
		path:     path,
		callback: callback,
		watcher:  w,
		stopCh:   make(chan struct{}),
	}

	go cw.run()
	return cw, nil
}

func (cw *Watcher) run() {
	var debounce *time.Timer
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, cw.reload)
			}
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[config] watcher error: %v", err)
		case <-cw.stopCh:
			return
		}
	}
}

func (cw *Watcher) reload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cfg, err := Load(cw.path)
	if err != nil {
		log.Printf("[config] hot-reload failed: %v", err)
		return
	}

	log.Printf("[config] configuration reloaded from %s", cw.path)
	cw.callback(cfg)
}

// Stop stops the watcher.
func (cw *Watcher) Stop() error {
	close(cw.stopCh)
	return cw.watcher.Close()
}
