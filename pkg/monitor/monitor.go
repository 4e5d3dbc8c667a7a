// Package monitor samples a host application's render manager on a
// fixed interval and reports the readings to InfluxDB and a status
// file. Hosts construct a Service around their render manager and run
// it for the lifetime of the map renderer.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/overmap/overmap/internal/influx"
	"github.com/overmap/overmap/internal/logging"
	"github.com/overmap/overmap/internal/queue"
	"github.com/overmap/overmap/pkg/api"
)

// Options configures a monitor Service.
type Options struct {
	RenderManager api.RenderManager
	Logger        *slog.Logger // nil falls back to slog.Default
	StatusDir     string       // empty disables the status file
	Interval      time.Duration
	FlushEvery    int
}

// Sample is one reading of the render manager.
type Sample struct {
	Time        time.Time `json:"time"`
	QueueSize   int       `json:"queueSize"`
	ThreadCount int       `json:"threadCount"`
	Running     bool      `json:"running"`
}

// Service manages status monitoring
type Service struct {
	opts      Options
	influx    *influx.Manager
	samples   *queue.Queue[Sample]
	isRunning bool
	mu        sync.RWMutex
	stopChan  chan struct{}
}

// NewService creates a new monitor service
func NewService(opts Options) *Service {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.FlushEvery <= 0 {
		opts.FlushEvery = 10
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		opts:     opts,
		samples:  queue.New[Sample](),
		stopChan: make(chan struct{}),
	}
}

// NewFromConfig builds a service for rm from the monitor.* settings,
// attaching the InfluxDB reporter when influx.enabled is set.
func NewFromConfig(rm api.RenderManager, logger *slog.Logger) *Service {
	s := NewService(Options{
		RenderManager: rm,
		Logger:        logger,
		StatusDir:     viper.GetString("monitor.statusDir"),
		Interval:      time.Duration(viper.GetInt("monitor.intervalSeconds")) * time.Second,
		FlushEvery:    viper.GetInt("monitor.flushEvery"),
	})

	if viper.GetBool("influx.enabled") {
		m := influx.NewManager(logging.NewZerologLogger(nil), viper.GetString("influx.backupPath"))
		if err := m.Connect(); err != nil {
			s.opts.Logger.Warn("InfluxDB reporting disabled", "error", err)
		} else {
			s.influx = m
		}
	}
	return s
}

// IsRunning returns whether the status monitor is running
func (s *Service) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Snapshot reads the render manager once.
func (s *Service) Snapshot() Sample {
	rm := s.opts.RenderManager
	return Sample{
		Time:        time.Now(),
		QueueSize:   rm.QueueSize(),
		ThreadCount: rm.ThreadCount(),
		Running:     rm.Running(),
	}
}

// Start starts the status monitor goroutine
func (s *Service) Start() error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	stop := s.stopChan
	s.mu.Unlock()

	go func() {
		logger := s.opts.Logger
		logger.Debug("Starting status monitor goroutine")

		var statusFile *os.File
		if s.opts.StatusDir != "" {
			var err error
			statusFile, err = os.Create(s.opts.StatusDir + "/status.txt")
			if err != nil {
				logger.Error("Error creating status file", "error", err)
			}
			defer statusFile.Close()
		}

		ticker := time.NewTicker(s.opts.Interval)
		defer ticker.Stop()

		sinceFlush := 0
		for {
			select {
			case <-stop:
				s.flush()
				return
			case <-ticker.C:
				sample := s.Snapshot()
				s.samples.Push(sample)

				if statusFile != nil {
					writeStatus(statusFile, sample)
				}

				sinceFlush++
				if sinceFlush >= s.opts.FlushEvery {
					sinceFlush = 0
					s.flush()
				}
			}
		}
	}()

	return nil
}

// flush drains buffered samples into InfluxDB.
func (s *Service) flush() {
	if s.influx == nil {
		s.samples.Clear()
		return
	}
	logger := s.opts.Logger
	for _, sample := range s.samples.GetAndEmpty() {
		point := influx.RenderPoint(sample.Time, sample.QueueSize, sample.ThreadCount, sample.Running)
		if err := s.influx.WritePoint(context.Background(), "render_performance", point); err != nil {
			logger.Error("Error writing render sample to InfluxDB", "error", err)
		}
	}
}

func writeStatus(f *os.File, sample Sample) {
	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		data = []byte(fmt.Sprintf(`{"error": %q}`, err.Error()))
	}
	f.Truncate(0)
	f.Seek(0, 0)
	f.Write(append(data, '\n'))
}

// Stop stops the status monitor. Safe to call more than once; the
// running flag is cleared here so a later Stop never closes the same
// channel twice.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		s.isRunning = false
		close(s.stopChan)
	}
}
