package api

import (
	"time"

	"github.com/valyala/fasthttp"

	"keyword-planner-go/pkg/logger"
)

// ConnectionConfig holds configuration for HTTP connections
type ConnectionConfig struct {
	MaxConnsPerHost     int           `json:"max_conns_per_host"`
	MaxIdleConnDuration time.Duration `json:"max_idle_conn_duration"`
	ReadTimeout         time.Duration `json:"read_timeout"`
	WriteTimeout        time.Duration `json:"write_timeout"`
	RequestTimeout      time.Duration `json:"request_timeout"`
}

// DefaultConnectionConfig suits one request at a time against a single host.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxConnsPerHost:     4,
		MaxIdleConnDuration: 90 * time.Second,
		ReadTimeout:         60 * time.Second,
		WriteTimeout:        30 * time.Second,
		RequestTimeout:      60 * time.Second,
	}
}

// ConnectionManager owns the fasthttp client used for API calls.
type ConnectionManager struct {
	config ConnectionConfig
	client *fasthttp.Client
	log    *logger.Logger
}

// NewConnectionManager creates a new connection manager with specified config
func NewConnectionManager(config ConnectionConfig) *ConnectionManager {
	client := &fasthttp.Client{
		Name:                "keyword-planner-go/1.0",
		MaxConnsPerHost:     config.MaxConnsPerHost,
		MaxIdleConnDuration: config.MaxIdleConnDuration,
		ReadTimeout:         config.ReadTimeout,
		WriteTimeout:        config.WriteTimeout,
	}

	return &ConnectionManager{
		config: config,
		client: client,
		log:    logger.GetLogger().WithField("component", "connection_manager"),
	}
}

// GetFastHTTPClient returns the managed client.
func (cm *ConnectionManager) GetFastHTTPClient() *fasthttp.Client {
	return cm.client
}

// RequestTimeout is the upper bound for a single request.
func (cm *ConnectionManager) RequestTimeout() time.Duration {
	return cm.config.RequestTimeout
}

// Close closes all idle connections
func (cm *ConnectionManager) Close() {
	cm.log.Debug("Closing idle connections")
	cm.client.CloseIdleConnections()
}
