package config

import "time"

// HTTP server timeouts
const (
	ServerReadTimeout     = 15 * time.Second
	ServerWriteTimeout    = 60 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
	ServerRequestTimeout  = 30 * time.Second
)

// Interval between sweeps of expired reputation verdicts
const ReputationCacheSweepInterval = time.Minute

// Code issuance
const (
	CodeBytes            = 8
	CodeGenerateAttempts = 10
)

// Redis ping timeout at startup
const RedisPingTimeout = 5 * time.Second

// CORS preflight cache, in seconds
const CORSMaxAge = 86400
