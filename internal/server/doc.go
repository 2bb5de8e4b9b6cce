// Package server implements the HTTP API for the orchestrator
//
// This package provides REST endpoints for launching workflows, browsing
// run history, health checks, and a WebSocket stream of run events
package server
