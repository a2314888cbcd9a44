// Package health reports dependency health over the standard gRPC health service.
package health

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/sbilibin2017/gw-withdrawal-workflow/internal/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported next to the overall "" entry.
const ServiceName = "withdrawal.Workflow"

// CheckFunc checks one dependency.
type CheckFunc func(ctx context.Context) error

type dependency struct {
	check    CheckFunc
	required bool
}

// Checker periodically checks dependencies and publishes the result to a gRPC health server.
// Each dependency is reported under its own name; "" and ServiceName follow the required ones.
type Checker struct {
	server   *health.Server
	interval time.Duration
	timeout  time.Duration

	mu   sync.Mutex
	deps map[string]dependency
}

// NewChecker creates a Checker that reports into server.
func NewChecker(server *health.Server, interval, timeout time.Duration) *Checker {
	return &Checker{
		server:   server,
		interval: interval,
		timeout:  timeout,
		deps:     map[string]dependency{},
	}
}

// AddCheck registers a dependency the service cannot serve without.
func (c *Checker) AddCheck(name string, check CheckFunc) {
	c.add(name, check, true)
}

// AddOptionalCheck registers a dependency whose failure only degrades the service.
// It is reported under name but leaves the overall status alone.
func (c *Checker) AddOptionalCheck(name string, check CheckFunc) {
	c.add(name, check, false)
}

func (c *Checker) add(name string, check CheckFunc, required bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deps[name] = dependency{check: check, required: required}
}

// CheckOnce runs every check and updates the serving statuses. It reports
// whether all required dependencies passed.
func (c *Checker) CheckOnce(ctx context.Context) bool {
	c.mu.Lock()
	names := make([]string, 0, len(c.deps))
	deps := make(map[string]dependency, len(c.deps))
	for name, dep := range c.deps {
		names = append(names, name)
		deps[name] = dep
	}
	c.mu.Unlock()
	sort.Strings(names)

	healthy := true
	for _, name := range names {
		dep := deps[name]
		cctx, cancel := context.WithTimeout(ctx, c.timeout)
		err := dep.check(cctx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			if dep.required {
				healthy = false
				logger.Log.Warnw("dependency unhealthy", "dependency", name, "error", err)
			} else {
				logger.Log.Warnw("dependency degraded", "dependency", name, "error", err)
			}
		}
		c.server.SetServingStatus(name, status)
	}

	status := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(ServiceName, status)
	return healthy
}

// Run checks immediately and then on every interval until ctx is done,
// after which every service is reported NOT_SERVING.
func (c *Checker) Run(ctx context.Context) {
	c.CheckOnce(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.CheckOnce(ctx)
		}
	}
}

// NewGRPCServer builds a gRPC server exposing the health service and reflection.
func NewGRPCServer(hs *health.Server) *grpc.Server {
	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	reflection.Register(s)
	return s
}

// Serve listens on port and serves s until it is stopped.
func Serve(s *grpc.Server, port string) error {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	logger.Log.Infow("gRPC health server listening", "port", port)
	if err := s.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}
