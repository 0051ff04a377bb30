package fleet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/NVIDIA/apiaudit/pkg/classifier"
	"github.com/NVIDIA/apiaudit/pkg/defaults"
	"github.com/NVIDIA/apiaudit/pkg/k8s/client"
	"github.com/NVIDIA/apiaudit/pkg/report"
	"github.com/NVIDIA/apiaudit/pkg/scanner"
)

// DefaultWorkers is the number of clusters scanned at once.
const DefaultWorkers = defaults.Workers

// Connector creates a cluster handle for a kubeconfig context.
type Connector interface {
	ForContext(name string) (*client.Handle, error)
}

// ClusterScanner scans every configured kind on one cluster.
type ClusterScanner interface {
	ScanAll(ctx context.Context, h *client.Handle) ([]classifier.Finding, error)
}

// Result is the outcome of auditing one cluster.
type Result struct {
	Context  string
	Findings []classifier.Finding

	// Err joins connection and per-kind failures. Findings from the kinds
	// that did succeed are still present.
	Err error
}

// Orchestrator audits a set of clusters concurrently.
type Orchestrator struct {
	Connector Connector

	// Scanner defaults to a scanner over the default registry.
	Scanner ClusterScanner

	// Workers bounds concurrent cluster scans. Zero means DefaultWorkers.
	Workers int

	// ClusterTimeout bounds the scan of a single cluster.
	// Zero means defaults.ClusterScanTimeout; negative disables the bound.
	ClusterTimeout time.Duration

	// Writer receives one report per cluster with findings.
	Writer report.Writer

	// RunID tags the reports of this run. Generated when empty.
	RunID string
}

// Run scans all contexts and returns one Result per context, in input order.
// It blocks until every cluster has been scanned.
func (o *Orchestrator) Run(ctx context.Context, contexts []string) []Result {
	if o.Scanner == nil {
		o.Scanner = scanner.New(scanner.DefaultRegistry())
	}
	workers := o.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	start := time.Now()
	defer func() {
		fleetRunDuration.Observe(time.Since(start).Seconds())
	}()

	results := make([]Result, len(contexts))

	// Tasks never return errors, so one failing cluster cannot cancel the rest.
	var g errgroup.Group
	g.SetLimit(workers)
	for i, name := range contexts {
		g.Go(func() error {
			results[i] = o.scanCluster(ctx, name)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (o *Orchestrator) scanCluster(ctx context.Context, name string) Result {
	start := time.Now()
	defer func() {
		clusterScanDuration.Observe(time.Since(start).Seconds())
	}()

	logger := slog.With(slog.String("context", name))
	logger.Debug("scanning cluster")

	timeout := o.ClusterTimeout
	if timeout == 0 {
		timeout = defaults.ClusterScanTimeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	h, err := o.Connector.ForContext(name)
	if err != nil {
		clusterScanTotal.WithLabelValues("connect_error").Inc()
		logger.Error("failed to connect to cluster", slog.String("error", err.Error()))
		return Result{Context: name, Err: fmt.Errorf("context %s: %w", name, err)}
	}

	findings, err := o.Scanner.ScanAll(ctx, h)
	if err != nil {
		clusterScanTotal.WithLabelValues("partial").Inc()
		err = fmt.Errorf("context %s: %w", name, err)
	} else {
		clusterScanTotal.WithLabelValues("success").Inc()
	}

	logger.Debug("cluster scan complete", slog.Int("findings", len(findings)))
	return Result{Context: name, Findings: findings, Err: err}
}

// Audit scans all contexts and writes a report for each cluster with at least
// one finding, in the order the contexts were given. Per-cluster failures are
// logged only; the returned error reflects report output failures.
func (o *Orchestrator) Audit(ctx context.Context, contexts []string) error {
	if o.RunID == "" {
		o.RunID = uuid.New().String()
	}
	slog.Info("starting audit",
		slog.String("run", o.RunID),
		slog.Int("clusters", len(contexts)))

	results := o.Run(ctx, contexts)

	var (
		total  int
		failed int
		errs   []error
	)
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
		if len(r.Findings) == 0 {
			continue
		}
		total += len(r.Findings)
		findingsTotal.WithLabelValues(r.Context).Set(float64(len(r.Findings)))

		err := o.Writer.Write(report.ClusterReport{
			Context:  r.Context,
			RunID:    o.RunID,
			Findings: r.Findings,
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to write report for %s: %w", r.Context, err))
		}
	}

	slog.Info("audit complete",
		slog.String("run", o.RunID),
		slog.Int("clusters", len(contexts)),
		slog.Int("failed", failed),
		slog.Int("findings", total))

	return errors.Join(errs...)
}
