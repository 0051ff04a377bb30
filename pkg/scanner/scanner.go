package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"

	"github.com/NVIDIA/apiaudit/pkg/classifier"
	"github.com/NVIDIA/apiaudit/pkg/k8s/client"
)

// Scanner lists objects from a cluster and classifies them kind by kind.
type Scanner struct {
	// Registry is the set of kinds to scan. If nil, DefaultRegistry is used.
	Registry *Registry
}

// New creates a Scanner over the given registry.
func New(r *Registry) *Scanner {
	return &Scanner{Registry: r}
}

// registry never writes to s: one Scanner is shared by concurrent cluster scans.
func (s *Scanner) registry() *Registry {
	if s.Registry == nil {
		return DefaultRegistry()
	}
	return s.Registry
}

// IsNotInstalled reports whether err means the cluster does not serve the
// requested resource at all. Such kinds are scanned as empty.
func IsNotInstalled(err error) bool {
	return apierrors.IsNotFound(err) || meta.IsNoMatchError(err)
}

// Scan lists every object of kind from the cluster and returns the findings.
// A kind the cluster does not serve yields no findings and no error.
func (s *Scanner) Scan(ctx context.Context, h *client.Handle, kind string) ([]classifier.Finding, error) {
	r := s.registry()
	e, ok := r.Get(kind)
	if !ok {
		return nil, r.unknownKind(kind)
	}
	return scanEntry(ctx, h, e)
}

func scanEntry(ctx context.Context, h *client.Handle, e Entry) ([]classifier.Finding, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		kindScanDuration.WithLabelValues(e.Kind).Observe(time.Since(start).Seconds())
	}()

	manifests, err := e.List(ctx, h)
	if err != nil {
		if IsNotInstalled(err) {
			kindScanTotal.WithLabelValues(e.Kind, "not_installed").Inc()
			slog.Debug("resource not installed",
				slog.String("context", h.Context),
				slog.String("kind", e.Kind))
			return nil, nil
		}
		kindScanTotal.WithLabelValues(e.Kind, "error").Inc()
		return nil, fmt.Errorf("failed to list %s: %w", e.Kind, err)
	}

	findings := classifier.ClassifyAll(manifests, e.Request)

	kindScanTotal.WithLabelValues(e.Kind, "success").Inc()
	kindFindingsTotal.WithLabelValues(e.Kind).Add(float64(len(findings)))
	slog.Debug("scanned kind",
		slog.String("context", h.Context),
		slog.String("kind", e.Kind),
		slog.Int("objects", len(manifests)),
		slog.Int("findings", len(findings)))

	return findings, nil
}

// ScanAll scans every registered kind in registration order. Findings are
// concatenated in that order. A failing kind is logged and reported in the
// returned error without stopping the remaining kinds.
func (s *Scanner) ScanAll(ctx context.Context, h *client.Handle) ([]classifier.Finding, error) {
	var (
		findings []classifier.Finding
		errs     []error
	)

	for _, e := range s.registry().List() {
		f, err := scanEntry(ctx, h, e)
		if err != nil {
			slog.Error("kind scan failed",
				slog.String("context", h.Context),
				slog.String("kind", e.Kind),
				slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}
		findings = append(findings, f...)
	}

	return findings, errors.Join(errs...)
}
