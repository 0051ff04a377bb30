package scanner

import (
	"context"
	"fmt"
	"log/slog"

	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/NVIDIA/apiaudit/pkg/defaults"
	"github.com/NVIDIA/apiaudit/pkg/k8s/client"
	"github.com/NVIDIA/apiaudit/pkg/manifest"
)

// pageSize bounds the number of objects returned per list call.
const pageSize = defaults.ListPageSize

// listFunc is the shape of every typed client-go List method.
type listFunc[L runtime.Object] func(ctx context.Context, opts metav1.ListOptions) (L, error)

// typedLister adapts a typed client-go List method into a Lister.
// pick selects the method from the handle, e.g.
//
//	func(h *client.Handle) listFunc[*rbacv1.RoleList] {
//	    return h.Kube.RbacV1().Roles(metav1.NamespaceAll).List
//	}
func typedLister[L runtime.Object](kind string, pick func(h *client.Handle) listFunc[L]) Lister {
	return func(ctx context.Context, h *client.Handle) ([]manifest.Manifest, error) {
		list := pick(h)

		var out []manifest.Manifest
		opts := metav1.ListOptions{Limit: pageSize}
		for {
			obj, err := list(ctx, opts)
			if err != nil {
				return nil, err
			}

			items, err := meta.ExtractList(obj)
			if err != nil {
				return nil, fmt.Errorf("failed to extract %s items: %w", kind, err)
			}
			for _, item := range items {
				acc, err := meta.Accessor(item)
				if err != nil {
					slog.Warn("skipping malformed object",
						slog.String("kind", kind),
						slog.String("error", err.Error()))
					continue
				}
				out = append(out, manifest.FromObject(kind, acc))
			}

			next, err := continueToken(obj)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s list metadata: %w", kind, err)
			}
			if next == "" {
				return out, nil
			}
			opts.Continue = next
		}
	}
}

// dynamicLister lists a resource through the dynamic client. It is used for
// API groups without a typed client in client-go.
func dynamicLister(kind string, gvr schema.GroupVersionResource) Lister {
	return func(ctx context.Context, h *client.Handle) ([]manifest.Manifest, error) {
		var out []manifest.Manifest
		opts := metav1.ListOptions{Limit: pageSize}
		for {
			list, err := h.Dynamic.Resource(gvr).List(ctx, opts)
			if err != nil {
				return nil, err
			}

			for i := range list.Items {
				m, err := manifest.FromUnstructured(kind, &list.Items[i])
				if err != nil {
					slog.Warn("skipping malformed object",
						slog.String("kind", kind),
						slog.String("error", err.Error()))
					continue
				}
				out = append(out, m)
			}

			if list.GetContinue() == "" {
				return out, nil
			}
			opts.Continue = list.GetContinue()
		}
	}
}

func continueToken(obj runtime.Object) (string, error) {
	acc, err := meta.ListAccessor(obj)
	if err != nil {
		return "", err
	}
	return acc.GetContinue(), nil
}
