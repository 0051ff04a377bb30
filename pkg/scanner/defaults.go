package scanner

import (
	admissionv1 "k8s.io/api/admissionregistration/v1"
	autoscalingv2 "k8s.io/api/autoscaling/v2"
	batchv1 "k8s.io/api/batch/v1"
	certificatesv1 "k8s.io/api/certificates/v1"
	coordinationv1 "k8s.io/api/coordination/v1"
	discoveryv1 "k8s.io/api/discovery/v1"
	eventsv1 "k8s.io/api/events/v1"
	networkingv1 "k8s.io/api/networking/v1"
	nodev1 "k8s.io/api/node/v1"
	policyv1 "k8s.io/api/policy/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	schedulingv1 "k8s.io/api/scheduling/v1"
	storagev1 "k8s.io/api/storage/v1"
	apiextv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/NVIDIA/apiaudit/pkg/classifier"
	"github.com/NVIDIA/apiaudit/pkg/k8s/client"
)

// Kind tags. They appear verbatim in reports.
const (
	KindLease                   = "lease"
	KindMutatingWebhook         = "mutating_web_hook"
	KindValidatingWebhook       = "validating_web_hook"
	KindCRD                     = "crd"
	KindAPIService              = "apiservice"
	KindCertificateSigningReq   = "certificate_signing_request"
	KindIngressClass            = "ingress_class"
	KindIngress                 = "ingress"
	KindClusterRole             = "cluster_role"
	KindClusterRoleBinding      = "cluster_role_binding"
	KindRole                    = "role"
	KindRoleBinding             = "rolebinding"
	KindPriorityClass           = "priority_class"
	KindCSIDriver               = "csi_driver"
	KindCSINode                 = "csi_node"
	KindStorageClass            = "storage_class"
	KindVolumeAttachment        = "volume_attachment"
	KindHorizontalPodAutoscaler = "horizontal_pod_autoscaler"
	KindCronJob                 = "cron_job"
	KindEndpointSlice           = "endpoint_slice"
	KindEvent                   = "event"
	KindRuntimeClass            = "runtime_class"
	KindPodDisruptionBudget     = "pod_disruption_budget"
)

var apiServiceGVR = schema.GroupVersionResource{
	Group:    "apiregistration.k8s.io",
	Version:  "v1",
	Resource: "apiservices",
}

func rules(required string, removed ...string) classifier.Request {
	return classifier.NewRequest(removed, required)
}

// DefaultRegistry returns the built-in kinds in report order.
func DefaultRegistry() *Registry {
	all := metav1.NamespaceAll

	return NewRegistry(
		Entry{
			Kind: KindLease,
			List: typedLister(KindLease, func(h *client.Handle) listFunc[*coordinationv1.LeaseList] {
				return h.Kube.CoordinationV1().Leases(all).List
			}),
			Request: rules("coordination.k8s.io/v1", "coordination.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindMutatingWebhook,
			List: typedLister(KindMutatingWebhook, func(h *client.Handle) listFunc[*admissionv1.MutatingWebhookConfigurationList] {
				return h.Kube.AdmissionregistrationV1().MutatingWebhookConfigurations().List
			}),
			Request: rules("admissionregistration.k8s.io/v1", "admissionregistration.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindValidatingWebhook,
			List: typedLister(KindValidatingWebhook, func(h *client.Handle) listFunc[*admissionv1.ValidatingWebhookConfigurationList] {
				return h.Kube.AdmissionregistrationV1().ValidatingWebhookConfigurations().List
			}),
			Request: rules("admissionregistration.k8s.io/v1", "admissionregistration.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindCRD,
			List: typedLister(KindCRD, func(h *client.Handle) listFunc[*apiextv1.CustomResourceDefinitionList] {
				return h.APIExtensions.ApiextensionsV1().CustomResourceDefinitions().List
			}),
			Request: rules("apiextensions.k8s.io/v1", "apiextensions.k8s.io/v1beta1"),
		},
		Entry{
			Kind:    KindAPIService,
			List:    dynamicLister(KindAPIService, apiServiceGVR),
			Request: rules("apiregistration.k8s.io/v1", "apiregistration.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindCertificateSigningReq,
			List: typedLister(KindCertificateSigningReq, func(h *client.Handle) listFunc[*certificatesv1.CertificateSigningRequestList] {
				return h.Kube.CertificatesV1().CertificateSigningRequests().List
			}),
			Request: rules("certificates.k8s.io/v1", "certificates.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindIngressClass,
			List: typedLister(KindIngressClass, func(h *client.Handle) listFunc[*networkingv1.IngressClassList] {
				return h.Kube.NetworkingV1().IngressClasses().List
			}),
			Request: rules("networking.k8s.io/v1", "extensions/v1beta1", "networking.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindIngress,
			List: typedLister(KindIngress, func(h *client.Handle) listFunc[*networkingv1.IngressList] {
				return h.Kube.NetworkingV1().Ingresses(all).List
			}),
			Request: rules("networking.k8s.io/v1", "extensions/v1beta1", "networking.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindClusterRole,
			List: typedLister(KindClusterRole, func(h *client.Handle) listFunc[*rbacv1.ClusterRoleList] {
				return h.Kube.RbacV1().ClusterRoles().List
			}),
			Request: rules("rbac.authorization.k8s.io/v1", "rbac.authorization.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindClusterRoleBinding,
			List: typedLister(KindClusterRoleBinding, func(h *client.Handle) listFunc[*rbacv1.ClusterRoleBindingList] {
				return h.Kube.RbacV1().ClusterRoleBindings().List
			}),
			Request: rules("rbac.authorization.k8s.io/v1", "rbac.authorization.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindRole,
			List: typedLister(KindRole, func(h *client.Handle) listFunc[*rbacv1.RoleList] {
				return h.Kube.RbacV1().Roles(all).List
			}),
			Request: rules("rbac.authorization.k8s.io/v1", "rbac.authorization.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindRoleBinding,
			List: typedLister(KindRoleBinding, func(h *client.Handle) listFunc[*rbacv1.RoleBindingList] {
				return h.Kube.RbacV1().RoleBindings(all).List
			}),
			Request: rules("rbac.authorization.k8s.io/v1", "rbac.authorization.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindPriorityClass,
			List: typedLister(KindPriorityClass, func(h *client.Handle) listFunc[*schedulingv1.PriorityClassList] {
				return h.Kube.SchedulingV1().PriorityClasses().List
			}),
			Request: rules("scheduling.k8s.io/v1", "scheduling.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindCSIDriver,
			List: typedLister(KindCSIDriver, func(h *client.Handle) listFunc[*storagev1.CSIDriverList] {
				return h.Kube.StorageV1().CSIDrivers().List
			}),
			Request: rules("storage.k8s.io/v1", "storage.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindCSINode,
			List: typedLister(KindCSINode, func(h *client.Handle) listFunc[*storagev1.CSINodeList] {
				return h.Kube.StorageV1().CSINodes().List
			}),
			Request: rules("storage.k8s.io/v1", "storage.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindStorageClass,
			List: typedLister(KindStorageClass, func(h *client.Handle) listFunc[*storagev1.StorageClassList] {
				return h.Kube.StorageV1().StorageClasses().List
			}),
			Request: rules("storage.k8s.io/v1", "storage.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindVolumeAttachment,
			List: typedLister(KindVolumeAttachment, func(h *client.Handle) listFunc[*storagev1.VolumeAttachmentList] {
				return h.Kube.StorageV1().VolumeAttachments().List
			}),
			Request: rules("storage.k8s.io/v1", "storage.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindHorizontalPodAutoscaler,
			List: typedLister(KindHorizontalPodAutoscaler, func(h *client.Handle) listFunc[*autoscalingv2.HorizontalPodAutoscalerList] {
				return h.Kube.AutoscalingV2().HorizontalPodAutoscalers(all).List
			}),
			Request: rules("autoscaling/v2", "autoscaling/v2beta1", "autoscaling/v2beta2"),
		},
		Entry{
			Kind: KindCronJob,
			List: typedLister(KindCronJob, func(h *client.Handle) listFunc[*batchv1.CronJobList] {
				return h.Kube.BatchV1().CronJobs(all).List
			}),
			Request: rules("batch/v1", "batch/v1beta1"),
		},
		Entry{
			Kind: KindEndpointSlice,
			List: typedLister(KindEndpointSlice, func(h *client.Handle) listFunc[*discoveryv1.EndpointSliceList] {
				return h.Kube.DiscoveryV1().EndpointSlices(all).List
			}),
			Request: rules("discovery.k8s.io/v1", "discovery.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindEvent,
			List: typedLister(KindEvent, func(h *client.Handle) listFunc[*eventsv1.EventList] {
				return h.Kube.EventsV1().Events(all).List
			}),
			Request: rules("events.k8s.io/v1", "events.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindRuntimeClass,
			List: typedLister(KindRuntimeClass, func(h *client.Handle) listFunc[*nodev1.RuntimeClassList] {
				return h.Kube.NodeV1().RuntimeClasses().List
			}),
			Request: rules("node.k8s.io/v1", "node.k8s.io/v1beta1"),
		},
		Entry{
			Kind: KindPodDisruptionBudget,
			List: typedLister(KindPodDisruptionBudget, func(h *client.Handle) listFunc[*policyv1.PodDisruptionBudgetList] {
				return h.Kube.PolicyV1().PodDisruptionBudgets(all).List
			}),
			Request: rules("policy/v1", "policy/v1beta1"),
		},
	)
}
