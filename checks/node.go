package checks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/jonwraymond/statuscheck/status"
)

// NodeCheck reports the readiness of the cluster nodes the platform runs on.
// No ready node is critical; a partially ready cluster is a warning.
type NodeCheck struct {
	client   kubernetes.Interface
	selector string
}

// NewNodeCheck creates a node check. selector is a label selector limiting
// which nodes count; empty means all nodes.
func NewNodeCheck(client kubernetes.Interface, selector string) *NodeCheck {
	return &NodeCheck{client: client, selector: selector}
}

// Ref returns "cluster_nodes".
func (c *NodeCheck) Ref() string { return "cluster_nodes" }

// Name returns the display name.
func (c *NodeCheck) Name() string { return "Cluster nodes" }

// Component returns "kubernetes".
func (c *NodeCheck) Component() string { return "kubernetes" }

// Type returns status.CategoryStatus.
func (c *NodeCheck) Type() status.Category { return status.CategoryStatus }

// Result lists the nodes and counts those reporting Ready.
func (c *NodeCheck) Result(ctx context.Context) (status.Result, error) {
	nodes, err := c.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{LabelSelector: c.selector})
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}

	total := len(nodes.Items)
	if total == 0 {
		return status.Error("no cluster nodes found"), nil
	}

	var notReady []string
	for i := range nodes.Items {
		if !nodeReady(&nodes.Items[i]) {
			notReady = append(notReady, nodes.Items[i].Name)
		}
	}
	sort.Strings(notReady)
	ready := total - len(notReady)

	switch {
	case ready == 0:
		return status.Critical(fmt.Sprintf("0 of %d nodes ready", total)).
			WithDetails("not ready: " + strings.Join(notReady, ", ")), nil
	case len(notReady) > 0:
		return status.Warning(fmt.Sprintf("%d of %d nodes ready", ready, total)).
			WithDetails("not ready: " + strings.Join(notReady, ", ")), nil
	default:
		return status.OK(fmt.Sprintf("%d of %d nodes ready", ready, total)), nil
	}
}

func nodeReady(node *corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}

var (
	_ status.Check = (*NodeCheck)(nil)
	_ status.Typed = (*NodeCheck)(nil)
)
