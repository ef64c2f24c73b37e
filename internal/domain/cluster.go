package domain

// ClusterAssignment is produced once per clustering call.
// Labels[i] is the cluster id (0..k-1) of location i.
type ClusterAssignment struct {
	Labels     []int        `json:"labels"`
	Centroids  []Coordinate `json:"centroids"`
	Sizes      []int        `json:"sizes"`
	Members    [][]int      `json:"members"`
	Inertia    float64      `json:"inertia"`
	Iterations int          `json:"iterations"`
	Converged  bool         `json:"converged"`
}
