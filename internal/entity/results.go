package entity

// DimensionScore is the score of one maturity dimension.
type DimensionScore struct {
	DimensionID   int64   `json:"dimension_id"`
	DimensionName string  `json:"dimension_name"`
	Score         float64 `json:"score"`
	MaxScore      float64 `json:"max_score"`
}

type ClusterInfo struct {
	ClusterID          int64    `json:"cluster_id"`
	ClusterName        string   `json:"cluster_name"`
	ClusterDescription string   `json:"cluster_description,omitempty"`
	Characteristics    []string `json:"characteristics"`
}

// AssessmentResult is the scored outcome of a completed response.
type AssessmentResult struct {
	ResponseID      int64            `json:"response_id"`
	Company         CompanyProfile   `json:"company"`
	OverallScore    float64          `json:"overall_score"`
	DimensionScores []DimensionScore `json:"dimension_scores"`
	Cluster         *ClusterInfo     `json:"cluster,omitempty"`
	Percentile      map[string]any   `json:"percentile,omitempty"`
	Roadmap         []map[string]any `json:"roadmap,omitempty"`
}
