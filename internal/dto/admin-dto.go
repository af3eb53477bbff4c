package dto

type StatusCount struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

type BucketCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type AdminStats struct {
	TotalApplications    int `json:"total_applications"`
	PendingApplications  int `json:"pending_applications"`
	ApprovedApplications int `json:"approved_applications"`
	RejectedApplications int `json:"rejected_applications"`
	TotalUsers           int `json:"total_users"`
	AverageScore         int `json:"average_score"`

	StateBreakdown  []BucketCount `json:"state_breakdown"`
	SectorBreakdown []BucketCount `json:"sector_breakdown"`
}

type DocumentURLResponse struct {
	ApplicationID uint   `json:"application_id"`
	DocType       string `json:"doc_type"`
	URL           string `json:"url"`
}
