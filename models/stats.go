package models

// Stats feeds the admin dashboard.
type Stats struct {
	TotalUsers       int `json:"totalUsers" db:"total_users"`
	ActiveUsers      int `json:"activeUsers" db:"active_users"`
	TotalProjects    int `json:"totalProjects" db:"total_projects"`
	ActiveProjects   int `json:"activeProjects" db:"active_projects"`
	TotalServices    int `json:"totalServices" db:"total_services"`
	PendingServices  int `json:"pendingServices" db:"pending_services"`
	TotalJobs        int `json:"totalJobs" db:"total_jobs"`
	TotalMessages    int `json:"totalMessages" db:"total_messages"`
	TotalConnections int `json:"totalConnections" db:"total_connections"`
}
