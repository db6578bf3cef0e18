package client

import "context"

// DashboardService exposes the aggregate statistics endpoint.
type DashboardService struct {
	c *Client
}

// Stats returns the dashboard aggregates. The server caches them briefly, so
// consecutive reads may lag writes by the cache TTL.
func (s *DashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	var out DashboardStats
	err := s.c.get(ctx, "/dashboard/stats", &out)
	return out, err
}
