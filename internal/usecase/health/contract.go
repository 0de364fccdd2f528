package health

import "context"

// DBPinger checks relational database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CachePinger checks match cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}
