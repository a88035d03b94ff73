package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckRecord is one immutable historical probe result for a monitoring.
// Records are only ever appended by the check runner and cascade-deleted
// with their parent monitoring.
type CheckRecord struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	MonitoringID primitive.ObjectID `json:"monitoring_id" bson:"monitoring_id"`
	CheckedAt    time.Time          `json:"checked_at" bson:"checked_at"`
	DownReason   string             `json:"down_reason,omitempty" bson:"down_reason,omitempty"`
	DurationMs   int64              `json:"request_duration_ms" bson:"request_duration_ms"`
}

// LatencyPoint is one sample of the request-duration series derived from
// the check history, used by latency graphs.
type LatencyPoint struct {
	Timestamp  int64 `json:"timestamp_ms"`
	DurationMs int64 `json:"duration_ms"`
}

// ToLatencyPoint converts a CheckRecord to a graph sample.
func (c *CheckRecord) ToLatencyPoint() LatencyPoint {
	return LatencyPoint{
		Timestamp:  c.CheckedAt.UnixMilli(),
		DurationMs: c.DurationMs,
	}
}
