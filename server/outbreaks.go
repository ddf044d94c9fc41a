package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// DefaultRegion bounds the continental US, the listing window used when no
// region is configured.
var DefaultRegion = Region{MinLat: 24.0, MaxLat: 49.0, MinLon: -125.0, MaxLon: -66.0}

const outbreakListingLimit = 100

// OutbreakLog is an in-memory, anonymized outbreak report log. Reports carry
// no user identity, only crop, disease and coordinates.
type OutbreakLog struct {
	mu      sync.RWMutex
	reports []OutbreakData
}

// NewOutbreakLog returns an empty log.
func NewOutbreakLog() *OutbreakLog {
	return &OutbreakLog{}
}

// Report validates and records an outbreak report.
//
// Arguments:
//   - req: the submitted report.
//   - now: report timestamp.
//
// Returns:
//   - The assigned report id.
//   - An error if required fields are missing or coordinates are out of range.
func (l *OutbreakLog) Report(req OutbreakReportRequest, now time.Time) (string, error) {
	if req.CropType == "" || req.Disease == "" {
		return "", errors.New("server: outbreak report requires crop_type and disease")
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return "", errors.Errorf("server: outbreak coordinates out of range: %f, %f", req.Latitude, req.Longitude)
	}

	data := OutbreakData{
		ID:         uuid.NewString(),
		CropType:   req.CropType,
		Disease:    req.Disease,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Confidence: req.Confidence,
		Severity:   severityFor(req.Confidence),
		ReportedAt: now,
	}

	l.mu.Lock()
	l.reports = append(l.reports, data)
	l.mu.Unlock()
	return data.ID, nil
}

// InRegion returns up to limit reports inside the region bounds, newest
// first.
func (l *OutbreakLog) InRegion(region Region, limit int) []OutbreakData {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]OutbreakData, 0, limit)
	for i := len(l.reports) - 1; i >= 0 && len(out) < limit; i-- {
		r := l.reports[i]
		if r.Latitude < region.MinLat || r.Latitude > region.MaxLat {
			continue
		}
		if r.Longitude < region.MinLon || r.Longitude > region.MaxLon {
			continue
		}
		out = append(out, r)
	}
	return out
}

// severityFor grades a report by its diagnosis confidence.
func severityFor(confidence float64) Severity {
	switch {
	case confidence >= 0.9:
		return SeverityCritical
	case confidence >= 0.7:
		return SeverityHigh
	case confidence >= 0.5:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
