package model

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the last known reachability state of a monitoring.
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusUp      Status = "up"
	StatusDown    Status = "down"
)

// Valid HTTP methods for a monitoring probe. Closed set, no dynamic dispatch.
var validMethods = map[string]bool{
	"GET": true, "HEAD": true, "POST": true, "PUT": true, "DELETE": true,
}

// Default configuration values applied by Validate.
const (
	DefaultCheckInterval = 5  // minutes
	DefaultTimeout       = 10 // seconds
)

// Monitoring represents one HTTP target under periodic observation.
//
// The runtime state fields (Status, LastStatusChangeAt, LastDownReason,
// LastCheckedAt) are owned by the check runner; the CRUD surface must
// never write them.
type Monitoring struct {
	ID primitive.ObjectID `json:"id" bson:"_id,omitempty"`

	Name             string            `json:"name" bson:"name"`
	IsActive         bool              `json:"is_active" bson:"is_active"`
	IsPublic         bool              `json:"is_public" bson:"is_public"`
	URL              string            `json:"url" bson:"url"`
	HTTPMethod       string            `json:"http_method" bson:"http_method"`
	HTTPHeaders      map[string]string `json:"http_headers,omitempty" bson:"http_headers,omitempty"`
	HTTPBodyRegex    string            `json:"http_body_regex,omitempty" bson:"http_body_regex,omitempty"`
	VerifyHTTPSCert  bool              `json:"verify_https_cert" bson:"verify_https_cert"`
	CheckInterval    int               `json:"check_interval" bson:"check_interval"` // minutes
	Timeout          int               `json:"timeout" bson:"timeout"`               // seconds
	IgnoreHTTPErrors bool              `json:"ignore_http_errors" bson:"ignore_http_errors"`

	EmailRecipients []string `json:"email_recipients,omitempty" bson:"email_recipients,omitempty"`
	SMSRecipients   []string `json:"sms_recipients,omitempty" bson:"sms_recipients,omitempty"`

	Status             Status    `json:"status" bson:"status"`
	LastCheckedAt      time.Time `json:"last_checked_at,omitempty" bson:"last_checked_at,omitempty"`
	LastStatusChangeAt time.Time `json:"last_status_change_at,omitempty" bson:"last_status_change_at,omitempty"`
	LastDownReason     string    `json:"last_down_reason,omitempty" bson:"last_down_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at"`
}

// Validate validates the monitoring configuration and applies defaults.
func (m *Monitoring) Validate() error {
	if m.Name == "" {
		return errors.New("monitoring name is required")
	}
	if len(m.Name) > 255 {
		return errors.New("monitoring name must be 255 characters or less")
	}

	if m.URL == "" {
		return errors.New("monitoring URL is required")
	}
	parsedURL, err := url.Parse(m.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errors.New("URL must start with http:// or https://")
	}

	if m.HTTPMethod == "" {
		m.HTTPMethod = "GET"
	}
	m.HTTPMethod = strings.ToUpper(m.HTTPMethod)
	if !validMethods[m.HTTPMethod] {
		return fmt.Errorf("invalid HTTP method: %s", m.HTTPMethod)
	}

	if m.HTTPBodyRegex != "" {
		if _, err := regexp.Compile(m.HTTPBodyRegex); err != nil {
			return fmt.Errorf("invalid body regex: %w", err)
		}
	}

	if m.CheckInterval == 0 {
		m.CheckInterval = DefaultCheckInterval
	}
	if m.CheckInterval < 1 {
		return errors.New("check interval must be at least 1 minute")
	}

	if m.Timeout == 0 {
		m.Timeout = DefaultTimeout
	}
	if m.Timeout < 1 {
		return errors.New("timeout must be at least 1 second")
	}

	if m.Status == "" {
		m.Status = StatusUnknown
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	return nil
}

// NextDue returns the instant at which this monitoring becomes due for a
// check: the last check time (or the creation time when it was never
// checked) floored to the minute, shifted forward by the check interval.
func (m *Monitoring) NextDue() time.Time {
	ref := m.LastCheckedAt
	if ref.IsZero() {
		ref = m.CreatedAt
	}
	return ref.Truncate(time.Minute).Add(time.Duration(m.CheckInterval) * time.Minute)
}

// IsDue reports whether the monitoring must be probed at the given
// instant. Force mode ignores the due time entirely.
func (m *Monitoring) IsDue(now time.Time, force bool) bool {
	if force {
		return true
	}
	return !now.Before(m.NextDue())
}

// MonitoringListItem is a summary of a monitoring for list responses.
type MonitoringListItem struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	IsActive           bool      `json:"is_active"`
	IsPublic           bool      `json:"is_public"`
	URL                string    `json:"url"`
	Status             Status    `json:"status"`
	LastCheckedAt      time.Time `json:"last_checked_at,omitempty"`
	LastStatusChangeAt time.Time `json:"last_status_change_at,omitempty"`
	LastDownReason     string    `json:"last_down_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// ToListItem converts a Monitoring to a MonitoringListItem.
func (m *Monitoring) ToListItem() MonitoringListItem {
	return MonitoringListItem{
		ID:                 m.ID.Hex(),
		Name:               m.Name,
		IsActive:           m.IsActive,
		IsPublic:           m.IsPublic,
		URL:                m.URL,
		Status:             m.Status,
		LastCheckedAt:      m.LastCheckedAt,
		LastStatusChangeAt: m.LastStatusChangeAt,
		LastDownReason:     m.LastDownReason,
		CreatedAt:          m.CreatedAt,
	}
}
