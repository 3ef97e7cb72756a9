// Package model defines the core record data types.
package model

import "time"

// ContentType classifies a record for reduction and scoring.
type ContentType string

const (
	Conversation ContentType = "conversation"
	Code         ContentType = "code"
	Error        ContentType = "error"
	Solution     ContentType = "solution"
	Context      ContentType = "context"
	Generic      ContentType = "generic"
)

// ValidContentTypes are the allowed record content types.
var ValidContentTypes = map[ContentType]bool{
	Conversation: true,
	Code:         true,
	Error:        true,
	Solution:     true,
	Context:      true,
	Generic:      true,
}

// Record is one stored memory unit. Reduction and scoring run exactly once
// at creation; after that only AccessCount changes.
type Record struct {
	ID          string            `json:"id"`
	Type        ContentType       `json:"type"`
	Original    string            `json:"original"`
	Reduced     string            `json:"reduced"`
	Ratio       float64           `json:"ratio"`
	Importance  float64           `json:"importance"`
	Entities    []string          `json:"entities,omitempty"`
	Context     map[string]string `json:"context,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	AccessCount int               `json:"access_count"`
}

// Clone returns a deep copy so callers never alias store-owned state.
func (r *Record) Clone() *Record {
	c := *r
	if r.Entities != nil {
		c.Entities = append([]string(nil), r.Entities...)
	}
	if r.Context != nil {
		c.Context = make(map[string]string, len(r.Context))
		for k, v := range r.Context {
			c.Context[k] = v
		}
	}
	return &c
}
