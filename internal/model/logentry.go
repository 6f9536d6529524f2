package model

import "time"

// StatusHighPriority is the distinguished status code that triggers an
// additional high-priority broadcast.
const StatusHighPriority = 5

// LogEntry is one vehicle status change. The log is append-only and
// accepts any vehicle name and status code.
type LogEntry struct {
	ID      uint      `gorm:"primarykey" json:"id"`
	Vehicle string    `json:"vehicle"`
	Status  int       `json:"status"`
	User    string    `json:"user"`
	Role    string    `json:"role"`
	Time    time.Time `json:"time"`
}
