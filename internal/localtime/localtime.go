// Package localtime renders timestamps in the site's configured time zone.
package localtime

import (
	"fmt"
	"time"
)

// Display layouts.
const (
	PostDate    = "2006년 01월 02일"
	HistoryDate = "2006. 01. 02."
)

type Formatter struct {
	loc *time.Location
}

// New loads the named IANA zone. An empty name means UTC.
func New(zone string) (*Formatter, error) {
	if zone == "" {
		return &Formatter{loc: time.UTC}, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", zone, err)
	}
	return &Formatter{loc: loc}, nil
}

// Format converts t to the configured zone and applies layout.
func (f *Formatter) Format(t time.Time, layout string) string {
	return t.In(f.loc).Format(layout)
}
