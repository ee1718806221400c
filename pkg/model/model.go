package model

import (
	"encoding/json"
	"time"
)

// DeviceGeneral mirrors the `general` section of a Jamf inventory record.
type DeviceGeneral struct {
	Name                string `json:"name,omitempty"`
	ReportingUsername   string `json:"reportingUsername,omitempty"`
	LastContactTime     string `json:"lastContactTime,omitempty"`
	LastInventoryUpdate string `json:"lastInventoryUpdate,omitempty"`
	LastIPAddress       string `json:"lastIpAddress,omitempty"`
}

// DeviceRecord is one device as returned by the computers-inventory API.
// All fields are best-effort; consumers fall back across them rather than fail.
type DeviceRecord struct {
	ID      json.Number   `json:"id,omitempty"`
	General DeviceGeneral `json:"general,omitempty"`
}

// Identity returns the dedup key for a device: reporting username, else
// device name, else the stringified device id.
func (d DeviceRecord) Identity() string {
	if d.General.ReportingUsername != "" {
		return d.General.ReportingUsername
	}
	if d.General.Name != "" {
		return d.General.Name
	}
	return d.ID.String()
}

// ContactDate returns the YYYY-MM-DD portion of the device's last contact
// time, falling back to the last inventory update. Empty when neither is set.
func (d DeviceRecord) ContactDate() string {
	ts := d.General.LastContactTime
	if ts == "" {
		ts = d.General.LastInventoryUpdate
	}
	if len(ts) < 10 {
		return ""
	}
	return ts[:10]
}

// IP returns the device's last known IP address, empty when unreported.
func (d DeviceRecord) IP() string {
	return d.General.LastIPAddress
}

// DailyPeak is the document stored in the `daily_peaks` collection.
type DailyPeak struct {
	Date     string    `json:"date" firestore:"date"`
	Count    int64     `json:"count" firestore:"count"`
	ExpireAt time.Time `json:"expireAt,omitempty" firestore:"expireAt,omitempty"`
}

// HistoryEntry is the document stored in the `monthly_history` collection.
// Month duplicates the date prefix so entries can be queried per month.
type HistoryEntry struct {
	Date     string    `json:"date" firestore:"date"`
	Month    string    `json:"month" firestore:"month"`
	Count    float64   `json:"count" firestore:"count"`
	ExpireAt time.Time `json:"expireAt,omitempty" firestore:"expireAt,omitempty"`
}

// DailyValue is a date/count pair used in reports and query responses.
type DailyValue struct {
	Date  string  `json:"date"`
	Count float64 `json:"count"`
}

// WeekdayAverage is the mean peak for one day of the week across a month.
type WeekdayAverage struct {
	Weekday time.Weekday `json:"weekday"`
	Average float64      `json:"average"`
}

// WeekAverage is the mean peak for one calendar-aligned week of a month.
// Week 1 starts on the 1st and may be partial.
type WeekAverage struct {
	Week    int     `json:"week"`
	Average float64 `json:"average"`
}

// MonthlySummary holds the derived statistics for one month of daily peaks.
type MonthlySummary struct {
	Month       string           `json:"month"`
	Days        int              `json:"days"`
	Mean        float64          `json:"mean"`
	Max         float64          `json:"max"`
	MaxDate     string           `json:"maxDate"`
	Min         float64          `json:"min"`
	MinDate     string           `json:"minDate"`
	ByWeekday   []WeekdayAverage `json:"byWeekday"`
	ByWeek      []WeekAverage    `json:"byWeek"`
	TopDays     []DailyValue     `json:"topDays"`
	DailyValues []DailyValue     `json:"dailyValues"`
}
