package defs

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DayFormat is the canonical day layout. Days are compared as strings,
// never as time.Time values, so report windows are immune to timezone drift.
const DayFormat = "2006-01-02"

// Placeholder is rendered wherever a value or range cannot be computed.
const Placeholder = "—"

// RawSample is one normalized (day, metric, value) triple produced by the
// ingestion mapper. Samples are immutable once written; same-day duplicates
// for a key are valid and averaged downstream.
type RawSample struct {
	ID        *primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Email     string              `bson:"email" json:"email"`
	Day       string              `bson:"day" json:"day"`
	MetricKey string              `bson:"metricKey" json:"metricKey"`
	Value     string              `bson:"value" json:"value"`
}

type Flag int

const (
	FlagNormal Flag = iota
	FlagBorderline
	FlagLow
	FlagHigh
)

func (f Flag) String() string {
	return [...]string{"Normal", "Borderline", "Low", "High"}[f]
}

type Category int

const (
	CategorySleep Category = iota
	CategoryCardiovascular
	CategoryActivity
)

func (c Category) String() string {
	return [...]string{"Sleep", "Cardiovascular", "Activity"}[c]
}

// ReportMetric is the full computed view of one canonical metric before
// category filtering: formatted result, four-way flag against the personal
// IQR, formatted reference range, and the optional population range.
type ReportMetric struct {
	Metric        string `json:"metric"`
	Result        string `json:"result"`
	Flag          Flag   `json:"flag"`
	Reference     string `json:"reference"`
	ClinicalRange string `json:"clinicalRange,omitempty"`
}

// Visible-table flags. Deliberately coarser than Flag: strict above/below
// the raw quartiles, no buffer zone.
const (
	AboveRange = "Above Range"
	BelowRange = "Below Range"
)

type DoctorSummaryRow struct {
	Metric         string `json:"metric"`
	Value          string `json:"value"`
	ReferenceRange string `json:"referenceRange"`
	Flag           string `json:"flag"`
}

type DoctorSummary struct {
	SleepTable          []DoctorSummaryRow `json:"sleepTable"`
	CardiovascularTable []DoctorSummaryRow `json:"cardiovascularTable"`
	ActivityTable       []DoctorSummaryRow `json:"activityTable"`
}

type PeriodInfo struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

type ReportMetadata struct {
	PatientEmail   string     `json:"patientEmail"`
	ReportDate     string     `json:"reportDate"`
	DataPeriod     PeriodInfo `json:"dataPeriod"`
	ReferenceRange PeriodInfo `json:"referenceRange"`
}

type SleepDebt struct {
	Hours   float64 `json:"hours"`
	Target  float64 `json:"target"`
	Flagged bool    `json:"flagged"`
}

// Report is the complete assembled output handed to consumers: the visible
// tables plus the rollups derived from them.
type Report struct {
	Metadata          ReportMetadata `json:"metadata"`
	Summary           DoctorSummary  `json:"summary"`
	SleepDebt         SleepDebt      `json:"sleepDebt"`
	HealthScore       float64        `json:"healthScore"`
	TotalFlagged      int            `json:"totalFlagged"`
	FlaggedByCategory map[string]int `json:"flaggedByCategory,omitempty"`
}
