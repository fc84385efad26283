package model

import (
	"fmt"
	"time"
)

// Currency is immutable reference data for one side of a pair.
type Currency struct {
	ID    int64  `json:"id" yaml:"id"`
	Code  string `json:"code" yaml:"code"`
	Title string `json:"title" yaml:"title"`
}

// Pair is a from/to currency combination.
type Pair struct {
	From Currency
	To   Currency
}

func (p Pair) String() string {
	return fmt.Sprintf("%s/%s", p.From.Code, p.To.Code)
}

// Sample is a single price point returned by the history API.
type Sample struct {
	Time       time.Time `json:"time"`
	Open       float64   `json:"open"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	Close      float64   `json:"close"`
	VolumeFrom float64   `json:"volume_from"`
	VolumeTo   float64   `json:"volume_to"`
}

// Series is a time-ordered (ascending) run of samples.
type Series []Sample

// ChartColumn is one aggregated group of consecutive samples.
type ChartColumn struct {
	Time   time.Time `json:"time"`
	Value  float64   `json:"value"` // close of the last sample in the group
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Volume float64   `json:"volume"`
	Count  int       `json:"count"`

	Samples []Sample `json:"-"`
}

// ChartData is the chart-ready output, in chronological order.
type ChartData []ChartColumn
